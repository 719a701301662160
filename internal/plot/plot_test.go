package plot

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFigureRenderGrid(t *testing.T) {
	fig := Figure{
		Title:       "Frequency",
		Width:       600,
		PanelHeight: 300,
		Columns:     2,
		Panels: []Panel{
			BarChart{
				Title:     "bars",
				Labels:    []string{"1", "2", "3"},
				Values:    []float64{3, 5, 1},
				Colors:    map[int]color.Color{1: ColorHigh},
				Reference: &Reference{Value: 3, Label: "expected"},
			},
			Histogram{Title: "hist", Values: []float64{1, 2, 2, 3, 9}, Bins: 4},
			LineChart{Series: []Series{{Name: "a", Values: []float64{1, 2, 3}}, {Name: "b", Values: []float64{3, 2, 1}}}},
		},
	}

	data, err := fig.Render()
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 600, img.Bounds().Dx())
	assert.Equal(t, figureTitleHeight+2*300, img.Bounds().Dy())
}

func TestFigureSaveCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "heatmap.png")
	fig := Figure{Panels: []Panel{Heatmap{
		Title:  "corr",
		Matrix: [][]float64{{1, -0.5}, {-0.5, 1}},
	}}}

	require.NoError(t, fig.Save(path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestFigureWithoutPanels(t *testing.T) {
	_, err := Figure{}.Render()
	assert.ErrorIs(t, err, ErrNoPanels)
}

func TestBinCounts(t *testing.T) {
	edges, counts := BinCounts([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 10}, 5)
	assert.Equal(t, []float64{0, 2, 4, 6, 8, 10}, edges)
	assert.Equal(t, []float64{2, 2, 2, 2, 2}, counts)

	_, counts = BinCounts([]float64{4, 4, 4}, 3)
	total := 0.0
	for _, c := range counts {
		total += c
	}
	assert.Equal(t, 3.0, total)
}

func TestNiceStepAndTicks(t *testing.T) {
	assert.Equal(t, 1.0, niceStep(0.9))
	assert.Equal(t, 2.0, niceStep(1.5))
	assert.Equal(t, 5.0, niceStep(3))
	assert.Equal(t, 10.0, niceStep(7))
	assert.Equal(t, []float64{0, 20, 40, 60, 80, 100}, ticks(0, 100, 5))
}

func TestDivergingEnds(t *testing.T) {
	r, g, b, _ := diverging(0).RGBA()
	assert.Greater(t, b, r)
	r, g, b, _ = diverging(1).RGBA()
	assert.Greater(t, r, b)
	r, g, b, _ = diverging(0.5).RGBA()
	assert.Equal(t, r, g)
	assert.Equal(t, g, b)
}
