package descriptive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fystack/megasena-analyzer/pkg/lottery"
)

var sampleDraws = [][]int{
	{4, 5, 30, 33, 41, 52},
	{9, 37, 39, 41, 43, 49},
	{10, 11, 29, 30, 36, 47},
	{1, 5, 6, 27, 42, 59},
	{1, 2, 6, 16, 19, 46},
	{4, 5, 30, 33, 41, 52},
}

func TestFrequency(t *testing.T) {
	res, err := Frequency(sampleDraws)
	require.NoError(t, err)
	require.Len(t, res.Numbers, 60)

	five := res.Numbers[4]
	assert.Equal(t, 3, five.Frequency)
	assert.InDelta(t, 3.0/36*100, five.Percentage, 1e-9)
	assert.InDelta(t, 2.4, five.Deviation, 1e-9)
	assert.InDelta(t, 0.5, five.Relative, 1e-9)
	assert.Equal(t, 0, five.CurrentDelay)

	s := res.Summary
	assert.Equal(t, 6, s.TotalDraws)
	assert.InDelta(t, 0.6, s.Expected, 1e-9)
	assert.InDelta(t, 0.6, s.Mean, 1e-9)
	assert.Equal(t, lottery.NumberCount{Number: 5, Count: 3}, s.MostFrequent)
	assert.Equal(t, lottery.NumberCount{Number: 3, Count: 0}, s.LeastFrequent)
	assert.Equal(t, 25, s.AboveMean)
	assert.Equal(t, 35, s.BelowMean)
	assert.Greater(t, s.CV, 0.0)
	assert.Len(t, res.TopMost, 10)
	assert.Len(t, res.TopLeast, 10)

	_, err = Frequency(nil)
	assert.ErrorIs(t, err, lottery.ErrInsufficientData)
}

func TestDelay(t *testing.T) {
	res, err := Delay(sampleDraws)
	require.NoError(t, err)
	require.Len(t, res.Numbers, 60)

	five := res.Numbers[4]
	assert.Equal(t, []int{2, 1}, five.Gaps)
	assert.InDelta(t, 1.5, five.Mean, 1e-9)
	assert.InDelta(t, 0.5, five.StdDev, 1e-9)
	assert.Equal(t, 1, five.Min)
	assert.Equal(t, 2, five.Max)
	assert.Equal(t, 3, five.Appearances)

	one := res.Numbers[0]
	assert.Equal(t, []int{0}, one.Gaps)
	assert.Equal(t, 1, one.Current)

	three := res.Numbers[2]
	assert.Empty(t, three.Gaps)
	assert.Equal(t, 6, three.Current)

	assert.InDelta(t, 21.0/11, res.General.MeanDelay, 1e-9)
	assert.Equal(t, 4, res.General.MaxHistorical)
	assert.Equal(t, lottery.NumberCount{Number: 3, Count: 6}, res.General.MostDelayed)
	assert.Len(t, res.Ranking, 10)
}

func TestPatterns(t *testing.T) {
	res, err := Patterns(sampleDraws)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 0, 2, 1, 1, 1}, res.Consecutive)
	assert.Equal(t, []int{165, 218, 163, 140, 90, 165}, res.Sums)
	assert.Equal(t, []int{48, 40, 37, 58, 45, 48}, res.Spreads)
	assert.Equal(t, 2, res.Quadrants["Q1:2_Q2:1_Q3:2_Q4:1"])

	digits := 0
	for _, c := range res.LastDigits {
		digits += c
	}
	assert.Equal(t, 36, digits)

	s := res.Stats
	assert.InDelta(t, 1.0, s.MeanConsecutive, 1e-9)
	assert.Equal(t, 2, s.MaxConsecutive)
	assert.Equal(t, 90, s.SumMin)
	assert.Equal(t, 218, s.SumMax)
	assert.InDelta(t, 100.0, s.FirstDecadePct, 1e-9)
	assert.InDelta(t, 50.0, s.LastDecadePct, 1e-9)
	assert.Len(t, s.TopLastDigits, 5)
	require.NotEmpty(t, s.TopQuadrants)
	assert.Equal(t, QuadrantCount{Signature: "Q1:2_Q2:1_Q3:2_Q4:1", Count: 2}, s.TopQuadrants[0])
}

func TestQuadrantSignature(t *testing.T) {
	assert.Equal(t, "Q1:1_Q2:1_Q3:1_Q4:3", QuadrantSignature([]int{15, 16, 45, 46, 50, 60}))
}

func TestNumberCorrelations(t *testing.T) {
	corr, err := NumberCorrelations(sampleDraws)
	require.NoError(t, err)
	assert.Equal(t, 60, corr.SymmetricDim())

	// 4 and 52 appear in exactly the same draws.
	assert.InDelta(t, 1.0, corr.At(3, 51), 1e-9)
	assert.InDelta(t, 1.0, corr.At(4, 4), 1e-9)
	// 3 never appears.
	assert.Zero(t, corr.At(2, 2))
	assert.Zero(t, corr.At(2, 0))
	assert.Zero(t, corr.At(0, 2))

	corr, err = NumberCorrelations([][]int{{1, 2, 4, 5, 6, 7}, {1, 8, 9, 10, 11, 12}})
	require.NoError(t, err)
	assert.Zero(t, corr.At(2, 2))
	// 1 is in every draw, so it is constant too.
	assert.Zero(t, corr.At(0, 0))

	_, err = NumberCorrelations(sampleDraws[:1])
	assert.ErrorIs(t, err, lottery.ErrInsufficientData)
}

func TestReportWritesCharts(t *testing.T) {
	dir := t.TempDir()
	res, err := Report(sampleDraws, dir)
	require.NoError(t, err)
	require.Len(t, res.Plots, 4)
	for _, name := range []string{FrequencyChart, DelayChart, PatternChart, CorrelationChart} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	res, err = Report(sampleDraws, "")
	require.NoError(t, err)
	assert.Empty(t, res.Plots)
	assert.NotNil(t, res.Frequency)
}
