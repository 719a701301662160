package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fystack/megasena-analyzer/pkg/common/enum"
	"github.com/fystack/megasena-analyzer/pkg/lottery"
	"github.com/fystack/megasena-analyzer/pkg/storage"
)

func sampleHistory() lottery.History {
	h := lottery.History{}
	d1 := lottery.NewDraw(1, "11/03/1996", []int{41, 5, 4, 52, 30, 33})
	d1.Location = "SAO PAULO, SP"
	d2 := lottery.NewDraw(2, "18/03/1996", []int{9, 39, 37, 49, 43, 41})
	d2.Accumulated = true
	d2.AccumulatedValue = decimal.RequireFromString("1250000.50")
	d3 := lottery.NewDraw(3, "25/03/1996", []int{36, 30, 10, 11, 29, 47})
	d3.JackpotWinners = 1
	d3.JackpotPrize = decimal.RequireFromString("2307162.23")
	d3.Note = "special"
	h.Add(d1)
	h.Add(d2)
	h.Add(d3)
	return h
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".csv", Extension(enum.ExportCSV))
	assert.Equal(t, ".json", Extension(enum.ExportJSON))
	assert.Equal(t, ".db", Extension(enum.ExportSQLite))
}

func TestExportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "draws.csv")
	n, err := Export(context.Background(), sampleHistory(), enum.ExportCSV, path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	got, err := storage.ReadCSV(f)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int{4, 5, 30, 33, 41, 52}, got[1].NumbersSorted)
	assert.True(t, got[2].Accumulated)
}

func TestExportJSONIsOrdered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draws.json")
	_, err := Export(context.Background(), sampleHistory(), enum.ExportJSON, path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var draws []lottery.Draw
	require.NoError(t, json.Unmarshal(data, &draws))
	require.Len(t, draws, 3)
	for i, d := range draws {
		assert.Equal(t, i+1, d.Contest)
	}
	assert.Equal(t, []int{41, 5, 4, 52, 30, 33}, draws[0].Numbers)
}

func TestExportSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "draws.db")
	h := sampleHistory()

	n, err := Export(ctx, h, enum.ExportSQLite, path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// a second export upserts instead of duplicating rows
	_, err = Export(ctx, h, enum.ExportSQLite, path)
	require.NoError(t, err)

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	got, err := store.ReadDraws(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for c, want := range h {
		d := got[c]
		assert.Equal(t, want.Date, d.Date)
		assert.Equal(t, want.Numbers, d.Numbers)
		assert.Equal(t, want.NumbersSorted, d.NumbersSorted)
		assert.Equal(t, want.Accumulated, d.Accumulated)
		assert.True(t, want.AccumulatedValue.Equal(d.AccumulatedValue))
		assert.Equal(t, want.JackpotWinners, d.JackpotWinners)
		assert.True(t, want.JackpotPrize.Equal(d.JackpotPrize))
		assert.Equal(t, want.Location, d.Location)
		assert.Equal(t, want.Note, d.Note)
	}
}

func TestExportErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Export(context.Background(), lottery.History{}, enum.ExportCSV, filepath.Join(dir, "a.csv"))
	assert.ErrorIs(t, err, lottery.ErrInsufficientData)

	_, err = Export(context.Background(), sampleHistory(), enum.ExportFormat("xml"), filepath.Join(dir, "a.xml"))
	assert.Error(t, err)

	_, err = OpenSQLite("  ")
	assert.Error(t, err)
}

func TestWriteDrawsRejectsShortDraw(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "bad.db"))
	require.NoError(t, err)
	defer store.Close()

	h := lottery.History{}
	h.Add(lottery.NewDraw(7, "01/01/2000", []int{1, 2, 3}))
	_, err = store.WriteDraws(context.Background(), h)
	assert.ErrorIs(t, err, lottery.ErrInvalidDraw)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}
