package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fystack/megasena-analyzer/pkg/lottery"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHistory() lottery.History {
	d1 := lottery.NewDraw(1, "11/03/1996", []int{41, 5, 4, 52, 30, 33})
	d1.AccumulatedValue = decimal.NewFromInt(0)
	d1.JackpotPrize = decimal.NewFromInt(0)
	d1.Accumulated = true

	d2 := lottery.NewDraw(2, "18/03/1996", []int{9, 39, 37, 49, 43, 41})
	d2.AccumulatedValue = decimal.RequireFromString("1500000.25")
	d2.JackpotWinners = 1
	d2.JackpotPrize = decimal.RequireFromString("2307162.23")
	d2.Location = "Brasília"

	return lottery.History{1: d1, 2: d2}
}

func assertSameHistory(t *testing.T, want, got lottery.History, keepDrawOrder bool) {
	t.Helper()
	require.Equal(t, want.Contests(), got.Contests())
	for c, w := range want {
		g := got[c]
		assert.Equal(t, w.Contest, g.Contest)
		assert.Equal(t, w.Date, g.Date)
		assert.Equal(t, w.NumbersSorted, g.NumbersSorted)
		if keepDrawOrder {
			assert.Equal(t, w.Numbers, g.Numbers)
			assert.Equal(t, w.Location, g.Location)
		}
		assert.Equal(t, w.Accumulated, g.Accumulated)
		assert.True(t, w.AccumulatedValue.Equal(g.AccumulatedValue), "contest %d accumulated value", c)
		assert.Equal(t, w.JackpotWinners, g.JackpotWinners)
		assert.True(t, w.JackpotPrize.Equal(g.JackpotPrize), "contest %d prize", c)
	}
}

func TestFileStore_JSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(filepath.Join(dir, "data", "h.json"), filepath.Join(dir, "data", "h.csv"))

	assert.False(t, s.Exists())
	h := sampleHistory()
	require.NoError(t, s.Save(h))
	assert.True(t, s.Exists())

	got, err := s.Load()
	require.NoError(t, err)
	assertSameHistory(t, h, got, true)

	raw, err := os.ReadFile(s.JSONPath())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"2": {`)
}

func TestFileStore_LoadMissing(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "none.json"), filepath.Join(t.TempDir(), "none.csv"))

	h, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, h)

	h, err = s.LoadCSV()
	require.NoError(t, err)
	assert.Empty(t, h)
}

func TestFileStore_LoadFallsBackToCSV(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(filepath.Join(dir, "h.json"), filepath.Join(dir, "h.csv"))
	want := sampleHistory()
	require.NoError(t, s.SaveCSV(want))

	got, err := s.Load()
	require.NoError(t, err)
	assertSameHistory(t, want, got, false)

	require.NoError(t, os.WriteFile(s.CSVPath(), []byte("bad,header\n"), 0o644))
	_, err = s.Load()
	assert.Error(t, err)
}

func TestFileStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileStore(path, "").Load()
	assert.Error(t, err)
}

func TestFileStore_CSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(filepath.Join(dir, "h.json"), filepath.Join(dir, "h.csv"))
	h := sampleHistory()

	require.NoError(t, s.SaveAll(h))

	raw, err := os.ReadFile(s.CSVPath())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "contest,date,num1,num2,num3,num4,num5,num6,accumulated,accumulated_value,jackpot_winners,jackpot_prize", lines[0])
	assert.Equal(t, "1,11/03/1996,4,5,30,33,41,52,true,0,0,0", lines[1])

	got, err := s.LoadCSV()
	require.NoError(t, err)
	assertSameHistory(t, h, got, false)
}

func TestReadCSV_BadRow(t *testing.T) {
	in := strings.Join(CSVHeader, ",") + "\nx,11/03/1996,1,2,3,4,5,6,false,0,0,0\n"
	_, err := ReadCSV(strings.NewReader(in))
	assert.ErrorContains(t, err, "line 2")
}
