package report

import (
	"bytes"
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fystack/megasena-analyzer/pkg/common/enum"
	"github.com/fystack/megasena-analyzer/pkg/lottery"
)

func sampleHistory(n int) lottery.History {
	rng := rand.New(rand.NewPCG(3, 4))
	h := lottery.History{}
	start := time.Date(2020, 1, 4, 0, 0, 0, 0, time.UTC)
	for i := range n {
		nums := rng.Perm(lottery.TotalNumbers)[:lottery.NumbersPerDraw]
		for j := range nums {
			nums[j]++
		}
		date := start.AddDate(0, 0, 7*i).Format(lottery.DateLayout)
		h.Add(lottery.NewDraw(i+1, date, nums))
	}
	return h
}

func TestFileName(t *testing.T) {
	at := time.Date(2025, 3, 9, 14, 5, 7, 0, time.UTC)
	assert.Equal(t, "complete_report_20250309_140507.txt", FileName(at))
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	path, err := Save(context.Background(), sampleHistory(40), Options{
		Dir:         dir,
		Simulations: 2000,
		Seed:        7,
		Workers:     2,
		Now:         at,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "complete_report_20250102_030405.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	for _, want := range []string{
		"MEGA-SENA COMPLETE ANALYSIS REPORT",
		"Generated: 02/01/2025 03:04:05",
		"Draws analyzed: 40",
		"Contests: #1 (04/01/2020) to #40",
		"PROBABILITY ANALYSIS",
		"total_combinations: 50063860",
		"DESCRIPTIVE STATISTICS",
		"MONTE CARLO SIMULATION",
		"Simulations: 2000 (strategy balanced, seed 7)",
		"Ticket: 07 - 14 - 25 - 32 - 41 - 58",
		"RANDOMNESS TESTS",
		"Chi-square:",
	} {
		assert.Contains(t, text, want)
	}
}

func TestWriteToIsDeterministic(t *testing.T) {
	opts := Options{Simulations: 1000, Strategy: enum.StrategyRandom, Seed: 11, Workers: 1, Now: time.Unix(0, 0).UTC()}
	h := sampleHistory(25)
	a, err := Build(context.Background(), h, opts)
	require.NoError(t, err)
	b, err := Build(context.Background(), h, opts)
	require.NoError(t, err)

	var bufA, bufB bytes.Buffer
	n, err := a.WriteTo(&bufA)
	require.NoError(t, err)
	assert.Equal(t, int64(bufA.Len()), n)
	_, err = b.WriteTo(&bufB)
	require.NoError(t, err)
	assert.Equal(t, bufA.String(), bufB.String())
	assert.NotContains(t, bufA.String(), "Ticket:")
}

func TestBuildEmptyHistory(t *testing.T) {
	_, err := Build(context.Background(), lottery.History{}, Options{})
	assert.ErrorIs(t, err, lottery.ErrInsufficientData)
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Build(ctx, sampleHistory(10), Options{Simulations: 100_000, Seed: 1})
	assert.ErrorIs(t, err, context.Canceled)
}
