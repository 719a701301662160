package montecarlo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fystack/megasena-analyzer/pkg/common/enum"
	"github.com/fystack/megasena-analyzer/pkg/lottery"
)

var sampleDraws = [][]int{
	{4, 5, 30, 33, 41, 52},
	{10, 11, 16, 20, 27, 58},
	{1, 5, 11, 16, 20, 56},
	{7, 12, 31, 33, 42, 51},
	{2, 8, 15, 17, 49, 57},
}

func repeated(draws [][]int, times int) [][]int {
	var out [][]int
	for range times {
		out = append(out, draws...)
	}
	return out
}

func TestSimulateDeterministic(t *testing.T) {
	cfg := Config{Count: 20_000, Strategy: enum.StrategyBalanced, Seed: 42, Workers: 4}
	a, err := Simulate(context.Background(), cfg)
	require.NoError(t, err)
	b, err := Simulate(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, a.MatchCounts, b.MatchCounts)
	assert.Equal(t, a.NumberCounts, b.NumberCounts)
	assert.Equal(t, a.BestHistory, b.BestHistory)
	assert.Equal(t, []int{7, 14, 25, 32, 41, 58}, a.Ticket)

	total := 0
	for _, c := range a.MatchCounts {
		total += c
	}
	assert.Equal(t, cfg.Count, total)

	drawn := 0
	for _, c := range a.NumberCounts {
		drawn += c
	}
	assert.Equal(t, cfg.Count*lottery.NumbersPerDraw, drawn)
}

func TestSimulateBestHistoryIncreases(t *testing.T) {
	res, err := Simulate(context.Background(), Config{Count: 50_000, Seed: 7, Workers: 3})
	require.NoError(t, err)
	require.NotEmpty(t, res.BestHistory)
	for i := 1; i < len(res.BestHistory); i++ {
		assert.Greater(t, res.BestHistory[i].Matches, res.BestHistory[i-1].Matches)
		assert.Greater(t, res.BestHistory[i].Iteration, res.BestHistory[i-1].Iteration)
	}
	last := res.BestHistory[len(res.BestHistory)-1]
	assert.Equal(t, res.Best, last.Matches)
	assert.Len(t, last.Winning, lottery.NumbersPerDraw)
	assert.Nil(t, res.Ticket)
}

func TestSimulateConvergesToHypergeometric(t *testing.T) {
	res, err := Simulate(context.Background(), Config{Count: 200_000, Strategy: enum.StrategyMostFrequent, Seed: 1, Workers: 4})
	require.NoError(t, err)

	for k := 0; k <= 3; k++ {
		assert.InDelta(t, lottery.MatchProbability(k), res.Stats.Observed[k], 0.01, "k=%d", k)
		assert.InDelta(t, lottery.MatchProbability(k), res.Stats.Theoretical[k], 1e-12)
	}
	assert.InDelta(t, 0.6, res.Stats.Mean, 0.02)
	assert.Equal(t, 0, res.Stats.Mode)
	assert.Equal(t, 0.0, res.Stats.Median)
	assert.Equal(t, 1.0, res.Stats.Percentiles[75])
}

func TestSimulateValidation(t *testing.T) {
	_, err := Simulate(context.Background(), Config{Count: 0})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Simulate(context.Background(), Config{Count: 10, Strategy: enum.StrategyCustom, Custom: []int{1, 2, 3}})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Simulate(context.Background(), Config{Count: 10, Strategy: enum.StrategyCustom, Custom: []int{1, 1, 2, 3, 4, 5}})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Simulate(context.Background(), Config{Count: 10, Strategy: "martingale"})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	res, err := Simulate(context.Background(), Config{Count: 10, Strategy: enum.StrategyCustom, Custom: []int{60, 1, 2, 3, 4, 5, 6}, Seed: 3})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 60}, res.Ticket)
}

func TestSimulateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Simulate(ctx, Config{Count: 1000, Seed: 1, Workers: 2})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPercentileFromCounts(t *testing.T) {
	// sample: 0,0,1,1,1,2
	counts := []int{2, 3, 1}
	assert.InDelta(t, 1.0, percentileFromCounts(counts, 6, 50), 1e-12)
	assert.InDelta(t, 0.25, percentileFromCounts(counts, 6, 25), 1e-12)
	assert.InDelta(t, 2.0, percentileFromCounts(counts, 6, 100), 1e-12)
}

func TestUniformityTest(t *testing.T) {
	var uniform [][]int
	for i := 0; i < 10; i++ {
		for start := 1; start <= 60; start += 6 {
			uniform = append(uniform, []int{start, start + 1, start + 2, start + 3, start + 4, start + 5})
		}
	}
	u, err := UniformityTest(uniform)
	require.NoError(t, err)
	assert.Zero(t, u.ChiSquare)
	assert.Zero(t, u.CV)
	assert.InDelta(t, 1.0, u.PValue, 1e-9)
	assert.Equal(t, 59, u.DegreesOfFreedom)
	assert.True(t, u.Verdict.ChiSquareUniform)
	assert.Equal(t, UniformityHigh, u.Verdict.Level)

	skewed, err := UniformityTest(repeated(sampleDraws, 50))
	require.NoError(t, err)
	assert.Greater(t, skewed.ChiSquare, ChiSquareCritical)
	assert.False(t, skewed.Verdict.ChiSquareUniform)
	assert.Equal(t, UniformityLow, skewed.Verdict.Level)
	assert.Equal(t, 0, skewed.MinFrequency)
	assert.Equal(t, 100, skewed.MaxFrequency)

	_, err = UniformityTest(nil)
	assert.ErrorIs(t, err, lottery.ErrInsufficientData)
}

func TestRandomnessTests(t *testing.T) {
	res, err := RandomnessTests(repeated(sampleDraws, 50))
	require.NoError(t, err)

	assert.Positive(t, res.Runs.Observed)
	assert.Positive(t, res.Runs.Expected)
	require.Len(t, res.Autocorrelation.Lags, len(AutocorrelationLags))
	assert.Greater(t, res.Autocorrelation.Max, 0.0)

	require.NotEmpty(t, res.Gaps.Numbers)
	assert.Equal(t, 4, res.Gaps.Numbers[0].Gaps[0])
	assert.Positive(t, res.Gaps.Total)

	total := 0
	for _, c := range res.Poker.Observed {
		total += c
	}
	assert.Equal(t, 250, total)
	assert.LessOrEqual(t, len(res.Poker.MostCommon), 3)
}

func TestClassifyHand(t *testing.T) {
	cases := []struct {
		draw []int
		want PokerHand
	}{
		{[]int{1, 2, 3, 4, 5, 6}, HandAllDifferent},
		{[]int{1, 11, 3, 4, 5, 6}, HandPair},
		{[]int{1, 11, 2, 12, 3, 13}, HandThreePairs},
		{[]int{1, 11, 21, 4, 5, 6}, HandThree},
		{[]int{1, 11, 21, 2, 12, 22}, HandTwoTriples},
		{[]int{1, 11, 21, 31, 5, 6}, HandFour},
		{[]int{1, 11, 21, 31, 41, 6}, HandFive},
		{[]int{1, 11, 21, 31, 41, 51}, HandAllSame},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyHand(tc.draw), "%v", tc.draw)
	}
}

func TestPredictions(t *testing.T) {
	history := repeated(sampleDraws, 10)
	p := NewPredictor(99)

	for _, method := range []enum.PredictionMethod{
		enum.MethodWeightedRandom,
		enum.MethodHotNumbers,
		enum.MethodColdNumbers,
		enum.MethodBalanced,
		enum.MethodRandom,
	} {
		for _, target := range []int{6, 10, 15} {
			got, err := p.Predictions(history, method, 3, target)
			require.NoError(t, err)
			require.Len(t, got, 3)
			for _, ticket := range got {
				assert.NoError(t, lottery.ValidateNumbers(ticket, target), "%s %v", method, ticket)
				assert.IsIncreasing(t, ticket)
			}
		}
	}
}

func TestPredictionsColdPicksLargestDelay(t *testing.T) {
	got, err := NewPredictor(1).Predictions(sampleDraws, enum.MethodColdNumbers, 1, 6)
	require.NoError(t, err)
	// 3, 6, 9, 13, 14, 18 never appear
	assert.Equal(t, []int{3, 6, 9, 13, 14, 18}, got[0])
}

func TestPredictionsHotUsesRecentDraws(t *testing.T) {
	got, err := NewPredictor(5).Predictions(repeated(sampleDraws, 4), enum.MethodHotNumbers, 5, 6)
	require.NoError(t, err)
	hot := hotPool(repeated(sampleDraws, 4), 6)
	for _, ticket := range got {
		for _, n := range ticket {
			assert.Contains(t, hot, n)
		}
	}
}

func TestPredictionsValidation(t *testing.T) {
	p := NewPredictor(1)
	_, err := p.Predictions(nil, enum.MethodRandom, 1, 6)
	assert.ErrorIs(t, err, lottery.ErrInsufficientData)
	_, err = p.Predictions(sampleDraws, enum.MethodRandom, 1, 16)
	assert.Error(t, err)
	_, err = p.Predictions(sampleDraws, enum.MethodRandom, 0, 6)
	assert.Error(t, err)
}

func TestPredictionHistory(t *testing.T) {
	predictions := [][]int{
		{52, 41, 33, 30, 5, 4},
		{3, 5, 9, 13, 14, 18},
		{4, 5, 30, 33, 41, 52, 60},
	}
	check := PredictionHistory(sampleDraws, predictions)

	require.Len(t, check.Combinations, 3)
	first := check.Combinations[0]
	assert.True(t, first.AlreadyDrawn)
	assert.Equal(t, []int{4, 5, 30, 33, 41, 52}, first.Numbers)
	assert.Empty(t, first.NeverDrawn)
	assert.Equal(t, 2, first.Frequencies[5])

	second := check.Combinations[1]
	assert.False(t, second.AlreadyDrawn)
	assert.Equal(t, []int{5}, second.DrawnNumbers)
	assert.Equal(t, []int{3, 9, 13, 14, 18}, second.NeverDrawn)

	assert.True(t, check.Combinations[2].AlreadyDrawn)
	assert.Equal(t, 2, check.Summary.AlreadyDrawn)
	assert.Equal(t, 1, check.Summary.NeverDrawn)
	assert.Equal(t, []int{3, 9, 13, 14, 18, 60}, check.Summary.NeverDrawnNumbers)
	assert.Equal(t, lottery.NumberCount{Number: 5, Count: 3}, check.Summary.MostPredicted[0])
}
