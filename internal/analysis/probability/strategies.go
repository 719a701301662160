package probability

import (
	"fmt"

	"github.com/fystack/megasena-analyzer/pkg/lottery"
	"github.com/samber/lo"
)

type StrategyResult struct {
	Name         string      `json:"name"`
	Numbers      []int       `json:"numbers"`
	MeanHits     float64     `json:"mean_hits"`
	MaxHits      int         `json:"max_hits"`
	Distribution map[int]int `json:"distribution"`
	FourPlus     int         `json:"four_plus"`
	FourPlusRate float64     `json:"four_plus_rate"`
}

// FixedStrategies are the tickets scored by CompareStrategies besides the
// frequency-based ones.
var FixedStrategies = []struct {
	Name    string
	Numbers []int
}{
	{"balanced_even_odd", []int{1, 2, 3, 4, 5, 6}},
	{"one_per_decade", []int{5, 15, 25, 35, 45, 55}},
	{"primes", []int{2, 3, 5, 7, 11, 13}},
}

// CompareStrategies scores a handful of fixed tickets against every draw in
// history.
func CompareStrategies(history [][]int) ([]StrategyResult, error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("strategy comparison: %w", ErrInsufficientData)
	}

	freq := lottery.Frequencies(history)
	tickets := []struct {
		Name    string
		Numbers []int
	}{
		{"most_frequent", lottery.TopNumbers(freq, lottery.NumbersPerDraw, true)},
		{"least_frequent", lottery.TopNumbers(freq, lottery.NumbersPerDraw, false)},
	}
	tickets = append(tickets, FixedStrategies...)

	out := make([]StrategyResult, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, ScoreTicket(t.Name, t.Numbers, history))
	}
	return out, nil
}

// ScoreTicket replays numbers against every draw.
func ScoreTicket(name string, numbers []int, history [][]int) StrategyResult {
	res := StrategyResult{Name: name, Numbers: numbers, Distribution: map[int]int{}}
	if len(history) == 0 {
		return res
	}
	hits := lo.Map(history, func(draw []int, _ int) int {
		return lottery.Overlap(numbers, draw)
	})
	for _, h := range hits {
		res.Distribution[h]++
		if h >= 4 {
			res.FourPlus++
		}
	}
	res.MaxHits = lo.Max(hits)
	res.MeanHits = float64(lo.Sum(hits)) / float64(len(hits))
	res.FourPlusRate = float64(res.FourPlus) / float64(len(hits)) * 100
	return res
}
