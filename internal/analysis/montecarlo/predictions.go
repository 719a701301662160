package montecarlo

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/fystack/megasena-analyzer/pkg/common/enum"
	"github.com/fystack/megasena-analyzer/pkg/lottery"
)

const (
	hotWindow   = 20
	hotPoolSize = 10
)

// Predictor generates tickets from the history. It is not safe for
// concurrent use.
type Predictor struct {
	rng *rand.Rand
}

// NewPredictor seeds the generator; seed 0 picks a random one.
func NewPredictor(seed uint64) *Predictor {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Predictor{rng: rand.New(rand.NewPCG(seed, seed>>1|1))}
}

// Predictions returns count tickets of target distinct sorted numbers.
func (p *Predictor) Predictions(history [][]int, method enum.PredictionMethod, count, target int) ([][]int, error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("predictions: %w", lottery.ErrInsufficientData)
	}
	if target < lottery.MinBetSize || target > lottery.MaxBetSize {
		return nil, fmt.Errorf("ticket size must be between %d and %d, got %d", lottery.MinBetSize, lottery.MaxBetSize, target)
	}
	if count < 1 {
		return nil, fmt.Errorf("prediction count must be positive, got %d", count)
	}

	out := make([][]int, 0, count)
	for range count {
		var ticket []int
		switch method {
		case enum.MethodWeightedRandom:
			ticket = p.weighted(history, target)
		case enum.MethodHotNumbers:
			ticket = p.hot(history, target)
		case enum.MethodColdNumbers:
			ticket = cold(history, target)
		case enum.MethodBalanced:
			ticket = p.balanced(history, target)
		default:
			ticket = p.fill(nil, target)
		}
		slices.Sort(ticket)
		out = append(out, ticket)
	}
	return out, nil
}

// weighted draws without replacement, each number weighted by its historical
// frequency and never-drawn numbers by 1.
func (p *Predictor) weighted(history [][]int, target int) []int {
	freq := lottery.Frequencies(history)
	weights := make([]int, lottery.TotalNumbers+1)
	total := 0
	for n := 1; n <= lottery.TotalNumbers; n++ {
		weights[n] = max(freq[n], 1)
		total += weights[n]
	}
	selected := make([]int, 0, target)
	for len(selected) < target {
		r := p.rng.IntN(total)
		for n := 1; n <= lottery.TotalNumbers; n++ {
			if r < weights[n] {
				selected = append(selected, n)
				total -= weights[n]
				weights[n] = 0
				break
			}
			r -= weights[n]
		}
	}
	return selected
}

// hotPool is the most frequent numbers of the last hotWindow draws.
func hotPool(history [][]int, target int) []int {
	recent := history[max(0, len(history)-hotWindow):]
	freq := lottery.Frequencies(recent)
	var pool []int
	for _, nc := range lottery.RankByCount(freq, true) {
		if nc.Count == 0 || len(pool) == max(hotPoolSize, target) {
			break
		}
		pool = append(pool, nc.Number)
	}
	return pool
}

func (p *Predictor) hot(history [][]int, target int) []int {
	return p.fill(p.pick(hotPool(history, target), target), target)
}

// cold picks the numbers with the largest current delay.
func cold(history [][]int, target int) []int {
	return lottery.TopNumbers(lottery.CurrentDelays(history), target, true)
}

// balanced mixes a third hot numbers, a third cold numbers and random fill.
func (p *Predictor) balanced(history [][]int, target int) []int {
	share := target / 3
	selected := p.pick(hotPool(history, target), share)
	taken := 0
	for _, n := range cold(history, lottery.TotalNumbers) {
		if taken == share {
			break
		}
		if !slices.Contains(selected, n) {
			selected = append(selected, n)
			taken++
		}
	}
	return p.fill(selected, target)
}

// pick returns k distinct entries of pool in random order.
func (p *Predictor) pick(pool []int, k int) []int {
	shuffled := slices.Clone(pool)
	p.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:min(k, len(shuffled))]
}

// fill tops selected up to target with random numbers not yet chosen.
func (p *Predictor) fill(selected []int, target int) []int {
	for len(selected) < target {
		n := p.rng.IntN(lottery.TotalNumbers) + 1
		if !slices.Contains(selected, n) {
			selected = append(selected, n)
		}
	}
	return selected
}
