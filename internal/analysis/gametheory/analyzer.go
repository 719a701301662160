package gametheory

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/fystack/megasena-analyzer/internal/analysis/optimize"
	"github.com/fystack/megasena-analyzer/pkg/lottery"
)

// duplicatePenalty is the objective value of a candidate ticket that repeats
// a number.
const duplicatePenalty = 1000

// Analyzer holds the frequency and co-occurrence tables of a history. It is
// read-only after New and safe for concurrent use.
type Analyzer struct {
	draws    int
	target   int
	seed     uint64
	freq     []float64   // index n-1
	freqNorm []float64   // freq / max(freq)
	cooc     [][]float64 // pair counts, index n-1
	lift     [][]float64
}

// New builds the tables for tickets of target numbers. Seed drives the
// portfolio starts; 0 picks a random one.
func New(history [][]int, target int, seed uint64) (*Analyzer, error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("game theory analysis: %w", lottery.ErrInsufficientData)
	}
	if target < lottery.MinBetSize || target > lottery.MaxBetSize {
		return nil, fmt.Errorf("ticket size must be between %d and %d, got %d", lottery.MinBetSize, lottery.MaxBetSize, target)
	}
	if seed == 0 {
		seed = rand.Uint64()
	}
	a := &Analyzer{
		draws:  len(history),
		target: target,
		seed:   seed,
		freq:   make([]float64, lottery.TotalNumbers),
		cooc:   square(lottery.TotalNumbers),
	}
	for _, draw := range history {
		for i, n := range draw {
			if n < 1 || n > lottery.TotalNumbers {
				continue
			}
			a.freq[n-1]++
			for _, m := range draw[i+1:] {
				if m < 1 || m > lottery.TotalNumbers || m == n {
					continue
				}
				a.cooc[n-1][m-1]++
				a.cooc[m-1][n-1]++
			}
		}
	}
	maxFreq := floats.Max(a.freq)
	if maxFreq == 0 {
		return nil, fmt.Errorf("game theory analysis: no valid numbers: %w", lottery.ErrInsufficientData)
	}
	a.freqNorm = make([]float64, lottery.TotalNumbers)
	floats.ScaleTo(a.freqNorm, 1/maxFreq, a.freq)
	a.lift = a.computeLift()
	return a, nil
}

func (a *Analyzer) Target() int { return a.target }

func (a *Analyzer) Draws() int { return a.draws }

// Frequencies returns the appearance count of numbers 1..60, index n-1.
func (a *Analyzer) Frequencies() []float64 {
	return slices.Clone(a.freq)
}

// Correlations is the co-occurrence lift (observed-expected)/expected of
// every pair, where expected = f_i*f_j/(draws*6). The diagonal and pairs
// with a never-drawn number are zero.
func (a *Analyzer) Correlations() [][]float64 {
	out := make([][]float64, len(a.lift))
	for i, row := range a.lift {
		out[i] = slices.Clone(row)
	}
	return out
}

func (a *Analyzer) computeLift() [][]float64 {
	lift := square(lottery.TotalNumbers)
	norm := float64(a.draws * lottery.NumbersPerDraw)
	for i := range lottery.TotalNumbers {
		for j := range lottery.TotalNumbers {
			if i == j || a.freq[i] == 0 || a.freq[j] == 0 {
				continue
			}
			expected := a.freq[i] * a.freq[j] / norm
			lift[i][j] = (a.cooc[i][j] - expected) / expected
		}
	}
	return lift
}

// pairStats returns the mean and the maximum absolute lift over all pairs
// of the 0-based indices.
func (a *Analyzer) pairStats(idx []int) (mean, peak float64) {
	total, count := 0.0, 0
	for i := range idx {
		for j := i + 1; j < len(idx); j++ {
			v := math.Abs(a.lift[idx[i]][idx[j]])
			total += v
			peak = math.Max(peak, v)
			count++
		}
	}
	if count == 0 {
		return 0, 0
	}
	return total / float64(count), peak
}

func (a *Analyzer) meanFreqNorm(idx []int) float64 {
	s := 0.0
	for _, i := range idx {
		s += a.freqNorm[i]
	}
	return s / float64(len(idx))
}

// search minimizes score over tickets of target distinct numbers with
// integer differential evolution. score receives 0-based indices.
func (a *Analyzer) search(seed uint64, maxIter, popSize int, score func(idx []int) float64) ([]int, float64, error) {
	bounds := make([]optimize.Bounds, a.target)
	for i := range bounds {
		bounds[i] = optimize.Bounds{Lower: 0, Upper: lottery.TotalNumbers - 1}
	}
	idx := make([]int, a.target)
	objective := func(x []float64) float64 {
		decode(x, idx)
		if hasDuplicates(idx) {
			return duplicatePenalty
		}
		return score(idx)
	}
	res, err := optimize.DifferentialEvolution(objective, bounds, optimize.DEOptions{
		MaxIter: maxIter,
		PopSize: popSize,
		Seed:    seed,
		Integer: true,
	})
	if err != nil {
		return nil, 0, err
	}
	decode(res.X, idx)
	numbers := uniqueNumbers(idx, a.target, rand.New(rand.NewPCG(seed, seed)))
	return numbers, res.Fun, nil
}

func decode(x []float64, idx []int) {
	for i, v := range x {
		idx[i] = min(max(int(math.Round(v)), 0), lottery.TotalNumbers-1)
	}
}

func hasDuplicates(idx []int) bool {
	var seen [lottery.TotalNumbers]bool
	for _, i := range idx {
		if seen[i] {
			return true
		}
		seen[i] = true
	}
	return false
}

// uniqueNumbers turns indices into sorted numbers 1..60, replacing repeats
// with random unused numbers.
func uniqueNumbers(idx []int, target int, rng *rand.Rand) []int {
	var seen [lottery.TotalNumbers + 1]bool
	out := make([]int, 0, target)
	for _, i := range idx {
		if n := i + 1; !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	for len(out) < target {
		n := rng.IntN(lottery.TotalNumbers) + 1
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	slices.Sort(out)
	return out
}

func indices(numbers []int) []int {
	out := make([]int, len(numbers))
	for i, n := range numbers {
		out[i] = n - 1
	}
	return out
}

// playerSeed derives a stable seed per named player.
func playerSeed(name string) uint64 {
	h := fnv.New32a()
	h.Write([]byte(name))
	return 45 + uint64(h.Sum32()%100)
}

func square(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	return m
}
