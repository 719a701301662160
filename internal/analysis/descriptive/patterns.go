package descriptive

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/fystack/megasena-analyzer/internal/analysis/numeric"
	"github.com/fystack/megasena-analyzer/pkg/lottery"
)

// Quadrants split 1..60 into four blocks of fifteen.
var Quadrants = [4][2]int{{1, 15}, {16, 30}, {31, 45}, {46, 60}}

type QuadrantCount struct {
	Signature string `json:"signature"`
	Count     int    `json:"count"`
}

type PatternStats struct {
	MeanConsecutive         float64               `json:"mean_consecutive"`
	MaxConsecutive          int                   `json:"max_consecutive"`
	ConsecutiveDistribution map[int]int           `json:"consecutive_distribution"`
	SumMean                 float64               `json:"sum_mean"`
	SumStdDev               float64               `json:"sum_std_dev"`
	SumMin                  int                   `json:"sum_min"`
	SumMax                  int                   `json:"sum_max"`
	SpreadMean              float64               `json:"spread_mean"`
	SpreadStdDev            float64               `json:"spread_std_dev"`
	FirstDecadePct          float64               `json:"first_decade_pct"`
	LastDecadePct           float64               `json:"last_decade_pct"`
	TopLastDigits           []lottery.NumberCount `json:"top_last_digits"`
	TopQuadrants            []QuadrantCount       `json:"top_quadrants"`
}

type PatternAnalysis struct {
	Consecutive      []int          `json:"consecutive"`
	LastDigits       [10]int        `json:"last_digits"`
	Sums             []int          `json:"sums"`
	Spreads          []int          `json:"spreads"`
	Quadrants        map[string]int `json:"quadrants"`
	FirstDecadeDraws int            `json:"first_decade_draws"`
	LastDecadeDraws  int            `json:"last_decade_draws"`
	Stats            PatternStats   `json:"stats"`
}

func Patterns(history [][]int) (*PatternAnalysis, error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("pattern analysis: %w", lottery.ErrInsufficientData)
	}

	p := &PatternAnalysis{
		Consecutive: make([]int, 0, len(history)),
		Sums:        make([]int, 0, len(history)),
		Spreads:     make([]int, 0, len(history)),
		Quadrants:   make(map[string]int),
	}
	for _, draw := range history {
		sorted := slices.Sorted(slices.Values(draw))
		consecutive := 0
		for i := 1; i < len(sorted); i++ {
			if sorted[i]-sorted[i-1] == 1 {
				consecutive++
			}
		}
		p.Consecutive = append(p.Consecutive, consecutive)

		sum := 0
		first, lastDecade := false, false
		for _, n := range sorted {
			p.LastDigits[n%10]++
			sum += n
			first = first || (n >= 1 && n <= 10)
			lastDecade = lastDecade || (n >= 51 && n <= 60)
		}
		p.Sums = append(p.Sums, sum)
		if len(sorted) > 0 {
			p.Spreads = append(p.Spreads, sorted[len(sorted)-1]-sorted[0])
		}
		p.Quadrants[QuadrantSignature(sorted)]++
		if first {
			p.FirstDecadeDraws++
		}
		if lastDecade {
			p.LastDecadeDraws++
		}
	}

	p.Stats = p.stats(len(history))
	return p, nil
}

// QuadrantSignature renders how many numbers fall in each quadrant, e.g.
// "Q1:2_Q2:1_Q3:2_Q4:1".
func QuadrantSignature(nums []int) string {
	var c [4]int
	for _, n := range nums {
		for q, r := range Quadrants {
			if n >= r[0] && n <= r[1] {
				c[q]++
			}
		}
	}
	return fmt.Sprintf("Q1:%d_Q2:%d_Q3:%d_Q4:%d", c[0], c[1], c[2], c[3])
}

func (p *PatternAnalysis) stats(draws int) PatternStats {
	s := PatternStats{ConsecutiveDistribution: make(map[int]int)}
	for _, c := range p.Consecutive {
		s.ConsecutiveDistribution[c]++
	}
	s.MeanConsecutive = numeric.Mean(numeric.Floats(p.Consecutive))
	s.MaxConsecutive = slices.Max(p.Consecutive)
	s.SumMean, s.SumStdDev = numeric.MeanStd(numeric.Floats(p.Sums))
	s.SumMin, s.SumMax = slices.Min(p.Sums), slices.Max(p.Sums)
	s.SpreadMean, s.SpreadStdDev = numeric.MeanStd(numeric.Floats(p.Spreads))
	s.FirstDecadePct = float64(p.FirstDecadeDraws) / float64(draws) * 100
	s.LastDecadePct = float64(p.LastDecadeDraws) / float64(draws) * 100

	digits := make([]lottery.NumberCount, 0, len(p.LastDigits))
	for d, c := range p.LastDigits {
		digits = append(digits, lottery.NumberCount{Number: d, Count: c})
	}
	slices.SortStableFunc(digits, func(a, b lottery.NumberCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	s.TopLastDigits = digits[:5]

	for _, sig := range slices.Sorted(maps.Keys(p.Quadrants)) {
		s.TopQuadrants = append(s.TopQuadrants, QuadrantCount{Signature: sig, Count: p.Quadrants[sig]})
	}
	slices.SortStableFunc(s.TopQuadrants, func(a, b QuadrantCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	s.TopQuadrants = s.TopQuadrants[:min(5, len(s.TopQuadrants))]
	return s
}
