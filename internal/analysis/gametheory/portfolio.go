package gametheory

import (
	"cmp"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/fystack/megasena-analyzer/internal/analysis/optimize"
	"github.com/fystack/megasena-analyzer/pkg/lottery"
)

const (
	portfolioMaxIter = 500
	riskFloor        = 0.01
)

type Portfolio struct {
	Combination    int       `json:"combination"`
	Numbers        []int     `json:"numbers"`
	Weights        []float64 `json:"weights"`
	ExpectedReturn float64   `json:"expected_return"`
	Risk           float64   `json:"risk"`
	Sharpe         float64   `json:"sharpe_ratio"`
	Converged      bool      `json:"converged"`
}

// Portfolio runs n weight optimizations from random starts. Each number
// has an expected return 1/(normalized frequency + 0.1) and a variance equal
// to its mean absolute lift; weights sum to the ticket size with each in
// [0, 1], and return/(risk + 0.01) is maximized. The numbers with the
// largest weights form the ticket. Results are sorted by Sharpe ratio.
func (a *Analyzer) Portfolio(n int) ([]Portfolio, error) {
	if n < 1 {
		return nil, fmt.Errorf("portfolio count must be positive, got %d", n)
	}
	returns := make([]float64, lottery.TotalNumbers)
	variances := make([]float64, lottery.TotalNumbers)
	abs := make([]float64, lottery.TotalNumbers)
	for i := range returns {
		returns[i] = 1 / (a.freqNorm[i] + 0.1)
		for j, v := range a.lift[i] {
			abs[j] = math.Abs(v)
		}
		variances[i] = stat.Mean(abs, nil)
	}

	risk := func(w []float64) float64 {
		s := 0.0
		for i, x := range w {
			s += x * x * variances[i]
		}
		return math.Sqrt(s)
	}
	sharpe := func(w []float64) float64 {
		return floats.Dot(w, returns) / (risk(w) + riskFloor)
	}
	grad := func(w, g []float64) {
		ret, sd := floats.Dot(w, returns), risk(w)
		denom := sd + riskFloor
		for i := range g {
			dRisk := 0.0
			if sd > 0 {
				dRisk = w[i] * variances[i] / sd
			}
			g[i] = returns[i]/denom - ret*dRisk/(denom*denom)
		}
	}

	rng := rand.New(rand.NewPCG(a.seed, a.seed^0x5851f42d4c957f2d))
	total := float64(a.target)
	out := make([]Portfolio, 0, n)
	for c := range n {
		x0 := make([]float64, lottery.TotalNumbers)
		for i := range x0 {
			x0[i] = rng.Float64()
		}
		floats.Scale(total/floats.Sum(x0), x0)

		res, err := optimize.ProjectedAscent(sharpe, grad, x0, total, portfolioMaxIter)
		if err != nil {
			return nil, err
		}
		numbers := topWeighted(res.X, a.target)
		weights := make([]float64, len(numbers))
		for i, num := range numbers {
			weights[i] = res.X[num-1]
		}
		out = append(out, Portfolio{
			Combination:    c + 1,
			Numbers:        numbers,
			Weights:        weights,
			ExpectedReturn: floats.Dot(res.X, returns),
			Risk:           risk(res.X),
			Sharpe:         res.Value,
			Converged:      res.Converged,
		})
	}
	slices.SortStableFunc(out, func(x, y Portfolio) int {
		return cmp.Compare(y.Sharpe, x.Sharpe)
	})
	return out, nil
}

// topWeighted returns the k numbers with the largest weights, sorted. Ties
// keep the lower number.
func topWeighted(w []float64, k int) []int {
	order := make([]int, len(w))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(x, y int) int {
		return cmp.Compare(w[y], w[x])
	})
	numbers := make([]int, k)
	for i := range k {
		numbers[i] = order[i] + 1
	}
	slices.Sort(numbers)
	return numbers
}
