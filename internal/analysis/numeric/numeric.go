// Package numeric wraps the gonum routines the analyzers share, with the
// conventions they expect: population moments, linear-interpolated
// percentiles and NaN-free correlations.
package numeric

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

func Floats(xs []int) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}

func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}

// MeanStd returns the mean and the population standard deviation.
func MeanStd(x []float64) (float64, float64) {
	if len(x) == 0 {
		return 0, 0
	}
	return stat.PopMeanStdDev(x, nil)
}

// PopVariance is the population variance of x.
func PopVariance(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	_, v := stat.PopMeanVariance(x, nil)
	return v
}

func Median(x []float64) float64 {
	return Percentile(x, 50)
}

// Percentile interpolates linearly between the closest ranks, p in [0,100].
func Percentile(x []float64, p float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sorted := slices.Clone(x)
	slices.Sort(sorted)
	return PercentileSorted(sorted, p)
}

func PercentileSorted(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := p / 100 * float64(len(sorted)-1)
	lo, hi := math.Floor(pos), math.Ceil(pos)
	if lo == hi {
		return sorted[int(pos)]
	}
	frac := pos - lo
	return sorted[int(lo)] + frac*(sorted[int(hi)]-sorted[int(lo)])
}

func MinMax(x []float64) (float64, float64) {
	if len(x) == 0 {
		return 0, 0
	}
	return floats.Min(x), floats.Max(x)
}

// Pearson correlation, 0 when either series is constant.
func Pearson(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// CorrelationMatrix correlates the columns of data (rows are observations).
// A constant column has a zero row and column, diagonal included.
func CorrelationMatrix(data *mat.Dense) *mat.SymDense {
	r, c := data.Dims()
	corr := mat.NewSymDense(c, nil)
	stat.CorrelationMatrix(corr, data, nil)

	col := make([]float64, r)
	for i := 0; i < c; i++ {
		mat.Col(col, i, data)
		constant := r < 2 || stat.Variance(col, nil) == 0
		for j := 0; j < c; j++ {
			if v := corr.At(i, j); constant || math.IsNaN(v) {
				corr.SetSym(i, j, 0)
			}
		}
	}
	return corr
}

type Regression struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	R         float64 `json:"r"`
	PValue    float64 `json:"p_value"`
	StdErr    float64 `json:"std_err"`
}

// LinRegress fits y = intercept + slope*x by least squares. PValue tests
// slope == 0 with a two-sided t test on n-2 degrees of freedom.
func LinRegress(x, y []float64) Regression {
	n := len(x)
	if n < 2 || n != len(y) {
		return Regression{PValue: 1}
	}
	alpha, beta := stat.LinearRegression(x, y, nil, false)
	r := Pearson(x, y)
	res := Regression{Slope: beta, Intercept: alpha, R: r, PValue: 1}
	if n < 3 {
		return res
	}

	df := float64(n - 2)
	varX, varY := PopVariance(x), PopVariance(y)
	if varX > 0 {
		res.StdErr = math.Sqrt(max(0, (1-r*r)*varY/varX/df))
	}
	switch {
	case math.Abs(r) >= 1:
		res.PValue = 0
	case r != 0:
		t := r * math.Sqrt(df/((1-r)*(1+r)))
		st := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
		res.PValue = 2 * st.Survival(math.Abs(t))
	}
	return res
}

type ANOVA struct {
	F      float64 `json:"f"`
	PValue float64 `json:"p_value"`
}

// OneWayANOVA compares the means of groups. Groups with no values are
// ignored; fewer than two usable groups give F=0, p=1. Groups that are each
// constant but differ give F=MaxFloat64, p=0.
func OneWayANOVA(groups [][]float64) ANOVA {
	var (
		all    []float64
		usable [][]float64
	)
	for _, g := range groups {
		if len(g) > 0 {
			usable = append(usable, g)
			all = append(all, g...)
		}
	}
	k, n := len(usable), len(all)
	if k < 2 || n <= k {
		return ANOVA{PValue: 1}
	}

	grand := stat.Mean(all, nil)
	var ssb, ssw float64
	for _, g := range usable {
		m := stat.Mean(g, nil)
		ssb += float64(len(g)) * (m - grand) * (m - grand)
		for _, v := range g {
			ssw += (v - m) * (v - m)
		}
	}
	dfb, dfw := float64(k-1), float64(n-k)
	if ssw == 0 {
		if ssb == 0 {
			return ANOVA{PValue: 1}
		}
		return ANOVA{F: math.MaxFloat64, PValue: 0}
	}
	f := (ssb / dfb) / (ssw / dfw)
	return ANOVA{F: f, PValue: distuv.F{D1: dfb, D2: dfw}.Survival(f)}
}

// ChiSquareSurvival is P(X >= x) for a chi-square with k degrees of freedom.
func ChiSquareSurvival(x float64, k int) float64 {
	return distuv.ChiSquared{K: float64(k)}.Survival(x)
}

// Mode returns the most frequent value, the smallest on ties.
func Mode(counts map[int]int) int {
	best, bestCount := 0, -1
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best, bestCount = v, c
		}
	}
	return best
}
