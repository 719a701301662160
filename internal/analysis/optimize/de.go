package optimize

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"
)

var ErrInvalidBounds = errors.New("invalid bounds")

type Bounds struct {
	Lower float64
	Upper float64
}

// Objective is minimized. It must not retain x.
type Objective func(x []float64) float64

// DEOptions configures DifferentialEvolution. Zero values take the defaults
// noted on each field.
type DEOptions struct {
	MaxIter       int     // 1000
	PopSize       int     // 15, multiplied by the dimension
	MutationMin   float64 // 0.5
	MutationMax   float64 // 1.0, dithered per generation
	Recombination float64 // 0.7
	Tol           float64 // 0.01, relative spread of the population energies
	Seed          uint64  // 0 picks a random seed
	Integer       bool    // round every parameter before evaluation
}

func (o DEOptions) withDefaults() DEOptions {
	if o.MaxIter <= 0 {
		o.MaxIter = 1000
	}
	if o.PopSize <= 0 {
		o.PopSize = 15
	}
	if o.MutationMin <= 0 {
		o.MutationMin = 0.5
	}
	if o.MutationMax <= o.MutationMin {
		o.MutationMax = max(1, o.MutationMin)
	}
	if o.Recombination <= 0 {
		o.Recombination = 0.7
	}
	if o.Tol <= 0 {
		o.Tol = 0.01
	}
	if o.Seed == 0 {
		o.Seed = rand.Uint64()
	}
	return o
}

type DEResult struct {
	X           []float64
	Fun         float64
	Iterations  int
	Evaluations int
	Converged   bool
}

// DifferentialEvolution minimizes f inside bounds with the best1bin scheme:
// mutant = best + F*(r1 - r2), binomial crossover, greedy replacement that
// updates the best member immediately. Members live in the unit cube and are
// scaled to the bounds before evaluation.
func DifferentialEvolution(f Objective, bounds []Bounds, opts DEOptions) (DEResult, error) {
	dim := len(bounds)
	if dim == 0 {
		return DEResult{}, fmt.Errorf("%w: no dimensions", ErrInvalidBounds)
	}
	for i, b := range bounds {
		if !(b.Lower <= b.Upper) {
			return DEResult{}, fmt.Errorf("%w: dimension %d has [%g, %g]", ErrInvalidBounds, i, b.Lower, b.Upper)
		}
	}
	opts = opts.withDefaults()
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	lower := make([]float64, dim)
	span := make([]float64, dim)
	for i, b := range bounds {
		lo, hi := b.Lower, b.Upper
		if opts.Integer {
			lo, hi = math.Ceil(lo)-0.4999, math.Floor(hi)+0.4999
		}
		lower[i], span[i] = lo, hi-lo
	}

	size := max(opts.PopSize*dim, 5)
	pop := latinHypercube(rng, size, dim)
	energies := make([]float64, size)
	x := make([]float64, dim)
	evals := 0
	eval := func(u []float64) float64 {
		for i := range u {
			x[i] = lower[i] + u[i]*span[i]
			if opts.Integer {
				x[i] = math.Round(x[i])
			}
		}
		evals++
		return f(x)
	}

	best := 0
	for i, m := range pop {
		energies[i] = eval(m)
		if energies[i] < energies[best] {
			best = i
		}
	}

	res := DEResult{}
	trial := make([]float64, dim)
	for gen := 1; gen <= opts.MaxIter; gen++ {
		res.Iterations = gen
		scale := opts.MutationMin + rng.Float64()*(opts.MutationMax-opts.MutationMin)
		for i := range pop {
			r1, r2 := pickTwo(rng, size, i, best)
			fill := rng.IntN(dim)
			for j := range dim {
				if j == fill || rng.Float64() < opts.Recombination {
					v := pop[best][j] + scale*(pop[r1][j]-pop[r2][j])
					if v < 0 || v > 1 {
						v = rng.Float64()
					}
					trial[j] = v
				} else {
					trial[j] = pop[i][j]
				}
			}
			e := eval(trial)
			if e <= energies[i] {
				copy(pop[i], trial)
				energies[i] = e
				if e < energies[best] {
					best = i
				}
			}
		}
		if converged(energies, opts.Tol) {
			res.Converged = true
			break
		}
	}

	res.X = make([]float64, dim)
	for i := range dim {
		res.X[i] = lower[i] + pop[best][i]*span[i]
		if opts.Integer {
			res.X[i] = math.Round(res.X[i])
		}
	}
	res.Fun = energies[best]
	res.Evaluations = evals
	return res, nil
}

func converged(energies []float64, tol float64) bool {
	mean, std := stat.PopMeanStdDev(energies, nil)
	if math.IsNaN(std) || math.IsInf(mean, 0) {
		return false
	}
	return std <= tol*math.Abs(mean)
}

// latinHypercube spreads size points so that every dimension has exactly one
// point per stratum of width 1/size.
func latinHypercube(rng *rand.Rand, size, dim int) [][]float64 {
	pop := make([][]float64, size)
	for i := range pop {
		pop[i] = make([]float64, dim)
	}
	for j := range dim {
		for i, p := range rng.Perm(size) {
			pop[i][j] = (float64(p) + rng.Float64()) / float64(size)
		}
	}
	return pop
}

// pickTwo returns two distinct members different from both exclusions.
func pickTwo(rng *rand.Rand, n, skipA, skipB int) (int, int) {
	pick := func(others ...int) int {
		for {
			c := rng.IntN(n)
			ok := true
			for _, o := range others {
				if c == o {
					ok = false
					break
				}
			}
			if ok {
				return c
			}
		}
	}
	a := pick(skipA, skipB)
	return a, pick(skipA, skipB, a)
}
