package optimize

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var ErrInfeasible = errors.New("infeasible constraint")

const bisectionSteps = 100

// ProjectCappedSimplex returns the Euclidean projection of y onto
// {w : sum(w) = total, 0 <= w_i <= 1}.
func ProjectCappedSimplex(y []float64, total float64) ([]float64, error) {
	n := float64(len(y))
	if total < 0 || total > n {
		return nil, fmt.Errorf("%w: sum %g with %d weights capped at 1", ErrInfeasible, total, len(y))
	}
	w := make([]float64, len(y))
	if len(y) == 0 {
		return w, nil
	}
	// sum(clip(y - tau, 0, 1)) is non-increasing in tau
	lo, hi := floats.Min(y)-1, floats.Max(y)
	for range bisectionSteps {
		tau := (lo + hi) / 2
		if cappedSum(y, tau) > total {
			lo = tau
		} else {
			hi = tau
		}
	}
	tau := (lo + hi) / 2
	for i, v := range y {
		w[i] = math.Max(0, math.Min(1, v-tau))
	}
	return w, nil
}

func cappedSum(y []float64, tau float64) float64 {
	s := 0.0
	for _, v := range y {
		s += math.Max(0, math.Min(1, v-tau))
	}
	return s
}

type AscentResult struct {
	X          []float64
	Value      float64
	Iterations int
	Converged  bool
}

// ProjectedAscent maximizes f over the capped simplex with sum total,
// starting from x0. grad writes the gradient of f at x into g. Steps use
// backtracking: a step that does not improve f is halved until it drops
// below minStep.
func ProjectedAscent(f func(x []float64) float64, grad func(x, g []float64), x0 []float64, total float64, maxIter int) (AscentResult, error) {
	const (
		minStep = 1e-10
		tol     = 1e-12
	)
	x, err := ProjectCappedSimplex(x0, total)
	if err != nil {
		return AscentResult{}, err
	}
	value := f(x)
	g := make([]float64, len(x))
	y := make([]float64, len(x))
	step := 1.0
	res := AscentResult{}
	for it := 1; it <= maxIter; it++ {
		res.Iterations = it
		grad(x, g)
		improved := false
		for step >= minStep {
			floats.AddScaledTo(y, x, step, g)
			cand, err := ProjectCappedSimplex(y, total)
			if err != nil {
				return AscentResult{}, err
			}
			if v := f(cand); v > value {
				gain := v - value
				x, value = cand, v
				improved = true
				step *= 2
				if gain <= tol*math.Max(1, math.Abs(value)) {
					res.Converged = true
				}
				break
			}
			step /= 2
		}
		if !improved {
			res.Converged = true
		}
		if res.Converged {
			break
		}
	}
	res.X, res.Value = x, value
	return res, nil
}
