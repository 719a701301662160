package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestMoments(t *testing.T) {
	x := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	mean, std := MeanStd(x)
	assert.InDelta(t, 5, mean, 1e-12)
	assert.InDelta(t, 2, std, 1e-12)
	assert.InDelta(t, 4, PopVariance(x), 1e-12)
	assert.InDelta(t, 4.5, Median(x), 1e-12)

	m, s := MeanStd(nil)
	assert.Zero(t, m)
	assert.Zero(t, s)
}

func TestPercentile(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.75, Percentile(x, 25), 1e-12)
	assert.InDelta(t, 2.5, Percentile(x, 50), 1e-12)
	assert.InDelta(t, 4, Percentile(x, 100), 1e-12)
	assert.InDelta(t, 1, Percentile(x, 0), 1e-12)
	assert.Zero(t, Percentile(nil, 50))
}

func TestPearson(t *testing.T) {
	assert.InDelta(t, 1, Pearson([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-12)
	assert.InDelta(t, -1, Pearson([]float64{1, 2, 3}, []float64{3, 2, 1}), 1e-12)
	assert.Zero(t, Pearson([]float64{1, 1, 1}, []float64{1, 2, 3}))
}

func TestCorrelationMatrixConstantColumn(t *testing.T) {
	data := mat.NewDense(3, 3, []float64{
		1, 0, 2,
		2, 0, 4,
		3, 0, 7,
	})
	c := CorrelationMatrix(data)
	assert.Zero(t, c.At(0, 1))
	assert.Zero(t, c.At(1, 1))
	assert.Zero(t, c.At(2, 1))
	assert.InDelta(t, 1, c.At(0, 0), 1e-12)
	assert.Greater(t, c.At(0, 2), 0.9)
}

func TestLinRegress(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4, 5}
	y := []float64{1, 3, 5, 7, 9, 11}
	r := LinRegress(x, y)
	assert.InDelta(t, 2, r.Slope, 1e-12)
	assert.InDelta(t, 1, r.Intercept, 1e-12)
	assert.InDelta(t, 1, r.R, 1e-9)
	assert.Less(t, r.PValue, 1e-6)

	noisy := LinRegress(x, []float64{5, 1, 4, 2, 5, 1})
	assert.Greater(t, noisy.PValue, 0.05)
	assert.Greater(t, noisy.StdErr, 0.0)
}

func TestOneWayANOVA(t *testing.T) {
	same := OneWayANOVA([][]float64{{1, 2, 3}, {1, 2, 3}, {1, 2, 3}})
	assert.InDelta(t, 0, same.F, 1e-12)
	assert.InDelta(t, 1, same.PValue, 1e-9)

	different := OneWayANOVA([][]float64{{1, 2, 1, 2}, {10, 11, 10, 11}, {20, 21, 20, 21}})
	assert.Greater(t, different.F, 100.0)
	assert.Less(t, different.PValue, 0.001)

	assert.Equal(t, 1.0, OneWayANOVA([][]float64{{1, 2}}).PValue)
}

func TestChiSquareSurvival(t *testing.T) {
	// 77.93 is the 5% critical value for 59 degrees of freedom
	assert.InDelta(t, 0.05, ChiSquareSurvival(77.93, 59), 0.002)
	assert.False(t, math.IsNaN(ChiSquareSurvival(0, 59)))
}

func TestMode(t *testing.T) {
	assert.Equal(t, 1, Mode(map[int]int{0: 3, 1: 5, 2: 5}))
	assert.Equal(t, 0, Mode(nil))
}
