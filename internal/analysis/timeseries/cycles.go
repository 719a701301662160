package timeseries

import (
	"cmp"
	"math"
	"math/cmplx"
	"slices"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/fystack/megasena-analyzer/internal/analysis/numeric"
)

const (
	minCycleSamples = 11
	spectralPeaks   = 5
	dominantPeriods = 3
	noisePower      = 1e-9
)

// CycleMetrics are the metrics scanned for periodicities.
var CycleMetrics = []Metric{MetricSum, MetricMax, MetricEven, MetricRange}

type SpectralPeak struct {
	Frequency float64 `json:"frequency"`
	Power     float64 `json:"power"`
}

type CycleAnalysis struct {
	Metric Metric `json:"metric"`
	// DominantPeriods are in draws, longest first.
	DominantPeriods []float64      `json:"dominant_periods"`
	Peaks           []SpectralPeak `json:"peaks"`
}

// Cycles takes the FFT of every cycle metric with its mean removed and keeps
// the strongest frequencies whose period lies in [2, n/2].
func (s *Series) Cycles() []CycleAnalysis {
	out := make([]CycleAnalysis, 0, len(CycleMetrics))
	for _, m := range CycleMetrics {
		out = append(out, s.cycles(m))
	}
	return out
}

func (s *Series) cycles(m Metric) CycleAnalysis {
	c := CycleAnalysis{Metric: m}
	data := s.Values(m)
	n := len(data)
	if n < minCycleSamples {
		return c
	}

	mean := numeric.Mean(data)
	centered := make([]float64, n)
	for i, v := range data {
		centered[i] = v - mean
	}
	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, centered)

	peaks := make([]SpectralPeak, 0, len(coeffs))
	for i := 1; i < len(coeffs); i++ {
		a := cmplx.Abs(coeffs[i])
		peaks = append(peaks, SpectralPeak{Frequency: fft.Freq(i), Power: a * a})
	}
	slices.SortStableFunc(peaks, func(a, b SpectralPeak) int {
		return cmp.Compare(b.Power, a.Power)
	})
	c.Peaks = peaks[:min(spectralPeaks, len(peaks))]
	c.DominantPeriods = periodsOf(c.Peaks, n)
	return c
}

// periodsOf converts the peaks to periods in [2, n/2], longest first. Peaks
// at rounding-noise level next to the strongest one are ignored.
func periodsOf(peaks []SpectralPeak, n int) []float64 {
	if len(peaks) == 0 {
		return nil
	}
	floor := slices.MaxFunc(peaks, func(a, b SpectralPeak) int {
		return cmp.Compare(a.Power, b.Power)
	}).Power * noisePower

	var periods []float64
	for _, p := range peaks {
		if p.Frequency == 0 || p.Power <= floor {
			continue
		}
		period := 1 / math.Abs(p.Frequency)
		if period >= 2 && period <= float64(n/2) {
			periods = append(periods, period)
		}
	}
	slices.SortFunc(periods, func(a, b float64) int { return cmp.Compare(b, a) })
	return periods[:min(dominantPeriods, len(periods))]
}
