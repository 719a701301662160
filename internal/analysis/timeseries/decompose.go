package timeseries

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/fystack/megasena-analyzer/internal/analysis/numeric"
)

const (
	weeksPerYear  = 52
	minWindow     = 3
	minSeasonalPd = 4
)

type Decomposition struct {
	Metric   Metric    `json:"metric"`
	Original []float64 `json:"original"`
	// Trend holds the centered moving average where the window fits, i.e.
	// for indices TrendOffset .. TrendOffset+len(Trend)-1.
	Trend       []float64 `json:"trend"`
	TrendOffset int       `json:"trend_offset"`
	Window      int       `json:"window"`
	Period      int       `json:"period"`
	Seasonal    []float64 `json:"seasonal"`
	Residual    []float64 `json:"residual"`

	TrendSlope       float64 `json:"trend_slope"`
	SeasonalStrength float64 `json:"seasonal_strength"`
	NoiseLevel       float64 `json:"noise_level"`
	Quality          float64 `json:"quality"`
}

// TrendAt returns the trend at series index i, NaN outside the window.
func (d Decomposition) TrendAt(i int) float64 {
	j := i - d.TrendOffset
	if j < 0 || j >= len(d.Trend) {
		return math.NaN()
	}
	return d.Trend[j]
}

// Decompose splits the metric into a yearly moving-average trend, a seasonal
// profile averaged per position in the period, and the residual. Indices
// outside the trend window count as zero trend.
func (s *Series) Decompose(m Metric) Decomposition {
	data := s.Values(m)
	n := len(data)
	window := max(minWindow, min(weeksPerYear, n/4))
	period := max(minSeasonalPd, min(weeksPerYear, n/2))

	d := Decomposition{
		Metric:   m,
		Original: data,
		Window:   window,
		Period:   period,
		Seasonal: make([]float64, n),
		Residual: make([]float64, n),
	}
	d.Trend, d.TrendOffset = centeredMean(data, window)

	trendOrZero := func(i int) float64 {
		if v := d.TrendAt(i); !math.IsNaN(v) {
			return v
		}
		return 0
	}
	detrended := make([]float64, n)
	if len(d.Trend) == 0 {
		mean := numeric.Mean(data)
		for i, v := range data {
			detrended[i] = v - mean
		}
	} else {
		for i, v := range data {
			detrended[i] = v - trendOrZero(i)
		}
	}

	for phase := 0; phase < period && phase < n; phase++ {
		var sum float64
		count := 0
		for i := phase; i < n; i += period {
			sum += detrended[i]
			count++
		}
		for i := phase; i < n; i += period {
			d.Seasonal[i] = sum / float64(count)
		}
	}
	for i, v := range data {
		d.Residual[i] = v - trendOrZero(i) - d.Seasonal[i]
	}

	if len(d.Trend) > 1 {
		x := make([]float64, len(d.Trend))
		for i := range x {
			x[i] = float64(i)
		}
		_, d.TrendSlope = stat.LinearRegression(x, d.Trend, nil, false)
	}
	if v := numeric.PopVariance(data); v > 0 {
		d.SeasonalStrength = numeric.PopVariance(d.Seasonal) / v
		d.Quality = 1 - numeric.PopVariance(d.Residual)/v
	}
	_, d.NoiseLevel = numeric.MeanStd(d.Residual)
	return d
}

// centeredMean is a rolling mean with the label at the window center; for
// even windows the extra element sits on the left. It returns the values
// where the window fits and the index of the first one.
func centeredMean(data []float64, window int) ([]float64, int) {
	n := len(data)
	if window > n || window <= 0 {
		return nil, 0
	}
	offset := (window - 1) / 2
	first := window - 1 - offset
	out := make([]float64, 0, n-window+1)
	var sum float64
	for i := 0; i < window; i++ {
		sum += data[i]
	}
	out = append(out, sum/float64(window))
	for i := window; i < n; i++ {
		sum += data[i] - data[i-window]
		out = append(out, sum/float64(window))
	}
	return out, first
}
