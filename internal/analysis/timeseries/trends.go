package timeseries

import (
	"math"

	"github.com/fystack/megasena-analyzer/internal/analysis/numeric"
)

const (
	trendAlpha = 0.05
	iqrFactor  = 1.5
	extremeZ   = 3.0
)

// TrendMetrics are regressed against the draw index.
var TrendMetrics = []Metric{MetricSum, MetricMax, MetricEven, MetricRange}

// AnomalyMetrics are scanned for outliers.
var AnomalyMetrics = []Metric{MetricSum, MetricMax, MetricRange}

type Direction string

const (
	DirectionUp     Direction = "increasing"
	DirectionDown   Direction = "decreasing"
	DirectionStable Direction = "stable"
)

type Trend struct {
	Metric      Metric             `json:"metric"`
	Regression  numeric.Regression `json:"regression"`
	Direction   Direction          `json:"direction"`
	Strength    float64            `json:"strength"`
	Significant bool               `json:"significant"`
}

func (s *Series) Trends() []Trend {
	x := make([]float64, s.Len())
	for i := range x {
		x[i] = float64(i)
	}
	out := make([]Trend, 0, len(TrendMetrics))
	for _, m := range TrendMetrics {
		reg := numeric.LinRegress(x, s.Values(m))
		t := Trend{
			Metric:      m,
			Regression:  reg,
			Direction:   DirectionStable,
			Strength:    math.Abs(reg.R),
			Significant: reg.PValue < trendAlpha,
		}
		switch {
		case reg.Slope > 0:
			t.Direction = DirectionUp
		case reg.Slope < 0:
			t.Direction = DirectionDown
		}
		out = append(out, t)
	}
	return out
}

type Bounds struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	IQR   float64 `json:"iqr"`
}

type Anomaly struct {
	Metric Metric `json:"metric"`
	// Outliers are indices outside Bounds, Extremes those with |z| > 3.
	Outliers          []int   `json:"outliers"`
	Extremes          []int   `json:"extremes"`
	OutlierPercentage float64 `json:"outlier_percentage"`
	Bounds            Bounds  `json:"bounds"`
}

func (s *Series) Anomalies() []Anomaly {
	out := make([]Anomaly, 0, len(AnomalyMetrics))
	for _, m := range AnomalyMetrics {
		data := s.Values(m)
		q1, q3 := numeric.Percentile(data, 25), numeric.Percentile(data, 75)
		iqr := q3 - q1
		a := Anomaly{
			Metric: m,
			Bounds: Bounds{Lower: q1 - iqrFactor*iqr, Upper: q3 + iqrFactor*iqr, IQR: iqr},
		}
		mean, std := numeric.MeanStd(data)
		for i, v := range data {
			if v < a.Bounds.Lower || v > a.Bounds.Upper {
				a.Outliers = append(a.Outliers, i)
			}
			if std > 0 && math.Abs(v-mean)/std > extremeZ {
				a.Extremes = append(a.Extremes, i)
			}
		}
		if len(data) > 0 {
			a.OutlierPercentage = float64(len(a.Outliers)) / float64(len(data)) * 100
		}
		out = append(out, a)
	}
	return out
}
