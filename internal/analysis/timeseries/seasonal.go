package timeseries

import (
	"maps"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/fystack/megasena-analyzer/internal/analysis/numeric"
)

const seasonalAlpha = 0.05

// SeasonalMetrics are tested for month-to-month differences.
var SeasonalMetrics = []Metric{MetricSum, MetricEven, MetricMax}

type Moments struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// GroupStats summarises the draws sharing a month, quarter or year.
// Standard deviations are sample deviations, 0 for single-draw groups.
type GroupStats struct {
	Key   int     `json:"key"`
	Count int     `json:"count"`
	Sum   Moments `json:"sum"`
	Even  Moments `json:"even"`
	Max   Moments `json:"max"`
}

type SeasonalityTest struct {
	Metric   Metric  `json:"metric"`
	F        float64 `json:"f"`
	PValue   float64 `json:"p_value"`
	Seasonal bool    `json:"seasonal"`
}

type SeasonalSummary struct {
	MostVariableMonth  int `json:"most_variable_month"`
	LeastVariableMonth int `json:"least_variable_month"`
	HighestSumMonth    int `json:"highest_sum_month"`
	LowestSumMonth     int `json:"lowest_sum_month"`
}

type SeasonalAnalysis struct {
	Monthly   []GroupStats      `json:"monthly"`
	Quarterly []GroupStats      `json:"quarterly"`
	Yearly    []GroupStats      `json:"yearly"`
	Tests     []SeasonalityTest `json:"tests"`
	Summary   SeasonalSummary   `json:"summary"`
}

// Detected reports whether any metric differs significantly across months.
func (a SeasonalAnalysis) Detected() bool {
	for _, t := range a.Tests {
		if t.Seasonal {
			return true
		}
	}
	return false
}

// Seasonal groups the series by calendar month, quarter and year, and runs a
// one-way ANOVA across months for each seasonal metric.
func (s *Series) Seasonal() SeasonalAnalysis {
	a := SeasonalAnalysis{
		Monthly:   s.groupBy(func(p Point) int { return p.Month }),
		Quarterly: s.groupBy(func(p Point) int { return p.Quarter }),
		Yearly:    s.groupBy(func(p Point) int { return p.Year }),
	}

	months := s.partition(func(p Point) int { return p.Month })
	if len(months) > 1 {
		keys := slices.Sorted(maps.Keys(months))
		for _, m := range SeasonalMetrics {
			groups := make([][]float64, 0, len(keys))
			for _, k := range keys {
				groups = append(groups, valuesOf(months[k], m))
			}
			res := numeric.OneWayANOVA(groups)
			a.Tests = append(a.Tests, SeasonalityTest{
				Metric:   m,
				F:        res.F,
				PValue:   res.PValue,
				Seasonal: res.PValue < seasonalAlpha,
			})
		}
	}

	if len(a.Monthly) > 0 {
		first := a.Monthly[0]
		sum := SeasonalSummary{
			MostVariableMonth:  first.Key,
			LeastVariableMonth: first.Key,
			HighestSumMonth:    first.Key,
			LowestSumMonth:     first.Key,
		}
		mostVar, leastVar, highest, lowest := first.Sum.StdDev, first.Sum.StdDev, first.Sum.Mean, first.Sum.Mean
		for _, g := range a.Monthly[1:] {
			if g.Sum.StdDev > mostVar {
				mostVar, sum.MostVariableMonth = g.Sum.StdDev, g.Key
			}
			if g.Sum.StdDev < leastVar {
				leastVar, sum.LeastVariableMonth = g.Sum.StdDev, g.Key
			}
			if g.Sum.Mean > highest {
				highest, sum.HighestSumMonth = g.Sum.Mean, g.Key
			}
			if g.Sum.Mean < lowest {
				lowest, sum.LowestSumMonth = g.Sum.Mean, g.Key
			}
		}
		a.Summary = sum
	}
	return a
}

func (s *Series) partition(key func(Point) int) map[int][]Point {
	out := make(map[int][]Point)
	for _, p := range s.Points {
		k := key(p)
		out[k] = append(out[k], p)
	}
	return out
}

func (s *Series) groupBy(key func(Point) int) []GroupStats {
	parts := s.partition(key)
	out := make([]GroupStats, 0, len(parts))
	for _, k := range slices.Sorted(maps.Keys(parts)) {
		pts := parts[k]
		out = append(out, GroupStats{
			Key:   k,
			Count: len(pts),
			Sum:   moments(valuesOf(pts, MetricSum)),
			Even:  moments(valuesOf(pts, MetricEven)),
			Max:   moments(valuesOf(pts, MetricMax)),
		})
	}
	return out
}

func valuesOf(pts []Point, m Metric) []float64 {
	out := make([]float64, len(pts))
	for i, p := range pts {
		out[i] = p.Value(m)
	}
	return out
}

func moments(x []float64) Moments {
	var m Moments
	if len(x) == 0 {
		return m
	}
	m.Mean = stat.Mean(x, nil)
	if len(x) > 1 {
		m.StdDev = stat.StdDev(x, nil)
	}
	m.Min, m.Max = numeric.MinMax(x)
	return m
}
