// Package timeseries treats the draw history as a weekly series of per-draw
// metrics: decomposition, spectral cycles, seasonality, trends and anomalies.
package timeseries

import (
	"fmt"
	"time"

	"github.com/fystack/megasena-analyzer/pkg/lottery"
)

type Metric string

const (
	MetricSum   Metric = "sum"
	MetricMax   Metric = "max"
	MetricMin   Metric = "min"
	MetricRange Metric = "range"
	MetricEven  Metric = "even"
	MetricOdd   Metric = "odd"
)

// FirstDrawDate anchors synthetic weekly dates for draws without a
// parseable date.
var FirstDrawDate = time.Date(1996, time.March, 11, 0, 0, 0, 0, time.UTC)

type Point struct {
	Index     int       `json:"index"`
	Contest   int       `json:"contest"`
	Date      time.Time `json:"date"`
	Numbers   []int     `json:"numbers"`
	Sum       int       `json:"sum"`
	Max       int       `json:"max"`
	Min       int       `json:"min"`
	Range     int       `json:"range"`
	Even      int       `json:"even"`
	Odd       int       `json:"odd"`
	Decades   [6]int    `json:"decades"`
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Quarter   int       `json:"quarter"`
	DayOfYear int       `json:"day_of_year"`
}

func (p Point) Value(m Metric) float64 {
	switch m {
	case MetricSum:
		return float64(p.Sum)
	case MetricMax:
		return float64(p.Max)
	case MetricMin:
		return float64(p.Min)
	case MetricRange:
		return float64(p.Range)
	case MetricEven:
		return float64(p.Even)
	case MetricOdd:
		return float64(p.Odd)
	}
	return 0
}

type Series struct {
	Points []Point
}

// Prepare builds the series from draws ordered oldest to newest.
func Prepare(draws []lottery.Draw) (*Series, error) {
	if len(draws) == 0 {
		return nil, fmt.Errorf("time series: %w", lottery.ErrInsufficientData)
	}
	s := &Series{Points: make([]Point, 0, len(draws))}
	for i, d := range draws {
		nums := d.Sorted()
		if len(nums) == 0 {
			return nil, fmt.Errorf("contest %d has no numbers: %w", d.Contest, lottery.ErrInvalidDraw)
		}
		date, ok := d.Time()
		if !ok {
			date = FirstDrawDate.AddDate(0, 0, 7*i)
		}
		p := Point{
			Index:     i + 1,
			Contest:   d.Contest,
			Date:      date,
			Numbers:   nums,
			Min:       nums[0],
			Max:       nums[len(nums)-1],
			Year:      date.Year(),
			Month:     int(date.Month()),
			Quarter:   (int(date.Month())-1)/3 + 1,
			DayOfYear: date.YearDay(),
		}
		p.Range = p.Max - p.Min
		for _, n := range nums {
			p.Sum += n
			if n%2 == 0 {
				p.Even++
			} else {
				p.Odd++
			}
			if n >= 1 && n <= lottery.TotalNumbers {
				p.Decades[(n-1)/10]++
			}
		}
		s.Points = append(s.Points, p)
	}
	return s, nil
}

// FromNumbers wraps bare number lists as draws with synthetic dates.
func FromNumbers(history [][]int) []lottery.Draw {
	draws := make([]lottery.Draw, len(history))
	for i, nums := range history {
		draws[i] = lottery.NewDraw(i+1, "", nums)
	}
	return draws
}

func (s *Series) Len() int {
	return len(s.Points)
}

func (s *Series) Values(m Metric) []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value(m)
	}
	return out
}

func (s *Series) Start() time.Time {
	return s.Points[0].Date
}

func (s *Series) End() time.Time {
	return s.Points[len(s.Points)-1].Date
}
