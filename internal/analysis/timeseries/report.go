package timeseries

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fystack/megasena-analyzer/internal/plot"
	"github.com/fystack/megasena-analyzer/pkg/common/logger"
	"github.com/fystack/megasena-analyzer/pkg/lottery"
)

const (
	PlotSubdir         = "time_series"
	DecompositionChart = "decomposition.png"
	SeasonalChart      = "seasonal.png"
)

var monthLabels = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

type Summary struct {
	TotalDraws           int       `json:"total_draws"`
	Start                time.Time `json:"start"`
	End                  time.Time `json:"end"`
	DecompositionQuality float64   `json:"decomposition_quality"`
	OverallTrend         Direction `json:"overall_trend"`
	SeasonalityDetected  bool      `json:"seasonality_detected"`
	OutliersDetected     int       `json:"outliers_detected"`
	Plots                int       `json:"plots"`
}

type DataQuality struct {
	// Completeness is the share of contests present between the first and
	// last one analysed.
	Completeness float64 `json:"completeness"`
	// Dated is the share of draws carrying a parseable date.
	Dated    float64 `json:"dated"`
	Coverage string  `json:"coverage"`
}

type Result struct {
	Summary       Summary          `json:"summary"`
	Decomposition Decomposition    `json:"decomposition"`
	Cycles        []CycleAnalysis  `json:"cycles"`
	Seasonal      SeasonalAnalysis `json:"seasonal"`
	Trends        []Trend          `json:"trends"`
	Anomalies     []Anomaly        `json:"anomalies"`
	Plots         []string         `json:"plots,omitempty"`
	DataQuality   DataQuality      `json:"data_quality"`
}

// Report prepares the series and runs every analysis on it. Charts go to
// plotDir/time_series when plotDir is set.
func Report(draws []lottery.Draw, plotDir string) (*Result, error) {
	s, err := Prepare(draws)
	if err != nil {
		return nil, err
	}
	res := &Result{
		Decomposition: s.Decompose(MetricSum),
		Cycles:        s.Cycles(),
		Seasonal:      s.Seasonal(),
		Trends:        s.Trends(),
		Anomalies:     s.Anomalies(),
		DataQuality:   dataQuality(draws),
	}
	if plotDir != "" {
		res.Plots = s.savePlots(filepath.Join(plotDir, PlotSubdir), res)
	}

	res.Summary = Summary{
		TotalDraws:           s.Len(),
		Start:                s.Start(),
		End:                  s.End(),
		DecompositionQuality: res.Decomposition.Quality,
		OverallTrend:         DirectionStable,
		SeasonalityDetected:  res.Seasonal.Detected(),
		Plots:                len(res.Plots),
	}
	for _, t := range res.Trends {
		if t.Metric == MetricSum {
			res.Summary.OverallTrend = t.Direction
		}
	}
	for _, a := range res.Anomalies {
		res.Summary.OutliersDetected += len(a.Outliers)
	}
	return res, nil
}

func dataQuality(draws []lottery.Draw) DataQuality {
	q := DataQuality{Coverage: fmt.Sprintf("%d draws", len(draws))}
	if len(draws) == 0 {
		return q
	}
	lo, hi := draws[0].Contest, draws[0].Contest
	dated := 0
	for _, d := range draws {
		lo, hi = min(lo, d.Contest), max(hi, d.Contest)
		if _, ok := d.Time(); ok {
			dated++
		}
	}
	q.Completeness = float64(len(draws)) / float64(hi-lo+1)
	q.Dated = float64(dated) / float64(len(draws))
	return q
}

func (s *Series) savePlots(dir string, res *Result) []string {
	figures := []struct {
		name string
		fig  plot.Figure
	}{
		{DecompositionChart, DecompositionFigure(res.Decomposition)},
		{SeasonalChart, s.SeasonalFigure(res.Seasonal)},
	}
	var saved []string
	for _, f := range figures {
		path := filepath.Join(dir, f.name)
		if err := f.fig.Save(path); err != nil {
			logger.Warn("Failed to render chart", "chart", f.name, "err", err)
			continue
		}
		saved = append(saved, path)
	}
	return saved
}

func DecompositionFigure(d Decomposition) plot.Figure {
	trend := make([]float64, len(d.Original))
	for i := range trend {
		trend[i] = d.TrendAt(i)
	}
	return plot.Figure{
		Width:       1200,
		PanelHeight: 260,
		Panels: []plot.Panel{
			plot.LineChart{Title: "Original series: " + string(d.Metric), YLabel: string(d.Metric), Series: []plot.Series{{Values: d.Original, Color: plot.ColorBar}}},
			plot.LineChart{Title: "Trend", YLabel: "trend", Series: []plot.Series{{Values: trend, Color: plot.ColorLow, Width: 2}}},
			plot.LineChart{Title: "Seasonal component", YLabel: "seasonal", Series: []plot.Series{{Values: d.Seasonal, Color: plot.ColorHigh}}},
			plot.LineChart{Title: "Residual", YLabel: "residual", XLabel: "Draw", Series: []plot.Series{{Values: d.Residual, Color: plot.ColorAccent}}},
		},
	}
}

func (s *Series) SeasonalFigure(a SeasonalAnalysis) plot.Figure {
	monthly := make([]float64, len(monthLabels))
	for _, g := range a.Monthly {
		monthly[g.Key-1] = g.Sum.Mean
	}
	quarterly := make([]float64, 4)
	for _, g := range a.Quarterly {
		quarterly[g.Key-1] = g.Sum.Mean
	}
	yearly := make([]float64, len(a.Yearly))
	for i, g := range a.Yearly {
		yearly[i] = g.Sum.Mean
	}
	even := make([]float64, lottery.NumbersPerDraw+1)
	odd := make([]float64, lottery.NumbersPerDraw+1)
	for _, p := range s.Points {
		if p.Even <= lottery.NumbersPerDraw {
			even[p.Even]++
		}
		if p.Odd <= lottery.NumbersPerDraw {
			odd[p.Odd]++
		}
	}
	yearTitle := "Mean sum per year"
	if len(a.Yearly) > 0 {
		yearTitle = fmt.Sprintf("Mean sum per year (%d-%d)", a.Yearly[0].Key, a.Yearly[len(a.Yearly)-1].Key)
	}

	return plot.Figure{
		Width:       1200,
		PanelHeight: 400,
		Columns:     2,
		Panels: []plot.Panel{
			plot.BarChart{Title: "Mean sum per month", YLabel: "mean sum", Labels: monthLabels, Values: monthly},
			plot.BarChart{Title: "Mean sum per quarter", YLabel: "mean sum", Labels: []string{"Q1", "Q2", "Q3", "Q4"}, Values: quarterly, Color: plot.ColorLow},
			plot.LineChart{Title: yearTitle, YLabel: "mean sum", XLabel: "year index", Series: []plot.Series{{Values: yearly, Color: plot.ColorLow, Width: 2}}},
			plot.LineChart{
				Title:  "Even / odd count distribution",
				XLabel: "numbers per draw",
				YLabel: "draws",
				Series: []plot.Series{
					{Name: "even", Values: even, Color: plot.ColorBar},
					{Name: "odd", Values: odd, Color: plot.ColorLow},
				},
			},
		},
	}
}
