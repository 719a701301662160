package descriptive

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/fystack/megasena-analyzer/internal/analysis/numeric"
	"github.com/fystack/megasena-analyzer/internal/plot"
	"github.com/fystack/megasena-analyzer/pkg/common/logger"
	"github.com/fystack/megasena-analyzer/pkg/lottery"
)

const (
	FrequencyChart   = "frequency_histogram.png"
	DelayChart       = "delay_analysis.png"
	PatternChart     = "pattern_analysis.png"
	CorrelationChart = "correlation_heatmap.png"
)

// NumberCorrelations is the Pearson correlation between the presence series
// of every pair of numbers. Entry (i, j) is for numbers i+1 and j+1.
func NumberCorrelations(history [][]int) (*mat.SymDense, error) {
	if len(history) < 2 {
		return nil, fmt.Errorf("number correlations need at least 2 draws: %w", lottery.ErrInsufficientData)
	}
	return numeric.CorrelationMatrix(PresenceMatrix(history)), nil
}

// PresenceMatrix has one row per draw and one 0/1 column per number.
func PresenceMatrix(history [][]int) *mat.Dense {
	m := mat.NewDense(len(history), lottery.TotalNumbers, nil)
	for i, draw := range history {
		for _, n := range draw {
			if n >= 1 && n <= lottery.TotalNumbers {
				m.Set(i, n-1, 1)
			}
		}
	}
	return m
}

type Result struct {
	Frequency *FrequencyAnalysis `json:"frequency"`
	Delay     *DelayAnalysis     `json:"delay"`
	Patterns  *PatternAnalysis   `json:"patterns"`
	Plots     []string           `json:"plots,omitempty"`
}

// Report runs the three analyses. When plotDir is set the charts are written
// there; a chart that fails to render is logged and skipped.
func Report(history [][]int, plotDir string) (*Result, error) {
	freq, err := Frequency(history)
	if err != nil {
		return nil, err
	}
	delay, err := Delay(history)
	if err != nil {
		return nil, err
	}
	patterns, err := Patterns(history)
	if err != nil {
		return nil, err
	}
	res := &Result{Frequency: freq, Delay: delay, Patterns: patterns}
	if plotDir == "" {
		return res, nil
	}

	figures := map[string]plot.Figure{
		FrequencyChart: FrequencyFigure(freq),
		DelayChart:     DelayFigure(delay),
		PatternChart:   PatternFigure(patterns),
	}
	if corr, err := NumberCorrelations(history); err == nil {
		figures[CorrelationChart] = CorrelationFigure(corr)
	}
	for _, name := range []string{FrequencyChart, DelayChart, PatternChart, CorrelationChart} {
		fig, ok := figures[name]
		if !ok {
			continue
		}
		path := filepath.Join(plotDir, name)
		if err := fig.Save(path); err != nil {
			logger.Warn("Failed to render chart", "chart", name, "err", err)
			continue
		}
		logger.Debug("Chart written", "path", path)
		res.Plots = append(res.Plots, path)
	}
	return res, nil
}

func numberLabels() []string {
	labels := make([]string, lottery.TotalNumbers)
	for i := range labels {
		labels[i] = strconv.Itoa(i + 1)
	}
	return labels
}

// FrequencyFigure highlights the most frequent number in green and the least
// frequent in red against the expected frequency.
func FrequencyFigure(f *FrequencyAnalysis) plot.Figure {
	values := make([]float64, len(f.Numbers))
	for i, n := range f.Numbers {
		values[i] = float64(n.Frequency)
	}
	return plot.Figure{
		Width:       1200,
		PanelHeight: 520,
		Panels: []plot.Panel{plot.BarChart{
			Title:  fmt.Sprintf("Number frequency (%d draws)", f.Summary.TotalDraws),
			XLabel: "Number",
			YLabel: "Frequency",
			Labels: numberLabels(),
			Values: values,
			Colors: map[int]color.Color{
				f.Summary.MostFrequent.Number - 1:  plot.ColorHigh,
				f.Summary.LeastFrequent.Number - 1: plot.ColorLow,
			},
			Reference: &plot.Reference{
				Value: f.Summary.Expected,
				Label: fmt.Sprintf("expected %.1f", f.Summary.Expected),
			},
		}},
	}
}

func DelayFigure(d *DelayAnalysis) plot.Figure {
	current := make([]float64, len(d.Numbers))
	mean := make([]float64, len(d.Numbers))
	for i, n := range d.Numbers {
		current[i] = float64(n.Current)
		mean[i] = n.Mean
	}
	return plot.Figure{
		Width:       1200,
		PanelHeight: 420,
		Panels: []plot.Panel{
			plot.BarChart{
				Title:  "Current delay",
				XLabel: "Number",
				YLabel: "Draws since last seen",
				Labels: numberLabels(),
				Values: current,
				Color:  plot.ColorAccent,
				Colors: map[int]color.Color{d.General.MostDelayed.Number - 1: plot.ColorLow},
			},
			plot.BarChart{
				Title:  "Mean historical delay",
				XLabel: "Number",
				YLabel: "Mean gap",
				Labels: numberLabels(),
				Values: mean,
			},
		},
	}
}

func PatternFigure(p *PatternAnalysis) plot.Figure {
	digits := make([]float64, len(p.LastDigits))
	labels := make([]string, len(p.LastDigits))
	for d, c := range p.LastDigits {
		digits[d] = float64(c)
		labels[d] = strconv.Itoa(d)
	}
	return plot.Figure{
		Width:       1200,
		PanelHeight: 480,
		Columns:     2,
		Panels: []plot.Panel{
			plot.Histogram{
				Title:  "Sum of the six numbers",
				XLabel: "Sum",
				YLabel: "Draws",
				Values: numeric.Floats(p.Sums),
				Bins:   30,
			},
			plot.BarChart{
				Title:  "Last digit",
				XLabel: "Digit",
				YLabel: "Frequency",
				Labels: labels,
				Values: digits,
				Color:  plot.ColorHigh,
			},
		},
	}
}

func CorrelationFigure(corr mat.Symmetric) plot.Figure {
	return plot.Figure{
		Width:       900,
		PanelHeight: 860,
		Panels: []plot.Panel{plot.Heatmap{
			Title:  "Correlation between numbers",
			Matrix: Rows(corr),
		}},
	}
}

// Rows copies a symmetric matrix into row slices.
func Rows(m mat.Symmetric) [][]float64 {
	n := m.SymmetricDim()
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
		for j := range out[i] {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}
