package gametheory

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strconv"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/fystack/megasena-analyzer/internal/plot"
	"github.com/fystack/megasena-analyzer/pkg/common/logger"
	"github.com/fystack/megasena-analyzer/pkg/lottery"
)

const (
	PlotSubdir       = "game_theory"
	CorrelationChart = "correlation_matrix.png"
	FrequencyChart   = "number_frequencies.png"

	reportPortfolios = 3
)

type Summary struct {
	TotalDraws          int     `json:"total_draws"`
	StrategiesGenerated int     `json:"strategies_generated"`
	BestSharpe          float64 `json:"best_portfolio_sharpe"`
	Recommended         []int   `json:"recommended_numbers"`
}

type Result struct {
	Target     int                 `json:"target_numbers"`
	Summary    Summary             `json:"summary"`
	Optimal    []Strategy          `json:"optimal_strategies"`
	Nash       []NashStrategy      `json:"nash_equilibrium"`
	Minimax    *MinimaxStrategy    `json:"minimax_strategy"`
	Portfolios []Portfolio         `json:"portfolio_optimization"`
	Cluster    *ClusterStrategy    `json:"cluster_strategy"`
	Insights   CorrelationInsights `json:"correlation_insights"`
	Comparison Comparison          `json:"strategy_comparison"`
	Plots      []string            `json:"plots,omitempty"`
}

// Report runs every strategy concurrently and compares them. Charts go to
// plotDir/game_theory when plotDir is set.
func Report(ctx context.Context, history [][]int, target int, seed uint64, plotDir string) (*Result, error) {
	a, err := New(history, target, seed)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res := &Result{Target: target}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		res.Optimal, err = a.OptimalSelection()
		return err
	})
	g.Go(func() (err error) {
		res.Nash, err = a.NashEquilibrium()
		return err
	})
	g.Go(func() (err error) {
		res.Minimax, err = a.Minimax()
		return err
	})
	g.Go(func() (err error) {
		res.Portfolios, err = a.Portfolio(reportPortfolios)
		return err
	})
	g.Go(func() (err error) {
		res.Cluster, err = a.ClusterStrategy(0)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("game theory strategies: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Insights = a.CorrelationInsights()
	res.Comparison = a.CompareStrategies(Candidates(res.Optimal, res.Nash, res.Minimax, res.Portfolios, res.Cluster))
	res.Summary = Summary{
		TotalDraws:          a.Draws(),
		StrategiesGenerated: len(res.Optimal) + len(res.Nash) + 3,
	}
	if len(res.Portfolios) > 0 {
		res.Summary.BestSharpe = res.Portfolios[0].Sharpe
		res.Summary.Recommended = res.Portfolios[0].Numbers
	}
	logger.Debug("Game theory strategies computed",
		"draws", a.Draws(),
		"target", target,
		"unique_numbers", res.Comparison.UniqueNumbers,
	)

	if plotDir != "" {
		res.Plots = a.savePlots(filepath.Join(plotDir, PlotSubdir))
	}
	return res, nil
}

func (a *Analyzer) savePlots(dir string) []string {
	var written []string
	for _, chart := range []struct {
		name string
		fig  plot.Figure
	}{
		{CorrelationChart, a.CorrelationFigure()},
		{FrequencyChart, a.FrequencyFigure()},
	} {
		path := filepath.Join(dir, chart.name)
		if err := chart.fig.Save(path); err != nil {
			logger.Warn("Failed to render chart", "chart", chart.name, "err", err)
			continue
		}
		written = append(written, path)
	}
	return written
}

// CorrelationFigure shows the lower triangle of the lift matrix.
func (a *Analyzer) CorrelationFigure() plot.Figure {
	m := a.Correlations()
	for i := range m {
		for j := i; j < len(m[i]); j++ {
			m[i][j] = math.NaN()
		}
	}
	return plot.Figure{
		Width:       900,
		PanelHeight: 860,
		Panels: []plot.Panel{plot.Heatmap{
			Title:  "Co-occurrence lift between numbers",
			Matrix: m,
		}},
	}
}

// FrequencyFigure marks the most frequent number in red and the least
// frequent in blue against the mean.
func (a *Analyzer) FrequencyFigure() plot.Figure {
	labels := make([]string, lottery.TotalNumbers)
	for i := range labels {
		labels[i] = strconv.Itoa(i + 1)
	}
	mean := stat.Mean(a.freq, nil)
	return plot.Figure{
		Width:       1200,
		PanelHeight: 520,
		Panels: []plot.Panel{plot.BarChart{
			Title:  "Number frequency",
			XLabel: "Number",
			YLabel: "Absolute frequency",
			Labels: labels,
			Values: a.Frequencies(),
			Colors: map[int]color.Color{
				floats.MaxIdx(a.freq): plot.ColorLow,
				floats.MinIdx(a.freq): color.RGBA{R: 25, G: 25, B: 160, A: 255},
			},
			Reference: &plot.Reference{Value: mean, Label: fmt.Sprintf("mean %.1f", mean)},
		}},
	}
}
