package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/fystack/megasena-analyzer/internal/analysis/gametheory"
	"github.com/fystack/megasena-analyzer/internal/analysis/timeseries"
	"github.com/fystack/megasena-analyzer/internal/report"
	"github.com/fystack/megasena-analyzer/pkg/common/utils"
	"github.com/fystack/megasena-analyzer/pkg/lottery"
)

var metricNames = map[timeseries.Metric]string{
	timeseries.MetricSum:   "Sum of numbers",
	timeseries.MetricMax:   "Highest number",
	timeseries.MetricEven:  "Even count",
	timeseries.MetricRange: "Range",
}

func newTimeSeriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "timeseries",
		Short: "Trend, seasonality, cycle and anomaly analysis over draw dates",
		RunE: func(*cobra.Command, []string) error {
			return a.timeSeries()
		},
	}
}

func newGameTheoryCmd(a *app) *cobra.Command {
	var (
		target int
		seed   uint64
	)
	cmd := &cobra.Command{
		Use:   "gametheory",
		Short: "Optimized, Nash, minimax, portfolio and cluster ticket strategies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("numbers") {
				target = a.cfg.Game.TargetNumbers
			}
			return a.gameTheory(cmd.Context(), target, seed)
		},
	}
	cmd.Flags().IntVarP(&target, "numbers", "k", lottery.MinBetSize, "numbers per ticket (6-15)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for the random starts, 0 picks one")
	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	var simulations int
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the complete text report to the data directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.completeReport(cmd.Context(), simulations)
		},
	}
	cmd.Flags().IntVarP(&simulations, "simulations", "n", report.DefaultSimulations, "Monte Carlo draws in the report")
	return cmd
}

func (a *app) timeSeries() error {
	a.header("TIME SERIES ANALYSIS")
	h, err := a.loadHistory()
	if err != nil {
		return err
	}

	a.println("🕒 Running time series analysis...")
	res, err := timeseries.Report(h.Ordered(), a.plotDir())
	if err != nil {
		return err
	}

	s := res.Summary
	a.println("\n📋 SUMMARY:")
	a.printf("   📊 Draws analyzed: %d\n", s.TotalDraws)
	a.printf("   📅 Period: %s to %s\n", s.Start.Format(lottery.DateLayout), s.End.Format(lottery.DateLayout))
	a.printf("   📈 Overall trend: %s\n", s.OverallTrend)
	a.printf("   🔄 Seasonality detected: %s\n", checkmark(s.SeasonalityDetected, "yes", "no"))
	a.printf("   ⚠️ Outliers detected: %d\n", s.OutliersDetected)
	a.printf("   📊 Decomposition quality: %.3f\n", s.DecompositionQuality)

	d := res.Decomposition
	a.println("\n🧬 DECOMPOSITION:")
	a.printf("   📈 Trend slope: %.4f\n", d.TrendSlope)
	a.printf("   🔄 Seasonal strength: %.3f\n", d.SeasonalStrength)
	a.printf("   📊 Noise level: %.2f\n", d.NoiseLevel)

	a.println("\n📈 TRENDS:")
	for _, t := range res.Trends {
		name := lo.ValueOr(metricNames, t.Metric, string(t.Metric))
		sig := "❌"
		if t.Significant {
			sig = "✅"
		}
		a.printf("   📊 %s: %s (strength %.3f) %s\n", name, t.Direction, t.Strength, sig)
	}

	if ss := res.Seasonal.Summary; len(res.Seasonal.Monthly) > 0 {
		a.println("\n🗓️ SEASONAL PATTERNS:")
		a.printf("   📈 Highest mean sum month: %s\n", time.Month(ss.HighestSumMonth))
		a.printf("   📉 Lowest mean sum month: %s\n", time.Month(ss.LowestSumMonth))
		a.printf("   📊 Most variable month: %s\n", time.Month(ss.MostVariableMonth))
		a.printf("   📏 Least variable month: %s\n", time.Month(ss.LeastVariableMonth))
	}

	a.println("\n🔄 CYCLES:")
	found := false
	for _, c := range res.Cycles {
		if len(c.DominantPeriods) == 0 {
			continue
		}
		found = true
		periods := lo.Map(c.DominantPeriods[:min(3, len(c.DominantPeriods))], func(p float64, _ int) string {
			return fmt.Sprintf("%.1f", p)
		})
		a.printf("   📊 %s: dominant periods %v draws\n", c.Metric, periods)
	}
	if !found {
		a.println("   📊 No dominant cycle detected")
	}

	outliers := lo.SumBy(res.Anomalies, func(x timeseries.Anomaly) int { return len(x.Outliers) })
	extremes := lo.SumBy(res.Anomalies, func(x timeseries.Anomaly) int { return len(x.Extremes) })
	a.println("\n⚠️ ANOMALIES:")
	a.printf("   📊 Total outliers: %d\n", outliers)
	a.printf("   🔴 Extreme values: %d\n", extremes)
	if outliers > 0 && s.TotalDraws > 0 {
		a.printf("   📈 Outlier share: %.2f%%\n", float64(outliers)/float64(s.TotalDraws)*100)
	}

	dir := a.plotDir()
	if dir != "" {
		dir = filepath.Join(dir, timeseries.PlotSubdir)
	}
	a.printPlots(res.Plots, dir)

	q := res.DataQuality
	a.println("\n📋 DATA QUALITY:")
	a.printf("   ✅ Completeness: %.1f%%\n", q.Completeness*100)
	a.printf("   📅 Dated draws: %.1f%%\n", q.Dated*100)
	a.printf("   📅 Coverage: %s\n", q.Coverage)
	return nil
}

func (a *app) gameTheory(ctx context.Context, target int, seed uint64) error {
	a.header("GAME THEORY AND STRATEGIES")
	h, err := a.loadHistory()
	if err != nil {
		return err
	}
	cost, err := a.loadPricing().GameCost(target)
	if err != nil {
		return err
	}
	a.printf("✅ Strategies for %d numbers\n", target)
	a.printf("💰 Cost: %s (%d combinations)\n", utils.FormatBRL(cost.Total), cost.Combinations)
	a.println("🎲 Running game theory analysis...")

	res, err := gametheory.Report(ctx, h.Numbers(), target, seed, a.plotDir())
	if err != nil {
		return err
	}

	s := res.Summary
	a.colored(colorCyan, "\n📋 SUMMARY:")
	a.printf("   📊 Draws analyzed: %d\n", s.TotalDraws)
	a.printf("   🎯 Strategies generated: %d\n", s.StrategiesGenerated)
	a.printf("   📈 Best Sharpe ratio: %.3f\n", s.BestSharpe)
	a.printf("   🏆 Recommended: %v\n", s.Recommended)

	a.colored(colorCyan, "\n🎯 OPTIMIZED STRATEGIES:")
	for _, st := range res.Optimal {
		a.printf("   📊 %s: %v\n", st.Name, st.Numbers)
		a.printf("      📝 %s\n", st.Description)
		a.printf("      📈 Score: %.3f\n", st.Score)
	}

	a.colored(colorCyan, "\n⚖️ NASH EQUILIBRIUM:")
	for _, n := range res.Nash {
		a.printf("   🎯 Player %s: %v\n", n.Name, n.Numbers)
		a.printf("      📊 Utility: %.3f\n", n.Utility)
		a.printf("      ⚖️ Weights: freq=%.1f, corr=%.1f\n", n.FreqWeight, n.CorrWeight)
	}

	a.colored(colorCyan, "\n🛡️ MINIMAX (lowest risk):")
	a.printf("   📊 Numbers: %v\n", res.Minimax.Numbers)
	a.printf("   ⚠️ Max risk: %.3f\n", res.Minimax.MaxRisk)

	if len(res.Portfolios) > 0 {
		a.colored(colorCyan, "\n💼 PORTFOLIOS:")
		for _, p := range res.Portfolios {
			a.printf("   📈 Portfolio #%d: %v\n", p.Combination, p.Numbers)
			a.printf("      📊 Expected return: %.3f\n", p.ExpectedReturn)
			a.printf("      ⚠️ Risk: %.3f\n", p.Risk)
			a.printf("      📈 Sharpe ratio: %.3f\n", p.Sharpe)
		}
	}

	a.colored(colorCyan, "\n🎯 CLUSTER STRATEGY:")
	a.printf("   📊 Numbers: %v\n", res.Cluster.Numbers)
	a.printf("   🔄 Clusters: %d\n", res.Cluster.K)

	ins := res.Insights
	a.colored(colorCyan, "\n🔗 CORRELATION INSIGHTS:")
	a.printf("   📊 Mean lift: %.4f\n", ins.Mean)
	a.printf("   📏 Std dev: %.4f\n", ins.StdDev)
	a.println("   🔴 Most correlated pairs:")
	for _, p := range ins.MostPositive[:min(3, len(ins.MostPositive))] {
		a.printf("      📊 %d-%d: %.4f\n", p.Pair[0], p.Pair[1], p.Correlation)
	}
	a.println("   🔵 Least correlated pairs:")
	for _, p := range ins.MostNegative[:min(3, len(ins.MostNegative))] {
		a.printf("      📊 %d-%d: %.4f\n", p.Pair[0], p.Pair[1], p.Correlation)
	}

	cmp := res.Comparison
	if rec := cmp.Recommendation; rec != nil {
		a.colored(colorCyan, "\n🏆 RECOMMENDATION:")
		a.printf("   🎯 Strategy: %s\n", rec.Strategy)
		a.printf("   📊 Numbers: %v\n", rec.Numbers)
		a.printf("   ⭐ Score: %.1f/%.0f\n", rec.Score, rec.MaxScore)
		a.printf("   📝 %s\n", rec.Reasoning)
	}
	a.printf("\n   🌟 Unique numbers across strategies: %d\n", cmp.UniqueNumbers)

	dir := a.plotDir()
	if dir != "" {
		dir = filepath.Join(dir, gametheory.PlotSubdir)
	}
	a.printPlots(res.Plots, dir)
	return nil
}

func (a *app) completeReport(ctx context.Context, simulations int) error {
	a.header("COMPLETE REPORT")
	h, err := a.loadHistory()
	if err != nil {
		return err
	}
	a.println("📝 Building the complete report...")
	path, err := report.Save(ctx, h, report.Options{
		Dir:         a.cfg.Data.Directory,
		Simulations: simulations,
		Seed:        a.cfg.Simulation.Seed,
		Workers:     a.cfg.Simulation.Workers,
	})
	if err != nil {
		return err
	}
	a.colored(colorGreen, "✅ Report saved to %s", path)
	return nil
}
