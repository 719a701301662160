package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/fystack/megasena-analyzer/internal/analysis/descriptive"
	"github.com/fystack/megasena-analyzer/internal/analysis/montecarlo"
	"github.com/fystack/megasena-analyzer/internal/analysis/probability"
	"github.com/fystack/megasena-analyzer/pkg/common/enum"
	"github.com/fystack/megasena-analyzer/pkg/common/utils"
	"github.com/fystack/megasena-analyzer/pkg/lottery"
)

const investmentGames = 100

func newProbabilityCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "probability",
		Short: "Basic, per-number and even/odd probabilities plus an investment estimate",
		RunE: func(*cobra.Command, []string) error {
			return a.probability()
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Frequency, delay and pattern statistics with charts",
		RunE: func(*cobra.Command, []string) error {
			return a.stats()
		},
	}
}

type advancedOptions struct {
	simulations int
	strategy    enum.Strategy
	custom      []int
	seed        uint64
}

func newAdvancedCmd(a *app) *cobra.Command {
	var (
		opts     advancedOptions
		strategy string
	)
	cmd := &cobra.Command{
		Use:   "advanced",
		Short: "Monte Carlo simulation plus randomness and uniformity tests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if opts.strategy, err = parseStrategy(strategy); err != nil {
				return err
			}
			if !cmd.Flags().Changed("simulations") {
				opts.simulations = a.cfg.Simulation.Count
			}
			if !cmd.Flags().Changed("seed") {
				opts.seed = a.cfg.Simulation.Seed
			}
			return a.advanced(cmd.Context(), opts)
		},
	}
	cmd.Flags().IntVarP(&opts.simulations, "simulations", "n", 10_000, "number of simulated draws")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", string(enum.StrategyRandom),
		"random, most_frequent, least_frequent, balanced or custom")
	cmd.Flags().IntSliceVar(&opts.custom, "ticket", nil, "ticket numbers for the custom strategy")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed, 0 picks one")
	return cmd
}

type predictOptions struct {
	method enum.PredictionMethod
	count  int
	target int
	seed   uint64
}

func newPredictCmd(a *app) *cobra.Command {
	var (
		opts   predictOptions
		method string
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Generate tickets and check them against the history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.method = enum.PredictionMethod(method)
			if !cmd.Flags().Changed("numbers") {
				opts.target = a.cfg.Game.TargetNumbers
			}
			return a.predict(opts)
		},
	}
	cmd.Flags().StringVarP(&method, "method", "m", string(enum.MethodBalanced),
		"weighted_random, hot_numbers, cold_numbers, balanced or random")
	cmd.Flags().IntVarP(&opts.count, "count", "c", 5, "number of tickets (1-10)")
	cmd.Flags().IntVarP(&opts.target, "numbers", "k", lottery.MinBetSize, "numbers per ticket (6-15)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed, 0 picks one")
	return cmd
}

func (a *app) probability() error {
	a.header("PROBABILITY ANALYSIS")
	h, err := a.loadHistory()
	if err != nil {
		return err
	}
	draws := h.Numbers()

	total := probability.TotalCombinations()
	a.println("\n🎲 BASIC PROBABILITIES:")
	a.printf("   🎯 Possible combinations: %d\n", total)
	a.printf("   🎪 Chance of winning: 1 in %d\n", total)
	a.printf("   📊 Percentage: %.10f%%\n", probability.ProbabilitySpecificCombination()*100)

	a.println("\n🔢 PER NUMBER:")
	numbers := probability.Numbers(draws).Numbers
	byFreq := slices.Clone(numbers)
	slices.SortStableFunc(byFreq, func(x, y probability.NumberProbability) int {
		return y.Frequency - x.Frequency
	})
	a.println("   🔥 5 most frequent:")
	for i, n := range byFreq[:min(5, len(byFreq))] {
		a.printf("      %d. Number %2d: %3d times (%.2f%%)\n", i+1, n.Number, n.Frequency, n.Empirical*100)
	}
	a.println("   ❄️ 5 least frequent:")
	for i, n := range byFreq[max(0, len(byFreq)-5):] {
		a.printf("      %d. Number %2d: %3d times (%.2f%%)\n", i+1, n.Number, n.Frequency, n.Empirical*100)
	}

	a.println("\n⚖️ EVEN/ODD:")
	a.println("   📊 Most likely splits:")
	splits := probability.EvenOdd(draws)
	slices.SortStableFunc(splits, func(x, y probability.EvenOddProbability) int {
		switch {
		case x.Theoretical > y.Theoretical:
			return -1
		case x.Theoretical < y.Theoretical:
			return 1
		}
		return 0
	})
	for i, s := range splits[:min(5, len(splits))] {
		a.printf("      %d. %s: %.2f%% (theoretical) | %.2f%% (observed)\n",
			i+1, s.Label(), s.Theoretical*100, s.Empirical*100)
	}

	a.println("\n📏 RANGES:")
	for _, r := range probability.RangesProbabilities(draws) {
		a.printf("   %-8s %2d-%2d: at least one %.1f%% (theoretical %.1f%%), mean %.2f per draw\n",
			r.Name, r.Min, r.Max, r.EmpiricalAtLeastOne*100, r.TheoreticalAtLeastOne*100, r.MeanPerDraw)
	}

	return a.printInvestment(investmentGames)
}

func (a *app) printInvestment(games int) error {
	pricing := a.loadPricing()
	inv, err := pricing.InvestmentAnalysis(games, decimal.Zero)
	if err != nil {
		return err
	}
	a.println("\n💰 INVESTMENT:")
	a.printf("   💸 Current game price: %s\n", utils.FormatBRL(pricing.CostPerGame()))
	a.printf("   💸 For %d games (%s):\n", inv.Games, utils.FormatBRL(inv.TotalCost))
	a.printf("   🎯 Expected return: %s\n", utils.FormatBRL(inv.ExpectedReturn.Total))
	a.printf("   📈 Expected ROI: %.2f%%\n", inv.ROIPercent)
	a.printf("   🎰 Games needed for one expected sena: %.0f\n", inv.GamesForSena)
	return nil
}

func (a *app) stats() error {
	a.header("DESCRIPTIVE STATISTICS")
	h, err := a.loadHistory()
	if err != nil {
		return err
	}

	a.println("🔍 Running frequency analysis...")
	res, err := descriptive.Report(h.Numbers(), a.plotDir())
	if err != nil {
		return err
	}

	fs := res.Frequency.Summary
	a.println("\n📊 SUMMARY:")
	a.printf("   📈 Mean frequency: %.2f\n", fs.Mean)
	a.printf("   📊 Median frequency: %.2f\n", fs.Median)
	a.printf("   📏 Standard deviation: %.2f\n", fs.StdDev)
	a.printf("   🎯 Expected frequency: %.2f\n", fs.Expected)
	a.printf("   🔥 Most frequent: %d (%d times)\n", fs.MostFrequent.Number, fs.MostFrequent.Count)
	a.printf("   ❄️ Least frequent: %d (%d times)\n", fs.LeastFrequent.Number, fs.LeastFrequent.Count)

	dg := res.Delay.General
	a.println("\n⏰ DELAYS:")
	a.printf("   📊 Mean delay: %.2f draws\n", dg.MeanDelay)
	a.printf("   📈 Longest historical delay: %d draws\n", dg.MaxHistorical)
	a.printf("   🎯 Mean current delay: %.2f draws\n", dg.MeanCurrent)
	a.printf("   🔥 Most delayed now: %d (%d draws)\n", dg.MostDelayed.Number, dg.MostDelayed.Count)

	ps := res.Patterns.Stats
	a.println("\n🔍 PATTERNS:")
	a.printf("   🔗 Mean consecutive pairs: %.2f\n", ps.MeanConsecutive)
	a.printf("   📊 Mean draw sum: %.2f\n", ps.SumMean)
	a.printf("   📏 Mean spread: %.2f\n", ps.SpreadMean)
	a.printf("   🎯 Draws with a first-decade number: %.1f%%\n", ps.FirstDecadePct)
	a.printf("   🎯 Draws with a last-decade number: %.1f%%\n", ps.LastDecadePct)

	a.printPlots(res.Plots, a.plotDir())
	return nil
}

func (a *app) printPlots(plots []string, dir string) {
	switch {
	case dir == "":
		a.println("\n📊 Charts disabled")
	case len(plots) == 0:
		a.colored(colorYellow, "\n⚠️ No chart was written")
	default:
		a.println("\n📊 CHARTS:")
		for _, p := range plots {
			a.printf("   📈 %s\n", p)
		}
		a.colored(colorGreen, "✅ %d charts saved under %s", len(plots), dir)
	}
}

func (a *app) advanced(ctx context.Context, opts advancedOptions) error {
	a.header("ADVANCED PROBABILISTIC ANALYSIS")
	h, err := a.loadHistory()
	if err != nil {
		return err
	}
	draws := h.Numbers()

	mc, err := montecarlo.Simulate(ctx, montecarlo.Config{
		Count:    opts.simulations,
		Strategy: opts.strategy,
		Custom:   opts.custom,
		Seed:     opts.seed,
		Workers:  a.cfg.Simulation.Workers,
	})
	if err != nil {
		return err
	}

	a.printf("\n🎯 SIMULATION RESULTS (%s):\n", mc.Strategy)
	if len(mc.Ticket) > 0 {
		a.printf("   🎫 Ticket: %s\n", formatTicket(mc.Ticket))
	}
	a.printf("   🎲 Simulations: %d (seed %d, %d workers)\n", mc.Simulations, mc.Seed, mc.Workers)
	a.printf("   🏆 Best result: %d matches\n", mc.Best)
	a.printf("   📊 Mean matches: %.3f\n", mc.Stats.Mean)
	a.printf("   ⏱️ Elapsed: %.2fs\n", mc.Elapsed.Seconds())

	a.println("\n📊 MATCH DISTRIBUTION:")
	for k, n := range mc.MatchCounts {
		a.printf("   %d matches: %d times (%.3f%% obs. vs %.3f%% theoretical)\n",
			k, n, mc.Stats.Observed[k]*100, mc.Stats.Theoretical[k]*100)
	}

	r, err := montecarlo.RandomnessTests(draws)
	if err != nil {
		return err
	}
	a.println("\n🔬 RANDOMNESS TESTS:")
	a.printf("   🏃 Runs test: %s (z=%.3f, p=%.4f)\n", checkmark(r.Runs.Random, "random", "not random"), r.Runs.Z, r.Runs.PValue)
	a.printf("   🔗 Autocorrelation: %s\n", checkmark(r.Autocorrelation.Independent, "independent", "possible dependence"))
	a.printf("      📊 Max autocorrelation: %.4f\n", r.Autocorrelation.Max)
	a.printf("   🕳️ Mean gap: %.2f draws (std %.2f)\n", r.Gaps.Mean, r.Gaps.StdDev)
	if len(r.Poker.MostCommon) > 0 {
		top := r.Poker.MostCommon[0]
		a.printf("   🃏 Most common hand: %s (%d draws)\n", top.Hand, top.Count)
	}

	u, err := montecarlo.UniformityTest(draws)
	if err != nil {
		return err
	}
	a.println("\n🎯 UNIFORMITY TEST:")
	a.printf("   📊 Chi-square: %.2f (p=%.4f), CV %.4f\n", u.ChiSquare, u.PValue, u.CV)
	a.printf("   📊 Conclusion: %s\n", u.Verdict.Conclusion)
	a.printf("   📈 Uniformity level: %s\n", u.Verdict.Level)
	return nil
}

func (a *app) predict(opts predictOptions) error {
	a.header("PREDICTION GENERATOR")
	h, err := a.loadHistory()
	if err != nil {
		return err
	}
	if opts.count < 1 || opts.count > 10 {
		opts.count = max(1, min(10, opts.count))
	}
	draws := h.Numbers()

	cost, err := a.loadPricing().GameCost(opts.target)
	if err != nil {
		return err
	}
	a.printf("✅ Tickets of %d numbers\n", opts.target)
	a.printf("💰 Cost per ticket: %s\n", utils.FormatBRL(cost.Total))
	a.printf("📊 Combinations per ticket: %d\n", cost.Combinations)

	tickets, err := montecarlo.NewPredictor(opts.seed).Predictions(draws, opts.method, opts.count, opts.target)
	if err != nil {
		return err
	}

	a.printf("\n🎯 PREDICTIONS - METHOD: %s\n", opts.method.Label())
	a.println(strings.Repeat("=", 50))
	for i, t := range tickets {
		a.printf("   🎫 Ticket %d: %s\n", i+1, formatTicket(t))
	}

	n := decimal.NewFromInt(int64(len(tickets)))
	a.println("\n💰 COST SUMMARY:")
	a.printf("   💸 Cost per ticket: %s\n", utils.FormatBRL(cost.Total))
	a.printf("   💳 Total (%d tickets): %s\n", len(tickets), utils.FormatBRL(cost.Total.Mul(n)))
	a.printf("   🎯 Total combinations: %d\n", cost.Combinations*int64(len(tickets)))

	check := montecarlo.PredictionHistory(draws, tickets)
	a.println("\n📊 HISTORICAL CHECK:")
	a.printf("   🎯 Tickets containing a past result: %d/%d\n", check.Summary.AlreadyDrawn, check.Total)
	a.printf("   🆕 Unseen tickets: %d/%d\n", check.Summary.NeverDrawn, check.Total)
	if check.Summary.AlreadyDrawn > 0 {
		a.colored(colorYellow, "   ⚠️ Some tickets would have hit a past sena!")
	}

	freqs := lottery.Frequencies(draws)
	a.println("\n📊 MOST SUGGESTED NUMBERS:")
	for _, nc := range check.Summary.MostPredicted {
		status := "✅"
		if freqs[nc.Number] == 0 {
			status = "🆕"
		}
		a.printf("      %s %02d: %d time(s) in the tickets, %d times in history\n",
			status, nc.Number, nc.Count, freqs[nc.Number])
	}

	a.println("\n🎲 TICKET COMPOSITION:")
	for i, t := range tickets {
		even := probability.CountEven(t)
		sum := 0
		for _, x := range t {
			sum += x
		}
		a.printf("   🎲 Ticket %d: %dE/%dO, sum %d\n", i+1, even, len(t)-even, sum)
	}
	if nd := check.Summary.NeverDrawnNumbers; len(nd) > 0 {
		a.colored(colorCyan, "\n🆕 Never drawn numbers in the tickets: %s", formatTicket(nd))
	}
	return nil
}

func parseStrategy(s string) (enum.Strategy, error) {
	switch st := enum.Strategy(s); st {
	case enum.StrategyRandom, enum.StrategyCustom, enum.StrategyMostFrequent,
		enum.StrategyLeastFrequent, enum.StrategyBalanced:
		return st, nil
	}
	return "", fmt.Errorf("unknown strategy %q", s)
}
