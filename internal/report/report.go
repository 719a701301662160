// Package report writes the complete text report: probabilities,
// descriptive statistics, a Monte Carlo run and the randomness tests.
package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/samber/lo"

	"github.com/fystack/megasena-analyzer/internal/analysis/descriptive"
	"github.com/fystack/megasena-analyzer/internal/analysis/montecarlo"
	"github.com/fystack/megasena-analyzer/internal/analysis/probability"
	"github.com/fystack/megasena-analyzer/pkg/common/enum"
	"github.com/fystack/megasena-analyzer/pkg/common/logger"
	"github.com/fystack/megasena-analyzer/pkg/lottery"
)

const (
	DefaultSimulations = 50_000
	FilePrefix         = "complete_report_"
	fileTimeLayout     = "20060102_150405"
	headerTimeLayout   = "02/01/2006 15:04:05"
	topNumbers         = 5
)

type Options struct {
	Dir         string
	Simulations int
	Strategy    enum.Strategy
	Seed        uint64
	Workers     int
	// Now stamps the report; zero means time.Now.
	Now time.Time
}

type Complete struct {
	GeneratedAt time.Time
	Summary     lottery.Summary
	Probability probability.NumberProbabilities
	EvenOdd     []probability.EvenOddProbability
	Frequency   *descriptive.FrequencyAnalysis
	Delay       *descriptive.DelayAnalysis
	Patterns    *descriptive.PatternAnalysis
	MonteCarlo  *montecarlo.Result
	Uniformity  *montecarlo.Uniformity
	Randomness  *montecarlo.Randomness
}

// FileName is complete_report_YYYYMMDD_HHMMSS.txt for t.
func FileName(t time.Time) string {
	return FilePrefix + t.Format(fileTimeLayout) + ".txt"
}

// Build runs every analysis of the report over the history.
func Build(ctx context.Context, history lottery.History, opts Options) (*Complete, error) {
	draws := history.Numbers()
	if len(draws) == 0 {
		return nil, fmt.Errorf("complete report: %w", lottery.ErrInsufficientData)
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Simulations <= 0 {
		opts.Simulations = DefaultSimulations
	}
	if opts.Strategy == "" {
		opts.Strategy = enum.StrategyBalanced
	}

	logger.Info("Report step", "step", "1/4", "name", "probabilities")
	c := &Complete{
		GeneratedAt: opts.Now,
		Summary:     history.Summary(),
		Probability: probability.Numbers(draws),
		EvenOdd:     probability.EvenOdd(draws),
	}
	var err error

	logger.Info("Report step", "step", "2/4", "name", "descriptive statistics")
	if c.Frequency, err = descriptive.Frequency(draws); err != nil {
		return nil, err
	}
	if c.Delay, err = descriptive.Delay(draws); err != nil {
		return nil, err
	}
	if c.Patterns, err = descriptive.Patterns(draws); err != nil {
		return nil, err
	}

	logger.Info("Report step", "step", "3/4", "name", "monte carlo")
	c.MonteCarlo, err = montecarlo.Simulate(ctx, montecarlo.Config{
		Count:    opts.Simulations,
		Strategy: opts.Strategy,
		Seed:     opts.Seed,
		Workers:  opts.Workers,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Report step", "step", "4/4", "name", "randomness tests")
	if c.Uniformity, err = montecarlo.UniformityTest(draws); err != nil {
		return nil, err
	}
	if c.Randomness, err = montecarlo.RandomnessTests(draws); err != nil {
		return nil, err
	}
	return c, nil
}

// Save builds the report and writes it to opts.Dir. It returns the file path.
func Save(ctx context.Context, history lottery.History, opts Options) (string, error) {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	c, err := Build(ctx, history, opts)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		return "", err
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", opts.Dir, err)
	}
	path := filepath.Join(opts.Dir, FileName(c.GeneratedAt))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	logger.Info("Report saved", "path", path)
	return path, nil
}

// WriteTo renders the report as plain text.
func (c *Complete) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	p := func(format string, args ...any) {
		fmt.Fprintf(cw, format, args...)
	}

	p("MEGA-SENA COMPLETE ANALYSIS REPORT\n")
	p("%s\n", strings.Repeat("=", 50))
	p("Generated: %s\n", c.GeneratedAt.Format(headerTimeLayout))
	p("Draws analyzed: %d\n", c.Summary.TotalDraws)
	p("Contests: #%d (%s) to #%d (%s)\n\n",
		c.Summary.FirstContest, c.Summary.FirstDate, c.Summary.LastContest, c.Summary.LastDate)

	section(cw, "PROBABILITY ANALYSIS")
	p("total_combinations: %d\n", probability.TotalCombinations())
	p("probability_specific_combination: %.12f\n", probability.ProbabilitySpecificCombination())
	p("theoretical_number_probability: %.4f\n", c.Probability.Theoretical)
	p("draws_analyzed: %d\n", c.Probability.DrawsAnalyzed)
	if len(c.Probability.Numbers) > 0 {
		hottest := lo.MaxBy(c.Probability.Numbers, func(a, b probability.NumberProbability) bool {
			return a.Empirical > b.Empirical
		})
		coldest := lo.MinBy(c.Probability.Numbers, func(a, b probability.NumberProbability) bool {
			return a.Empirical < b.Empirical
		})
		p("highest_empirical: %d (%.4f%%)\n", hottest.Number, hottest.Empirical*100)
		p("lowest_empirical: %d (%.4f%%)\n", coldest.Number, coldest.Empirical*100)
	}
	tw := tabwriter.NewWriter(cw, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "even/odd\ttheoretical\tobserved\toccurrences")
	for _, e := range c.EvenOdd {
		fmt.Fprintf(tw, "%s\t%.2f%%\t%.2f%%\t%d\n", e.Label(), e.Theoretical*100, e.Empirical*100, e.Occurrences)
	}
	tw.Flush()

	p("\n")
	section(cw, "DESCRIPTIVE STATISTICS")
	fs := c.Frequency.Summary
	p("Frequency mean: %.2f  median: %.2f  std dev: %.2f  cv: %.4f\n", fs.Mean, fs.Median, fs.StdDev, fs.CV)
	p("Expected frequency: %.2f\n", fs.Expected)
	p("Most frequent: %d (%d times)\n", fs.MostFrequent.Number, fs.MostFrequent.Count)
	p("Least frequent: %d (%d times)\n", fs.LeastFrequent.Number, fs.LeastFrequent.Count)
	p("Top %d: %s\n", topNumbers, countList(c.Frequency.TopMost, topNumbers))
	p("Bottom %d: %s\n", topNumbers, countList(c.Frequency.TopLeast, topNumbers))
	dg := c.Delay.General
	p("Mean delay: %.2f draws  max historical: %d  mean current: %.2f\n", dg.MeanDelay, dg.MaxHistorical, dg.MeanCurrent)
	p("Most delayed: %d (%d draws)\n", dg.MostDelayed.Number, dg.MostDelayed.Count)
	ps := c.Patterns.Stats
	p("Mean consecutive pairs: %.2f\n", ps.MeanConsecutive)
	p("Sum mean: %.2f (std %.2f, min %d, max %d)\n", ps.SumMean, ps.SumStdDev, ps.SumMin, ps.SumMax)
	p("Spread mean: %.2f\n", ps.SpreadMean)
	p("Draws with a first-decade number: %.1f%%\n", ps.FirstDecadePct)
	p("Draws with a last-decade number: %.1f%%\n", ps.LastDecadePct)

	p("\n")
	section(cw, "MONTE CARLO SIMULATION")
	mc := c.MonteCarlo
	p("Simulations: %d (strategy %s, seed %d)\n", mc.Simulations, mc.Strategy, mc.Seed)
	if len(mc.Ticket) > 0 {
		p("Ticket: %s\n", formatNumbers(mc.Ticket))
	}
	p("Best result: %d matches\n", mc.Best)
	p("Mean matches: %.3f\n", mc.Stats.Mean)
	tw = tabwriter.NewWriter(cw, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "matches\tcount\tobserved\ttheoretical")
	for k, n := range mc.MatchCounts {
		fmt.Fprintf(tw, "%d\t%d\t%.4f%%\t%.4f%%\n", k, n, mc.Stats.Observed[k]*100, mc.Stats.Theoretical[k]*100)
	}
	tw.Flush()

	p("\n")
	section(cw, "RANDOMNESS TESTS")
	u := c.Uniformity
	p("Chi-square: %.2f (dof %d, p-value %.4f)\n", u.ChiSquare, u.DegreesOfFreedom, u.PValue)
	p("Uniformity: %s (%s)\n", u.Verdict.Level, u.Verdict.Conclusion)
	r := c.Randomness
	p("Runs test: z=%.3f p=%.4f random=%t\n", r.Runs.Z, r.Runs.PValue, r.Runs.Random)
	p("Max autocorrelation: %.4f independent=%t\n", r.Autocorrelation.Max, r.Autocorrelation.Independent)
	return cw.n, cw.err
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "%s\n%s\n", title, strings.Repeat("-", 30))
}

func countList(counts []lottery.NumberCount, k int) string {
	parts := lo.Map(counts[:min(k, len(counts))], func(c lottery.NumberCount, _ int) string {
		return fmt.Sprintf("%02d(%d)", c.Number, c.Count)
	})
	return strings.Join(parts, " ")
}

func formatNumbers(nums []int) string {
	parts := lo.Map(nums, func(n int, _ int) string { return fmt.Sprintf("%02d", n) })
	return strings.Join(parts, " - ")
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
