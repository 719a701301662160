// Package montecarlo simulates Mega-Sena draws and runs the uniformity and
// randomness tests over the real history.
package montecarlo

import (
	"context"
	"errors"
	"fmt"
	"math/bits"
	"math/rand/v2"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/fystack/megasena-analyzer/internal/analysis/numeric"
	"github.com/fystack/megasena-analyzer/pkg/common/enum"
	"github.com/fystack/megasena-analyzer/pkg/common/logger"
	"github.com/fystack/megasena-analyzer/pkg/lottery"
)

const (
	maxMatches = lottery.NumbersPerDraw
	// Workers poll the context every ctxCheckEvery iterations.
	ctxCheckEvery = 4096
)

var ErrInvalidConfig = errors.New("invalid simulation config")

// StrategyTickets are the fixed tickets played by the non-random strategies.
var StrategyTickets = map[enum.Strategy][]int{
	enum.StrategyMostFrequent:  {4, 5, 10, 23, 33, 42},
	enum.StrategyLeastFrequent: {13, 22, 28, 36, 47, 59},
	enum.StrategyBalanced:      {7, 14, 25, 32, 41, 58},
}

type Config struct {
	Count    int
	Strategy enum.Strategy
	// Custom is the ticket for StrategyCustom.
	Custom []int
	// Seed 0 picks a random seed, reported back in Result.Seed.
	Seed    uint64
	Workers int
}

type BestResult struct {
	Iteration int   `json:"iteration"`
	Matches   int   `json:"matches"`
	Winning   []int `json:"winning"`
}

type Stats struct {
	Mean        float64         `json:"mean"`
	StdDev      float64         `json:"std_dev"`
	Median      float64         `json:"median"`
	Mode        int             `json:"mode"`
	Percentiles map[int]float64 `json:"percentiles"`
	Observed    []float64       `json:"observed"`
	Theoretical []float64       `json:"theoretical"`
}

type Result struct {
	Simulations int           `json:"simulations"`
	Strategy    enum.Strategy `json:"strategy"`
	Ticket      []int         `json:"ticket,omitempty"`
	Seed        uint64        `json:"seed"`
	Workers     int           `json:"workers"`
	// MatchCounts[k] is how many iterations matched exactly k numbers.
	MatchCounts  []int         `json:"match_counts"`
	Best         int           `json:"best"`
	BestHistory  []BestResult  `json:"best_history"`
	NumberCounts []int         `json:"number_counts"`
	Elapsed      time.Duration `json:"elapsed"`
	Stats        Stats         `json:"stats"`
}

// Percentiles reported by Simulate.
var Percentiles = []int{25, 50, 75, 90, 95}

// Simulate plays Count random draws against the strategy's ticket. The
// iterations are split into contiguous chunks, one per worker, each with its
// own PCG stream, so a given seed and worker count always give the same
// result.
func Simulate(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Count <= 0 {
		return nil, fmt.Errorf("%w: count must be positive", ErrInvalidConfig)
	}
	if cfg.Strategy == "" {
		cfg.Strategy = enum.StrategyRandom
	}
	ticket, err := strategyTicket(cfg)
	if err != nil {
		return nil, err
	}
	workers := min(max(cfg.Workers, 1), cfg.Count)
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	logger.Info("Monte Carlo simulation started",
		"iterations", cfg.Count,
		"strategy", cfg.Strategy,
		"workers", workers,
		"seed", seed,
	)
	start := time.Now()

	tallies := make([]*tally, workers)
	chunk := (cfg.Count + workers - 1) / workers
	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		from := w * chunk
		to := min(from+chunk, cfg.Count)
		t := newTally()
		tallies[w] = t
		rng := rand.New(rand.NewPCG(seed, uint64(w)))
		g.Go(func() error {
			return t.run(ctx, rng, ticket, from, to)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("simulation aborted: %w", err)
	}

	res := &Result{
		Simulations:  cfg.Count,
		Strategy:     cfg.Strategy,
		Ticket:       ticket,
		Seed:         seed,
		Workers:      workers,
		MatchCounts:  make([]int, maxMatches+1),
		NumberCounts: make([]int, lottery.TotalNumbers+1),
	}
	var records []BestResult
	for _, t := range tallies {
		for k, c := range t.matches {
			res.MatchCounts[k] += c
		}
		for n, c := range t.numbers {
			res.NumberCounts[n] += c
		}
		records = append(records, t.records...)
	}
	res.BestHistory = bestHistory(records)
	if len(res.BestHistory) > 0 {
		res.Best = res.BestHistory[len(res.BestHistory)-1].Matches
	}
	res.Elapsed = time.Since(start)
	res.Stats = matchStats(res.MatchCounts)

	logger.Info("Monte Carlo simulation finished",
		"elapsed", res.Elapsed,
		"best", res.Best,
		"mean", res.Stats.Mean,
	)
	return res, nil
}

func strategyTicket(cfg Config) ([]int, error) {
	switch cfg.Strategy {
	case enum.StrategyRandom:
		return nil, nil
	case enum.StrategyCustom:
		if len(cfg.Custom) < lottery.NumbersPerDraw {
			return nil, fmt.Errorf("%w: custom ticket needs %d numbers", ErrInvalidConfig, lottery.NumbersPerDraw)
		}
		ticket := slices.Clone(cfg.Custom[:lottery.NumbersPerDraw])
		if err := lottery.ValidateNumbers(ticket, lottery.NumbersPerDraw); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		slices.Sort(ticket)
		return ticket, nil
	}
	ticket, ok := StrategyTickets[cfg.Strategy]
	if !ok {
		return nil, fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, cfg.Strategy)
	}
	return slices.Clone(ticket), nil
}

type tally struct {
	matches []int
	numbers []int
	records []BestResult
}

func newTally() *tally {
	return &tally{
		matches: make([]int, maxMatches+1),
		numbers: make([]int, lottery.TotalNumbers+1),
	}
}

func (t *tally) run(ctx context.Context, rng *rand.Rand, ticket []int, from, to int) error {
	var pool [lottery.TotalNumbers]int
	for i := range pool {
		pool[i] = i + 1
	}
	fixed := mask(ticket)
	best := 0
	for i := from; i < to; i++ {
		if (i-from)%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		winning := sample(rng, &pool, lottery.NumbersPerDraw)
		for _, n := range winning {
			t.numbers[n]++
		}
		drawn := mask(winning)
		player := fixed
		if ticket == nil {
			player = mask(sample(rng, &pool, lottery.NumbersPerDraw))
		}
		m := bits.OnesCount64(drawn & player)
		t.matches[m]++
		if m > best {
			best = m
			t.records = append(t.records, BestResult{Iteration: i, Matches: m, Winning: unmask(drawn)})
		}
	}
	return nil
}

// sample runs a partial Fisher-Yates shuffle over pool and returns its first
// k entries. The slice aliases pool and is only valid until the next call.
func sample(rng *rand.Rand, pool *[lottery.TotalNumbers]int, k int) []int {
	for i := range k {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}

func mask(nums []int) uint64 {
	var m uint64
	for _, n := range nums {
		m |= 1 << uint(n)
	}
	return m
}

func unmask(m uint64) []int {
	out := make([]int, 0, bits.OnesCount64(m))
	for n := 1; n <= lottery.TotalNumbers; n++ {
		if m&(1<<uint(n)) != 0 {
			out = append(out, n)
		}
	}
	return out
}

// bestHistory merges per-worker improvements into the sequence a single
// sequential run would have recorded.
func bestHistory(records []BestResult) []BestResult {
	slices.SortFunc(records, func(a, b BestResult) int { return a.Iteration - b.Iteration })
	var out []BestResult
	best := 0
	for _, r := range records {
		if r.Matches > best {
			best = r.Matches
			out = append(out, r)
		}
	}
	return out
}

func matchStats(counts []int) Stats {
	values := make([]float64, len(counts))
	weights := make([]float64, len(counts))
	total := 0
	modeCounts := make(map[int]int, len(counts))
	for k, c := range counts {
		values[k] = float64(k)
		weights[k] = float64(c)
		total += c
		modeCounts[k] = c
	}

	s := Stats{
		Percentiles: make(map[int]float64, len(Percentiles)),
		Observed:    make([]float64, len(counts)),
		Theoretical: make([]float64, len(counts)),
	}
	if total == 0 {
		return s
	}
	s.Mean, s.StdDev = stat.PopMeanStdDev(values, weights)
	s.Median = percentileFromCounts(counts, total, 50)
	s.Mode = numeric.Mode(modeCounts)
	for _, p := range Percentiles {
		s.Percentiles[p] = percentileFromCounts(counts, total, float64(p))
	}
	for k, c := range counts {
		s.Observed[k] = float64(c) / float64(total)
		s.Theoretical[k] = lottery.MatchProbability(k)
	}
	return s
}

// percentileFromCounts is the linear-interpolated percentile of the sample
// where value k occurs counts[k] times.
func percentileFromCounts(counts []int, total int, p float64) float64 {
	pos := p / 100 * float64(total-1)
	lo := int(pos)
	frac := pos - float64(lo)
	a := valueAt(counts, lo)
	if frac == 0 {
		return float64(a)
	}
	b := valueAt(counts, lo+1)
	return float64(a) + frac*float64(b-a)
}

func valueAt(counts []int, idx int) int {
	seen := 0
	for k, c := range counts {
		seen += c
		if idx < seen {
			return k
		}
	}
	return len(counts) - 1
}
