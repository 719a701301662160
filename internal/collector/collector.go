package collector

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/fystack/megasena-analyzer/internal/caixa"
	"github.com/fystack/megasena-analyzer/pkg/common/config"
	"github.com/fystack/megasena-analyzer/pkg/common/constant"
	"github.com/fystack/megasena-analyzer/pkg/common/logger"
	"github.com/fystack/megasena-analyzer/pkg/events"
	"github.com/fystack/megasena-analyzer/pkg/lottery"
	"github.com/fystack/megasena-analyzer/pkg/store/syncstore"
	"github.com/samber/lo"
)

// Repository persists the full history.
type Repository interface {
	Load() (lottery.History, error)
	SaveAll(h lottery.History) error
}

type Deps struct {
	Client  caixa.Client
	Repo    Repository
	State   syncstore.Store
	Emitter events.Emitter
	Config  config.SourceConfig
	Game    string
}

type Collector struct {
	deps   Deps
	logger *slog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

type UpdateResult struct {
	Latest  int   `json:"latest"`
	Total   int   `json:"total"`
	Fetched []int `json:"fetched"`
	Failed  []int `json:"failed"`
	Updated bool  `json:"updated"`
}

func New(deps Deps) *Collector {
	if deps.Emitter == nil {
		deps.Emitter = events.NewNoopEmitter()
	}
	if deps.Game == "" {
		deps.Game = constant.DefaultSubject
	}
	if deps.Config.Throttle.BatchSize <= 0 {
		deps.Config.Throttle.BatchSize = 50
	}
	if deps.Config.Throttle.Concurrency <= 0 {
		deps.Config.Throttle.Concurrency = 5
	}
	if deps.Config.InitialThreshold <= 0 {
		deps.Config.InitialThreshold = constant.InitialDownloadThreshold
	}
	return &Collector{
		deps:   deps,
		logger: logger.With("component", "collector", "game", deps.Game),
		sleep:  sleepCtx,
	}
}

// NeedsInitialDownload reports whether the local history is empty or lags the
// API by more than the initial threshold.
func (c *Collector) NeedsInitialDownload(local lottery.History, latest int) bool {
	return len(local) == 0 || latest-len(local) > c.deps.Config.InitialThreshold
}

// Update brings the local history up to the latest published contest.
func (c *Collector) Update(ctx context.Context) (*UpdateResult, error) {
	history, err := c.deps.Repo.Load()
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	latest, err := c.deps.Client.LatestContest(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch latest contest: %w", err)
	}
	c.logger.Info("Checking for new draws", "local", len(history), "latest", latest)

	res := &UpdateResult{Latest: latest}

	retried, err := c.retryFailed(ctx, history, res)
	if err != nil {
		return nil, err
	}

	var fetchErr error
	if c.NeedsInitialDownload(history, latest) {
		c.logger.Info("Starting full download", "missing", latest-len(history))
		fetchErr = c.BatchDownload(ctx, history, missingContests(history, latest), res)
	} else {
		fetchErr = c.IncrementalUpdate(ctx, history, latest, res)
	}

	res.Updated = len(res.Fetched) > 0
	res.Total = len(history)
	res.Failed = lo.Filter(lo.Uniq(res.Failed), func(n int, _ int) bool {
		_, ok := history[n]
		return !ok
	})
	slices.Sort(res.Failed)
	if res.Updated {
		if err := c.deps.Repo.SaveAll(history); err != nil {
			return nil, fmt.Errorf("save history: %w", err)
		}
	}
	c.persistState(history, res, retried)

	if fetchErr != nil {
		return res, fetchErr
	}
	c.logger.Info("Sync finished",
		"total", res.Total,
		"fetched", len(res.Fetched),
		"failed", len(res.Failed),
	)
	return res, nil
}

// IncrementalUpdate fetches contests after the newest local one. Small gaps
// are fetched one by one, larger gaps go through the batch path.
func (c *Collector) IncrementalUpdate(ctx context.Context, history lottery.History, latest int, res *UpdateResult) error {
	from := history.MaxContest() + 1
	if from > latest {
		c.logger.Info("History already up to date", "latest", latest)
		return nil
	}
	contests := lo.RangeFrom(from, latest-from+1)
	if len(contests) > constant.SequentialUpdateLimit {
		return c.BatchDownload(ctx, history, contests, res)
	}

	c.logger.Info("Fetching new draws", "from", from, "to", latest)
	for _, contest := range contests {
		d, err := c.deps.Client.Draw(ctx, contest)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("Failed to fetch draw", "contest", contest, "err", err)
			res.Failed = append(res.Failed, contest)
			continue
		}
		c.ingest(history, d, res)
		if err := c.sleep(ctx, c.deps.Config.BatchPause); err != nil {
			return err
		}
	}
	return nil
}

// ingest validates and stores d, then publishes it.
func (c *Collector) ingest(history lottery.History, d lottery.Draw, res *UpdateResult) {
	if err := lottery.Validate(d); err != nil {
		c.logger.Warn("Discarding invalid draw", "contest", d.Contest, "err", err)
		res.Failed = append(res.Failed, d.Contest)
		return
	}
	if !history.Add(d) {
		return
	}
	res.Fetched = append(res.Fetched, d.Contest)
	if err := c.deps.Emitter.EmitDraw(d); err != nil {
		c.logger.Warn("Failed to publish draw", "contest", d.Contest, "err", err)
	}
}

// retryFailed refetches contests that failed on an earlier run.
func (c *Collector) retryFailed(ctx context.Context, history lottery.History, res *UpdateResult) ([]int, error) {
	if c.deps.State == nil {
		return nil, nil
	}
	failed, err := c.deps.State.GetFailedContests(c.deps.Game)
	if err != nil {
		c.logger.Warn("Failed to read failed contests", "err", err)
		return nil, nil
	}
	pending := lo.Filter(failed, func(n int, _ int) bool {
		_, ok := history[n]
		return !ok && n <= res.Latest
	})
	if len(pending) == 0 {
		return failed, nil
	}

	c.logger.Info("Retrying previously failed contests", "count", len(pending))
	fetched, missed, err := c.DownloadBatchParallel(ctx, pending)
	if err != nil {
		return nil, err
	}
	for _, contest := range sortedKeys(fetched) {
		c.ingest(history, fetched[contest], res)
	}
	res.Failed = append(res.Failed, missed...)
	return failed, nil
}

func (c *Collector) persistState(history lottery.History, res *UpdateResult, previouslyFailed []int) {
	if c.deps.State == nil {
		return
	}
	game := c.deps.Game

	recovered := lo.Filter(previouslyFailed, func(n int, _ int) bool {
		_, ok := history[n]
		return ok
	})
	if err := c.deps.State.RemoveFailedContests(game, recovered); err != nil {
		c.logger.Warn("Failed to clear recovered contests", "err", err)
	}
	if err := c.deps.State.SaveFailedContests(game, res.Failed); err != nil {
		c.logger.Warn("Failed to save failed contests", "err", err)
	}
	if latest := history.MaxContest(); latest > 0 {
		if err := c.deps.State.SaveLatestContest(game, latest); err != nil {
			c.logger.Warn("Failed to save latest contest", "err", err)
		}
	}
	if err := c.deps.State.SaveLastSync(game, time.Now()); err != nil {
		c.logger.Warn("Failed to save sync time", "err", err)
	}
}

func missingContests(history lottery.History, latest int) []int {
	out := make([]int, 0, max(latest-len(history), 0))
	for n := 1; n <= latest; n++ {
		if _, ok := history[n]; !ok {
			out = append(out, n)
		}
	}
	return out
}

func sortedKeys(m map[int]lottery.Draw) []int {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
