package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fystack/megasena-analyzer/pkg/common/constant"
	"github.com/fystack/megasena-analyzer/pkg/common/utils"
	"github.com/fystack/megasena-analyzer/pkg/lottery"
	"golang.org/x/sync/errgroup"
)

// DownloadBatchParallel fetches contests with at most Concurrency requests
// in flight. Contests that cannot be fetched are returned in failed; only a
// cancelled context aborts the batch.
func (c *Collector) DownloadBatchParallel(ctx context.Context, contests []int) (map[int]lottery.Draw, []int, error) {
	var (
		mu      sync.Mutex
		fetched = make(map[int]lottery.Draw, len(contests))
		failed  []int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.deps.Config.Throttle.Concurrency)
	for _, contest := range contests {
		g.Go(func() error {
			d, err := c.deps.Client.Draw(gctx, contest)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				c.logger.Debug("Failed to fetch draw", "contest", contest, "err", err)
				failed = append(failed, contest)
				return nil
			}
			fetched[contest] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fetched, failed, err
	}
	return fetched, failed, nil
}

// BatchDownload fetches contests in batches of BatchSize, saving progress
// every few batches so an interrupted download keeps what it got.
func (c *Collector) BatchDownload(ctx context.Context, history lottery.History, contests []int, res *UpdateResult) error {
	if len(contests) == 0 {
		return nil
	}
	batches := utils.ChunkBySize(contests, c.deps.Config.Throttle.BatchSize)
	start := time.Now()

	c.logger.Info("Downloading draws in batches",
		"draws", len(contests),
		"batches", len(batches),
		"batch_size", c.deps.Config.Throttle.BatchSize,
		"workers", c.deps.Config.Throttle.Concurrency,
	)

	for i, batch := range batches {
		fetched, failed, err := c.DownloadBatchParallel(ctx, batch)
		for _, contest := range sortedKeys(fetched) {
			c.ingest(history, fetched[contest], res)
		}
		res.Failed = append(res.Failed, failed...)
		if err != nil {
			c.saveProgress(history)
			return fmt.Errorf("batch %d/%d: %w", i+1, len(batches), err)
		}

		c.logger.Info("Batch done",
			"batch", fmt.Sprintf("%d/%d", i+1, len(batches)),
			"range", fmt.Sprintf("%d-%d", batch[0], batch[len(batch)-1]),
			"fetched", len(fetched),
			"failed", len(failed),
		)

		if (i+1)%constant.SaveEveryBatches == 0 {
			c.saveProgress(history)
			c.logger.Info("Download progress",
				"progress", fmt.Sprintf("%.1f%%", float64(i+1)/float64(len(batches))*100),
				"draws", len(history),
				"elapsed", time.Since(start).Truncate(time.Second),
			)
		}

		if i < len(batches)-1 {
			if err := c.sleep(ctx, c.deps.Config.BatchPause); err != nil {
				c.saveProgress(history)
				return err
			}
		}
	}
	return nil
}

func (c *Collector) saveProgress(history lottery.History) {
	if err := c.deps.Repo.SaveAll(history); err != nil {
		c.logger.Warn("Failed to save progress", "err", err)
		return
	}
	c.logger.Debug("Progress saved", "draws", len(history))
}
