package caixa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fystack/megasena-analyzer/internal/pool"
	"github.com/fystack/megasena-analyzer/pkg/common/config"
	"github.com/fystack/megasena-analyzer/pkg/common/logger"
	"github.com/fystack/megasena-analyzer/pkg/lottery"
	"github.com/fystack/megasena-analyzer/pkg/ratelimiter"
	"github.com/fystack/megasena-analyzer/pkg/retry"
)

var ErrNotFound = errors.New("draw not found")

// Client reads published draws from the lottery results API.
type Client interface {
	LatestContest(ctx context.Context) (int, error)
	Draw(ctx context.Context, contest int) (lottery.Draw, error)
}

type HTTPError struct {
	URL    string
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d from %s: %s", e.Status, e.URL, e.Body)
}

type client struct {
	httpClient  *http.Client
	mirrors     *pool.Pool
	rateLimiter *ratelimiter.PooledRateLimiter
	retry       retry.ExponentialConfig
}

func NewClient(cfg config.SourceConfig) Client {
	urls := make([]string, 0, len(cfg.URLs))
	for _, u := range cfg.URLs {
		urls = append(urls, strings.TrimSuffix(u, "/"))
	}
	return &client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		mirrors:     pool.New(urls, cfg.FailureCooldown),
		rateLimiter: ratelimiter.NewPooledRateLimiter(cfg.Throttle.RPS, cfg.Throttle.Burst),
		retry: retry.ExponentialConfig{
			InitialInterval: max(cfg.RetryDelay, time.Millisecond),
			MaxInterval:     5 * time.Second,
			MaxAttempts:     uint64(max(cfg.MaxRetries, 0)) + 1,
			MaxElapsedTime:  time.Minute,
		},
	}
}

func (c *client) LatestContest(ctx context.Context) (int, error) {
	res, err := c.get(ctx, "/")
	if err != nil {
		return 0, fmt.Errorf("latest contest: %w", err)
	}
	if res.Numero == nil || *res.Numero <= 0 {
		return 0, fmt.Errorf("latest contest: %w", ErrNotFound)
	}
	return *res.Numero, nil
}

func (c *client) Draw(ctx context.Context, contest int) (lottery.Draw, error) {
	res, err := c.get(ctx, "/"+strconv.Itoa(contest))
	if err != nil {
		return lottery.Draw{}, fmt.Errorf("contest %d: %w", contest, err)
	}
	if res.Numero == nil {
		return lottery.Draw{}, fmt.Errorf("contest %d: %w", contest, ErrNotFound)
	}
	return res.ToDraw(), nil
}

// get retries endpoint across mirrors. A 404 or an undecodable body is
// permanent; transport errors and other statuses are retried on the next
// mirror.
func (c *client) get(ctx context.Context, endpoint string) (*Result, error) {
	var res *Result
	op := func() error {
		mirror := c.mirrors.GetNext()
		if mirror == "" {
			return retry.Permanent(errors.New("no source url configured"))
		}
		data, err := c.do(ctx, mirror, endpoint)
		if err != nil {
			var herr *HTTPError
			if errors.As(err, &herr) && herr.Status == http.StatusNotFound {
				return retry.Permanent(ErrNotFound)
			}
			if ctx.Err() != nil {
				return retry.Permanent(ctx.Err())
			}
			c.mirrors.MarkFailed(mirror)
			return err
		}
		c.mirrors.MarkHealthy(mirror)

		res, err = decodeResult(data)
		if err != nil {
			return retry.Permanent(err)
		}
		return nil
	}

	cfg := c.retry
	cfg.OnRetry = func(err error, next time.Duration) {
		logger.Debug("Retrying request", "endpoint", endpoint, "next", next, "err", err)
	}
	if err := retry.Exponential(ctx, op, cfg); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *client) do(ctx context.Context, mirror, endpoint string) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx, mirror); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	url := mirror + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	logger.Debug("HTTP request completed", "url", url, "status", resp.StatusCode, "elapsed", time.Since(start))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{URL: url, Status: resp.StatusCode, Body: truncate(string(data), 200)}
	}
	return data, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
