package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/samber/lo"

	"github.com/fystack/megasena-analyzer/internal/analysis/probability"
	"github.com/fystack/megasena-analyzer/pkg/common/config"
	"github.com/fystack/megasena-analyzer/pkg/common/logger"
	"github.com/fystack/megasena-analyzer/pkg/infra"
	"github.com/fystack/megasena-analyzer/pkg/kvstore"
	"github.com/fystack/megasena-analyzer/pkg/lottery"
	"github.com/fystack/megasena-analyzer/pkg/retry"
	"github.com/fystack/megasena-analyzer/pkg/storage"
	"github.com/fystack/megasena-analyzer/pkg/store/syncstore"
)

const (
	natsDialAttempts = 3
	natsDialInterval = 2 * time.Second
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

// app holds what every command shares: config, stores and the output stream.
type app struct {
	cfg     *config.Config
	out     io.Writer
	files   *storage.FileStore
	pricing *probability.Pricing

	history lottery.History
}

func (a *app) init(cfg *config.Config, out io.Writer) {
	a.cfg = cfg
	a.out = out
	a.files = storage.NewFileStore(cfg.JSONPath(), cfg.CSVPath())
	a.pricing = probability.NewPricing()
	a.history = nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *app) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *app) colored(color, format string, args ...any) {
	fmt.Fprintf(a.out, "%s%s%s\n", color, fmt.Sprintf(format, args...), colorReset)
}

func (a *app) header(title string) {
	line := strings.Repeat("=", 60)
	a.printf("\n%s%s%s\n%s%s%s\n%s%s%s\n\n",
		colorCyan, line, colorReset,
		colorBold, centered(title, 60), colorReset,
		colorCyan, line, colorReset)
}

func centered(s string, width int) string {
	pad := (width - len(s)) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}

// loadHistory reads the local history once per app.
func (a *app) loadHistory() (lottery.History, error) {
	if len(a.history) > 0 {
		return a.history, nil
	}
	h, err := a.files.Load()
	if err != nil {
		return nil, err
	}
	if len(h) == 0 {
		return nil, fmt.Errorf("no local draws in %s, run sync first: %w", a.files.JSONPath(), lottery.ErrInsufficientData)
	}
	if err := h.Validate(); err != nil {
		logger.Warn("Local history has invalid draws", "err", err)
	}
	a.history = h
	a.colored(colorGreen, "%d draws loaded", len(h))
	return h, nil
}

func (a *app) openState() (syncstore.Store, error) {
	kv, err := kvstore.NewFromConfig(a.cfg.State)
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}
	return syncstore.New(kv), nil
}

// connectNATS dials the broker, retrying a few times while it starts up.
func (a *app) connectNATS(ctx context.Context) (*nats.Conn, error) {
	var nc *nats.Conn
	err := retry.Constant(ctx, func() error {
		var err error
		nc, err = infra.GetNATSConnection(a.cfg.NATS)
		if err != nil {
			logger.Warn("NATS not reachable", "url", a.cfg.NATS.URL, "err", err)
		}
		return err
	}, natsDialInterval, natsDialAttempts)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return nc, nil
}

// loadPricing applies the persisted cost per game, falling back to config.
func (a *app) loadPricing() *probability.Pricing {
	cost := a.cfg.CostPerGame()
	if state, err := a.openState(); err != nil {
		logger.Warn("Using configured cost per game", "err", err)
	} else {
		stored, ok, err := state.GetCostPerGame()
		switch {
		case err != nil:
			logger.Warn("Read stored cost per game failed", "err", err)
		case ok:
			cost = stored
		}
		state.Close()
	}
	if err := a.pricing.SetCostPerGame(cost); err != nil {
		logger.Warn("Invalid cost per game, keeping default", "cost", cost, "err", err)
	}
	return a.pricing
}

func (a *app) plotDir() string {
	if a.cfg.Plots.Disabled {
		return ""
	}
	return a.cfg.Plots.Directory
}

func formatTicket(nums []int) string {
	return strings.Join(lo.Map(nums, func(n int, _ int) string { return fmt.Sprintf("%02d", n) }), " - ")
}

func checkmark(ok bool, yes, no string) string {
	if ok {
		return "✅ " + yes
	}
	return "❌ " + no
}
