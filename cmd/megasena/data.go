package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fystack/megasena-analyzer/internal/caixa"
	"github.com/fystack/megasena-analyzer/internal/collector"
	"github.com/fystack/megasena-analyzer/pkg/common/constant"
	"github.com/fystack/megasena-analyzer/pkg/events"
	"github.com/fystack/megasena-analyzer/pkg/lottery"
)

func newSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Download missing draws from the official results API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.sync(cmd.Context())
		},
	}
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show what is stored locally",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.info()
		},
	}
}

func (a *app) sync(ctx context.Context) error {
	a.header("DATA UPDATE")

	state, err := a.openState()
	if err != nil {
		return err
	}
	defer state.Close()

	emitter := events.NewNoopEmitter()
	if a.cfg.NATS.Enabled {
		nc, err := a.connectNATS(ctx)
		if err != nil {
			return err
		}
		emitter = events.NewEmitter(nc, a.cfg.NATS.SubjectPrefix)
	}
	defer emitter.Close()

	a.colored(colorYellow, "Connecting to the official results API...")
	c := collector.New(collector.Deps{
		Client:  caixa.NewClient(a.cfg.Source),
		Repo:    a.files,
		State:   state,
		Emitter: emitter,
		Config:  a.cfg.Source,
		Game:    constant.DefaultSubject,
	})
	res, err := c.Update(ctx)
	if err != nil {
		return fmt.Errorf("update history: %w", err)
	}

	if res.Updated {
		a.colored(colorGreen, "✅ %d new draws stored", len(res.Fetched))
	} else {
		a.colored(colorBlue, "ℹ️ Data is already up to date")
	}
	if len(res.Failed) > 0 {
		a.colored(colorRed, "⚠️ %d contests failed and will be retried next sync: %v", len(res.Failed), res.Failed)
	}
	if s := emitter.Subject(); s != "" && len(res.Fetched) > 0 {
		a.printf("   📡 Published %d events on %s\n", len(res.Fetched), s)
	}

	a.history = nil
	h, err := a.files.Load()
	if err != nil {
		return err
	}
	if len(h) > 0 {
		a.println("\n📋 DATA SUMMARY:")
		a.printSummary(h.Summary())
	}
	return nil
}

func (a *app) printSummary(s lottery.Summary) {
	a.printf("   📊 Total draws: %d\n", s.TotalDraws)
	a.printf("   🎯 First draw: #%d (%s)\n", s.FirstContest, s.FirstDate)
	a.printf("   🆕 Last draw: #%d (%s)\n", s.LastContest, s.LastDate)
	a.printf("   🔢 Total numbers drawn: %d\n", s.TotalNumbers)
}

func (a *app) info() error {
	a.header("DATA INFORMATION")

	h, err := a.files.Load()
	if err != nil {
		return err
	}
	if len(h) == 0 {
		a.colored(colorYellow, "⚠️ No local data. Run sync first.")
	} else {
		s := h.Summary()
		a.println("📋 HISTORICAL DATA:")
		a.printSummary(s)
		a.printf("   🎲 Unique numbers used: %d\n", s.UniqueNumbers)
		if err := h.Validate(); err != nil {
			a.colored(colorRed, "   ❌ Invalid draws: %v", err)
		}
	}

	a.println("\n📂 FILES:")
	for _, path := range []string{a.files.JSONPath(), a.files.CSVPath()} {
		if _, err := os.Stat(path); err == nil {
			a.printf("   ✅ %s\n", path)
		} else {
			a.printf("   ❌ %s\n", path)
		}
	}

	state, err := a.openState()
	if err != nil {
		return err
	}
	defer state.Close()

	a.println("\n🔄 SYNC STATE:")
	latest, err := state.GetLatestContest(constant.DefaultSubject)
	if err != nil {
		return err
	}
	a.printf("   🆕 Latest synced contest: %d\n", latest)
	if at, err := state.GetLastSync(constant.DefaultSubject); err == nil && !at.IsZero() {
		a.printf("   🕒 Last sync: %s\n", at.Local().Format("02/01/2006 15:04:05"))
	}
	failed, err := state.GetFailedContests(constant.DefaultSubject)
	if err != nil {
		return err
	}
	a.printf("   ⚠️ Pending failed contests: %d\n", len(failed))
	return nil
}
