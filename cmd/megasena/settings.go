package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/fystack/megasena-analyzer/internal/export"
	"github.com/fystack/megasena-analyzer/pkg/common/enum"
	"github.com/fystack/megasena-analyzer/pkg/common/logger"
	"github.com/fystack/megasena-analyzer/pkg/common/utils"
	"github.com/fystack/megasena-analyzer/pkg/events"
)

func newCostCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cost [new-price]",
		Short: "Show or set the price of a simple six-number game",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return a.configureCost(input)
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the draw history as csv, json or sqlite",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.export(cmd.Context(), enum.ExportFormat(format), output)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(enum.ExportSQLite), "csv, json or sqlite")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, defaults to the data directory")
	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print draw events published by sync on NATS",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.watch(cmd.Context())
		},
	}
}

// configureCost shows the current price and, when input is not empty,
// validates and persists the new one.
func (a *app) configureCost(input string) error {
	a.header("GAME PRICE")
	pricing := a.loadPricing()
	current := pricing.CostPerGame()
	a.printf("💰 Current game price: %s\n", utils.FormatBRL(current))

	input = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), "R$"))
	if input == "" {
		a.println("\n💰 PRICES BY BET SIZE:")
		for _, gc := range pricing.GameCostTable() {
			a.printf("   %2d numbers: %6d combinations  %s\n", gc.Numbers, gc.Combinations, utils.FormatBRL(gc.Total))
		}
		return nil
	}

	cost, err := parsePrice(input)
	if err != nil {
		return err
	}
	if err := pricing.SetCostPerGame(cost); err != nil {
		return err
	}

	state, err := a.openState()
	if err != nil {
		return err
	}
	defer state.Close()
	if err := state.SaveCostPerGame(cost); err != nil {
		return fmt.Errorf("save cost per game: %w", err)
	}
	a.colored(colorGreen, "✅ Game price updated to %s", utils.FormatBRL(cost))

	a.println("\n📊 IMPACT:")
	a.printf("   💰 Previous: %s\n", utils.FormatBRL(current))
	a.printf("   💰 Current: %s\n", utils.FormatBRL(cost))
	if !current.IsZero() && !cost.Equal(current) {
		pct := cost.Sub(current).Div(current).Mul(decimal.NewFromInt(100)).Abs()
		label := "Increase"
		if cost.LessThan(current) {
			label = "Decrease"
		}
		a.printf("   📈 %s: %s%%\n", label, pct.StringFixed(1))
	}
	return a.printInvestment(investmentGames)
}

// parsePrice accepts "6.50" as well as the Brazilian "1.234,56" form. When a
// comma is present it is the decimal mark and dots group thousands.
func parsePrice(input string) (decimal.Decimal, error) {
	s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), "R$"))
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
	}
	cost, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q, use a number such as 6,00", input)
	}
	return cost, nil
}

func (a *app) export(ctx context.Context, format enum.ExportFormat, output string) error {
	h, err := a.loadHistory()
	if err != nil {
		return err
	}
	if output == "" {
		output = filepath.Join(a.cfg.Data.Directory, "megasena_export"+export.Extension(format))
	}
	n, err := export.Export(ctx, h, format, output)
	if err != nil {
		return err
	}
	a.colored(colorGreen, "✅ %d draws exported to %s", n, output)
	return nil
}

func (a *app) watch(ctx context.Context) error {
	nc, err := a.connectNATS(ctx)
	if err != nil {
		return err
	}
	defer nc.Close()

	subject := events.DrawSubject(a.cfg.NATS.SubjectPrefix)
	sub, err := nc.Subscribe(subject, func(msg *nats.Msg) {
		ev, err := events.Decode(msg.Data)
		if err != nil {
			logger.Error("Decode event failed", "subject", msg.Subject, "err", err)
			return
		}
		d := ev.Data
		a.printf("[%s] #%d %s  %s", ev.Game, d.Contest, d.Date, formatTicket(d.Sorted()))
		if d.Accumulated {
			a.printf("  accumulated %s", utils.FormatBRL(d.AccumulatedValue))
		}
		a.println()
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	defer sub.Unsubscribe()

	logger.Info("Watching draw events, press Ctrl+C to stop", "subject", subject)
	<-ctx.Done()
	return nil
}
