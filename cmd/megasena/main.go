package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fystack/megasena-analyzer/pkg/common/config"
	"github.com/fystack/megasena-analyzer/pkg/common/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger.Error("Command failed", "err", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		debug      bool
	)
	a := &app{}

	root := &cobra.Command{
		Use:           "megasena",
		Short:         "Mega-Sena 6/60 draw history collector and statistical analyzer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelInfo
			if debug {
				level = slog.LevelDebug
			}
			logger.Init(&logger.Options{Level: level, TimeFormat: time.TimeOnly})

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Debug("Config loaded", "path", configPath, "env", cfg.Environment)
			a.init(cfg, cmd.OutOrStdout())
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runMenu(cmd.Context(), cmd.InOrStdin())
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "configs/config.yaml", "path to the yaml config file")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logs")

	root.AddCommand(
		newSyncCmd(a),
		newInfoCmd(a),
		newProbabilityCmd(a),
		newStatsCmd(a),
		newAdvancedCmd(a),
		newPredictCmd(a),
		newTimeSeriesCmd(a),
		newGameTheoryCmd(a),
		newReportCmd(a),
		newCostCmd(a),
		newExportCmd(a),
		newWatchCmd(a),
		&cobra.Command{
			Use:   "menu",
			Short: "Interactive numbered menu",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.runMenu(cmd.Context(), cmd.InOrStdin())
			},
		},
	)
	return root
}
