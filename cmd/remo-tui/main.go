// Remo-tui is a terminal dashboard for Nature Remo appliances.
//
// Running without arguments fetches the appliance list from the Nature
// Remo cloud and opens the interactive dashboard. The API token is read
// from NATURE_REMO_CLOUD_API_TOKEN.
//
// Usage:
//
//	remo-tui [command] [flags]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/anyproto/remo-tui/internal/config"
	"github.com/anyproto/remo-tui/internal/source"
	"github.com/anyproto/remo-tui/internal/source/cloud"
	"github.com/anyproto/remo-tui/internal/source/file"
	"github.com/anyproto/remo-tui/internal/telemetry"
	"github.com/anyproto/remo-tui/internal/tui"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var cfg = config.New()

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "remo-tui",
	Short: "Terminal dashboard for Nature Remo",
	Long: `A terminal dashboard for the appliances registered to a Nature Remo account.

The appliance list is fetched once at startup. Use the arrow keys or j/k to
move through it and q to quit.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDashboard,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	cfg.BindFlags(rootCmd.PersistentFlags())
}

// setup loads the configuration and creates the logger for a command
func setup(cmd *cobra.Command) (*zap.Logger, error) {
	if err := cfg.Load(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, err := telemetry.NewLogger(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return logger, nil
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext(parent context.Context, logger *zap.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

func newCloudClient() *cloud.Client {
	return cloud.New(cfg.Token,
		cloud.WithBaseURL(cfg.BaseURL),
		cloud.WithTimeout(cfg.Timeout),
	)
}

func newSource() source.Source {
	if cfg.UseFile() {
		return file.New(cfg.File)
	}
	return newCloudClient()
}

func runDashboard(cmd *cobra.Command, args []string) error {
	logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	src := newSource()
	logger.Info("Starting remo-tui",
		zap.String("version", version),
		zap.String("source", src.Name()),
	)

	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	if err := telemetry.StartPProf(ctx, cfg.PProf, logger); err != nil {
		return fmt.Errorf("starting pprof: %w", err)
	}

	err = tui.Run(ctx, tui.NewTTY(os.Stdin, os.Stdout), src, tui.Options{
		TickRate: cfg.TickRate,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("Dashboard failed", zap.Error(err))
		return err
	}

	logger.Info("Shutdown complete")
	return nil
}
