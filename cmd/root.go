// Package cmd defines the CLI for the awards crawler.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/oja-awards-crawler/internal/app"
	"github.com/JakeFAU/oja-awards-crawler/internal/config"
	"github.com/JakeFAU/oja-awards-crawler/internal/logging"
)

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App is what the commands drive. Tests swap in a fake through newApp.
type App interface {
	Run(ctx context.Context) error
	Close(ctx context.Context) error
}

// newApp is the application factory.
var newApp = func(ctx context.Context, cfg config.Config, logger *zap.Logger) (App, error) {
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return a, nil
}

type runState struct {
	app    App
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "ojacrawler",
		Short: "Scrapes Online Journalism Awards winners into cloud storage.",
		Long: `ojacrawler walks the OJA winners pages for each award year, parses every
entry page, uploads one JSON file per year and posts a Slack message when
all years are stored.`,
		SilenceUsage: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := logging.New(cfg.Logging)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			zap.ReplaceGlobals(logger)

			appInstance, err := newApp(cmd.Context(), cfg, logger)
			if err != nil {
				_ = logger.Sync()
				return fmt.Errorf("failed to initialize application services: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, &runState{app: appInstance, logger: logger}))
			return nil
		},

		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return closeState(cmd.Context())
		},

		RunE: runCrawlCommand,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (environment variables override it)")
	cmd.AddCommand(newCrawlCmd())
	return cmd
}

func resolveState(ctx context.Context) (*runState, error) {
	state, ok := ctx.Value(appKey).(*runState)
	if !ok || state == nil {
		return nil, errors.New("application services not initialized")
	}
	return state, nil
}

func closeState(ctx context.Context) error {
	state, err := resolveState(ctx)
	if err != nil {
		return nil
	}
	closeErr := state.app.Close(context.WithoutCancel(ctx))
	if closeErr != nil {
		state.logger.Warn("error closing application services", zap.Error(closeErr))
	}
	// Sync fails on stderr for some terminals.
	_ = state.logger.Sync()
	return closeErr
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ojacrawler: %v\n", err)
		os.Exit(1)
	}
}
