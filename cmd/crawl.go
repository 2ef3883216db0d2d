package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCrawlCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crawl",
		Short: "Crawl every award year, upload the results and notify Slack",
		Long: `Crawls the winners page and every entry page for each award year,
newest first, uploads general-{year}.json to the configured folder and posts
the completion message. This is also what the bare root command does.`,
		Args: cobra.NoArgs,
		RunE: runCrawlCommand,
	}
}

func runCrawlCommand(cmd *cobra.Command, _ []string) error {
	state, err := resolveState(cmd.Context())
	if err != nil {
		return err
	}
	if err := state.app.Run(cmd.Context()); err != nil {
		state.logger.Error("crawl run failed", zap.Error(err))
		// PersistentPostRunE is skipped when RunE fails.
		_ = closeState(cmd.Context())
		return fmt.Errorf("run crawler: %w", err)
	}
	state.logger.Info("crawl command finished")
	return nil
}
