package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hoanghai1803/cryptopulse/internal/sanitize"
)

var headlinesCmd = &cobra.Command{
	Use:   "headlines",
	Short: "Print the current headlines without generating or publishing",
	RunE:  runHeadlines,
}

var headlinesLimit int

func init() {
	headlinesCmd.Flags().IntVarP(&headlinesLimit, "limit", "n", 0, "number of headlines (defaults to news.limit)")
	rootCmd.AddCommand(headlinesCmd)
}

func runHeadlines(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	limit := cfg.News.Limit
	if headlinesLimit > 0 {
		limit = headlinesLimit
	}

	res, err := newResolver(cfg, logger).Resolve(cmd.Context(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Source: %s\n", res.Source)
	for i, h := range sanitize.Headlines(res.Headlines) {
		fmt.Fprintf(out, "%d. %s\n", i+1, h)
	}
	return nil
}
