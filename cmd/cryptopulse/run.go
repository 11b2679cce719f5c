package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline once",
	Long:  "Resolves headlines, generates every content type, writes the artifacts and run report, and publishes the first headlines to Bluesky.",
	RunE:  runPipeline,
}

var (
	runDryRun bool
	runOutDir string
)

func init() {
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

// addRunFlags registers the pipeline flags on cmd. The root command and
// "run" share them.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&runDryRun, "dry-run", false, "log posts instead of publishing them (overrides config and DRY_RUN)")
	cmd.Flags().StringVarP(&runOutDir, "out", "o", "", "output directory (overrides config and OUTPUT_DIR)")
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("dry-run") {
		cfg.Bluesky.DryRun = runDryRun
	}
	if runOutDir != "" {
		cfg.Output.Dir = runOutDir
	}

	p, err := newPipeline(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	report, err := p.Run(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s: %d headlines from %s\n", report.RunID, len(report.Headlines), report.HeadlineSource)
	for _, a := range report.Artifacts {
		fmt.Fprintf(out, "  wrote %s (%d words, ~%d min)\n", a.Path, a.Words, a.ReadingMinutes)
	}
	for _, f := range report.Failures {
		fmt.Fprintf(out, "  failed %s: %s\n", f.ContentType, f.Error)
	}
	for _, post := range report.Posts {
		fmt.Fprintf(out, "  post %s: %s\n", post.Status, post.Text)
	}
	return nil
}
