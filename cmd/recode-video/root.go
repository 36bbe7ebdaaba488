package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"recodevideo/internal/config"
	"recodevideo/internal/logging"
	"recodevideo/internal/workflow"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

// errFilesNotProcessed signals a completed run in which at least one file was
// rejected or failed. The summary already explains which.
var errFilesNotProcessed = errors.New("some files were rejected or failed")

func newRootCommand(runnerOpts ...workflow.Option) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "recode-video PATH...",
		Short: "Rewrite video files into Matroska with compatible streams",
		Long: "recode-video scans the given files and directories for videos and rewrites\n" +
			"each one that is not already a compatible Matroska file. HEVC, VC-1, VP9\n" +
			"and AV1 video is re-encoded, mov_text/WebVTT/ASS subtitles are converted\n" +
			"to SubRip, and the original is replaced once the new file is complete.",
		Version:       version,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecode(cmd, args, runnerOpts)
		},
	}
	rootCmd.SetVersionTemplate("recode-video {{.Version}}\n")
	return rootCmd
}

func runRecode(cmd *cobra.Command, roots []string, runnerOpts []workflow.Option) error {
	cfg, _, _, err := config.Load("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	logger, logPath, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays, logging.RetentionTarget{
		Dir:     cfg.Paths.LogDir,
		Pattern: logging.LogFilePattern,
		Exclude: []string{logPath},
	})

	runner, err := workflow.NewRunner(cfg, logger, runnerOpts...)
	if err != nil {
		return err
	}
	summary, runErr := runner.Run(cmd.Context(), roots)

	out := cmd.OutOrStdout()
	renderSummary(out, summary, logPath, shouldColorize(out))

	if runErr != nil {
		return runErr
	}
	if summary.HasErrors() {
		return errFilesNotProcessed
	}
	return nil
}
