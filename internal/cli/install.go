package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pablof036/liblauncher/internal/logger"
	"github.com/pablof036/liblauncher/pkg/history"
)

// NewInstallCmd creates the install command.
func NewInstallCmd() *cobra.Command {
	var (
		withJava        bool
		dryRun          bool
		concurrency     int
		continueOnError bool
	)

	cmd := &cobra.Command{
		Use:   "install VERSION_JSON|URL",
		Short: "Install a game version",
		Long: `Download the client, libraries, asset index and assets of a version,
then extract its natives. Files already present with the expected size are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, args[0], withJava, dryRun, concurrency, continueOnError)
		},
	}

	cmd.Flags().BoolVar(&withJava, "jdk", false, "Also install the java runtime the version requires")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report missing files without downloading")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Number of parallel downloads (0=config)")
	cmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "Attempt every file even after a failure")

	return cmd
}

func runInstall(cmd *cobra.Command, source string, withJava, dryRun bool, concurrency int, continueOnError bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if concurrency > 0 {
		cfg.Settings.MaxConcurrent = concurrency
	}
	if continueOnError {
		cfg.Settings.ContinueOnError = true
	}

	out := cmd.OutOrStdout()
	orch, err := loadOrchestrator(cfg, out)
	if err != nil {
		return err
	}
	if !dryRun {
		store, err := history.Open(cfg.Layout().HistoryDB())
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		orch.History = store
	}
	opts := installOptions(cfg, out)
	opts.WithJava = withJava
	opts.DryRun = dryRun

	v, err := orch.FetchVersion(cmd.Context(), source, opts)
	if err != nil {
		return fmt.Errorf("failed to load version document: %w", err)
	}

	if err := orch.Install(cmd.Context(), v, opts); err != nil {
		return fmt.Errorf("failed to install %s: %w", v.ID, err)
	}

	if !dryRun {
		logger.Success("Installation complete", logger.Fields{"version": v.ID, "root": cfg.Settings.RootDir})
	}
	return nil
}
