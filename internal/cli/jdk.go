package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pablof036/liblauncher/internal/logger"
	"github.com/pablof036/liblauncher/pkg/jdk"
)

// NewJDKCmd creates the jdk command.
func NewJDKCmd() *cobra.Command {
	var searchOnly bool

	cmd := &cobra.Command{
		Use:   "jdk MAJOR",
		Short: "Install a java runtime",
		Long:  "Find the newest runtime build of a java major version and install it below jdk/<major>.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			major, err := strconv.Atoi(args[0])
			if err != nil || major <= 0 {
				return fmt.Errorf("invalid java major version: %q", args[0])
			}
			return runJDK(cmd, major, searchOnly)
		},
	}

	cmd.Flags().BoolVar(&searchOnly, "search", false, "Only print the build that would be installed")

	return cmd
}

func runJDK(cmd *cobra.Command, major int, searchOnly bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	orch, err := loadOrchestrator(cfg, out)
	if err != nil {
		return err
	}

	if searchOnly {
		release, err := orch.Java.Search(cmd.Context(), major)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "%s\n%s\n", release.Version, release.URL)
		return nil
	}

	if err := orch.InstallJava(cmd.Context(), major, installOptions(cfg, out)); err != nil {
		return fmt.Errorf("failed to install java %d: %w", major, err)
	}

	javaPath, err := jdk.JavaPath(cfg.Layout(), cfg.Settings.Platform, major)
	if err != nil {
		return err
	}
	logger.Success("Java runtime ready", logger.Fields{"major": major, "path": javaPath})
	return nil
}
