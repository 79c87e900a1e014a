package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pablof036/liblauncher/internal/logger"
	"github.com/pablof036/liblauncher/pkg/fsutil"
	"github.com/pablof036/liblauncher/pkg/hook"
)

// NewHooksCmd creates the hooks command with subcommands.
func NewHooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "Manage install scripts",
		Long:  "Create and list the Tengo scripts that run before and after an install",
	}

	cmd.AddCommand(newHooksInitCmd(), newHooksListCmd())

	return cmd
}

func newHooksInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write starter scripts",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dir := cfg.Layout().HooksDir()
			if err := fsutil.EnsureDir(dir); err != nil {
				return err
			}

			for _, t := range hook.Types() {
				path := filepath.Join(dir, string(t)+hook.ScriptExt)
				if _, err := os.Stat(path); err == nil && !force {
					logger.Warn("Hook script exists, skipping", logger.Fields{"path": path})
					continue
				}
				if err := os.WriteFile(path, []byte(hook.Template(t)), fsutil.FileModeDefault); err != nil {
					return fmt.Errorf("failed to write hook %s: %w", t, err)
				}
				logger.Success("Hook script created", logger.Fields{"path": path})
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing scripts")

	return cmd
}

func newHooksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show which scripts are active",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			scripts := hook.NewManager()
			if err := hook.LoadDir(scripts, cfg.Layout().HooksDir()); err != nil {
				return err
			}
			for _, t := range hook.Types() {
				status := "none"
				if scripts.Has(t) {
					status = "active"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", t, status)
			}
			return nil
		},
	}
}
