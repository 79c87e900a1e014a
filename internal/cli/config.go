package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pablof036/liblauncher/internal/logger"
	"github.com/pablof036/liblauncher/pkg/config"
	"github.com/pablof036/liblauncher/pkg/errors"
)

// NewConfigCmd creates the config command.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or edit the launcher settings file",
	}

	var asYAML bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Print every setting, marking the ones left at their default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if asYAML {
				data, err := cfg.ToYAML()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return writeSettings(cmd.OutOrStdout(), cfg)
		},
	}
	show.Flags().BoolVar(&asYAML, "yaml", false, "Print the file contents as YAML")

	get := &cobra.Command{
		Use:   "get KEY",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			value, err := cfg.GetValue(args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Change one setting and save the file",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return setSetting(args[0], args[1])
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a settings file with default values",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			path := getConfigPath()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s: %w", path, errors.ErrConfigFileExists)
			}
			if err := config.DefaultConfig().SaveConfig(path); err != nil {
				return err
			}
			logger.Success("Wrote default settings", logger.Fields{"path": path})
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Replace an existing file")

	cmd.AddCommand(show, get, set, initCmd)
	return cmd
}

// writeSettings prints one "key = value" line per setting, padded to the longest key.
func writeSettings(w io.Writer, cfg *config.Config) error {
	keys := config.Keys()
	width := 0
	for _, key := range keys {
		width = max(width, len(key))
	}

	current, defaults := cfg.ToMap(), config.DefaultConfig().ToMap()
	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%-*s = %s", width, key, current[key])
		if current[key] == defaults[key] {
			b.WriteString("  (default)")
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func setSetting(key, value string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.SetValue(key, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.SaveConfig(getConfigPath()); err != nil {
		return err
	}

	logger.Success("Saved setting", logger.Fields{"key": key, "value": value})
	if strings.HasPrefix(key, "platform.") {
		logger.Info("Installed natives belong to the previous platform; run the natives command again")
	}
	return nil
}
