package cli

import (
	"github.com/spf13/cobra"

	"github.com/pablof036/liblauncher/pkg/manifest"
)

// NewNativesCmd creates the natives command.
func NewNativesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "natives VERSION_JSON",
		Short: "Extract native libraries",
		Long:  "Copy the platform's native libraries out of the installed library jars into the natives directory.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			v, err := manifest.LoadVersion(args[0])
			if err != nil {
				return err
			}
			orch, err := loadOrchestrator(cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return orch.ExtractNatives(cmd.Context(), v)
		},
	}

	return cmd
}
