package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pablof036/liblauncher/pkg/manifest"
)

// NewVerifyCmd creates the verify command.
func NewVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify VERSION_JSON",
		Short: "Check whether a version is ready to start",
		Long:  "Report which of client, libraries, assets and java are missing on disk. Nothing is downloaded.",
		Args:  cobra.ExactArgs(1),
		RunE:  runVerify,
	}

	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
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
	report, err := orch.Verify(cmd.Context(), v)
	if err != nil {
		return fmt.Errorf("failed to verify %s: %w", v.ID, err)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tw, "REQUIREMENT\tSTATUS\tMISSING\tDETAIL")
	for _, c := range report.Checks {
		status := "ok"
		if !c.Satisfied() {
			status = "missing"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%s\n", c.Requirement, status, c.Missing, c.Total, c.Detail)
	}
	_ = tw.Flush()

	if missing := report.Unsatisfied(); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, r := range missing {
			names = append(names, string(r))
		}
		return fmt.Errorf("version %s is incomplete: %s", v.ID, strings.Join(names, ", "))
	}
	return nil
}
