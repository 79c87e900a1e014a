package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pablof036/liblauncher/pkg/cache"
)

// NewCacheCmd creates the cache command with subcommands
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the launcher root",
		Long:  "Show disk usage of the launcher root and remove extracted natives or leftover runtime archives",
	}

	cmd.AddCommand(
		newCacheCleanCmd(),
		newCacheInfoCmd(),
		newCacheDirCmd(),
	)

	return cmd
}

func newCacheCleanCmd() *cobra.Command {
	var (
		all      bool
		natives  bool
		archives bool
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove regenerable files",
		Long:  "Remove extracted natives and downloaded runtime archives. Libraries, assets and clients are kept.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			op, err := loadCacheOperation()
			if err != nil {
				return err
			}
			out, err := op.Clean(all, natives, archives)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Clean natives and archives")
	cmd.Flags().BoolVar(&natives, "natives", false, "Clean only extracted natives")
	cmd.Flags().BoolVar(&archives, "archives", false, "Clean only runtime archives")

	return cmd
}

func newCacheInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show disk usage",
		Long:  "Display the size and file count of every area of the launcher root",
		RunE: func(cmd *cobra.Command, _ []string) error {
			op, err := loadCacheOperation()
			if err != nil {
				return err
			}
			out, err := op.GetInfo()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newCacheDirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dir",
		Short: "Show the launcher root",
		RunE: func(cmd *cobra.Command, _ []string) error {
			op, err := loadCacheOperation()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), op.GetDirectory())
			return nil
		},
	}
}

func loadCacheOperation() (*cache.CacheOperation, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return cache.NewCacheOperation(cache.NewManager(cfg.Layout())), nil
}
