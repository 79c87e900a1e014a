package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pablof036/liblauncher/internal/cli"
	"github.com/pablof036/liblauncher/internal/logger"
)

var (
	configPath   string
	verbose      bool
	outputFormat string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := newRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}

	cancel()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liblauncher",
		Short: "Fetch and verify game installations",
		Long: `liblauncher downloads everything a game version needs to start:
- install: client, libraries, assets and natives of a version document
- verify: report what is missing without downloading
- jdk: install a matching java runtime
- hooks: Tengo scripts run around each install`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: auto-detect)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print every finished download")
	cmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "log format (console, json)")

	cli.ConfigPath = &configPath
	cli.Verbose = &verbose
	cli.OutputFormat = &outputFormat

	cmd.AddCommand(
		cli.NewInstallCmd(),
		cli.NewVerifyCmd(),
		cli.NewNativesCmd(),
		cli.NewJDKCmd(),
		cli.NewHooksCmd(),
		cli.NewHistoryCmd(),
		cli.NewConfigCmd(),
		cli.NewCacheCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
