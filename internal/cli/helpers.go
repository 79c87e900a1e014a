package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/pablof036/liblauncher/internal/logger"
	"github.com/pablof036/liblauncher/pkg/archive"
	"github.com/pablof036/liblauncher/pkg/config"
	"github.com/pablof036/liblauncher/pkg/download"
	"github.com/pablof036/liblauncher/pkg/hook"
	"github.com/pablof036/liblauncher/pkg/jdk"
	"github.com/pablof036/liblauncher/pkg/natives"
	"github.com/pablof036/liblauncher/pkg/orchestrator"
)

// These variables will be set by the main package
var (
	ConfigPath   *string
	Verbose      *bool
	OutputFormat *string
)

// loadConfig loads the configuration, applies the global flags and sets up logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if OutputFormat != nil && *OutputFormat != "" {
		cfg.Settings.LogFormat = *OutputFormat
	}
	level := cfg.Settings.LogLevel
	if Verbose != nil && *Verbose {
		level = "debug"
	}
	logger.InitLogger(level, logger.ParseFormat(cfg.Settings.LogFormat))

	return cfg, nil
}

func getConfigPath() string {
	if ConfigPath != nil && *ConfigPath != "" {
		return *ConfigPath
	}

	defaultPath, err := config.GetDefaultConfigPath()
	if err != nil {
		// An empty path fails later with a descriptive error.
		logger.Warn("Failed to get default config path, using empty path", logger.Fields{"error": err})
		return ""
	}
	return defaultPath
}

func loadDownloadManager(cfg *config.Config) *download.Manager {
	client := download.NewHTTPClient(cfg.Settings.HTTPTimeout)
	return download.NewManager(client, archive.NewExtractor(), cfg.Settings.HTTPTimeout)
}

func loadOrchestrator(cfg *config.Config, out io.Writer) (*orchestrator.Orchestrator, error) {
	l := cfg.Layout()
	p := cfg.Settings.Platform

	scripts := hook.NewManager()
	if err := hook.LoadDir(scripts, l.HooksDir()); err != nil {
		return nil, err
	}

	orch := orchestrator.New(
		loadDownloadManager(cfg),
		natives.NewExtractor(l, p),
		jdk.NewClient(download.NewHTTPClient(cfg.Settings.HTTPTimeout), cfg.Settings.JDKAPIURL, p),
		l,
		p,
		eventPrinter(out),
	)
	orch.Scripts = scripts
	return orch, nil
}

// installOptions derives orchestrator options from the config. Per-item progress lines are only
// printed in verbose mode, otherwise each batch prints a summary when it finishes.
func installOptions(cfg *config.Config, out io.Writer) orchestrator.InstallOptions {
	opts := cfg.DownloadOptions()
	verbose := Verbose != nil && *Verbose
	opts.OnProgress = func(p download.Progress, item download.Resource, r download.Result) {
		if verbose || r.Err != nil {
			_, _ = fmt.Fprintln(out, formatProgress(p, item, r))
		}
		if p.Completed == p.Total {
			_, _ = fmt.Fprintln(out, formatSummary(p))
		}
	}
	return orchestrator.InstallOptions{
		Download:     opts,
		AssetBaseURL: cfg.Settings.AssetBaseURL,
	}
}

func eventPrinter(out io.Writer) orchestrator.Hooks {
	return orchestrator.Hooks{OnEvent: func(e orchestrator.Event) {
		switch {
		case e.ID != "" && e.Msg != "":
			_, _ = fmt.Fprintf(out, "%s: %s (%s)\n", e.Phase, e.ID, e.Msg)
		case e.ID != "":
			_, _ = fmt.Fprintf(out, "%s: %s\n", e.Phase, e.ID)
		default:
			_, _ = fmt.Fprintf(out, "%s: %s\n", e.Phase, e.Msg)
		}
	}}
}

func formatProgress(p download.Progress, item download.Resource, r download.Result) string {
	line := fmt.Sprintf("[%3.0f%%] %d/%d %s", p.Fraction()*percent, p.Completed, p.Total, filepath.Base(item.Destination()))
	switch {
	case r.Err != nil:
		return line + " failed: " + r.Err.Error()
	case r.Outcome.Status == download.StatusAlreadyComplete:
		return line + " already present"
	default:
		return fmt.Sprintf("%s %s at %s/s", line, humanize.IBytes(uint64(r.Outcome.Bytes)), humanize.IBytes(uint64(r.Outcome.Speed)))
	}
}

func formatSummary(p download.Progress) string {
	return fmt.Sprintf("  %s items done, %s transferred", humanize.Comma(int64(p.Completed)), humanize.IBytes(uint64(p.TotalBytes)))
}
