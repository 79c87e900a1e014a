//go:generate mockgen -destination=./mocks/orchestrator.go . Downloader,NativeExtractor,JavaResolver

package orchestrator

import (
	"context"

	"github.com/pablof036/liblauncher/pkg/download"
	"github.com/pablof036/liblauncher/pkg/history"
	"github.com/pablof036/liblauncher/pkg/hook"
	"github.com/pablof036/liblauncher/pkg/jdk"
	"github.com/pablof036/liblauncher/pkg/layout"
	"github.com/pablof036/liblauncher/pkg/manifest"
	"github.com/pablof036/liblauncher/pkg/platform"
)

// Downloader runs resource batches. *download.Manager satisfies it.
type Downloader interface {
	FetchAll(ctx context.Context, items []download.Resource, opts download.Options) error
}

// NativeExtractor copies platform natives out of library jars. *natives.Extractor satisfies it.
type NativeExtractor interface {
	Extract(ctx context.Context, libraries []manifest.Library) ([]string, error)
}

// JavaResolver finds a downloadable runtime. *jdk.Client satisfies it.
type JavaResolver interface {
	Search(ctx context.Context, major int) (jdk.Release, error)
}

// HistoryRecorder stores finished install runs. *history.Store satisfies it.
type HistoryRecorder interface {
	Record(ctx context.Context, run history.Run) error
}

// Orchestrator drives the download manager through the steps of a game install.
type Orchestrator struct {
	DL       Downloader
	Natives  NativeExtractor
	Java     JavaResolver
	Layout   layout.Layout
	Platform platform.Platform
	Hooks    Hooks // Hooks for progress and event notifications
	// Scripts runs the pre-install and post-install scripts. Nil disables them.
	Scripts hook.Runner
	// History records every install run. Nil disables it.
	History HistoryRecorder
}

// Event phases.
const (
	PhaseResolving   = "resolving"
	PhasePlanning    = "planning"
	PhaseDownloading = "downloading"
	PhaseExtracting  = "extracting"
	PhaseSkipped     = "skipped"
	PhaseDone        = "done"
	PhaseError       = "error"
)

// Install steps, reported as Event.ID.
const (
	StepVersion    = "version"
	StepClient     = "client"
	StepLibraries  = "libraries"
	StepAssetIndex = "asset-index"
	StepAssets     = "assets"
	StepJava       = "java"
	StepNatives    = "natives"
)

// Event represents a simple progress notification.
type Event struct {
	Phase string
	ID    string // step
	Msg   string
}

// Hooks carries callbacks for progress events.
type Hooks struct {
	OnEvent func(Event)
}

// InstallOptions control orchestrator install execution.
type InstallOptions struct {
	// Download is passed to every batch. Its OnProgress sees the items of the current step only.
	Download download.Options
	// AssetBaseURL overrides manifest.DefaultAssetBaseURL.
	AssetBaseURL string
	// WithJava also installs the runtime named by the version document.
	WithJava bool
	// DryRun reports what is missing without writing to the root. A remote version document
	// is still read so the plan can be computed.
	DryRun bool
}

// Requirement is one thing a version needs on disk before it can start.
type Requirement string

const (
	RequirementClient    Requirement = "client"
	RequirementLibraries Requirement = "libraries"
	RequirementAssets    Requirement = "assets"
	RequirementJava      Requirement = "java"
)

// Check is the verification result of one requirement.
type Check struct {
	Requirement Requirement
	Total       int
	Missing     int
	Detail      string
}

// Satisfied reports whether nothing is missing.
func (c Check) Satisfied() bool {
	return c.Missing == 0
}

// Report lists the checks of a version in a fixed order: client, libraries, assets, java.
type Report struct {
	Version string
	Checks  []Check
}

// Satisfied reports whether every requirement is met.
func (r Report) Satisfied() bool {
	return len(r.Unsatisfied()) == 0
}

// Unsatisfied returns the requirements with missing items.
func (r Report) Unsatisfied() []Requirement {
	var out []Requirement
	for _, c := range r.Checks {
		if !c.Satisfied() {
			out = append(out, c.Requirement)
		}
	}
	return out
}
