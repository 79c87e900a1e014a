package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/pablof036/liblauncher/internal/logger"
	"github.com/pablof036/liblauncher/pkg/download"
	pkgerrors "github.com/pablof036/liblauncher/pkg/errors"
	"github.com/pablof036/liblauncher/pkg/history"
	"github.com/pablof036/liblauncher/pkg/hook"
	"github.com/pablof036/liblauncher/pkg/jdk"
	"github.com/pablof036/liblauncher/pkg/layout"
	"github.com/pablof036/liblauncher/pkg/manifest"
	"github.com/pablof036/liblauncher/pkg/platform"
)

func emit(h Hooks, e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}

// FetchVersion returns the version document at source, a local path or an http(s) URL.
// Remote documents are stored as versions/<id>.json, except on a dry run.
func (o *Orchestrator) FetchVersion(ctx context.Context, source string, opts InstallOptions) (*manifest.Version, error) {
	u, err := url.Parse(source)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return manifest.LoadVersion(source)
	}
	if o.DL == nil {
		return nil, fmt.Errorf("download manager is not configured")
	}

	name := path.Base(u.Path)
	if name == "." || name == "/" {
		name = "version"
	}
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	dir := o.Layout.VersionsDir()
	if opts.DryRun {
		tmp, err := os.MkdirTemp("", "liblauncher-version-")
		if err != nil {
			return nil, pkgerrors.Wrap(err, "failed to create temporary directory")
		}
		defer func() { _ = os.RemoveAll(tmp) }()
		dir = tmp
	}
	target := filepath.Join(dir, name)

	item := download.PlainResource{Path: target, URL: source}
	if err := o.fetch(ctx, StepVersion, []download.Resource{item}, opts); err != nil {
		return nil, err
	}

	v, err := manifest.LoadVersion(target)
	if err != nil {
		return nil, err
	}
	if opts.DryRun {
		return v, nil
	}
	if final := o.Layout.Version(v.ID); final != target {
		if err := os.Rename(target, final); err != nil {
			return nil, pkgerrors.Wrapf(err, "failed to store version document %s", v.ID)
		}
	}
	return v, nil
}

// Install brings every resource of v onto disk: client, libraries, asset index, assets,
// optionally the java runtime, and finally the natives. Steps run in that order and the
// first failing step ends the install. Scripts, when set, run before the first fetch
// and after natives extraction. Every non-dry run is recorded in History, when set.
func (o *Orchestrator) Install(ctx context.Context, v *manifest.Version, opts InstallOptions) error {
	if o.DL == nil {
		return fmt.Errorf("download manager is not configured")
	}
	if v == nil {
		return fmt.Errorf("version document is required")
	}

	runID := ksuid.New().String()
	logger.Info("Installing version", logger.Fields{"run": runID, "version": v.ID, "platform": o.Platform.String()})
	emit(o.Hooks, Event{Phase: PhaseResolving, Msg: v.ID})

	client, err := v.ClientResource(o.Layout)
	if err != nil {
		return err
	}
	libraries := v.LibraryResources(o.Layout, o.Platform.ManifestOS())
	assetIndex, err := v.AssetIndexResource(o.Layout)
	if err != nil {
		return err
	}

	if opts.DryRun {
		return o.plan(client, libraries, assetIndex, opts)
	}

	started := time.Now()
	var stats transferStats
	if o.History != nil {
		opts.Download.OnProgress = stats.observe(opts.Download.OnProgress)
	}

	err = o.install(ctx, v, client, libraries, assetIndex, opts)
	o.record(ctx, history.Run{
		ID:         runID,
		VersionID:  v.ID,
		Platform:   o.Platform.String(),
		StartedAt:  started,
		FinishedAt: time.Now(),
		Bytes:      stats.bytes,
		Files:      stats.files,
	}, err)
	if err != nil {
		return err
	}

	logger.Success("Version installed", logger.Fields{"run": runID, "version": v.ID})
	emit(o.Hooks, Event{Phase: PhaseDone, Msg: v.ID})
	return nil
}

func (o *Orchestrator) install(ctx context.Context, v *manifest.Version, client download.SizedResource, libraries []download.SizedResource, assetIndex download.SizedResource, opts InstallOptions) error {
	if err := o.runScript(ctx, hook.PreInstall, v); err != nil {
		return err
	}

	if err := o.fetch(ctx, StepClient, download.Resources([]download.SizedResource{client}), opts); err != nil {
		return err
	}
	if err := o.fetch(ctx, StepLibraries, download.Resources(libraries), opts); err != nil {
		return err
	}
	if err := o.fetch(ctx, StepAssetIndex, download.Resources([]download.SizedResource{assetIndex}), opts); err != nil {
		return err
	}

	index, err := manifest.LoadAssetIndex(assetIndex.Path)
	if err != nil {
		return err
	}
	assets := manifest.AssetResources(o.Layout, index, opts.AssetBaseURL)
	if err := o.fetch(ctx, StepAssets, download.Resources(assets), opts); err != nil {
		return err
	}

	if opts.WithJava {
		if err := o.InstallJava(ctx, v.JavaVersion.MajorVersion, opts); err != nil {
			return err
		}
	}

	if err := o.ExtractNatives(ctx, v); err != nil {
		return err
	}

	return o.runScript(ctx, hook.PostInstall, v)
}

type transferStats struct {
	bytes int64
	files int
}

// observe counts fetched items before handing them to next. Batches run one after another,
// so the counters are only touched by one goroutine at a time.
func (s *transferStats) observe(next download.Observer) download.Observer {
	return func(p download.Progress, item download.Resource, r download.Result) {
		if r.Err == nil && r.Outcome.Status == download.StatusFetched {
			s.bytes += r.Outcome.Bytes
			s.files++
		}
		if next != nil {
			next(p, item, r)
		}
	}
}

// record stores the run in the history. A failed write is logged and does not fail the install.
func (o *Orchestrator) record(ctx context.Context, run history.Run, installErr error) {
	if o.History == nil {
		return
	}
	run.Status = history.StatusSucceeded
	if installErr != nil {
		run.Status = history.StatusFailed
		run.Error = installErr.Error()
	}
	if err := o.History.Record(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn("Failed to record install run", logger.Fields{"run": run.ID, "error": err})
	}
}

// InstallJava installs the newest runtime of the given major version unless one is already present.
func (o *Orchestrator) InstallJava(ctx context.Context, major int, opts InstallOptions) error {
	if major <= 0 {
		emit(o.Hooks, Event{Phase: PhaseSkipped, ID: StepJava, Msg: "no java version requested"})
		return nil
	}
	if javaPath, err := jdk.JavaPath(o.Layout, o.Platform, major); err == nil {
		emit(o.Hooks, Event{Phase: PhaseSkipped, ID: StepJava, Msg: javaPath})
		return nil
	}
	if o.Java == nil {
		return fmt.Errorf("java resolver is not configured")
	}
	if o.DL == nil {
		return fmt.Errorf("download manager is not configured")
	}

	emit(o.Hooks, Event{Phase: PhaseResolving, ID: StepJava, Msg: fmt.Sprintf("java %d", major)})
	release, err := o.Java.Search(ctx, major)
	if err != nil {
		emit(o.Hooks, Event{Phase: PhaseError, ID: StepJava, Msg: err.Error()})
		return err
	}

	item := release.Resource(o.Layout)
	return o.fetch(ctx, StepJava, download.Resources([]download.ArchiveResource{item}), opts)
}

// ExtractNatives copies the platform natives of v's libraries into the natives directory.
// It does nothing when no native extractor is configured.
func (o *Orchestrator) ExtractNatives(ctx context.Context, v *manifest.Version) error {
	if o.Natives == nil {
		return nil
	}
	emit(o.Hooks, Event{Phase: PhaseExtracting, ID: StepNatives})
	written, err := o.Natives.Extract(ctx, v.Libraries)
	if err != nil {
		emit(o.Hooks, Event{Phase: PhaseError, ID: StepNatives, Msg: err.Error()})
		return err
	}
	emit(o.Hooks, Event{Phase: PhaseDone, ID: StepNatives, Msg: fmt.Sprintf("%d files", len(written))})
	return nil
}

func (o *Orchestrator) runScript(ctx context.Context, t hook.Type, v *manifest.Version) error {
	if o.Scripts == nil {
		return nil
	}
	hc := hook.Context{
		VersionID: v.ID,
		AssetsID:  v.Assets,
		RootDir:   o.Layout.Root,
		Platform:  o.Platform.String(),
		JavaMajor: v.JavaVersion.MajorVersion,
	}
	if err := o.Scripts.Run(ctx, t, hc); err != nil {
		emit(o.Hooks, Event{Phase: PhaseError, ID: string(t), Msg: err.Error()})
		return err
	}
	return nil
}

func (o *Orchestrator) fetch(ctx context.Context, step string, items []download.Resource, opts InstallOptions) error {
	if len(items) == 0 {
		return nil
	}
	emit(o.Hooks, Event{Phase: PhaseDownloading, ID: step, Msg: fmt.Sprintf("%d resources", len(items))})
	if err := o.DL.FetchAll(ctx, items, opts.Download); err != nil {
		emit(o.Hooks, Event{Phase: PhaseError, ID: step, Msg: err.Error()})
		return fmt.Errorf("%s: %w", step, err)
	}
	return nil
}

type planStep struct {
	id    string
	items []download.SizedResource
}

// plan emits the number of missing items per step. Assets are only counted when the index is on disk.
func (o *Orchestrator) plan(client download.SizedResource, libraries []download.SizedResource, assetIndex download.SizedResource, opts InstallOptions) error {
	steps := []planStep{
		{StepClient, []download.SizedResource{client}},
		{StepLibraries, libraries},
		{StepAssetIndex, []download.SizedResource{assetIndex}},
	}

	if complete, err := assetIndex.Complete(); err == nil && complete {
		index, err := manifest.LoadAssetIndex(assetIndex.Path)
		if err != nil {
			return err
		}
		steps = append(steps, planStep{StepAssets, manifest.AssetResources(o.Layout, index, opts.AssetBaseURL)})
	}

	for _, step := range steps {
		missing, err := download.Missing(step.items)
		if err != nil {
			return err
		}
		emit(o.Hooks, Event{Phase: PhasePlanning, ID: step.id, Msg: fmt.Sprintf("%d of %d missing", len(missing), len(step.items))})
	}
	emit(o.Hooks, Event{Phase: PhaseDone, Msg: "dry-run"})
	return nil
}

// Verify checks which requirements of v are already satisfied on disk. Nothing is fetched.
func (o *Orchestrator) Verify(ctx context.Context, v *manifest.Version) (Report, error) {
	if v == nil {
		return Report{}, fmt.Errorf("version document is required")
	}
	report := Report{Version: v.ID}

	client, err := v.ClientResource(o.Layout)
	if err != nil {
		return Report{}, err
	}
	check, err := sizedCheck(RequirementClient, []download.SizedResource{client})
	if err != nil {
		return Report{}, err
	}
	report.Checks = append(report.Checks, check)

	check, err = sizedCheck(RequirementLibraries, v.LibraryResources(o.Layout, o.Platform.ManifestOS()))
	if err != nil {
		return Report{}, err
	}
	report.Checks = append(report.Checks, check)

	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	check, err = o.assetCheck(v)
	if err != nil {
		return Report{}, err
	}
	report.Checks = append(report.Checks, check)

	if major := v.JavaVersion.MajorVersion; major > 0 {
		check := Check{Requirement: RequirementJava, Total: 1}
		javaPath, err := jdk.JavaPath(o.Layout, o.Platform, major)
		switch {
		case errors.Is(err, pkgerrors.ErrJavaNotFound):
			check.Missing = 1
			check.Detail = fmt.Sprintf("java %d not installed", major)
		case err != nil:
			return Report{}, err
		default:
			check.Detail = javaPath
		}
		report.Checks = append(report.Checks, check)
	}

	return report, nil
}

func (o *Orchestrator) assetCheck(v *manifest.Version) (Check, error) {
	indexRes, err := v.AssetIndexResource(o.Layout)
	if err != nil {
		return Check{}, err
	}
	complete, err := indexRes.Complete()
	if err != nil {
		return Check{}, err
	}
	if !complete {
		return Check{Requirement: RequirementAssets, Total: 1, Missing: 1, Detail: "asset index missing"}, nil
	}

	index, err := manifest.LoadAssetIndex(indexRes.Path)
	if err != nil {
		return Check{}, err
	}
	return sizedCheck(RequirementAssets, manifest.AssetResources(o.Layout, index, ""))
}

func sizedCheck(req Requirement, items []download.SizedResource) (Check, error) {
	missing, err := download.Missing(items)
	if err != nil {
		return Check{}, err
	}
	return Check{Requirement: req, Total: len(items), Missing: len(missing)}, nil
}

// New constructs an Orchestrator from existing managers. Helper for wiring.
func New(dl Downloader, natives NativeExtractor, java JavaResolver, l layout.Layout, p platform.Platform, hooks Hooks) *Orchestrator {
	return &Orchestrator{
		DL:       dl,
		Natives:  natives,
		Java:     java,
		Layout:   l,
		Platform: p,
		Hooks:    hooks,
	}
}
