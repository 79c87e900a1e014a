package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/segmentio/ksuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/pablof036/liblauncher/internal/logger"
	pkgerrors "github.com/pablof036/liblauncher/pkg/errors"
)

// DefaultConcurrency is the number of transfers a batch keeps in flight when Options leave it unset.
const DefaultConcurrency = 5

// Options control a FetchAll batch.
type Options struct {
	// Concurrency bounds the transfers in flight. Values <= 0 mean DefaultConcurrency.
	Concurrency int
	// ContinueOnError attempts every item and returns all failures joined.
	// When false the first failure cancels the batch.
	ContinueOnError bool
	// OnProgress is called after each finished item.
	OnProgress Observer
}

// Manager fetches resources, checks sized ones for completeness and unpacks archives.
type Manager struct {
	fetcher     *Fetcher
	extractor   Extractor
	extractSlot *semaphore.Weighted
}

// NewManager creates a Manager. client may be nil, see NewFetcher.
// extractor is only needed for ArchiveResource items.
func NewManager(client HTTPDoer, extractor Extractor, timeout time.Duration) *Manager {
	return &Manager{
		fetcher:     NewFetcher(client, timeout),
		extractor:   extractor,
		extractSlot: semaphore.NewWeighted(1),
	}
}

type completion struct {
	item   Resource
	result Result
}

// FetchAll processes items with bounded concurrency. The next pending item is admitted as soon
// as a transfer finishes. Archive unpacking happens outside the transfer slots, one archive at a time.
//
// Progress is folded and OnProgress is invoked on the calling goroutine, in completion order.
// By default the first failure is reported, the remaining work is cancelled and awaited, and that
// failure is returned. With ContinueOnError every item is attempted and the failures are joined.
func (m *Manager) FetchAll(ctx context.Context, items []Resource, opts Options) error {
	if len(items) == 0 {
		return nil
	}
	for i, item := range items {
		if item == nil {
			return fmt.Errorf("item %d is nil: %w", i, pkgerrors.ErrTransferFailed)
		}
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	batchID := ksuid.New().String()
	batchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	completions := make(chan completion, len(items))
	go m.dispatch(batchCtx, items, concurrency, completions)

	logger.Debug("Starting batch", logger.Fields{
		"batch":       batchID,
		"items":       len(items),
		"concurrency": concurrency,
	})

	progress := Progress{Total: len(items)}
	var (
		failed   error
		failures []error
	)
	for c := range completions {
		if failed != nil {
			continue
		}

		progress.record(c.result)
		logCompletion(batchID, progress, c)
		if opts.OnProgress != nil {
			opts.OnProgress(progress, c.item, c.result)
		}

		if c.result.Err == nil {
			continue
		}
		if !opts.ContinueOnError {
			failed = c.result.Err
			cancel()
			continue
		}
		failures = append(failures, c.result.Err)
	}

	if failed != nil {
		return failed
	}
	if progress.Completed < progress.Total {
		failures = append(failures, ctx.Err())
	}
	return errors.Join(failures...)
}

// dispatch admits items until ctx is cancelled, then waits for every admitted item and closes out.
func (m *Manager) dispatch(ctx context.Context, items []Resource, concurrency int, out chan<- completion) {
	var transfers, unpacks errgroup.Group
	transfers.SetLimit(concurrency)

	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		transfers.Go(func() error {
			outcome, archive, err := m.transfer(ctx, item)
			if err != nil || archive == nil {
				out <- completion{item: item, result: newResult(outcome, err)}
				return nil
			}
			unpacks.Go(func() error {
				out <- completion{item: item, result: newResult(outcome, m.unpack(ctx, *archive))}
				return nil
			})
			return nil
		})
	}

	_ = transfers.Wait()
	_ = unpacks.Wait()
	close(out)
}

// Fetch processes a single resource, including the unpack step for archives.
func (m *Manager) Fetch(ctx context.Context, item Resource) (Outcome, error) {
	outcome, archive, err := m.transfer(ctx, item)
	if err != nil || archive == nil {
		return outcome, err
	}
	if err := m.unpack(ctx, *archive); err != nil {
		return Outcome{}, err
	}
	return outcome, nil
}

// transfer runs the network part of item. A non-nil archive still has to be unpacked.
func (m *Manager) transfer(ctx context.Context, item Resource) (Outcome, *ArchiveResource, error) {
	if item == nil {
		return Outcome{}, nil, fmt.Errorf("nil resource: %w", pkgerrors.ErrTransferFailed)
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, nil, pkgerrors.NewTransferError(item.Destination(), err)
	}

	switch r := item.(type) {
	case PlainResource:
		outcome, err := m.fetcher.Fetch(ctx, r.URL, r.Path)
		return outcome, nil, err
	case SizedResource:
		complete, err := r.Complete()
		if err != nil {
			return Outcome{}, nil, err
		}
		if complete {
			return Outcome{Status: StatusAlreadyComplete}, nil, nil
		}
		outcome, err := m.fetcher.Fetch(ctx, r.URL, r.Path)
		return outcome, nil, err
	case ArchiveResource:
		outcome, err := m.fetcher.Fetch(ctx, r.URL, r.Path)
		if err != nil {
			return Outcome{}, nil, err
		}
		return outcome, &r, nil
	default:
		return Outcome{}, nil, fmt.Errorf("unsupported resource type %T: %w", item, pkgerrors.ErrTransferFailed)
	}
}

// unpack extracts a fetched archive and removes it. The archive stays on disk when extraction fails.
func (m *Manager) unpack(ctx context.Context, r ArchiveResource) error {
	if m.extractor == nil {
		return pkgerrors.NewExtractionError(r.Path, errors.New("no extractor configured"))
	}
	if err := m.extractSlot.Acquire(ctx, 1); err != nil {
		return pkgerrors.NewExtractionError(r.Path, err)
	}
	defer m.extractSlot.Release(1)

	if err := m.extractor.ExtractAll(ctx, r.Path, r.ExtractDir); err != nil {
		return pkgerrors.NewExtractionError(r.Path, err)
	}
	if err := os.Remove(r.Path); err != nil {
		return pkgerrors.NewExtractionError(r.Path, pkgerrors.Wrap(err, "could not remove archive"))
	}
	return nil
}

func newResult(outcome Outcome, err error) Result {
	if err != nil {
		return Result{Err: err}
	}
	return Result{Outcome: outcome}
}

func logCompletion(batchID string, progress Progress, c completion) {
	fields := logger.Fields{
		"batch":     batchID,
		"path":      c.item.Destination(),
		"kind":      c.item.kind().String(),
		"completed": progress.Completed,
		"total":     progress.Total,
	}
	if c.result.Err != nil {
		fields["error"] = c.result.Err.Error()
		logger.Error("Resource failed", fields)
		return
	}
	fields["status"] = c.result.Outcome.Status.String()
	fields["bytes"] = c.result.Outcome.Bytes
	logger.Debug("Resource done", fields)
}
