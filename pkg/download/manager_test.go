package download

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pablof036/liblauncher/pkg/archive"
	mock_download "github.com/pablof036/liblauncher/pkg/download/mocks"
	pkgerrors "github.com/pablof036/liblauncher/pkg/errors"
	"github.com/pablof036/liblauncher/test/testutil"
)

type observed struct {
	progress Progress
	item     Resource
	result   Result
}

type recorder struct {
	events []observed
}

func (r *recorder) observe(p Progress, item Resource, res Result) {
	r.events = append(r.events, observed{progress: p, item: item, result: res})
}

func TestManager_Fetch_SkipsCompleteFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	// no expectations: any transport call fails the test
	doer := mock_download.NewMockHTTPDoer(ctrl)
	m := NewManager(doer, nil, 0)

	path := filepath.Join(t.TempDir(), "assets", "objects", "ab", "abcd")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, 512), 0o644))

	outcome, err := m.Fetch(context.Background(), SizedResource{Path: path, URL: "https://example.com/ab/abcd", Size: 512})
	require.NoError(t, err)
	assert.Equal(t, Outcome{Status: StatusAlreadyComplete}, outcome)

	rec := &recorder{}
	err = m.FetchAll(context.Background(), []Resource{
		SizedResource{Path: path, URL: "https://example.com/ab/abcd", Size: 512},
	}, Options{OnProgress: rec.observe})
	require.NoError(t, err)
	require.Len(t, rec.events, 1)
	assert.Equal(t, StatusAlreadyComplete, rec.events[0].result.Outcome.Status)
	assert.Equal(t, int64(0), rec.events[0].progress.LastSize)
	assert.Equal(t, 0.0, rec.events[0].progress.LastSpeed)
}

func TestManager_Fetch_ResourceKinds(t *testing.T) {
	srv := testutil.NewFileServer(t)
	url := srv.Add("/client.jar", []byte("0123456789"))

	tests := []struct {
		name     string
		existing []byte
		resource func(path string) Resource
	}{
		{
			name:     "sized resource missing on disk",
			resource: func(path string) Resource { return SizedResource{Path: path, URL: url, Size: 10} },
		},
		{
			name:     "sized resource with wrong length",
			existing: []byte("0123"),
			resource: func(path string) Resource { return SizedResource{Path: path, URL: url, Size: 10} },
		},
		{
			name:     "plain resource is always fetched",
			existing: []byte("0123456789"),
			resource: func(path string) Resource { return PlainResource{Path: path, URL: url} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "client", "5", "client.jar")
			if tt.existing != nil {
				require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
				require.NoError(t, os.WriteFile(path, tt.existing, 0o644))
			}
			before := srv.Hits()

			outcome, err := NewManager(nil, nil, time.Second).Fetch(context.Background(), tt.resource(path))
			require.NoError(t, err)
			assert.Equal(t, StatusFetched, outcome.Status)
			assert.Equal(t, int64(10), outcome.Bytes)
			assert.Equal(t, before+1, srv.Hits())

			content, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "0123456789", string(content))
		})
	}
}

func TestManager_FetchAll_Idempotent(t *testing.T) {
	srv := testutil.NewFileServer(t)
	root := t.TempDir()

	var items []Resource
	for i := range 8 {
		body := bytes.Repeat([]byte{byte('a' + i)}, 100*(i+1))
		url := srv.Add(fmt.Sprintf("/objects/%d", i), body)
		items = append(items, SizedResource{
			Path: filepath.Join(root, "assets", "objects", fmt.Sprintf("%02d", i), fmt.Sprintf("obj%d", i)),
			URL:  url,
			Size: int64(len(body)),
		})
	}

	m := NewManager(nil, nil, time.Second)

	first := &recorder{}
	require.NoError(t, m.FetchAll(context.Background(), items, Options{OnProgress: first.observe}))
	assert.Equal(t, int64(len(items)), srv.Hits())
	for _, ev := range first.events {
		assert.Equal(t, StatusFetched, ev.result.Outcome.Status)
	}

	second := &recorder{}
	require.NoError(t, m.FetchAll(context.Background(), items, Options{OnProgress: second.observe}))
	assert.Equal(t, int64(len(items)), srv.Hits(), "second run must not touch the network")
	require.Len(t, second.events, len(items))
	for _, ev := range second.events {
		assert.Equal(t, StatusAlreadyComplete, ev.result.Outcome.Status)
	}
	assert.Equal(t, int64(0), second.events[len(items)-1].progress.TotalBytes)
}

// concurrencyDoer answers every request after a delay and tracks how many are in flight.
type concurrencyDoer struct {
	inFlight atomic.Int64
	peak     atomic.Int64
	delay    time.Duration
	body     []byte
}

func (d *concurrencyDoer) Do(req *http.Request) (*http.Response, error) {
	n := d.inFlight.Add(1)
	defer d.inFlight.Add(-1)
	for {
		p := d.peak.Load()
		if n <= p || d.peak.CompareAndSwap(p, n) {
			break
		}
	}

	select {
	case <-time.After(d.delay):
	case <-req.Context().Done():
		return nil, req.Context().Err()
	}
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(d.body))}, nil
}

func TestManager_FetchAll_BoundedConcurrency(t *testing.T) {
	doer := &concurrencyDoer{delay: 20 * time.Millisecond, body: []byte("0123456789")}
	m := NewManager(doer, nil, 0)

	root := t.TempDir()
	items := make([]Resource, 20)
	for i := range items {
		items[i] = PlainResource{Path: filepath.Join(root, fmt.Sprintf("f%02d", i)), URL: fmt.Sprintf("https://example.com/%d", i)}
	}

	rec := &recorder{}
	require.NoError(t, m.FetchAll(context.Background(), items, Options{OnProgress: rec.observe}))

	assert.LessOrEqual(t, doer.peak.Load(), int64(DefaultConcurrency))
	assert.Greater(t, doer.peak.Load(), int64(1), "transfers should overlap")

	require.Len(t, rec.events, len(items))
	var last float64
	for i, ev := range rec.events {
		assert.Equal(t, i+1, ev.progress.Completed)
		assert.Equal(t, len(items), ev.progress.Total)
		assert.GreaterOrEqual(t, ev.progress.Fraction(), last)
		last = ev.progress.Fraction()
		assert.Equal(t, int64(10), ev.progress.LastSize)
		assert.Equal(t, int64(10*(i+1)), ev.progress.TotalBytes)
	}
	assert.Equal(t, 1.0, last)
}

func TestManager_FetchAll_CustomConcurrency(t *testing.T) {
	doer := &concurrencyDoer{delay: 10 * time.Millisecond, body: []byte("x")}
	m := NewManager(doer, nil, 0)

	root := t.TempDir()
	items := make([]Resource, 6)
	for i := range items {
		items[i] = PlainResource{Path: filepath.Join(root, fmt.Sprintf("f%d", i)), URL: "https://example.com"}
	}

	require.NoError(t, m.FetchAll(context.Background(), items, Options{Concurrency: 1}))
	assert.Equal(t, int64(1), doer.peak.Load())
}

func TestManager_FetchAll_Archive(t *testing.T) {
	srv := testutil.NewFileServer(t)
	url := srv.Add("/jre.tar.gz", testutil.TarGzBytes(t, map[string]string{"a/b.txt": "hello"}))

	root := t.TempDir()
	archivePath := filepath.Join(root, "jdk", "jre.tar.gz")
	extractDir := filepath.Join(root, "jdk", "17")

	m := NewManager(nil, archive.NewExtractor(), time.Second)
	rec := &recorder{}
	err := m.FetchAll(context.Background(), []Resource{
		ArchiveResource{Path: archivePath, URL: url, ExtractDir: extractDir},
	}, Options{OnProgress: rec.observe})
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(extractDir, "a", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
	assert.NoFileExists(t, archivePath)

	require.Len(t, rec.events, 1)
	assert.Equal(t, StatusFetched, rec.events[0].result.Outcome.Status)
	assert.Equal(t, 1.0, rec.events[0].progress.Fraction())
}

func TestManager_Fetch_ArchiveExtractionFailure(t *testing.T) {
	srv := testutil.NewFileServer(t)
	url := srv.Add("/jre.tar.gz", []byte("not really an archive"))

	ctrl := gomock.NewController(t)
	extractor := mock_download.NewMockExtractor(ctrl)

	root := t.TempDir()
	archivePath := filepath.Join(root, "jdk", "jre.tar.gz")
	extractDir := filepath.Join(root, "jdk", "17")
	extractor.EXPECT().
		ExtractAll(gomock.Any(), archivePath, extractDir).
		Return(errors.New("gzip: invalid header"))

	m := NewManager(nil, extractor, time.Second)
	_, err := m.Fetch(context.Background(), ArchiveResource{Path: archivePath, URL: url, ExtractDir: extractDir})
	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrExtractionFailed)
	assert.Contains(t, err.Error(), archivePath)
	assert.FileExists(t, archivePath, "archive is kept when extraction fails")
}

func TestManager_Fetch_ArchiveWithoutExtractor(t *testing.T) {
	srv := testutil.NewFileServer(t)
	url := srv.Add("/jre.tar.gz", []byte("data"))

	archivePath := filepath.Join(t.TempDir(), "jre.tar.gz")
	_, err := NewManager(nil, nil, time.Second).Fetch(context.Background(), ArchiveResource{
		Path: archivePath, URL: url, ExtractDir: t.TempDir(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrExtractionFailed)
}

func TestManager_Fetch_ArchiveExtractionIsSerialized(t *testing.T) {
	srv := testutil.NewFileServer(t)
	url := srv.Add("/a.tar.gz", []byte("archive"))

	ctrl := gomock.NewController(t)
	extractor := mock_download.NewMockExtractor(ctrl)

	var active, peak atomic.Int64
	extractor.EXPECT().ExtractAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, string) error {
			n := active.Add(1)
			defer active.Add(-1)
			if n > peak.Load() {
				peak.Store(n)
			}
			time.Sleep(10 * time.Millisecond)
			return nil
		}).Times(4)

	root := t.TempDir()
	items := make([]Resource, 4)
	for i := range items {
		items[i] = ArchiveResource{
			Path:       filepath.Join(root, fmt.Sprintf("a%d.tar.gz", i)),
			URL:        url,
			ExtractDir: filepath.Join(root, fmt.Sprintf("out%d", i)),
		}
	}

	require.NoError(t, NewManager(nil, extractor, time.Second).FetchAll(context.Background(), items, Options{}))
	assert.Equal(t, int64(1), peak.Load())
	for _, item := range items {
		assert.NoFileExists(t, item.Destination())
	}
}

func TestManager_FetchAll_FailFast(t *testing.T) {
	srv := testutil.NewFileServer(t)
	root := t.TempDir()

	items := make([]Resource, 5)
	for i := range items {
		path := filepath.Join(root, "libraries", fmt.Sprintf("lib%d.jar", i+1))
		var url string
		if i == 2 {
			url = srv.Status("/lib3.jar", http.StatusInternalServerError)
		} else {
			url = srv.Add(fmt.Sprintf("/lib%d.jar", i+1), []byte("jar-bytes"))
		}
		items[i] = SizedResource{Path: path, URL: url, Size: 9}
	}

	rec := &recorder{}
	err := NewManager(nil, nil, time.Second).FetchAll(context.Background(), items, Options{OnProgress: rec.observe})
	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrTransferFailed)
	assert.Contains(t, err.Error(), items[2].Destination())
	assert.Contains(t, err.Error(), "500")

	require.NotEmpty(t, rec.events)
	lastEvent := rec.events[len(rec.events)-1]
	assert.Equal(t, items[2], lastEvent.item, "the failing item is the last one reported")
	assert.Error(t, lastEvent.result.Err)
	assert.Equal(t, int64(0), lastEvent.progress.LastSize)

	for _, ev := range rec.events[:len(rec.events)-1] {
		require.NoError(t, ev.result.Err)
		assert.FileExists(t, ev.item.Destination())
	}
}

func TestManager_FetchAll_ContinueOnError(t *testing.T) {
	srv := testutil.NewFileServer(t)
	root := t.TempDir()

	items := make([]Resource, 5)
	for i := range items {
		path := filepath.Join(root, "libraries", fmt.Sprintf("lib%d.jar", i+1))
		var url string
		if i == 2 {
			url = srv.Status("/lib3.jar", http.StatusInternalServerError)
		} else {
			url = srv.Add(fmt.Sprintf("/lib%d.jar", i+1), []byte("jar-bytes"))
		}
		items[i] = SizedResource{Path: path, URL: url, Size: 9}
	}

	rec := &recorder{}
	err := NewManager(nil, nil, time.Second).FetchAll(context.Background(), items, Options{
		ContinueOnError: true,
		OnProgress:      rec.observe,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrTransferFailed)
	assert.Contains(t, err.Error(), items[2].Destination())

	require.Len(t, rec.events, len(items))
	assert.Equal(t, len(items), rec.events[len(items)-1].progress.Completed)
	assert.Equal(t, int64(4*9), rec.events[len(items)-1].progress.TotalBytes)
	for i, item := range items {
		if i == 2 {
			assert.NoFileExists(t, item.Destination())
			continue
		}
		assert.FileExists(t, item.Destination())
	}
}

func TestManager_FetchAll_CancelledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	doer := mock_download.NewMockHTTPDoer(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := []Resource{PlainResource{Path: filepath.Join(t.TempDir(), "f"), URL: "https://example.com/f"}}
	err := NewManager(doer, nil, 0).FetchAll(ctx, items, Options{ContinueOnError: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestManager_FetchAll_Empty(t *testing.T) {
	called := false
	err := NewManager(nil, nil, 0).FetchAll(context.Background(), nil, Options{
		OnProgress: func(Progress, Resource, Result) { called = true },
	})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestManager_FetchAll_NilItem(t *testing.T) {
	err := NewManager(nil, nil, 0).FetchAll(context.Background(), []Resource{nil}, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrTransferFailed)
}

type foreignResource struct{ PlainResource }

func (foreignResource) kind() resourceKind { return resourceKind(99) }

func TestManager_Fetch_UnknownResource(t *testing.T) {
	_, err := NewManager(nil, nil, 0).Fetch(context.Background(), foreignResource{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported resource type")
}

func TestProgress_Fraction(t *testing.T) {
	assert.Equal(t, 1.0, Progress{}.Fraction())
	assert.Equal(t, 0.5, Progress{Completed: 2, Total: 4}.Fraction())
}

func TestProgress_Record(t *testing.T) {
	var p Progress
	p.Total = 3
	p.record(Result{Outcome: Outcome{Status: StatusFetched, Bytes: 100, Speed: 50}})
	assert.Equal(t, Progress{Completed: 1, Total: 3, LastSize: 100, TotalBytes: 100, LastSpeed: 50}, p)

	p.record(Result{Outcome: Outcome{Status: StatusAlreadyComplete}})
	assert.Equal(t, Progress{Completed: 2, Total: 3, TotalBytes: 100}, p)

	p.record(Result{Err: errors.New("boom")})
	assert.Equal(t, Progress{Completed: 3, Total: 3, TotalBytes: 100}, p)
}
