package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	pkgerrors "github.com/pablof036/liblauncher/pkg/errors"
	"github.com/pablof036/liblauncher/pkg/fsutil"
)

const copyBufferSize = 32 * 1024

// Fetcher streams single resources from HTTP to disk.
type Fetcher struct {
	client HTTPDoer
}

// NewFetcher creates a Fetcher using client. When client is nil an http.Client is built whose
// timeout bounds the wait for response headers only, so large bodies are not cut off.
func NewFetcher(client HTTPDoer, timeout time.Duration) *Fetcher {
	if client == nil {
		client = NewHTTPClient(timeout)
	}
	return &Fetcher{client: client}
}

// NewHTTPClient returns a client tuned for many parallel requests against the same hosts.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = timeout
	transport.MaxIdleConnsPerHost = DefaultConcurrency
	return &http.Client{Transport: transport}
}

// Fetch downloads url into path, creating parent directories and truncating any existing file.
// Speed is bytes per second over the copy loop only. On failure a partial file may remain at path.
func (f *Fetcher) Fetch(ctx context.Context, url, path string) (Outcome, error) {
	resp, err := f.doRequest(ctx, url)
	if err != nil {
		return Outcome{}, pkgerrors.NewTransferError(path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	n, elapsed, err := writeBody(resp.Body, path)
	if err != nil {
		return Outcome{}, pkgerrors.NewTransferError(path, err)
	}

	return Outcome{Status: StatusFetched, Bytes: n, Speed: bytesPerSecond(n, elapsed)}, nil
}

func (f *Fetcher) doRequest(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create request")
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "download failed")
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return resp, nil
}

func writeBody(body io.Reader, path string) (int64, time.Duration, error) {
	if err := fsutil.EnsureFileDir(path); err != nil {
		return 0, 0, pkgerrors.Wrap(err, "could not create destination directory")
	}
	out, err := fsutil.CreateFilePerm(path, fsutil.FileModeDefault)
	if err != nil {
		return 0, 0, pkgerrors.Wrap(err, "could not create file")
	}

	start := time.Now()
	n, err := io.CopyBuffer(out, body, make([]byte, copyBufferSize))
	elapsed := time.Since(start)
	if err != nil {
		_ = out.Close()
		return n, elapsed, pkgerrors.Wrap(err, "could not write file")
	}
	if err := out.Close(); err != nil {
		return n, elapsed, pkgerrors.Wrap(err, "could not close file")
	}
	return n, elapsed, nil
}

func bytesPerSecond(n int64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return float64(n)
	}
	return float64(n) / elapsed.Seconds()
}
