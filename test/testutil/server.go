package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

// FileServer serves a fixed set of bodies keyed by request path and counts requests.
// Paths without a body answer 404. Status overrides a body with another status code.
type FileServer struct {
	*httptest.Server

	mu       sync.Mutex
	bodies   map[string][]byte
	statuses map[string]int
	hits     atomic.Int64
}

// NewFileServer starts a FileServer that is closed when the test ends.
func NewFileServer(t *testing.T) *FileServer {
	t.Helper()
	fs := &FileServer{
		bodies:   map[string][]byte{},
		statuses: map[string]int{},
	}
	fs.Server = httptest.NewServer(http.HandlerFunc(fs.serve))
	t.Cleanup(fs.Close)
	return fs
}

// Add registers body under path and returns the full URL for it.
func (fs *FileServer) Add(path string, body []byte) string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.bodies[path] = body
	return fs.URL + path
}

// Status makes path answer with code and no body.
func (fs *FileServer) Status(path string, code int) string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.statuses[path] = code
	return fs.URL + path
}

// Hits returns the number of requests served so far.
func (fs *FileServer) Hits() int64 {
	return fs.hits.Load()
}

func (fs *FileServer) serve(w http.ResponseWriter, r *http.Request) {
	fs.hits.Add(1)

	fs.mu.Lock()
	code, hasCode := fs.statuses[r.URL.Path]
	body, hasBody := fs.bodies[r.URL.Path]
	fs.mu.Unlock()

	switch {
	case hasCode:
		w.WriteHeader(code)
	case hasBody:
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	default:
		http.NotFound(w, r)
	}
}
