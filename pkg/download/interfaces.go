//go:generate mockgen -destination=./mocks/download.go . HTTPDoer,Extractor
package download

import (
	"context"
	"net/http"
)

// HTTPDoer is the transport used to fetch resources. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Extractor unpacks a downloaded archive into a destination directory.
type Extractor interface {
	// ExtractAll unpacks every entry of the archive at archivePath below destDir.
	ExtractAll(ctx context.Context, archivePath, destDir string) error
}
