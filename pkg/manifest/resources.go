package manifest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pablof036/liblauncher/pkg/download"
	pkgerrors "github.com/pablof036/liblauncher/pkg/errors"
	"github.com/pablof036/liblauncher/pkg/layout"
)

// DefaultAssetBaseURL serves asset objects as <base>/<hash[0:2]>/<hash>.
const DefaultAssetBaseURL = "https://resources.download.minecraft.net"

// ClientResource describes the client jar at client/<assets id>/client.jar.
func (v *Version) ClientResource(l layout.Layout) (download.SizedResource, error) {
	if v.Downloads.Client == nil || v.Downloads.Client.URL == "" {
		return download.SizedResource{}, fmt.Errorf("%w: %s", pkgerrors.ErrClientMissing, v.ID)
	}
	return download.SizedResource{
		Path: l.ClientJar(v.Assets),
		URL:  v.Downloads.Client.URL,
		Size: v.Downloads.Client.Size,
	}, nil
}

// LibraryResources describes the library jars used on osName, in manifest order.
// Libraries without an artifact are skipped and repeated paths are kept once.
func (v *Version) LibraryResources(l layout.Layout, osName string) []download.SizedResource {
	seen := make(map[string]struct{}, len(v.Libraries))
	out := make([]download.SizedResource, 0, len(v.Libraries))
	for _, lib := range v.Libraries {
		a := lib.Downloads.Artifact
		if a == nil || a.Path == "" || !lib.Applies(osName) {
			continue
		}
		if _, dup := seen[a.Path]; dup {
			continue
		}
		seen[a.Path] = struct{}{}
		out = append(out, download.SizedResource{
			Path: l.Library(a.Path),
			URL:  a.URL,
			Size: a.Size,
		})
	}
	return out
}

// AssetIndexResource describes the asset index at assets/indexes/<assets id>.json.
func (v *Version) AssetIndexResource(l layout.Layout) (download.SizedResource, error) {
	if v.AssetIndex.URL == "" {
		return download.SizedResource{}, fmt.Errorf("%w: %s", pkgerrors.ErrAssetIndexMissing, v.ID)
	}
	return download.SizedResource{
		Path: l.AssetIndex(v.Assets),
		URL:  v.AssetIndex.URL,
		Size: v.AssetIndex.Size,
	}, nil
}

// AssetResources describes every object of the index, ordered by hash.
// Objects shared by several asset names are listed once.
func AssetResources(l layout.Layout, index *AssetIndex, baseURL string) []download.SizedResource {
	if baseURL == "" {
		baseURL = DefaultAssetBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	byHash := make(map[string]int64, len(index.Objects))
	for _, obj := range index.Objects {
		byHash[obj.Hash] = obj.Size
	}
	hashes := make([]string, 0, len(byHash))
	for hash := range byHash {
		hashes = append(hashes, hash)
	}
	sort.Strings(hashes)

	out := make([]download.SizedResource, 0, len(hashes))
	for _, hash := range hashes {
		out = append(out, download.SizedResource{
			Path: l.AssetObject(hash),
			URL:  baseURL + "/" + layout.HashPrefix(hash) + "/" + hash,
			Size: byHash[hash],
		})
	}
	return out
}
