// Package jdk finds Java runtime builds through the foojay Disco API and locates installed ones.
package jdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/pablof036/liblauncher/internal/logger"
	"github.com/pablof036/liblauncher/pkg/download"
	pkgerrors "github.com/pablof036/liblauncher/pkg/errors"
	"github.com/pablof036/liblauncher/pkg/layout"
	"github.com/pablof036/liblauncher/pkg/platform"
)

// DefaultAPIURL is the Disco API package search endpoint.
const DefaultAPIURL = "https://api.foojay.io/disco/v3.0/packages"

// Builds for musl based distributions are listed under operating_system=linux too.
const alpineMarker = "alpine-linux"

// Release is one downloadable runtime build.
type Release struct {
	Major    int
	Version  string
	Filename string
	URL      string
}

// Resource describes the archive at jdk/<filename>, unpacked into jdk/<major>.
func (r Release) Resource(l layout.Layout) download.ArchiveResource {
	return download.ArchiveResource{
		Path:       l.JDKArchive(r.Filename),
		URL:        r.URL,
		ExtractDir: l.JDKHome(strconv.Itoa(r.Major)),
	}
}

type searchResult struct {
	Result []discoPackage `json:"result"`
}

type discoPackage struct {
	MajorVersion int    `json:"major_version"`
	JavaVersion  string `json:"java_version"`
	Distribution string `json:"distribution"`
	Filename     string `json:"filename"`
	Links        struct {
		PkgDownloadRedirect string `json:"pkg_download_redirect"`
	} `json:"links"`
}

// Client queries the Disco API.
type Client struct {
	http     download.HTTPDoer
	apiURL   string
	platform platform.Platform
}

// NewClient creates a Client searching builds for p. An empty apiURL means DefaultAPIURL.
func NewClient(doer download.HTTPDoer, apiURL string, p platform.Platform) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Client{http: doer, apiURL: apiURL, platform: p}
}

// Query returns the search parameters sent for the client's platform.
func (c *Client) Query() url.Values {
	q := url.Values{}
	q.Set("architecture", c.platform.DiscoArch())
	q.Set("operating_system", c.platform.DiscoOS())
	q.Set("archive_type", c.platform.ArchiveType())
	q.Set("package_type", "jre")
	q.Set("javafx_bundled", "false")
	q.Set("directly_downloadable", "true")
	q.Set("free_use_in_production", "true")
	q.Set("distribution", "temurin,microsoft")
	return q
}

// Search returns the newest build of the given major version.
// It fails with ErrJavaNotFound when the API lists none.
func (c *Client) Search(ctx context.Context, major int) (Release, error) {
	packages, err := c.fetch(ctx)
	if err != nil {
		return Release{}, err
	}

	candidates := selectPackages(packages, major)
	if len(candidates) == 0 {
		return Release{}, fmt.Errorf("%w: %d for %s", pkgerrors.ErrJavaNotFound, major, c.platform)
	}

	best := candidates[0]
	logger.Debug("Selected java runtime", logger.Fields{
		"major":        major,
		"version":      best.JavaVersion,
		"distribution": best.Distribution,
		"candidates":   len(candidates),
	})
	return Release{
		Major:    major,
		Version:  best.JavaVersion,
		Filename: best.Filename,
		URL:      best.Links.PkgDownloadRedirect,
	}, nil
}

func (c *Client) fetch(ctx context.Context) ([]discoPackage, error) {
	endpoint, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "invalid jdk api url")
	}
	endpoint.RawQuery = c.Query().Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), http.NoBody)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "jdk search failed")
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("jdk search failed: unexpected status code: %d", resp.StatusCode)
	}

	var result searchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: jdk search response: %w", pkgerrors.ErrManifestParse, err)
	}
	return result.Result, nil
}

// selectPackages keeps usable packages of one major version, newest first.
func selectPackages(packages []discoPackage, major int) []discoPackage {
	var out []discoPackage
	for _, p := range packages {
		if p.MajorVersion != major || p.Links.PkgDownloadRedirect == "" || p.Filename == "" {
			continue
		}
		if strings.Contains(p.Filename, alpineMarker) {
			continue
		}
		out = append(out, p)
	}

	parsed := make(map[string]*version.Version, len(out))
	for _, p := range out {
		if v, err := version.NewVersion(p.JavaVersion); err == nil {
			parsed[p.JavaVersion] = v
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		vi, vj := parsed[out[i].JavaVersion], parsed[out[j].JavaVersion]
		switch {
		case vi == nil:
			return false
		case vj == nil:
			return true
		default:
			return vi.GreaterThan(vj)
		}
	})
	return out
}

// JavaPath returns the java executable of an installed runtime below jdk/<major>.
func JavaPath(l layout.Layout, p platform.Platform, major int) (string, error) {
	home := l.JDKHome(strconv.Itoa(major))
	exe := "java" + p.ExecutableSuffix()
	patterns := []string{
		filepath.Join(home, "bin", exe),
		filepath.Join(home, "*", "bin", exe),
		filepath.Join(home, "*", "Contents", "Home", "bin", exe),
	}
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return "", pkgerrors.Wrap(err, "invalid java search pattern")
		}
		if len(matches) > 0 {
			sort.Strings(matches)
			return matches[0], nil
		}
	}
	return "", fmt.Errorf("%w: %d in %s", pkgerrors.ErrJavaNotFound, major, home)
}
