package jdk

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/pablof036/liblauncher/pkg/errors"
	"github.com/pablof036/liblauncher/pkg/layout"
	"github.com/pablof036/liblauncher/pkg/platform"
)

const searchResponse = `{
  "result": [
    {"major_version": 17, "java_version": "17.0.7+7", "distribution": "temurin",
     "filename": "OpenJDK17U-jre_x64_linux_hotspot_17.0.7_7.tar.gz",
     "links": {"pkg_download_redirect": "https://example.com/17.0.7.tar.gz"}},
    {"major_version": 17, "java_version": "17.0.9+9", "distribution": "temurin",
     "filename": "OpenJDK17U-jre_x64_alpine-linux_hotspot_17.0.9_9.tar.gz",
     "links": {"pkg_download_redirect": "https://example.com/alpine.tar.gz"}},
    {"major_version": 17, "java_version": "17.0.8.1+1", "distribution": "microsoft",
     "filename": "microsoft-jre-17.0.8.1-linux-x64.tar.gz",
     "links": {"pkg_download_redirect": "https://example.com/17.0.8.1.tar.gz"}},
    {"major_version": 21, "java_version": "21.0.1+12", "distribution": "temurin",
     "filename": "OpenJDK21U-jre_x64_linux_hotspot_21.0.1_12.tar.gz",
     "links": {"pkg_download_redirect": "https://example.com/21.tar.gz"}}
  ]
}`

var linuxAMD64 = platform.Platform{OS: platform.OSLinux, Arch: platform.ArchAMD64}

func TestClient_Search(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchResponse))
	}))
	defer server.Close()

	c := NewClient(server.Client(), server.URL+"/disco/v3.0/packages", linuxAMD64)

	tests := []struct {
		name        string
		major       int
		expected    Release
		expectError error
	}{
		{
			name:  "newest non-alpine build",
			major: 17,
			expected: Release{
				Major:    17,
				Version:  "17.0.8.1+1",
				Filename: "microsoft-jre-17.0.8.1-linux-x64.tar.gz",
				URL:      "https://example.com/17.0.8.1.tar.gz",
			},
		},
		{
			name:  "single candidate",
			major: 21,
			expected: Release{
				Major:    21,
				Version:  "21.0.1+12",
				Filename: "OpenJDK21U-jre_x64_linux_hotspot_21.0.1_12.tar.gz",
				URL:      "https://example.com/21.tar.gz",
			},
		},
		{name: "unknown major", major: 8, expectError: pkgerrors.ErrJavaNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			release, err := c.Search(context.Background(), tt.major)
			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, release)
		})
	}

	assert.Equal(t, map[string]string{
		"architecture":           "x86-64",
		"operating_system":       "linux",
		"archive_type":           "tar.gz",
		"package_type":           "jre",
		"javafx_bundled":         "false",
		"directly_downloadable":  "true",
		"free_use_in_production": "true",
		"distribution":           "temurin,microsoft",
	}, gotQuery)
}

func TestClient_Query_Windows(t *testing.T) {
	c := NewClient(nil, "", platform.Platform{OS: platform.OSWindows, Arch: platform.ArchARM64})
	q := c.Query()
	assert.Equal(t, "zip", q.Get("archive_type"))
	assert.Equal(t, "windows", q.Get("operating_system"))
	assert.Equal(t, "aarch64", q.Get("architecture"))
	assert.Equal(t, DefaultAPIURL, c.apiURL)
}

func TestClient_Search_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"result": [`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := NewClient(server.Client(), server.URL, linuxAMD64).Search(context.Background(), 17)
			require.Error(t, err)
			assert.NotErrorIs(t, err, pkgerrors.ErrJavaNotFound)
		})
	}
}

func TestRelease_Resource(t *testing.T) {
	l := layout.New("/root")
	r := Release{Major: 17, Filename: "jre.tar.gz", URL: "https://example.com/jre.tar.gz"}

	res := r.Resource(l)
	assert.Equal(t, l.JDKArchive("jre.tar.gz"), res.Path)
	assert.Equal(t, l.JDKHome("17"), res.ExtractDir)
	assert.Equal(t, "https://example.com/jre.tar.gz", res.URL)
}

func TestJavaPath(t *testing.T) {
	tests := []struct {
		name     string
		platform platform.Platform
		create   string
	}{
		{name: "versioned top directory", platform: linuxAMD64, create: "jdk-17.0.8+7-jre/bin/java"},
		{name: "flat archive", platform: linuxAMD64, create: "bin/java"},
		{name: "macos bundle", platform: platform.Platform{OS: platform.OSDarwin, Arch: platform.ArchARM64}, create: "jdk-17.0.8+7-jre/Contents/Home/bin/java"},
		{name: "windows", platform: platform.Platform{OS: platform.OSWindows, Arch: platform.ArchAMD64}, create: "jdk-17.0.8+7-jre/bin/java.exe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := layout.New(t.TempDir())
			want := filepath.Join(l.JDKHome("17"), filepath.FromSlash(tt.create))
			require.NoError(t, os.MkdirAll(filepath.Dir(want), 0o755))
			require.NoError(t, os.WriteFile(want, []byte("#!"), 0o755))

			got, err := JavaPath(l, tt.platform, 17)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	t.Run("not installed", func(t *testing.T) {
		_, err := JavaPath(layout.New(t.TempDir()), linuxAMD64, 17)
		assert.ErrorIs(t, err, pkgerrors.ErrJavaNotFound)
	})
}
