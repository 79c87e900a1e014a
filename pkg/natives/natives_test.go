package natives

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pablof036/liblauncher/internal/logger"
	pkgerrors "github.com/pablof036/liblauncher/pkg/errors"
	"github.com/pablof036/liblauncher/pkg/layout"
	"github.com/pablof036/liblauncher/pkg/manifest"
	"github.com/pablof036/liblauncher/pkg/platform"
	"github.com/pablof036/liblauncher/test/testutil"
)

func nativeLib(name, artifactPath, osName string) manifest.Library {
	return manifest.Library{
		Name:      name,
		Downloads: manifest.LibraryDownloads{Artifact: &manifest.Artifact{Path: artifactPath}},
		Rules:     []manifest.Rule{{Action: manifest.ActionAllow, OS: &manifest.RuleOS{Name: osName}}},
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		platform platform.Platform
		jars     map[string]map[string]string
		libs     []manifest.Library
		expected map[string]string
	}{
		{
			name:     "linux shared objects",
			platform: platform.Platform{OS: platform.OSLinux, Arch: platform.ArchAMD64},
			jars: map[string]map[string]string{
				"org/lwjgl/lwjgl-natives-linux.jar": {
					"linux/x64/org/lwjgl/liblwjgl.so": "elf-lwjgl",
					"linux/x64/org/lwjgl/libglfw.so":  "elf-glfw",
					"META-INF/MANIFEST.MF":            "Manifest-Version: 1.0",
				},
				"org/lwjgl/lwjgl-natives-windows.jar": {"windows/x64/org/lwjgl/lwjgl.dll": "pe"},
			},
			libs: []manifest.Library{
				nativeLib("lwjgl:natives-linux", "org/lwjgl/lwjgl-natives-linux.jar", "linux"),
				nativeLib("lwjgl:natives-windows", "org/lwjgl/lwjgl-natives-windows.jar", "windows"),
				{Name: "plain", Downloads: manifest.LibraryDownloads{Artifact: &manifest.Artifact{Path: "plain.jar"}}},
			},
			expected: map[string]string{"liblwjgl.so": "elf-lwjgl", "libglfw.so": "elf-glfw"},
		},
		{
			name:     "windows dll",
			platform: platform.Platform{OS: platform.OSWindows, Arch: platform.ArchAMD64},
			jars: map[string]map[string]string{
				"org/lwjgl/lwjgl-natives-windows.jar": {"windows/x64/org/lwjgl/lwjgl.dll": "pe", "lwjgl.dll.sha1": "abc"},
			},
			libs:     []manifest.Library{nativeLib("lwjgl:natives-windows", "org/lwjgl/lwjgl-natives-windows.jar", "windows")},
			expected: map[string]string{"lwjgl.dll": "pe"},
		},
		{
			name:     "macos dylib and jnilib",
			platform: platform.Platform{OS: platform.OSDarwin, Arch: platform.ArchARM64},
			jars: map[string]map[string]string{
				"ca/weblite/bridge.jar": {"libjcocoa.dylib": "macho", "old/libjinput-osx.jnilib": "jni"},
			},
			libs:     []manifest.Library{nativeLib("bridge", "ca/weblite/bridge.jar", "osx")},
			expected: map[string]string{"libjcocoa.dylib": "macho", "libjinput-osx.jnilib": "jni"},
		},
		{
			name:     "windows amd64 skips x86 and arm64 jars",
			platform: platform.Platform{OS: platform.OSWindows, Arch: platform.ArchAMD64},
			jars: map[string]map[string]string{
				"org/lwjgl/lwjgl-3.3.1-natives-windows.jar":       {"windows/x64/org/lwjgl/lwjgl.dll": "x64"},
				"org/lwjgl/lwjgl-3.3.1-natives-windows-x86.jar":   {"windows/x86/org/lwjgl/lwjgl.dll": "x86"},
				"org/lwjgl/lwjgl-3.3.1-natives-windows-arm64.jar": {"windows/arm64/org/lwjgl/lwjgl.dll": "arm64"},
			},
			libs: []manifest.Library{
				nativeLib("org.lwjgl:lwjgl:3.3.1:natives-windows", "org/lwjgl/lwjgl-3.3.1-natives-windows.jar", "windows"),
				nativeLib("org.lwjgl:lwjgl:3.3.1:natives-windows-arm64", "org/lwjgl/lwjgl-3.3.1-natives-windows-arm64.jar", "windows"),
				nativeLib("org.lwjgl:lwjgl:3.3.1:natives-windows-x86", "org/lwjgl/lwjgl-3.3.1-natives-windows-x86.jar", "windows"),
			},
			expected: map[string]string{"lwjgl.dll": "x64"},
		},
		{
			name:     "darwin arm64 prefers arm64 jar",
			platform: platform.Platform{OS: platform.OSDarwin, Arch: platform.ArchARM64},
			jars: map[string]map[string]string{
				"org/lwjgl/lwjgl-3.3.1-natives-macos-arm64.jar": {"macos/arm64/org/lwjgl/liblwjgl.dylib": "arm64"},
				"org/lwjgl/lwjgl-3.3.1-natives-macos.jar":       {"macos/x64/org/lwjgl/liblwjgl.dylib": "x64"},
			},
			libs: []manifest.Library{
				nativeLib("org.lwjgl:lwjgl:3.3.1:natives-macos-arm64", "org/lwjgl/lwjgl-3.3.1-natives-macos-arm64.jar", "osx"),
				nativeLib("org.lwjgl:lwjgl:3.3.1:natives-macos", "org/lwjgl/lwjgl-3.3.1-natives-macos.jar", "osx"),
			},
			expected: map[string]string{"liblwjgl.dylib": "arm64"},
		},
		{
			name:     "arm64 jar replaces untagged entry of the same name",
			platform: platform.Platform{OS: platform.OSDarwin, Arch: platform.ArchARM64},
			jars: map[string]map[string]string{
				"org/lwjgl/lwjgl-natives-macos-arm64.jar": {"liblwjgl.dylib": "arm64"},
				"org/lwjgl/lwjgl-natives-osx.jar":         {"liblwjgl.dylib": "universal", "libopenal.dylib": "al"},
			},
			libs: []manifest.Library{
				nativeLib("org.lwjgl:lwjgl:3.2.2:natives-macos-arm64", "org/lwjgl/lwjgl-natives-macos-arm64.jar", "osx"),
				nativeLib("org.lwjgl:lwjgl:3.2.2:natives-osx", "org/lwjgl/lwjgl-natives-osx.jar", "osx"),
			},
			expected: map[string]string{"liblwjgl.dylib": "arm64", "libopenal.dylib": "al"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := layout.New(t.TempDir())
			for jar, entries := range tt.jars {
				testutil.WriteJar(t, l.Library(jar), entries)
			}

			written, err := NewExtractor(l, tt.platform).Extract(context.Background(), tt.libs)
			require.NoError(t, err)
			assert.Len(t, written, len(tt.expected))

			entries, err := os.ReadDir(l.NativesDir())
			require.NoError(t, err)
			assert.Len(t, entries, len(tt.expected))
			for name, content := range tt.expected {
				data, err := os.ReadFile(filepath.Join(l.NativesDir(), name))
				require.NoError(t, err)
				assert.Equal(t, content, string(data))
			}
		})
	}
}

func TestExtract_Idempotent(t *testing.T) {
	l := layout.New(t.TempDir())
	testutil.WriteJar(t, l.Library("n.jar"), map[string]string{"liblwjgl.so": "elf"})
	libs := []manifest.Library{nativeLib("n", "n.jar", "linux")}
	e := NewExtractor(l, platform.Platform{OS: platform.OSLinux, Arch: platform.ArchAMD64})

	_, err := e.Extract(context.Background(), libs)
	require.NoError(t, err)
	_, err = e.Extract(context.Background(), libs)
	require.NoError(t, err, "existing natives directory is not an error")
	assert.FileExists(t, l.Native("liblwjgl.so"))
}

func TestExtract_DuplicateBasename(t *testing.T) {
	var buf bytes.Buffer
	logger.SetTestOutput(&buf)
	logger.InitLogger("warn", logger.FormatConsole)
	defer func() {
		logger.UnsetTestOutput()
		logger.InitLogger("info", logger.FormatConsole)
	}()

	l := layout.New(t.TempDir())
	testutil.WriteJar(t, l.Library("a.jar"), map[string]string{"linux/x64/libopenal.so": "first"})
	testutil.WriteJar(t, l.Library("b.jar"), map[string]string{"libopenal.so": "second"})
	libs := []manifest.Library{nativeLib("a", "a.jar", "linux"), nativeLib("b", "b.jar", "linux")}

	written, err := NewExtractor(l, platform.Platform{OS: platform.OSLinux, Arch: platform.ArchAMD64}).Extract(context.Background(), libs)
	require.NoError(t, err)
	assert.Equal(t, []string{l.Native("libopenal.so")}, written)

	data, err := os.ReadFile(l.Native("libopenal.so"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
	assert.Contains(t, buf.String(), "libopenal.so")
	assert.Contains(t, buf.String(), "more than one library")
}

func TestExtract_ForeignArchOnly(t *testing.T) {
	l := layout.New(t.TempDir())
	testutil.WriteJar(t, l.Library("n.jar"), map[string]string{"windows/x64/lwjgl.dll": "x64"})

	written, err := NewExtractor(l, platform.Platform{OS: platform.OSWindows, Arch: platform.ArchARM64}).
		Extract(context.Background(), []manifest.Library{nativeLib("n", "n.jar", "windows")})
	require.NoError(t, err)
	assert.Empty(t, written)
}

func TestExtract_NoApplicableLibraries(t *testing.T) {
	l := layout.New(t.TempDir())
	e := NewExtractor(l, platform.Platform{OS: platform.OSLinux, Arch: platform.ArchAMD64})

	written, err := e.Extract(context.Background(), []manifest.Library{nativeLib("w", "w.jar", "windows")})
	require.NoError(t, err)
	assert.Empty(t, written)
	assert.DirExists(t, l.NativesDir())
}

func TestExtract_Errors(t *testing.T) {
	linux := platform.Platform{OS: platform.OSLinux, Arch: platform.ArchAMD64}

	t.Run("missing jar", func(t *testing.T) {
		l := layout.New(t.TempDir())
		_, err := NewExtractor(l, linux).Extract(context.Background(), []manifest.Library{nativeLib("n", "missing.jar", "linux")})
		require.Error(t, err)
		assert.ErrorIs(t, err, pkgerrors.ErrExtractionFailed)
		assert.Contains(t, err.Error(), l.Library("missing.jar"))
	})

	t.Run("corrupt jar", func(t *testing.T) {
		l := layout.New(t.TempDir())
		require.NoError(t, os.MkdirAll(l.LibrariesDir(), 0o755))
		require.NoError(t, os.WriteFile(l.Library("bad.jar"), []byte("definitely not a zip"), 0o644))

		_, err := NewExtractor(l, linux).Extract(context.Background(), []manifest.Library{nativeLib("n", "bad.jar", "linux")})
		require.Error(t, err)
		assert.ErrorIs(t, err, pkgerrors.ErrExtractionFailed)
	})

	t.Run("jar without native entry", func(t *testing.T) {
		l := layout.New(t.TempDir())
		testutil.WriteJar(t, l.Library("empty.jar"), map[string]string{"META-INF/MANIFEST.MF": "x", "lwjgl.dll": "pe"})

		_, err := NewExtractor(l, linux).Extract(context.Background(), []manifest.Library{nativeLib("n", "empty.jar", "linux")})
		require.Error(t, err)
		assert.ErrorIs(t, err, pkgerrors.ErrNativeEntryMissing)
		assert.NotErrorIs(t, err, pkgerrors.ErrExtractionFailed)
	})
}
