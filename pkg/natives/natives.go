// Package natives copies the platform's shared objects out of native library jars into the
// natives directory the game loads them from.
package natives

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mholt/archives"

	"github.com/pablof036/liblauncher/internal/logger"
	pkgerrors "github.com/pablof036/liblauncher/pkg/errors"
	"github.com/pablof036/liblauncher/pkg/fsutil"
	"github.com/pablof036/liblauncher/pkg/layout"
	"github.com/pablof036/liblauncher/pkg/manifest"
	"github.com/pablof036/liblauncher/pkg/platform"
)

// Extractor pulls native objects out of already downloaded library jars.
type Extractor struct {
	layout   layout.Layout
	platform platform.Platform
}

// NewExtractor creates an Extractor for the given root layout and target platform.
func NewExtractor(l layout.Layout, p platform.Platform) *Extractor {
	return &Extractor{layout: l, platform: p}
}

// Extract selects the libraries whose first rule allows the platform's OS and copies every jar
// entry with a native extension to natives/<basename>. It returns the written paths.
//
// Libraries and entries tagged for another architecture (natives-windows-arm64, linux/x86/) are
// skipped. Entries from a library tagged for the platform's own architecture replace those of an
// untagged one with the same basename.
//
// A jar that is missing or unreadable fails with ErrExtractionFailed, a selected jar without any
// native entry with ErrNativeEntryMissing. Extraction stops at the first failing jar.
func (e *Extractor) Extract(ctx context.Context, libraries []manifest.Library) ([]string, error) {
	if err := fsutil.EnsureDir(e.layout.NativesDir()); err != nil {
		return nil, pkgerrors.NewExtractionError(e.layout.NativesDir(), err)
	}

	osName := e.platform.ManifestOS()
	arch := e.platform.NativeArch()
	var generic, tagged []manifest.Library
	for _, lib := range libraries {
		if !lib.NativeFor(osName) || lib.Downloads.Artifact == nil {
			continue
		}
		switch libraryArch(lib) {
		case "":
			generic = append(generic, lib)
		case arch:
			tagged = append(tagged, lib)
		default:
			logger.Debug("Skipping natives for another architecture", logger.Fields{"library": lib.Name, "arch": arch})
		}
	}

	sources := make(map[string]nativeSource)
	var written []string
	for i, lib := range append(generic, tagged...) {
		src := nativeSource{library: lib.Name, tagged: i >= len(generic)}
		paths, err := e.extractJar(ctx, e.layout.Library(lib.Downloads.Artifact.Path), src, sources)
		if err != nil {
			return written, err
		}
		logger.Debug("Extracted natives", logger.Fields{"library": lib.Name, "files": len(paths)})
		written = append(written, paths...)
	}
	return written, nil
}

// nativeSource records which library wrote a file into the natives directory.
type nativeSource struct {
	library string
	tagged  bool
}

var archTags = []string{"x64", "x86", "arm64", "arm32"}

// libraryArch returns the architecture tag of the library's classifier, or "" when it names none.
func libraryArch(lib manifest.Library) string {
	classifier := ""
	if parts := strings.Split(lib.Name, ":"); len(parts) >= 4 {
		classifier = parts[3]
	} else if lib.Downloads.Artifact != nil {
		classifier = strings.TrimSuffix(path.Base(lib.Downloads.Artifact.Path), ".jar")
	}
	return archTag(strings.Split(strings.ToLower(classifier), "-"))
}

func archTag(parts []string) string {
	for _, part := range parts {
		if slices.Contains(archTags, part) {
			return part
		}
	}
	return ""
}

// entryArch returns the architecture directory of a jar entry, e.g. x86 for windows/x86/lwjgl.dll.
func entryArch(name string) string {
	dirs := strings.Split(strings.ToLower(name), "/")
	return archTag(dirs[:len(dirs)-1])
}

// extractJar copies the jar's native entries for the platform's architecture. A jar whose native
// entries all belong to other architectures writes nothing and is not an error.
func (e *Extractor) extractJar(ctx context.Context, jarPath string, src nativeSource, sources map[string]nativeSource) ([]string, error) {
	jar, err := os.Open(jarPath)
	if err != nil {
		return nil, pkgerrors.NewExtractionError(jarPath, err)
	}
	defer func() { _ = jar.Close() }()

	arch := e.platform.NativeArch()
	var (
		written  []string
		copied   int
		foreign  int
		writeErr error
	)
	err = archives.Zip{}.Extract(ctx, jar, func(_ context.Context, f archives.FileInfo) error {
		if f.IsDir() || !e.platform.IsNativeLibrary(f.NameInArchive) {
			return nil
		}
		if tag := entryArch(f.NameInArchive); tag != "" && tag != arch {
			foreign++
			return nil
		}
		target := e.layout.Native(f.NameInArchive)
		prev, seen := sources[target]
		if seen && prev.tagged && !src.tagged {
			return nil
		}
		if err := copyEntry(f, target); err != nil {
			writeErr = err
			return err
		}
		copied++
		if seen {
			if prev.tagged == src.tagged && prev.library != src.library {
				logger.Warn("Native file provided by more than one library", logger.Fields{
					"file": filepath.Base(target), "kept": src.library, "replaced": prev.library,
				})
			}
		} else {
			written = append(written, target)
		}
		sources[target] = src
		return nil
	})
	if err != nil {
		if writeErr != nil {
			err = writeErr
		}
		return nil, pkgerrors.NewExtractionError(jarPath, err)
	}
	if copied == 0 && foreign == 0 {
		return nil, pkgerrors.NewNativeMissingError(jarPath,
			fmt.Errorf("no %v entries", e.platform.NativeExtensions()))
	}
	return written, nil
}

func copyEntry(f archives.FileInfo, target string) error {
	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.NameInArchive, err)
	}
	defer func() { _ = src.Close() }()

	dst, err := fsutil.CreateFilePerm(target, fsutil.FileModeExec)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}
	_, copyErr := io.Copy(dst, src)
	return errors.Join(copyErr, dst.Close())
}
