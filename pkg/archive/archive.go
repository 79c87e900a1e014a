// Package archive provides utilities for creating and extracting tar.gz and zip archives.
package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"

	pkgerrors "github.com/pablof036/liblauncher/pkg/errors"
	"github.com/pablof036/liblauncher/pkg/fsutil"
)

// Extractor unpacks archives whose format is detected from name and content.
type Extractor struct{}

// NewExtractor creates a new Extractor instance.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractAll extracts all entries from an archive to destDir.
// Entries and link targets that would resolve outside destDir are rejected.
func (e *Extractor) ExtractAll(ctx context.Context, archivePath, destDir string) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive file: %w", err)
	}
	defer func() { _ = file.Close() }()

	format, _, err := archives.Identify(ctx, filepath.Base(archivePath), file)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", pkgerrors.ErrUnsupportedArchiveFormat, filepath.Base(archivePath), err)
	}
	extractor, ok := format.(archives.Extractor)
	if !ok {
		return fmt.Errorf("%w: %s", pkgerrors.ErrUnsupportedArchiveFormat, format.Extension())
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind archive: %w", err)
	}

	absDest, err := filepath.Abs(destDir)
	if err != nil {
		return fmt.Errorf("failed to resolve destination directory: %w", err)
	}
	if err := fsutil.EnsureDir(absDest); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	return extractor.Extract(ctx, file, func(ctx context.Context, f archives.FileInfo) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return extractEntry(absDest, f)
	})
}

// Create creates a gzip-compressed tar archive from the contents of sourceDir.
func (e *Extractor) Create(ctx context.Context, sourceDir, archivePath string) error {
	absolutePath, err := filepath.Abs(sourceDir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for source directory: %w", err)
	}

	archiveFiles, err := archives.FilesFromDisk(ctx, nil, map[string]string{
		absolutePath + string(os.PathSeparator): "",
	})
	if err != nil {
		return fmt.Errorf("failed to read files from disk: %w", err)
	}

	file, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", archivePath, err)
	}
	defer func() { _ = file.Close() }()

	format := archives.CompressedArchive{
		Compression: archives.Gz{},
		Archival:    archives.Tar{},
	}
	if err := format.Archive(ctx, file, archiveFiles); err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	return nil
}

func extractEntry(destDir string, f archives.FileInfo) error {
	targetPath, err := resolveTarget(destDir, f.NameInArchive)
	if err != nil {
		return err
	}
	if targetPath == destDir {
		return nil
	}

	switch {
	case f.IsDir():
		return fsutil.EnsureDir(targetPath)
	case f.Mode()&fs.ModeSymlink != 0:
		return writeSymlink(destDir, targetPath, f.LinkTarget)
	case isHardlink(f):
		return writeHardlink(destDir, targetPath, f.LinkTarget)
	default:
		return writeRegularFile(f, targetPath)
	}
}

// resolveTarget joins name onto destDir and rejects names that escape it.
func resolveTarget(destDir, name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", pkgerrors.ErrInvalidFilePath, name)
	}
	targetPath := filepath.Join(destDir, clean)
	if !within(destDir, targetPath) {
		return "", fmt.Errorf("%w: %s", pkgerrors.ErrInvalidFilePath, name)
	}
	return targetPath, nil
}

func within(baseDir, path string) bool {
	rel, err := filepath.Rel(baseDir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator)))
}

func isHardlink(f archives.FileInfo) bool {
	hdr, ok := f.Header.(*tar.Header)
	return ok && hdr.Typeflag == tar.TypeLink
}

func writeSymlink(destDir, targetPath, linkTarget string) error {
	if linkTarget == "" || filepath.IsAbs(linkTarget) {
		return fmt.Errorf("%w: %s", pkgerrors.ErrInvalidLinkTarget, linkTarget)
	}
	resolved := filepath.Join(filepath.Dir(targetPath), filepath.FromSlash(linkTarget))
	if !within(destDir, resolved) {
		return fmt.Errorf("%w: %s", pkgerrors.ErrInvalidLinkTarget, linkTarget)
	}
	if err := fsutil.EnsureFileDir(targetPath); err != nil {
		return fmt.Errorf("failed to create parent directory for symlink %s: %w", targetPath, err)
	}
	_ = os.Remove(targetPath)
	return os.Symlink(linkTarget, targetPath)
}

func writeHardlink(destDir, targetPath, linkTarget string) error {
	source, err := resolveTarget(destDir, linkTarget)
	if err != nil {
		return fmt.Errorf("%w: %s", pkgerrors.ErrInvalidLinkTarget, linkTarget)
	}
	if err := fsutil.EnsureFileDir(targetPath); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", targetPath, err)
	}
	_ = os.Remove(targetPath)
	if err := os.Link(source, targetPath); err != nil {
		return fmt.Errorf("failed to create hard link %s: %w", targetPath, err)
	}
	return nil
}

// writeRegularFile copies an archive entry to targetPath, keeping its permission bits.
func writeRegularFile(f archives.FileInfo, targetPath string) error {
	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive entry %s: %w", f.NameInArchive, err)
	}
	defer func() { _ = src.Close() }()

	if err := fsutil.EnsureFileDir(targetPath); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", f.NameInArchive, err)
	}

	perm := f.Mode().Perm()
	if perm == 0 {
		perm = fsutil.FileModeDefault
	}
	dst, err := fsutil.CreateFilePerm(targetPath, perm)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", targetPath, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("failed to copy file %s: %w", f.NameInArchive, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("failed to close file %s: %w", targetPath, err)
	}
	if err := os.Chmod(targetPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions for %s: %w", targetPath, err)
	}
	return nil
}
