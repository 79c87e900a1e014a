package cache

import (
	"os"
	"path/filepath"

	"github.com/pablof036/liblauncher/internal/logger"
	"github.com/pablof036/liblauncher/pkg/errors"
	"github.com/pablof036/liblauncher/pkg/fsutil"
	"github.com/pablof036/liblauncher/pkg/layout"
)

// DefaultManager implements the Manager interface on a launcher root.
type DefaultManager struct {
	layout layout.Layout
}

// NewManager creates a cache manager for the root of l.
func NewManager(l layout.Layout) *DefaultManager {
	return &DefaultManager{layout: l}
}

// NewDefaultManager creates a cache manager for the default root directory.
func NewDefaultManager() (*DefaultManager, error) {
	root, err := fsutil.GetDataDir()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get user data directory")
	}
	return NewManager(layout.New(root)), nil
}

// Clean removes regenerable files according to the specified options.
func (cm *DefaultManager) Clean(options CleanOptions) (*CleanResult, error) {
	if cm.layout.Root == "" {
		return nil, ErrCacheDirectory
	}
	result := &CleanResult{}

	// Default to cleaning all if no specific flags are set
	if !options.Natives && !options.Archives {
		options.All = true
	}

	if options.All || options.Natives {
		size, files, err := cleanDirectory(cm.layout.NativesDir())
		if err != nil {
			return nil, errors.Wrapf(err, "failed to clean natives")
		}
		result.NativesFreed = size
		result.TotalFreed += size
		result.FilesRemoved += files
	}

	if options.All || options.Archives {
		size, files, err := cleanStrayArchives(cm.layout.JDKDir())
		if err != nil {
			return nil, errors.Wrapf(err, "failed to clean jdk archives")
		}
		result.ArchivesFreed = size
		result.TotalFreed += size
		result.FilesRemoved += files
	}

	logger.Debug("Cleaned launcher root", logger.Fields{
		"root":  cm.layout.Root,
		"freed": result.TotalFreed,
		"files": result.FilesRemoved,
	})
	return result, nil
}

// GetInfo returns the disk usage of every area of the root.
func (cm *DefaultManager) GetInfo() (*Info, error) {
	if cm.layout.Root == "" {
		return nil, ErrCacheDirectory
	}
	info := &Info{Directory: cm.layout.Root}

	areas := []struct {
		name string
		dir  string
	}{
		{AreaLibraries, cm.layout.LibrariesDir()},
		{AreaAssets, cm.layout.AssetsDir()},
		{AreaClient, cm.layout.ClientDir()},
		{AreaJDK, cm.layout.JDKDir()},
		{AreaNatives, cm.layout.NativesDir()},
		{AreaVersions, cm.layout.VersionsDir()},
	}
	for _, a := range areas {
		size, files, err := getDirSizeAndFiles(a.dir)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get %s info", a.name)
		}
		info.Areas = append(info.Areas, Area{Name: a.name, Size: size, Files: files})
		info.TotalSize += size
	}

	return info, nil
}

// GetDirectory returns the root directory.
func (cm *DefaultManager) GetDirectory() string {
	return cm.layout.Root
}

// cleanDirectory empties a directory and returns bytes and files freed.
func cleanDirectory(dir string) (int64, int, error) {
	size, files, err := getDirSizeAndFiles(dir)
	if err != nil || files == 0 {
		return 0, 0, err
	}

	if err := os.RemoveAll(dir); err != nil {
		return 0, 0, errors.Wrapf(err, "failed to remove directory %s", dir)
	}
	if err := fsutil.EnsureDir(dir); err != nil {
		return size, files, errors.Wrapf(err, "failed to recreate directory %s", dir)
	}
	return size, files, nil
}

// cleanStrayArchives removes regular files directly below the jdk directory.
// Extracted runtimes live in subdirectories and archives are deleted after a successful
// extraction, so anything else at the top level is a leftover.
func cleanStrayArchives(dir string) (int64, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, nil
		}
		return 0, 0, errors.Wrapf(err, "failed to read directory %s", dir)
	}

	var size int64
	var files int
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			return size, files, errors.Wrapf(err, "failed to stat %s", entry.Name())
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return size, files, errors.Wrapf(err, "failed to remove %s", entry.Name())
		}
		size += fi.Size()
		files++
	}
	return size, files, nil
}

// getDirSizeAndFiles calculates directory size and file count.
// A missing directory counts as empty.
func getDirSizeAndFiles(dir string) (size int64, count int, err error) {
	if _, err = os.Stat(dir); os.IsNotExist(err) {
		return 0, 0, nil
	}

	err = filepath.Walk(dir, func(_ string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.Mode().IsRegular() {
			size += info.Size()
			count++
		}
		return nil
	})
	if err != nil {
		err = errors.Wrapf(err, "error walking directory %s", dir)
	}
	return size, count, err
}
