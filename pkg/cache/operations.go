package cache

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/pablof036/liblauncher/internal/logger"
)

// CacheOperation formats Manager results for display.
type CacheOperation struct {
	manager Manager
}

// NewCacheOperation creates a new cache operation instance.
func NewCacheOperation(manager Manager) *CacheOperation {
	return &CacheOperation{
		manager: manager,
	}
}

// Clean cleans the root based on the provided options.
func (op *CacheOperation) Clean(all, natives, archives bool) (string, error) {
	options := CleanOptions{
		All:      all,
		Natives:  natives,
		Archives: archives,
	}

	logger.Debug("Cleaning cache", logger.Fields{
		"all":      options.All,
		"natives":  options.Natives,
		"archives": options.Archives,
	})

	result, err := op.manager.Clean(options)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCacheClean, err)
	}

	if result.TotalFreed == 0 && result.FilesRemoved == 0 {
		return "No files were removed.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Removed %d files, freed %s.", result.FilesRemoved, humanize.IBytes(uint64(result.TotalFreed)))
	if result.NativesFreed > 0 {
		fmt.Fprintf(&b, "\n- Natives:      %s", humanize.IBytes(uint64(result.NativesFreed)))
	}
	if result.ArchivesFreed > 0 {
		fmt.Fprintf(&b, "\n- JDK archives: %s", humanize.IBytes(uint64(result.ArchivesFreed)))
	}
	return b.String(), nil
}

// GetInfo returns a printable summary of the root's disk usage.
func (op *CacheOperation) GetInfo() (string, error) {
	info, err := op.manager.GetInfo()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCacheInfo, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Launcher Root:\n  Directory:  %s\n  Total Size: %s\n", info.Directory, humanize.IBytes(uint64(info.TotalSize)))
	for _, a := range info.Areas {
		fmt.Fprintf(&b, "  %-11s %s (%s files)\n", a.Name+":", humanize.IBytes(uint64(a.Size)), humanize.Comma(int64(a.Files)))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// GetDirectory returns the root directory.
func (op *CacheOperation) GetDirectory() string {
	return op.manager.GetDirectory()
}
