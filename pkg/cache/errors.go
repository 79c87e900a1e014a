package cache

import "fmt"

// Common cache errors.
var (
	// ErrCacheClean is returned when there's an error cleaning the launcher root.
	ErrCacheClean = fmt.Errorf("failed to clean cache")

	// ErrCacheInfo is returned when there's an error getting cache information.
	ErrCacheInfo = fmt.Errorf("failed to get cache info")

	// ErrCacheDirectory is returned when the root directory is not set.
	ErrCacheDirectory = fmt.Errorf("invalid cache directory")
)
