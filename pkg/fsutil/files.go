package fsutil

import (
	"errors"
	"io/fs"
	"os"
)

// CreateFilePerm creates or truncates a file with the specified permissions.
func CreateFilePerm(name string, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, perm)
}

// FileSize returns the size of the regular file at path.
// exists is false, with a nil error, when nothing is at path.
func FileSize(path string) (size int64, exists bool, err error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return info.Size(), true, nil
}
