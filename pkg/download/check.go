package download

import (
	"errors"
	"io/fs"
	"os"

	pkgerrors "github.com/pablof036/liblauncher/pkg/errors"
)

// Complete reports whether a file of exactly r.Size bytes exists at r.Path.
// A missing file is not an error. Any other stat failure is an integrity error.
func (r SizedResource) Complete() (bool, error) {
	info, err := os.Stat(r.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, pkgerrors.NewIntegrityError(r.Path, err)
	}
	return info.Size() == r.Size, nil
}

// AllComplete reports whether every resource passes its completeness check.
// It stops at the first incomplete resource or error.
func AllComplete(resources []SizedResource) (bool, error) {
	for _, r := range resources {
		ok, err := r.Complete()
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// Missing returns the resources that fail their completeness check, in input order.
func Missing(resources []SizedResource) ([]SizedResource, error) {
	var missing []SizedResource
	for _, r := range resources {
		ok, err := r.Complete()
		if err != nil {
			return nil, err
		}
		if !ok {
			missing = append(missing, r)
		}
	}
	return missing, nil
}
