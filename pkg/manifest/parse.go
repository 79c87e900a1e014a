package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	pkgerrors "github.com/pablof036/liblauncher/pkg/errors"
)

// ParseVersion decodes a version document.
func ParseVersion(r io.Reader) (*Version, error) {
	var v Version
	if err := decode(r, &v); err != nil {
		return nil, err
	}
	if v.ID == "" {
		return nil, fmt.Errorf("%w: version document has no id", pkgerrors.ErrManifestParse)
	}
	return &v, nil
}

// LoadVersion reads a version document from path.
func LoadVersion(path string) (*Version, error) {
	var v *Version
	err := withFile(path, func(r io.Reader) (err error) {
		v, err = ParseVersion(r)
		return err
	})
	return v, err
}

// ParseAssetIndex decodes an asset index.
func ParseAssetIndex(r io.Reader) (*AssetIndex, error) {
	var idx AssetIndex
	if err := decode(r, &idx); err != nil {
		return nil, err
	}
	if idx.Objects == nil {
		return nil, fmt.Errorf("%w: asset index has no objects", pkgerrors.ErrManifestParse)
	}
	return &idx, nil
}

// LoadAssetIndex reads an asset index from path.
func LoadAssetIndex(path string) (*AssetIndex, error) {
	var idx *AssetIndex
	err := withFile(path, func(r io.Reader) (err error) {
		idx, err = ParseAssetIndex(r)
		return err
	})
	return idx, err
}

// ParseVersionList decodes the version list.
func ParseVersionList(r io.Reader) (*VersionList, error) {
	var list VersionList
	if err := decode(r, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// LoadVersionList reads the version list from path.
func LoadVersionList(path string) (*VersionList, error) {
	var list *VersionList
	err := withFile(path, func(r io.Reader) (err error) {
		list, err = ParseVersionList(r)
		return err
	})
	return list, err
}

func decode(r io.Reader, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", pkgerrors.ErrManifestParse, err)
	}
	return nil
}

func withFile(path string, fn func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open %s", path)
	}
	defer func() { _ = f.Close() }()
	return fn(f)
}
