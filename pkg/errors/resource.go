package errors

import "fmt"

// ResourceError reports a failure of one resource in the download pipeline.
// Kind is one of the pipeline sentinels (ErrTransferFailed, ...), Path is the
// destination the failure relates to.
type ResourceError struct {
	Kind error
	Path string
	Err  error
}

// Error implements the error interface for ResourceError.
func (e *ResourceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.Path, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *ResourceError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewTransferError creates a ResourceError of kind ErrTransferFailed.
func NewTransferError(path string, err error) error {
	return &ResourceError{Kind: ErrTransferFailed, Path: path, Err: err}
}

// NewExtractionError creates a ResourceError of kind ErrExtractionFailed.
func NewExtractionError(path string, err error) error {
	return &ResourceError{Kind: ErrExtractionFailed, Path: path, Err: err}
}

// NewIntegrityError creates a ResourceError of kind ErrIntegrityCheckFailed.
func NewIntegrityError(path string, err error) error {
	return &ResourceError{Kind: ErrIntegrityCheckFailed, Path: path, Err: err}
}

// NewNativeMissingError creates a ResourceError of kind ErrNativeEntryMissing.
func NewNativeMissingError(path string, err error) error {
	return &ResourceError{Kind: ErrNativeEntryMissing, Path: path, Err: err}
}
