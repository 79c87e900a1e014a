package errors

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		msg      string
		expected string
	}{
		{
			name:     "nil error stays nil",
			err:      nil,
			msg:      "additional context",
			expected: "",
		},
		{
			name:     "message is prefixed",
			err:      errors.New("connection reset"),
			msg:      "fetching client.jar",
			expected: "fetching client.jar: connection reset",
		},
		{
			name:     "empty message",
			err:      errors.New("connection reset"),
			msg:      "",
			expected: ": connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Wrap(tt.err, tt.msg)
			if tt.err == nil {
				assert.NoError(t, result)
				return
			}
			assert.Equal(t, tt.expected, result.Error())
			assert.ErrorIs(t, result, tt.err)
		})
	}
}

func TestWrapf(t *testing.T) {
	cause := errors.New("disk full")

	assert.NoError(t, Wrapf(nil, "writing %s", "a"))

	err := Wrapf(cause, "writing %s after %d bytes", "client.jar", 42)
	require.Error(t, err)
	assert.Equal(t, "writing client.jar after 42 bytes: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestResourceError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    error
		message string
	}{
		{
			name:    "transfer",
			err:     NewTransferError("/root/assets/objects/ab/abcd", errors.New("unexpected status code: 500")),
			kind:    ErrTransferFailed,
			message: "transfer failed: /root/assets/objects/ab/abcd: unexpected status code: 500",
		},
		{
			name:    "extraction",
			err:     NewExtractionError("/root/jdk/jre.tar.gz", errors.New("gzip: invalid header")),
			kind:    ErrExtractionFailed,
			message: "extraction failed: /root/jdk/jre.tar.gz: gzip: invalid header",
		},
		{
			name:    "integrity",
			err:     NewIntegrityError("/root/client/1.18/client.jar", fs.ErrPermission),
			kind:    ErrIntegrityCheckFailed,
			message: "integrity check failed: /root/client/1.18/client.jar: permission denied",
		},
		{
			name:    "native without cause",
			err:     NewNativeMissingError("/root/libraries/lwjgl-natives-linux.jar", nil),
			kind:    ErrNativeEntryMissing,
			message: "native entry missing: /root/libraries/lwjgl-natives-linux.jar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
			assert.ErrorIs(t, tt.err, tt.kind)

			var re *ResourceError
			require.ErrorAs(t, tt.err, &re)
			assert.NotEmpty(t, re.Path)
		})
	}

	// the cause stays reachable next to the kind
	err := NewIntegrityError("/x", fs.ErrPermission)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.NotErrorIs(t, err, ErrTransferFailed)
}
