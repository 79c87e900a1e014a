// Package errors holds the error values shared across the launcher packages.
// Pipeline failures are reported as *ResourceError values carrying one of the
// kind sentinels below, so callers can branch with errors.Is and still recover
// the failing path with errors.As.
package errors

import "fmt"

// Resource pipeline error kinds.
var (
	// ErrTransferFailed covers network failures, non-2xx responses and write errors during a fetch.
	ErrTransferFailed = fmt.Errorf("transfer failed")
	// ErrExtractionFailed covers decompression and unpack failures.
	ErrExtractionFailed = fmt.Errorf("extraction failed")
	// ErrIntegrityCheckFailed is returned when the on-disk probe itself fails,
	// as opposed to the file simply not being there.
	ErrIntegrityCheckFailed = fmt.Errorf("integrity check failed")
	// ErrNativeEntryMissing is returned when an applicable library jar carries no native object.
	ErrNativeEntryMissing = fmt.Errorf("native entry missing")
)

// Archive errors.
var (
	ErrInvalidFilePath          = fmt.Errorf("invalid file path in archive")
	ErrInvalidLinkTarget        = fmt.Errorf("invalid link target in archive")
	ErrUnsupportedArchiveFormat = fmt.Errorf("unsupported archive format")
)

// Config errors.
var (
	ErrEmptyConfigPath   = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath = fmt.Errorf("invalid config file path")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")
	ErrConfigEncode      = fmt.Errorf("failed to encode config")
	ErrConfigDirectory   = fmt.Errorf("failed to create config directory")
	ErrConfigFileCreate  = fmt.Errorf("failed to create config file")
	ErrConfigFileRename  = fmt.Errorf("failed to rename temporary config file")
	ErrConfigMarshal     = fmt.Errorf("failed to marshal config to YAML")
	ErrConfigFileExists  = fmt.Errorf("configuration file already exists (use --force to overwrite)")

	ErrHTTPTimeoutNegative  = fmt.Errorf("http_timeout cannot be negative")
	ErrMaxConcurrentInvalid = fmt.Errorf("max_concurrent must be at least 1")
	ErrRootDirEmpty         = fmt.Errorf("root_dir cannot be empty")
	ErrInvalidOSValue       = fmt.Errorf("invalid OS value")
	ErrInvalidArchValue     = fmt.Errorf("invalid architecture value")
	ErrInvalidLogLevel      = fmt.Errorf("invalid log level")
	ErrInvalidLogFormat     = fmt.Errorf("invalid log format")
	ErrInvalidURL           = fmt.Errorf("invalid URL")
)

// Manifest and JDK errors.
var (
	ErrManifestParse     = fmt.Errorf("failed to parse manifest")
	ErrAssetIndexMissing = fmt.Errorf("version has no asset index")
	ErrClientMissing     = fmt.Errorf("version has no client download")
	ErrJavaNotFound      = fmt.Errorf("could not find needed java version")
	ErrUnsupportedOS     = fmt.Errorf("unsupported operating system")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// ErrInvalidOSValueWithDetails creates a wrapped error with the invalid value and valid options.
func ErrInvalidOSValueWithDetails(value string, validOS []string) error {
	return fmt.Errorf("%w: %s. Valid values are: %v", ErrInvalidOSValue, value, validOS)
}

// ErrInvalidArchValueWithDetails creates a wrapped error with the invalid value and valid options.
func ErrInvalidArchValueWithDetails(value string, validArch []string) error {
	return fmt.Errorf("%w: %s. Valid values are: %v", ErrInvalidArchValue, value, validArch)
}

// ErrInvalidLogLevelWithDetails creates a wrapped error with the invalid level.
func ErrInvalidLogLevelWithDetails(level string) error {
	return fmt.Errorf("%w: '%s', must be one of: debug, info, warn, error", ErrInvalidLogLevel, level)
}

// ErrInvalidLogFormatWithDetails creates a wrapped error with the invalid format.
func ErrInvalidLogFormatWithDetails(format string) error {
	return fmt.Errorf("%w: '%s', must be one of: console, json", ErrInvalidLogFormat, format)
}

// ErrInvalidURLWithDetails names the config key holding a bad URL.
func ErrInvalidURLWithDetails(key, value string) error {
	return fmt.Errorf("%w for %s: %q", ErrInvalidURL, key, value)
}
