// Package logger is the process-wide structured logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// OutputFormat selects the encoder used for log lines.
type OutputFormat string

const (
	// FormatConsole writes human readable, tab separated lines.
	FormatConsole OutputFormat = "console"
	// FormatJSON writes one JSON object per line.
	FormatJSON OutputFormat = "json"
)

var (
	// testOutput is used to capture log output during tests
	testOutput   io.Writer
	testOutputMu sync.Mutex
)

// Fields is a type alias for log fields to make the API cleaner
type Fields map[string]interface{}

var (
	logger       *zap.Logger
	currentLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	loggerMu     sync.RWMutex
)

// SetTestOutput sets the output writer for testing purposes
func SetTestOutput(w io.Writer) {
	testOutputMu.Lock()
	defer testOutputMu.Unlock()
	testOutput = w
}

// UnsetTestOutput resets the test output to nil
func UnsetTestOutput() {
	testOutputMu.Lock()
	defer testOutputMu.Unlock()
	testOutput = nil
}

func getOutput() io.Writer {
	testOutputMu.Lock()
	defer testOutputMu.Unlock()
	if testOutput != nil {
		return testOutput
	}
	return os.Stderr
}

// ParseFormat maps a config string onto an OutputFormat, defaulting to console.
func ParseFormat(format string) OutputFormat {
	if strings.EqualFold(format, string(FormatJSON)) {
		return FormatJSON
	}
	return FormatConsole
}

func parseLevel(logLevel string) zapcore.Level {
	switch strings.ToLower(logLevel) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func newEncoder(format OutputFormat) zapcore.Encoder {
	if format == FormatJSON {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "timestamp"
		cfg.MessageKey = "msg"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

// InitLogger initializes the global logger for CLI operations.
// Unknown levels fall back to info.
func InitLogger(logLevel string, format OutputFormat) {
	currentLevel.SetLevel(parseLevel(logLevel))
	core := zapcore.NewCore(newEncoder(format), zapcore.AddSync(getOutput()), currentLevel)

	loggerMu.Lock()
	logger = zap.New(core)
	loggerMu.Unlock()
}

// SetOutputFormat rebuilds the logger with a different encoder, keeping the current level.
func SetOutputFormat(format OutputFormat) {
	InitLogger(currentLevel.Level().String(), format)
}

// GetLogger returns the configured logger instance.
func GetLogger() *zap.Logger {
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	if l != nil {
		return l
	}
	InitLogger("info", FormatConsole)
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// Sync flushes any buffered log entries.
func Sync() error {
	return GetLogger().Sync()
}

// Info logs an info message.
func Info(msg string, fields ...Fields) {
	GetLogger().Info(msg, mergeFields(fields...)...)
}

// Infof logs a formatted info message.
func Infof(format string, args ...interface{}) {
	GetLogger().Info(fmt.Sprintf(format, args...))
}

// InfofWithFields logs a formatted info message with fields.
func InfofWithFields(fields Fields, format string, args ...interface{}) {
	GetLogger().Info(fmt.Sprintf(format, args...), mergeFields(fields)...)
}

// Debug logs a debug message (only shown when debug level is enabled).
func Debug(msg string, fields ...Fields) {
	GetLogger().Debug(msg, mergeFields(fields...)...)
}

// Debugf logs a formatted debug message.
func Debugf(format string, args ...interface{}) {
	GetLogger().Debug(fmt.Sprintf(format, args...))
}

// DebugfWithFields logs a formatted debug message with fields.
func DebugfWithFields(fields Fields, format string, args ...interface{}) {
	GetLogger().Debug(fmt.Sprintf(format, args...), mergeFields(fields)...)
}

// Error logs an error message.
func Error(msg string, fields ...Fields) {
	GetLogger().Error(msg, mergeFields(fields...)...)
}

// Errorf logs a formatted error message.
func Errorf(format string, args ...interface{}) {
	GetLogger().Error(fmt.Sprintf(format, args...))
}

// ErrorfWithFields logs a formatted error message with fields.
func ErrorfWithFields(fields Fields, format string, args ...interface{}) {
	GetLogger().Error(fmt.Sprintf(format, args...), mergeFields(fields)...)
}

// Warn logs a warning message.
func Warn(msg string, fields ...Fields) {
	GetLogger().Warn(msg, mergeFields(fields...)...)
}

// Warnf logs a formatted warning message.
func Warnf(format string, args ...interface{}) {
	GetLogger().Warn(fmt.Sprintf(format, args...))
}

// WarnfWithFields logs a formatted warning message with fields.
func WarnfWithFields(fields Fields, format string, args ...interface{}) {
	GetLogger().Warn(fmt.Sprintf(format, args...), mergeFields(fields)...)
}

// Success logs a success message as info with success indicator.
func Success(msg string, fields ...Fields) {
	GetLogger().Info(msg, append(mergeFields(fields...), zap.String("status", "success"))...)
}

// Successf logs a formatted success message.
func Successf(format string, args ...interface{}) {
	GetLogger().Info(fmt.Sprintf("SUCCESS: "+format, args...))
}

// SuccessfWithFields logs a formatted success message with additional fields.
func SuccessfWithFields(fields Fields, format string, args ...interface{}) {
	GetLogger().Info(fmt.Sprintf("SUCCESS: "+format, args...), mergeFields(fields)...)
}

// mergeFields merges multiple field maps into zap fields. Later maps win on duplicate keys.
func mergeFields(fields ...Fields) []zap.Field {
	merged := Fields{}
	for _, field := range fields {
		for k, v := range field {
			merged[k] = v
		}
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		result = append(result, zap.Any(k, merged[k]))
	}
	return result
}
