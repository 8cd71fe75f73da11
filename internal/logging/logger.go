// Package logging builds the zap logger used by every command.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log file rotation
const (
	maxLogSize = 5 * 1024 * 1024 // 5MB
	keepLines  = 1000
)

// Config holds logger configuration
type Config struct {
	Level   string // debug, info, warn, error
	Format  string // console, json
	File    string // empty disables the log file
	Verbose bool   // forces debug level
}

// Logger bundles the zap logger with the file it may own
type Logger struct {
	*zap.Logger
	file *os.File
}

// New creates a logger. Messages below warn go to stdout, the rest to stderr;
// when cfg.File is set every message is also appended there as JSON.
func New(cfg Config, stdout, stderr io.Writer) (*Logger, error) {
	level := parseLevel(cfg.Level)
	if cfg.Verbose {
		level = zapcore.DebugLevel
	}

	enc := createEncoder(cfg.Format)
	cores := []zapcore.Core{
		zapcore.NewCore(enc, zapcore.AddSync(stdout), zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return l >= level && l < zapcore.WarnLevel
		})),
		zapcore.NewCore(enc.Clone(), zapcore.AddSync(stderr), zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return l >= level && l >= zapcore.WarnLevel
		})),
	}

	l := &Logger{}
	if cfg.File != "" {
		f, err := openLogFile(cfg.File)
		if err != nil {
			return nil, err
		}
		l.file = f
		cores = append(cores, zapcore.NewCore(createEncoder("json"), zapcore.AddSync(f), level))
	}

	l.Logger = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return l, nil
}

// Close flushes buffered entries and closes the log file
func (l *Logger) Close() error {
	err := l.Sync()
	if isIgnorableSyncError(err) {
		err = nil
	}
	if l.file != nil {
		err = multierr.Append(err, l.file.Close())
		l.file = nil
	}
	return err
}

// parseLevel converts a string level to zapcore.Level
func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
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

func createEncoder(format string) zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00"),
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	if format == "json" {
		return zapcore.NewJSONEncoder(encoderConfig)
	}
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(encoderConfig)
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	// Auto-rotate if exceeds 5MB
	if err := rotateLogIfNeeded(path, maxLogSize, keepLines); err != nil {
		_, _ = os.Stderr.WriteString("[!] Error en rotación de logs: " + err.Error() + "\n")
	}

	return os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o600) //nolint:gosec
}

// isIgnorableSyncError hides the EINVAL/ENOTTY that syncing a console returns
func isIgnorableSyncError(err error) bool {
	if err == nil {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "invalid argument") ||
		strings.Contains(msg, "inappropriate ioctl") ||
		strings.Contains(msg, "The handle is invalid")
}
