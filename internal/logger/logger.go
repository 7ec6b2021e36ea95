package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// CategoryKey tags a log entry with its category. Entries tagged with
// CategoryAccess are also written to the access log when one is configured.
const (
	CategoryKey    = "category"
	CategoryAccess = "access"
)

// Logger interface
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Sync() error
}

// LoggerOption configures a Logger
type LoggerOption func(*loggerConfig) error

// loggerConfig holds logger configuration
type loggerConfig struct {
	format     string
	accessPath string
}

// WithFormat sets the log format (text or json)
func WithFormat(format string) LoggerOption {
	return func(c *loggerConfig) error {
		format = strings.ToLower(format)
		if format != "text" && format != "json" {
			return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", format)
		}
		c.format = format
		return nil
	}
}

// WithAccessLog copies request entries to a separate JSON file
func WithAccessLog(accessPath string) LoggerOption {
	return func(c *loggerConfig) error {
		if accessPath == "" {
			return fmt.Errorf("access log path cannot be empty")
		}
		c.accessPath = accessPath
		return nil
	}
}

// New creates a new logger with optional configuration
func New(levelStr, outputPath string, opts ...LoggerOption) (Logger, error) {
	config := &loggerConfig{
		format: "text",
	}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	level := parseSlogLevel(levelStr)

	mainOutput, mainWriter, err := openOutput(outputPath)
	if err != nil {
		return nil, err
	}

	var mainHandler slog.Handler
	if config.format == "json" {
		mainHandler = slog.NewJSONHandler(mainWriter, &slog.HandlerOptions{Level: level})
	} else {
		mainHandler = slog.NewTextHandler(mainWriter, &slog.HandlerOptions{Level: level})
	}

	closers := []io.Closer{}
	if isFile(mainOutput) {
		closers = append(closers, mainOutput)
	}

	if config.accessPath != "" {
		accessFile, err := os.OpenFile(config.accessPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) // #nosec G304 G302 - configurable access log path
		if err != nil {
			closeAll(closers)
			return nil, fmt.Errorf("failed to open access log: %w", err)
		}
		closers = append(closers, accessFile)

		// Access logs are always JSON at INFO level
		accessHandler := NewCategoryHandler(CategoryAccess,
			slog.NewJSONHandler(accessFile, &slog.HandlerOptions{Level: slog.LevelInfo}))
		mainHandler = NewMultiHandler(mainHandler, accessHandler)
	}

	return &slogLogger{
		logger:  slog.New(mainHandler),
		closers: closers,
	}, nil
}

// Discard returns a logger that drops everything
func Discard() Logger {
	return &slogLogger{
		logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1})),
	}
}

// openOutput opens the output writer and returns both a closer and writer
func openOutput(outputPath string) (io.WriteCloser, io.Writer, error) {
	switch strings.ToLower(outputPath) {
	case "stdout", "":
		return os.Stdout, os.Stdout, nil
	case "stderr":
		return os.Stderr, os.Stderr, nil
	default:
		file, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) // #nosec G304 G302 - configurable log file path
		if err != nil {
			return nil, nil, err
		}
		return file, file, nil
	}
}

func isFile(w io.WriteCloser) bool {
	return w != os.Stdout && w != os.Stderr
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		_ = c.Close()
	}
}

// parseSlogLevel converts a string level to slog.Level
func parseSlogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "error":
		return slog.LevelError
	case "info":
		fallthrough
	default:
		return slog.LevelInfo
	}
}

// slogLogger implements the Logger interface using Go's standard log/slog package
type slogLogger struct {
	logger  *slog.Logger
	closers []io.Closer
}

// Debug logs a debug message
func (l *slogLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

// Info logs an info message
func (l *slogLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, keysAndValues...)
}

// Error logs an error message
func (l *slogLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, keysAndValues...)
}

// Sync closes any log files opened by New
func (l *slogLogger) Sync() error {
	var firstErr error
	for _, c := range l.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.closers = nil
	return firstErr
}
