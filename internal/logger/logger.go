package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

var globalLogger = slog.Default()

// LogLevel represents different log levels
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Config holds logger configuration
type Config struct {
	Level      LogLevel
	OutputPath string // "stdout" or a file path
	Format     string // "json" or "text"
	MaxSizeMB  int
	MaxBackups int
}

var rotating *lumberjack.Logger

// Init initializes the structured logger with defaults
func Init() error {
	return InitWithConfig(Config{
		Level:      LevelInfo,
		OutputPath: "stdout",
		Format:     "json",
	})
}

// InitWithConfig initializes logger with custom config
func InitWithConfig(config Config) error {
	var output io.Writer
	if config.OutputPath == "" || config.OutputPath == "stdout" {
		output = os.Stdout
	} else {
		if err := os.MkdirAll(filepath.Dir(config.OutputPath), 0o755); err != nil {
			return err
		}
		maxSize := config.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 50
		}
		rotating = &lumberjack.Logger{
			Filename:   config.OutputPath,
			MaxSize:    maxSize, // megabytes
			MaxBackups: config.MaxBackups,
			Compress:   true,
		}
		output = rotating
	}

	globalLogger = slog.New(newHandler(output, config))
	slog.SetDefault(globalLogger)

	return nil
}

func newHandler(w io.Writer, config Config) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     toSlogLevel(config.Level),
		AddSource: true,
	}
	if config.Format == "text" {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

func toSlogLevel(level LogLevel) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Close flushes and closes the rotating log file, if any
func Close() error {
	if rotating == nil {
		return nil
	}
	return rotating.Close()
}

// WithContext returns a logger carrying the turn fields stored in ctx
func WithContext(ctx context.Context) *slog.Logger {
	if fields, ok := ctx.Value(fieldsKey{}).([]any); ok {
		return globalLogger.With(fields...)
	}
	return globalLogger
}

type fieldsKey struct{}

// ContextWithFields stores log fields in ctx for WithContext
func ContextWithFields(ctx context.Context, fields ...any) context.Context {
	if existing, ok := ctx.Value(fieldsKey{}).([]any); ok {
		fields = append(append([]any{}, existing...), fields...)
	}
	return context.WithValue(ctx, fieldsKey{}, fields)
}

// WithFields returns a logger with additional fields
func WithFields(fields ...any) *slog.Logger {
	return globalLogger.With(fields...)
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	globalLogger.Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	globalLogger.Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	globalLogger.Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	globalLogger.Error(msg, args...)
}

// Infof logs an info message with formatting
func Infof(format string, args ...any) {
	globalLogger.Info(fmt.Sprintf(format, args...))
}

// Errorf logs an error message with formatting
func Errorf(format string, args ...any) {
	globalLogger.Error(fmt.Sprintf(format, args...))
}

// Fatal logs a fatal message and exits
func Fatal(msg string, args ...any) {
	globalLogger.Error(msg, args...)
	os.Exit(1)
}

// GetLogger returns the global logger instance
func GetLogger() *slog.Logger {
	return globalLogger
}
