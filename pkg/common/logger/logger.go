package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/lmittmann/tint"
)

var (
	once   sync.Once
	logger *slog.Logger
)

type Options struct {
	Level      slog.Leveler // slog.LevelInfo, slog.LevelDebug, etc.
	Writer     io.Writer    // default: os.Stderr, stdout is reserved for command output
	TimeFormat string       // default: 15:04:05
	NoColor    bool
}

func Init(opts *Options) {
	once.Do(func() {
		if opts == nil {
			opts = &Options{}
		}
		writer := opts.Writer
		if writer == nil {
			writer = os.Stderr
		}
		timeFormat := opts.TimeFormat
		if timeFormat == "" {
			timeFormat = "15:04:05"
		}

		handler := tint.NewHandler(writer, &tint.Options{
			Level:      opts.Level,
			TimeFormat: timeFormat,
			NoColor:    opts.NoColor,
		})

		logger = slog.New(handler)
		slog.SetDefault(logger)
	})
}

func L() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// Info logs at info level.
func Info(msg string, args ...any) {
	L().Info(msg, args...)
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	L().Debug(msg, args...)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	L().Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	L().Error(msg, args...)
}

// Fatal logs an error then exits.
func Fatal(msg string, args ...any) {
	Error(msg, args...)
	os.Exit(1)
}

func With(args ...any) *slog.Logger {
	return L().With(args...)
}
