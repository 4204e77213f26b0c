// Package log installs the process-wide slog logger.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dotse/slug"
	slogmulti "github.com/samber/slog-multi"
)

type Level string

const (
	Debug Level = "debug"
	Info  Level = "info"
	Warn  Level = "warn"
	Error Level = "error"
)

func ToSlogLevel(level Level) slog.Level {
	switch level {
	case Debug:
		return slog.LevelDebug
	case Info:
		return slog.LevelInfo
	case Warn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// NewLogger builds a logger writing to every given writer at level.
func NewLogger(level Level, writers ...io.Writer) *slog.Logger {
	opts := slug.HandlerOptions{
		HandlerOptions: slog.HandlerOptions{
			Level: ToSlogLevel(level),
		},
	}

	handlers := make([]slog.Handler, 0, len(writers))
	for _, w := range writers {
		handlers = append(handlers, slug.NewHandler(opts, w))
	}

	return slog.New(slogmulti.Fanout(handlers...))
}

// MustCreateLogger sets the default logger to stderr, plus logFilePath when
// non-empty. Stdout is left to command output. The returned func closes the
// log file.
func MustCreateLogger(level Level, logFilePath string) func() {
	closer := func() {}
	writers := []io.Writer{os.Stderr}

	if logFilePath != "" {
		logFile, errLogFile := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if errLogFile != nil {
			panic(fmt.Sprintf("Failed to open logfile: %v", errLogFile))
		}

		closer = func() {
			if errClose := logFile.Close(); errClose != nil {
				panic(fmt.Sprintf("Failed to close log file: %v", errClose))
			}
		}

		writers = append(writers, logFile)
	}

	slog.SetDefault(NewLogger(level, writers...))

	return closer
}

func ErrAttr(err error) slog.Attr {
	return slog.Any("reason", err)
}

func Closer(closer io.Closer) {
	if errClose := closer.Close(); errClose != nil {
		slog.Error("Failed to close", ErrAttr(errClose))
	}
}
