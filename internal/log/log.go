package log

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/lmittmann/tint"
)

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelError Level = "ERROR"
)

var (
	logger     *slog.Logger
	loggerOnce sync.Once
	level      = new(slog.LevelVar)
	out        io.Writer = os.Stderr
)

// initLogger initializes the global logger to write to stderr with timestamps.
// Reports go to stdout, so the default level is ERROR.
func initLogger() {
	loggerOnce.Do(func() {
		level.Set(slog.LevelError)
		logger = slog.New(tint.NewHandler(out, &tint.Options{
			Level:      level,
			TimeFormat: time.RFC3339Nano,
		}))
	})
}

func SetLevel(l Level) {
	initLogger()
	level.Set(toSlog(l))
}

// ParseLevel maps a case-sensitive level name; unknown names yield ERROR.
func ParseLevel(s string) Level {
	switch Level(s) {
	case LevelDebug, LevelInfo, LevelError:
		return Level(s)
	default:
		return LevelError
	}
}

func Debug(msg string, kv ...any) {
	initLogger()
	logger.Debug(msg, kv...)
}

func Info(msg string, kv ...any) {
	initLogger()
	logger.Info(msg, kv...)
}

func Error(msg string, err error, kv ...any) {
	initLogger()
	// Prepend error into key-value list.
	extended := append([]any{tint.Err(err)}, kv...)
	logger.Error(msg, extended...)
}

func toSlog(l Level) slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	default:
		return slog.LevelError
	}
}
