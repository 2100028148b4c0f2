package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/user/frameharvest/pkg/ports"
)

// SlogLogger adapts log/slog to ports.Logger.
// Messages are formatted printf-style and untranslated so log lines stay greppable.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogText creates a logger with tint's colored text handler on w.
func NewSlogText(level ports.LogLevel, w io.Writer) *SlogLogger {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}
	h := tint.NewHandler(w, &tint.Options{
		Level:      toSlogLevel(level),
		TimeFormat: time.TimeOnly,
		NoColor:    noColor,
	})
	return &SlogLogger{logger: slog.New(h)}
}

// NewSlogJSON creates a logger emitting one JSON object per line on w.
func NewSlogJSON(level ports.LogLevel, w io.Writer) *SlogLogger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: toSlogLevel(level)})
	return &SlogLogger{logger: slog.New(h)}
}

func (l *SlogLogger) Debug(msg string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(msg, args...))
}

func (l *SlogLogger) Info(msg string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(msg, args...))
}

func (l *SlogLogger) Warn(msg string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(msg, args...))
}

func (l *SlogLogger) Error(msg string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(msg, args...))
}

// WithComponent returns a logger carrying a component attribute.
func (l *SlogLogger) WithComponent(component string) ports.Logger {
	return &SlogLogger{logger: l.logger.With("component", component)}
}

// quiet sits above every slog level so nothing is emitted.
const slogLevelQuiet = slog.Level(16)

func toSlogLevel(level ports.LogLevel) slog.Level {
	switch level {
	case ports.LevelDebug:
		return slog.LevelDebug
	case ports.LevelWarn:
		return slog.LevelWarn
	case ports.LevelError:
		return slog.LevelError
	case ports.LevelQuiet:
		return slogLevelQuiet
	default:
		return slog.LevelInfo
	}
}

var _ ports.Logger = (*SlogLogger)(nil)
