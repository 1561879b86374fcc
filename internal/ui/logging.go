package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger prints human readable log lines to stderr. Messages keep the
// printf style used across the commands; a trailing newline is dropped.
type Logger struct {
	Debug bool
	zl    zerolog.Logger
}

func NewLogger(debug bool) *Logger {
	return NewLoggerTo(os.Stderr, debug)
}

// NewLoggerTo writes to w without colors, which keeps output stable for
// files and tests.
func NewLoggerTo(w io.Writer, debug bool) *Logger {
	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.TimeOnly,
		NoColor:    w != os.Stderr,
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return &Logger{
		Debug: debug,
		zl:    zerolog.New(out).Level(level).With().Timestamp().Logger(),
	}
}

func (l *Logger) Debugf(format string, args ...any) {
	l.zl.Debug().Msg(line(format, args))
}

func (l *Logger) Infof(format string, args ...any) {
	l.zl.Info().Msg(line(format, args))
}

func (l *Logger) Warnf(format string, args ...any) {
	l.zl.Warn().Msg(line(format, args))
}

func (l *Logger) Errorf(format string, args ...any) {
	l.zl.Error().Msg(line(format, args))
}

func line(format string, args []any) string {
	return strings.TrimRight(fmt.Sprintf(format, args...), "\n")
}
