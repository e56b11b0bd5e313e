// Package cliutil provides the structured-logging wrapper the cosign CLI
// uses for diagnostics, adapted from the logger package pattern of the
// retrieved MPC-TSS toolchain: a thin zerolog.Logger wrapper with a
// level-parsing constructor and a fluent field API, trimmed to what a
// batch CLI tool needs (no global logger, no secret redaction helper --
// this tool simply never logs a shard's D/P/Q to begin with).
package cliutil

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger for the cosign CLI's diagnostics.
type Logger struct {
	zlog zerolog.Logger
}

// New creates a Logger writing to out at the given level ("debug", "info",
// "warn", "error"). Output is colorized console text when out is a
// terminal, matching the teacher pattern's Pretty option but decided
// automatically from isatty rather than a config flag, since this CLI has
// no config file to carry that flag in.
func New(out io.Writer, level string) *Logger {
	if out == nil {
		out = os.Stderr
	}
	zerolog.SetGlobalLevel(parseLevel(level))

	writer := out
	if f, ok := out.(*os.File); ok && isTerminal(f) {
		writer = zerolog.ConsoleWriter{Out: out, NoColor: false}
	}

	return &Logger{zlog: zerolog.New(writer).With().Timestamp().Logger()}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd())
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Debug logs a step of a command's progress (key generated, shard written,
// partial signature produced, merge decided, signature verified). Never
// called with secret material.
func (l *Logger) Debug(msg string, fields map[string]string) {
	ev := l.zlog.Debug()
	for k, v := range fields {
		ev = ev.Str(k, v)
	}
	ev.Msg(msg)
}

// Fatal logs a diagnostic for a fatal error (spec §7: diagnostics include
// the offending filename where applicable) but does not itself exit; the
// CLI's main decides the exit code after logging.
func (l *Logger) Fatal(err error, fields map[string]string) {
	ev := l.zlog.Error().Err(err)
	for k, v := range fields {
		ev = ev.Str(k, v)
	}
	ev.Msg("command failed")
}
