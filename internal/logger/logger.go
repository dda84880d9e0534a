// Package logger provides leveled logging for the NocoDB client library.
//
// The package exposes a small printf-style surface (Debug/Info/Warn/Error)
// backed by zerolog. Library code logs through this package so that consumers
// can silence or redirect all client output with a single call.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"}).
	Level(zerolog.InfoLevel).
	With().Timestamp().Logger()

// SetLevel sets the minimum level for log output.
//
// Valid values are DEBUG, INFO, WARN and ERROR (case-insensitive).
// Unrecognized values are ignored and the current level is kept.
func SetLevel(level string) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		log = log.Level(zerolog.DebugLevel)
	case "INFO":
		log = log.Level(zerolog.InfoLevel)
	case "WARN":
		log = log.Level(zerolog.WarnLevel)
	case "ERROR":
		log = log.Level(zerolog.ErrorLevel)
	}
}

// SetOutput redirects log output to the given writer.
//
// By default logs are written to stderr in console format. Passing
// io.Discard silences the library completely. When json is true the
// output is structured JSON instead of the human-readable console format.
func SetOutput(w io.Writer, json bool) {
	if json {
		log = log.Output(w)
		return
	}
	log = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: "2006-01-02 15:04:05"})
}

func Debug(format string, v ...any) {
	log.Debug().Msgf(format, v...)
}

func Info(format string, v ...any) {
	log.Info().Msgf(format, v...)
}

func Warn(format string, v ...any) {
	log.Warn().Msgf(format, v...)
}

func Error(format string, v ...any) {
	log.Error().Msgf(format, v...)
}
