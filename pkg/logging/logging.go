package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures zerolog for the process.
func Setup(environment, level string) zerolog.Logger {
	return SetupWithWriter(environment, level, os.Stdout)
}

// SetupWithWriter configures zerolog to write to w. Development gets the
// human-readable console format, everything else gets JSON lines.
func SetupWithWriter(environment, level string, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	lvl := zerolog.InfoLevel
	if environment == "development" {
		lvl = zerolog.DebugLevel
	}
	if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level))); err == nil && level != "" {
		lvl = parsed
	}

	writer := w
	if environment == "development" {
		writer = zerolog.ConsoleWriter{Out: w, NoColor: true}
	}

	logger := zerolog.New(writer).With().Timestamp().Logger().Level(lvl)
	log.Logger = logger
	return logger
}
