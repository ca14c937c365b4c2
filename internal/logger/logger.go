// Package logger configures the global zerolog logger from command line options.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger holds logging options, embedded into go-flags option structs as a group.
type Logger struct {
	Level  string `long:"log-level"  env:"LOG_LEVEL"  description:"Log level" choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error" default:"info"`
	Format string `long:"log-format" env:"LOG_FORMAT" description:"Log format" choice:"console" choice:"json" default:"console"`
}

// Setup applies the options to the global logger writing to stderr.
func (l Logger) Setup() {
	l.SetupWriter(os.Stderr)
}

// SetupWriter applies the options to the global logger writing to w.
func (l Logger) SetupWriter(w io.Writer) {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil || l.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if l.Format == "json" {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
		return
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime}).
		With().Timestamp().Logger()
}
