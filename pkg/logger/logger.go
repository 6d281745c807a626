// Package logx owns the process-wide zerolog configuration.
package logx

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Debug        bool `split_words:"true" default:"false"`
	PrettyFormat bool `split_words:"true" default:"false"`
}

var DefaultConfig = &Config{}

func Init(opts ...Config) {
	conf := DefaultConfig
	if len(opts) > 0 {
		conf = &opts[0]
	}

	out := io.Writer(os.Stdout)
	if conf.PrettyFormat {
		out = zerolog.NewConsoleWriter()
	}

	level := zerolog.InfoLevel
	if conf.Debug {
		level = zerolog.DebugLevel
	}

	log.Logger = zerolog.New(out).Level(level).With().Timestamp().Caller().Stack().Logger()
}

// Component returns a child of the global logger tagged for one subsystem.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
