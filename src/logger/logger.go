package logger

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

const timeFormat = "15:04:05.000"

var (
	once sync.Once
	Log  zerolog.Logger
)

func configure() {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: timeFormat,
	}
	Log = zerolog.New(output).With().Timestamp().Logger()
}

// Configure sets up the process logger at the given level. Only the first call
// to Configure or Get has any effect.
func Configure(level zerolog.Level) *zerolog.Logger {
	once.Do(func() {
		configure()
		zerolog.SetGlobalLevel(level)
	})
	return &Log
}

func Get() *zerolog.Logger {
	once.Do(configure)
	return &Log
}

// ParseLevel maps a config level name to a zerolog level, falling back to info.
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		return zerolog.InfoLevel
	}
	return level
}
