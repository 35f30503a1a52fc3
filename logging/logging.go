package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"iot-panel/confs"
)

// New builds the process root logger. Level and output format come from
// LOG_LEVEL and LOG_PRETTY; components derive child loggers via With().
func New() zerolog.Logger {
	level, err := zerolog.ParseLevel(confs.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if confs.LogPretty() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger()
}
