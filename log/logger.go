package log

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// This package implements a hierarchical logger which allows adding prefixes.

type Logger struct {
	// Internal logger
	zerolog.Logger

	// The current prefix
	prefix string

	level zerolog.Level
}

// NewLogger creates a logger at the given level. Unrecognized levels fall
// back to info.
func NewLogger(rawLevel string) *Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(rawLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return newLoggerWithPrefix("", level)
}

func newLoggerWithPrefix(prefix string, level zerolog.Level) *Logger {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("%s%s", i, prefix))
	}
	log := zerolog.New(output).Level(level).With().Timestamp().Logger()

	return &Logger{
		prefix: prefix,
		level:  level,
		Logger: log,
	}
}

func (l *Logger) ApplyPrefix(additionalPrefix string) *Logger {
	newPrefix := fmt.Sprintf("%s%s", l.prefix, additionalPrefix)

	return newLoggerWithPrefix(newPrefix, l.level)
}
