package config

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

// InitLogger configures the shared JSON logger. The level comes from LOG_LEVEL
// and falls back to info when unset or unparsable.
func InitLogger() *logrus.Logger {
	Log = logrus.New()

	Log.SetFormatter(&logrus.JSONFormatter{})
	Log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	return Log
}

// Logger returns the shared logger, initialising it on first use.
func Logger() *logrus.Logger {
	if Log == nil {
		return InitLogger()
	}
	return Log
}
