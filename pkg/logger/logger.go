// Package logger configures the process-wide logrus logger.
package logger

import (
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Setup applies level and format ("json" or "text") to the standard logrus
// logger and returns it. An unknown level falls back to info.
func Setup(level, format string) *log.Logger {
	return Configure(log.StandardLogger(), os.Stdout, level, format)
}

// Configure applies the settings to l, writing to out.
func Configure(l *log.Logger, out io.Writer, level, format string) *log.Logger {
	l.SetOutput(out)

	lvl, err := log.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	l.SetLevel(lvl)

	if strings.EqualFold(format, "json") {
		l.SetFormatter(&log.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	} else {
		l.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	if err != nil && level != "" {
		l.WithField("level", level).Warn("unknown log level, using info")
	}
	return l
}

// Component returns an entry tagged with the component name.
func Component(name string) *log.Entry {
	return log.WithField("component", name)
}
