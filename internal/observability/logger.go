// Package observability provides the structured logger and Prometheus metrics
// used by the dashboard server and the dataset loader.
package observability

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a logrus logger writing to w (stderr when nil).
// format "json" selects the JSON formatter; anything else logs text.
// An unknown level falls back to info.
func NewLogger(level, format string, w io.Writer) *logrus.Logger {
	logger := logrus.New()

	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if w == nil {
		w = os.Stderr
	}
	logger.SetOutput(w)

	return logger
}
