package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Init configures the process-wide logger. Level falls back to LOG_LEVEL and
// then to "info"; LOG_FORMAT=json switches to the JSON formatter.
func Init(level string) *logrus.Logger {
	log := logrus.New()

	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	if parsed, err := logrus.ParseLevel(strings.ToLower(level)); err == nil {
		log.SetLevel(parsed)
	} else {
		log.SetLevel(logrus.InfoLevel)
		if level != "" {
			log.WithField("invalid_level", level).Warn("invalid log level, using info")
		}
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	log.SetOutput(os.Stdout)
	return log
}

// WithComponent tags a logger entry with the originating component.
func WithComponent(log *logrus.Logger, component string) *logrus.Entry {
	return log.WithField("component", component)
}
