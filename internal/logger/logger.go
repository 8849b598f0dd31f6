package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New creates the application logger. Services and handlers receive it as a
// logrus.FieldLogger so tests can swap in a hooked instance and assert on
// log calls without capturing process output.
func New() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	return l
}
