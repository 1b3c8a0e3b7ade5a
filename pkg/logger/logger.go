// Package logger wraps a single shared logrus instance. Level and format
// come from the environment so deployments can switch to JSON without a
// rebuild.
package logger

import (
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	log  *logrus.Logger
	once sync.Once
)

// Get returns the shared logger, initializing it on first use.
func Get() *logrus.Logger {
	once.Do(func() {
		log = logrus.New()
		log.SetOutput(os.Stdout)

		level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
		if err != nil {
			level = logrus.InfoLevel
		}
		log.SetLevel(level)

		if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
			log.SetFormatter(&logrus.JSONFormatter{})
		} else {
			log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		}
	})
	return log
}

// WithModule tags entries with the subsystem that emitted them.
func WithModule(name string) *logrus.Entry {
	return Get().WithField("module", name)
}
