// Package logging configures logrus and logs store operations.
package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// New creates a logger writing to out (stderr when nil) at level in format
// "json" or "text". Unknown levels fall back to info.
func New(level, format string, out io.Writer) *logrus.Logger {
	logger := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: time.RFC3339,
			FullTimestamp:   true,
		})
	}

	if out == nil {
		out = os.Stderr
	}
	logger.SetOutput(out)

	return logger
}

// Observer logs the lifecycle of store operations
type Observer struct {
	log logrus.FieldLogger
}

// NewObserver creates an Observer writing to log
func NewObserver(log logrus.FieldLogger) *Observer {
	return &Observer{log: log}
}

func (o *Observer) Start(_ context.Context, store, op string) {
	o.log.WithFields(logrus.Fields{
		"store":     store,
		"operation": op,
	}).Debug("Store operation started")
}

func (o *Observer) Success(_ context.Context, store, op string, d time.Duration) {
	o.log.WithFields(logrus.Fields{
		"store":     store,
		"operation": op,
		"duration":  d,
	}).Info("Store operation succeeded")
}

func (o *Observer) Failure(_ context.Context, store, op string, d time.Duration, err error) {
	o.log.WithFields(logrus.Fields{
		"store":     store,
		"operation": op,
		"duration":  d,
	}).WithError(err).Error("Store operation failed")
}
