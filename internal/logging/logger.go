// Package logging provides structured logging for linkpad.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	global *logrus.Logger
	once   sync.Once
)

// Fields attaches structured context to a log entry.
type Fields = logrus.Fields

// Init configures the global logger. Later calls are no-ops.
func Init(out io.Writer, level logrus.Level) {
	once.Do(func() {
		l := logrus.New()
		l.SetOutput(out)
		l.SetLevel(level)
		l.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
		})
		global = l
	})
}

// Get returns the global logger, initializing a default one if needed.
// Diagnostics go to stderr so command output stays clean on stdout.
func Get() *logrus.Logger {
	if global == nil {
		Init(os.Stderr, logrus.WarnLevel)
	}
	return global
}

// Debug logs a debug message with optional fields.
func Debug(msg string, fields ...Fields) {
	withFields(fields).Debug(msg)
}

// Info logs an info message with optional fields.
func Info(msg string, fields ...Fields) {
	withFields(fields).Info(msg)
}

// Warn logs a warning with optional fields.
func Warn(msg string, fields ...Fields) {
	withFields(fields).Warn(msg)
}

// Error logs an error with its cause and optional fields.
func Error(msg string, err error, fields ...Fields) {
	entry := withFields(fields)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(msg)
}

func withFields(fields []Fields) *logrus.Entry {
	entry := logrus.NewEntry(Get())
	for _, f := range fields {
		entry = entry.WithFields(f)
	}
	return entry
}
