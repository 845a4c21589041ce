package utils

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// NewLogger returns a text logger writing to stderr at the given level name.
func NewLogger(level string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if level == "" {
		level = "info"
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "log level %q", level)
	}
	logger.SetLevel(parsed)
	return logger, nil
}

// CreateFileLogger logs to /tmp/<prefix>_log.txt, truncating it. If setAsDefault is
// true the standard logrus logger is redirected there as well.
func CreateFileLogger(setAsDefault bool, prefix string) (*logrus.Logger, error) {
	fileName := fmt.Sprintf("%s/%s_log.txt", os.TempDir(), prefix)
	f, err := os.OpenFile(fileName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open/create log file: %s", fileName)
	}

	if setAsDefault {
		logrus.SetOutput(f)
		return logrus.StandardLogger(), nil
	}

	logger := logrus.New()
	logger.SetOutput(f)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	return logger, nil
}

// DiscardLogger drops everything, used by tests and quiet batch runs.
func DiscardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
