// Package logging sets up logrus for a program that owns the terminal:
// logs go to a file when debugging and nowhere otherwise.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Setup points the standard logrus logger at path when debug is set, and
// discards all output otherwise. The returned closer releases the log file.
func Setup(fs afero.Fs, debug bool, path, level string) (io.Closer, error) {
	if !debug {
		logrus.SetOutput(io.Discard)
		return io.NopCloser(nil), nil
	}

	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(f)
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)

	return f, nil
}
