package contract

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	loggerOnce sync.Once
	logger     *logrus.Logger
)

// Logger returns the process logger. It writes text to stderr so that
// command output on stdout stays machine readable.
func Logger() *logrus.Logger {
	loggerOnce.Do(func() {
		logger = logrus.New()
		logger.SetOutput(os.Stderr)
		logger.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp:       true,
			DisableLevelTruncation: true,
		})
		logger.SetLevel(logrus.WarnLevel)
	})
	return logger
}

// SetLogLevel changes the level of the process logger.
func SetLogLevel(level logrus.Level) {
	Logger().SetLevel(level)
}

// SetLogOutput redirects the process logger, e.g. to io.Discard in tests.
func SetLogOutput(w io.Writer) {
	Logger().SetOutput(w)
}
