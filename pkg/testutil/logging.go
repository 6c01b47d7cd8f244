package testutil

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Importing testutil silences logrus unless tests run with -v.
func init() {
	logrus.SetLevel(logrus.TraceLevel)

	for _, arg := range os.Args {
		if arg == "-test.v=true" {
			return
		}
	}
	logrus.StandardLogger().SetOutput(io.Discard)
}

// DisableLogging discards log output until reset is called.
func DisableLogging() (reset func()) {
	logger := logrus.StandardLogger()
	original := logger.Out
	logger.SetOutput(io.Discard)
	return func() {
		logger.SetOutput(original)
	}
}
