package log

import (
	"fmt"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

var logger = zap.NewNop().Sugar()

func Logger() *zap.SugaredLogger {
	return logger
}

func InitLogger(debug bool) error {
	var noSugarLogger *zap.Logger
	var err error

	if debug {
		noSugarLogger, err = zap.NewDevelopment()
	} else {
		noSugarLogger, err = zap.NewProduction()
	}

	if err != nil {
		return fmt.Errorf("logger build error: %w", err)
	}

	logger = noSugarLogger.Sugar()

	return nil
}

// InitTestLogger routes log output to t.Log until the test ends
func InitTestLogger(t testing.TB) {
	previous := logger
	logger = zaptest.NewLogger(t).Sugar()

	t.Cleanup(func() {
		logger = previous
	})
}
