// utils/logger.go
package utils

import (
	"os"

	"go.uber.org/zap"
)

// NewLogger builds the application logger. LOG_LEVEL=debug switches to the
// development config.
func NewLogger() (*zap.SugaredLogger, error) {
	var logger *zap.Logger
	var err error
	if os.Getenv("LOG_LEVEL") == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
