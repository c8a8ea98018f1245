package logging

import "go.uber.org/zap"

// New builds the process logger for env and installs it as the zap global,
// so packages can log through zap.S(). "dev" gets the development encoder.
func New(env string) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if env == "dev" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}
