package logger

import (
	"go.uber.org/zap"

	"github.com/aliskhannn/placename-quiz-bot/internal/config"
)

// New builds the application logger. Production uses JSON output at info
// level; every other environment gets the human-readable development logger.
func New(cfg *config.Config) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)
	if cfg.Env == "production" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}

	return log.Named("placename-quiz").With(zap.String("env", cfg.Env)), nil
}
