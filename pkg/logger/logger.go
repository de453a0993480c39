package logger

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// NewAppLogger builds a development logger for local runs and a production
// one elsewhere. APP_ENV may come from .env, which is loaded here since the
// logger exists before the config.
func NewAppLogger() (*zap.SugaredLogger, error) {
	var (
		l   *zap.Logger
		err error
	)

	// .env is optional, the environment always wins
	_ = godotenv.Load()

	if isLocal(os.Getenv("APP_ENV")) {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}

	if err != nil {
		return nil, err
	}

	return l.Sugar(), nil
}

func isLocal(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))

	return env == "" || env == "local"
}

func Sync(l *zap.SugaredLogger) {
	// stderr/stdout sync returns EINVAL on some platforms
	_ = l.Sync()
}
