package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/SeaCloudHub/rembg/adapters/httpserver"
	"github.com/SeaCloudHub/rembg/adapters/scheduler"
	"github.com/SeaCloudHub/rembg/adapters/services"
	"github.com/SeaCloudHub/rembg/pkg/config"
	"github.com/SeaCloudHub/rembg/pkg/logger"
	"github.com/SeaCloudHub/rembg/pkg/sentry"
	sentrygo "github.com/getsentry/sentry-go"
)

// @title Background Removal APIs
// @version 1.0

// @BasePath /api
// @schemes http https

// @description Removes image backgrounds and returns the result as a data URL.
func main() {
	applog, err := logger.NewAppLogger()
	if err != nil {
		log.Fatalf("cannot load config: %v\n", err)
	}
	defer logger.Sync(applog)

	cfg, err := config.LoadConfig()
	if err != nil {
		applog.Fatal(err)
	}

	err = sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		AttachStacktrace: true,
	})
	if err != nil {
		applog.Fatalf("cannot init sentry: %v", err)
	}
	defer sentrygo.Flush(sentry.FlushTime)

	remover, err := services.NewRemoverService(cfg, applog)
	if err != nil {
		applog.Fatal(err)
	}

	server, err := httpserver.New(cfg, applog, httpserver.WithRemoverService(remover))
	if err != nil {
		applog.Fatal(err)
	}

	if cfg.Remover.WarmupSchedule != "" {
		warmup, err := scheduler.NewWarmup(cfg.Remover.WarmupSchedule, remover, applog)
		if err != nil {
			applog.Fatal(err)
		}

		warmup.Start()
		defer warmup.Stop()
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	applog.Infow("server started!", "addr", addr, "backend", cfg.Remover.Backend)
	applog.Fatal(http.ListenAndServe(addr, server))
}
