package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/nutricheck/nutricheck/internal/application"
	appanalysis "github.com/nutricheck/nutricheck/internal/application/analysis"
	appfollowup "github.com/nutricheck/nutricheck/internal/application/followup"
	"github.com/nutricheck/nutricheck/internal/config"
	domainai "github.com/nutricheck/nutricheck/internal/domain/ai"
	aiclient "github.com/nutricheck/nutricheck/internal/infra/ai/openai"
	"github.com/nutricheck/nutricheck/internal/infra/httpserver"
	minioStore "github.com/nutricheck/nutricheck/internal/infra/storage"
	"github.com/nutricheck/nutricheck/internal/infra/store"
	"github.com/nutricheck/nutricheck/internal/middleware"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal().Err(err).Msg("config load error")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config invalid")
	}

	ctx := context.Background()

	sessions := store.New(cfg.Sessions.MaxEntries, cfg.SessionTTL())

	client := aiclient.NewClient(cfg.AI.APIKey, cfg.AI.Model)

	// payload archive is optional; without it raw upstream payloads are
	// only logged
	var archive domainai.PayloadArchive
	if cfg.MinioEnabled() {
		s, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("minio init error")
		}
		archive = s
	}

	clock := application.SystemClock{}

	analysisSvc := &appanalysis.Service{
		AI:       client,
		Sessions: sessions,
		Archive:  archive,
		Clock:    clock,
		Log:      log,
	}
	followupSvc := &appfollowup.Service{
		AI:       client,
		Sessions: sessions,
		Archive:  archive,
		Clock:    clock,
		Log:      log,
	}

	checkers := map[string]middleware.HealthChecker{
		"sessions": middleware.HealthCheckFunc(func(context.Context) error {
			sessions.Len()
			return nil
		}),
	}

	handler := httpserver.NewRouter(analysisSvc, followupSvc, checkers, log)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // inference calls can run long
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Str("model", cfg.AI.Model).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info().Msg("shutting down server")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
