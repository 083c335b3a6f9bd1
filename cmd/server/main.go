package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"shortlink/internal/config"
	"shortlink/internal/http/server"
	"shortlink/internal/logger"
	"shortlink/internal/repository"
	"shortlink/internal/repository/inmemory"
	"shortlink/internal/repository/postgres"
	"shortlink/internal/services/auth"
	"shortlink/internal/services/shortener"
)

const shutdownTimeout = 5 * time.Second

func main() {
	log := logger.NewLogger()
	cfg := config.NewConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		users repository.UserStorage
		links repository.LinkStorage
	)

	if cfg.DatabaseDSN != "" {
		pg, err := postgres.NewStorage(ctx, cfg.DatabaseDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		defer pg.Close()
		users, links = pg, pg
		log.Info().Msg("using postgres storage")
	} else {
		mem := inmemory.NewStorage()
		users, links = mem, mem
		log.Info().Msg("using in-memory storage")
	}

	authService, err := auth.NewService(users, cfg.JWTSecretKey, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create auth service")
	}

	linkService := shortener.NewShortener(links, cfg.BaseURL)

	srv, err := server.NewServer(log, *cfg, authService, linkService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create server")
	}

	go func() {
		if err := srv.Start(ctx); err != nil {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shut down gracefully")
	}
}
