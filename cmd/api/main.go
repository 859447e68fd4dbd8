package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopsmart-app/backend/config"
	"github.com/shopsmart-app/backend/internal/cache"
	"github.com/shopsmart-app/backend/internal/database"
	"github.com/shopsmart-app/backend/internal/logging"
	"github.com/shopsmart-app/backend/internal/server"
	"github.com/shopsmart-app/backend/internal/service"
	"github.com/shopsmart-app/backend/internal/validate"
)

func main() {
	logging.Setup()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	validate.RegisterEmojiValidator()

	db, err := database.New(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	rdb, err := database.NewRedisClient(cfg)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	ctx := context.Background()
	s3cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize object storage", "error", err)
		os.Exit(1)
	}

	imageURLs := cache.NewImageURLCache(rdb)

	users := service.NewUserService(db)
	lists := service.NewListService(db)
	auth := service.NewAuthService(db, users, cfg.JWTSecret)
	storage := service.NewStorageService(s3cfg)
	account := service.NewAccountService(lists, users, auth, storage)

	srv := server.New(server.Deps{
		DB:      db,
		Auth:    auth,
		Lists:   lists,
		Users:   users,
		Storage: storage,
		Account: account,
		Cache:   imageURLs,
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(net.JoinHostPort(cfg.ServerHost, cfg.ServerPort))
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	case sig := <-quit:
		slog.Info("received signal, shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
