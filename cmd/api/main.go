package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"todo-auth/backend/internal/cache"
	"todo-auth/backend/internal/config"
	"todo-auth/backend/internal/database"
	"todo-auth/backend/internal/logging"
	"todo-auth/backend/internal/routes"
	"todo-auth/backend/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	// REDIS_ADDR が未設定、または接続できない場合はキャッシュなしで動く
	var todoCache services.TodoCache
	if cfg.CacheEnabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg)
		if err != nil {
			slog.Warn("redis unavailable, todo cache disabled", "error", err)
		} else {
			defer rdb.Close()
			todoCache = cache.NewTodoCache(rdb, cfg.TodoCacheTTL)
			slog.Info("todo cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.TodoCacheTTL)
		}
	}

	router, err := routes.SetupRouter(cfg, db, todoCache)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
