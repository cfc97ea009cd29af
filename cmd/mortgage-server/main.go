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

	"github.com/cloud-ru/mcp-mortgage-go/internal/calculations"
	"github.com/cloud-ru/mcp-mortgage-go/internal/config"
	"github.com/cloud-ru/mcp-mortgage-go/internal/httpapi"
	"github.com/cloud-ru/mcp-mortgage-go/internal/logging"
	"github.com/cloud-ru/mcp-mortgage-go/internal/session"
	"github.com/cloud-ru/mcp-mortgage-go/internal/tools"
	"github.com/cloud-ru/mcp-mortgage-go/internal/tracing"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	shutdownTracing, err := tracing.InitTracing(cfg.OTELServiceName, cfg.OTELEndpoint, logger)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	registry := tools.Registry(tools.Deps{
		Config: cfg,
		Tracer: tracing.Tracer,
		Engine: calculations.NewEngine(logger.Named("engine")),
		Store:  store,
		Logger: logger.Named("tools"),
	})

	rateLimiter := httpapi.NewRateLimiter(cfg.RateLimit, time.Minute)
	defer rateLimiter.Stop()

	gin.SetMode(gin.ReleaseMode)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      httpapi.NewRouter(registry, rateLimiter, logger.Named("http")),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("mortgage server listening", zap.String("addr", server.Addr), zap.Strings("tools", tools.Names(registry)))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
		logger.Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}

// openStore выбирает хранилище сессий: Redis, затем SQL, иначе память процесса
func openStore(cfg *config.Config, logger *zap.Logger) (session.Store, error) {
	switch {
	case cfg.UsesRedis():
		store := session.NewRedisStore(cfg.RedisAddr, cfg.SessionTTL)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
		}
		logger.Info("session store: redis", zap.String("addr", cfg.RedisAddr))
		return store, nil
	case cfg.UsesSQL():
		store, err := session.NewSQLStore(cfg.DatabaseDriver, cfg.DatabaseDSN, cfg.SessionTTL)
		if err != nil {
			return nil, err
		}
		logger.Info("session store: sql", zap.String("driver", cfg.DatabaseDriver))
		return store, nil
	default:
		logger.Info("session store: memory")
		return session.NewMemoryStore(cfg.SessionTTL), nil
	}
}
