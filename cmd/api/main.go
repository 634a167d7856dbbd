package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gamedrop_backend/internal/auth"
	"gamedrop_backend/internal/catalog"
	"gamedrop_backend/internal/events"
	apphttp "gamedrop_backend/internal/http"
	"gamedrop_backend/internal/http/router"
	"gamedrop_backend/internal/notify"
	"gamedrop_backend/internal/request"
	"gamedrop_backend/internal/search"
	"gamedrop_backend/internal/shortener"
	"gamedrop_backend/internal/steam"
	"gamedrop_backend/internal/steam/client"
	"gamedrop_backend/platform/config"
	"gamedrop_backend/platform/db"
	"gamedrop_backend/platform/logger"
	"gamedrop_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Outbound providers
	steamClient := client.New(log)
	enricher := steam.NewEnricher(steamClient, log)
	shortenerClient := shortener.New(cfg, log)
	dispatcher := notify.NewDispatcher(log)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Announcement subscriber reacts to catalog events (not HTTP-facing)
	announcer := notify.NewSubscriber(dispatcher, cfg, log)
	announcer.Register(eventBus)

	searchModule := search.NewModule(steamClient, cfg, cfg, val, log)
	defer searchModule.Close()
	if cfg.IsSnapshotCacheEnabled() {
		log.Info("snapshot cache enabled", "redisAddr", cfg.GetRedisAddr(), "ttl", cfg.GetSnapshotTTL())
	}

	authModule := auth.NewModule(cfg, val, log)
	catalogModule := catalog.NewModule(pool, searchModule.Sessions(), enricher, shortenerClient, eventBus, val, log)
	requestModule := request.NewModule(searchModule.Sessions(), dispatcher, cfg, eventBus, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			searchModule,
			catalogModule,
			requestModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
