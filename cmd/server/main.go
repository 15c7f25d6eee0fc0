package main // Entry point package

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv" // Optional .env loading
	"go.uber.org/zap"

	"github.com/iliyamo/filmorate/internal/config"     // Environment config
	"github.com/iliyamo/filmorate/internal/database"   // MySQL pool + schema
	"github.com/iliyamo/filmorate/internal/logging"    // zap logger
	"github.com/iliyamo/filmorate/internal/queue"      // Activity events
	"github.com/iliyamo/filmorate/internal/repository" // Persistence gateway
	"github.com/iliyamo/filmorate/internal/router"     // HTTP routes
	"github.com/iliyamo/filmorate/internal/service"    // Event publisher seam
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "filmorate:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DSN(), database.Pool{
		MaxOpen:     cfg.DBMaxOpenConns,
		MaxIdle:     cfg.DBMaxIdleConns,
		MaxLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db, database.Schema); err != nil {
			return err
		}
		log.Info("schema applied")
	}

	rdb := config.NewRedisClient() // nil disables rate limiting
	if rdb == nil {
		log.Warn("redis unavailable, rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	qcfg := config.LoadQueueConfig()
	var events service.EventPublisher
	if qcfg.Enabled {
		pub := queue.NewPublisher(qcfg.URL, qcfg.Queue, log)
		pub.Start()
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := pub.Close(closeCtx); err != nil {
				log.Warn("activity publisher did not drain", zap.Error(err))
			}
		}()
		events = pub
	}
	if qcfg.ConsumerEnabled {
		consumer := queue.NewConsumer(qcfg.URL, qcfg.Queue, qcfg.LogPath, log)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("activity consumer stopped", zap.Error(err))
			}
		}()
	}

	e := router.New(router.Deps{
		Store:          repository.NewSQLStore(db),
		Events:         events,
		Logger:         log,
		Redis:          rdb,
		RateLimit:      config.LoadRateLimitConfig(),
		DB:             db,
		RequestTimeout: cfg.RequestTimeout,
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
