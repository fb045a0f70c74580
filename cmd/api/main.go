package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/adminpanel-sm/adminpanel-backend/config"
	"github.com/adminpanel-sm/adminpanel-backend/internal/auth"
	"github.com/adminpanel-sm/adminpanel-backend/internal/auth/session"
	"github.com/adminpanel-sm/adminpanel-backend/internal/bootstrap"
	"github.com/adminpanel-sm/adminpanel-backend/internal/logging"
	"github.com/adminpanel-sm/adminpanel-backend/internal/migration"
	cronjob "github.com/adminpanel-sm/adminpanel-backend/internal/migration/cron"
)

const serviceName = "adminpanel-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		logger.Fatal("document store connection failed", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer store.Close()
	logger.Info("document store ready", zap.String("driver", cfg.Store.Driver))

	var sessionStore session.Store
	if strings.TrimSpace(cfg.Redis.URL) != "" {
		logger.Info("using Redis for admin sessions")
		redisStore, err := session.NewRedisStore(cfg.Redis.URL)
		if err != nil {
			logger.Fatal("redis connection failed", zap.Error(err))
		}
		sessionStore = redisStore
	} else {
		logger.Info("using process memory for admin sessions")
		sessionStore = session.NewMemoryStore()
	}
	sessions := session.NewManager(sessionStore, cfg.Admin.SessionTTL)
	defer sessions.Close()

	if cfg.Admin.SessionTTL < 5*time.Second {
		logger.Warn("admin session TTL is very short; set ADMIN_SESSION_TTL", zap.Duration("ttl", cfg.Admin.SessionTTL))
	}

	gate := auth.NewGate(cfg.Admin.SecretKey)
	if !gate.Configured() {
		logger.Warn("ADMIN_SECRET_KEY is empty; every mutating request will be rejected")
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:       serviceName,
		Version:           cfg.App.Version,
		Driver:            cfg.Store.Driver,
		Store:             store,
		Gate:              gate,
		Sessions:          sessions,
		Logger:            logger,
		CORSOrigins:       cfg.Server.CORSOrigins,
		CookieSecure:      cfg.Admin.CookieSecure,
		EnforceItemSchema: cfg.Store.EnforceItemSchema,
	})

	var scheduler *cronjob.Scheduler
	if cfg.Backup.Schedule != "" {
		scheduler = cronjob.NewScheduler(logger)
		if err := scheduler.AddBackup(cfg.Backup.Schedule, migration.NewExporter(store, logger), cfg.Backup.Dir); err != nil {
			logger.Fatal("invalid BACKUP_CRON", zap.String("spec", cfg.Backup.Schedule), zap.Error(err))
		}
		scheduler.Start()
	}

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("API listening", zap.String("addr", server.Addr), zap.String("env", cfg.App.Environment))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}
}
