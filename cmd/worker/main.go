package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adminpanel-sm/adminpanel-backend/config"
	"github.com/adminpanel-sm/adminpanel-backend/internal/bootstrap"
	"github.com/adminpanel-sm/adminpanel-backend/internal/docstore"
	"github.com/adminpanel-sm/adminpanel-backend/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "worker",
	Short: "Offline maintenance for the admin panel store",
	Long: `worker imports JSON or YAML files into the document store and exports
the store back into the same file layout.

The store is selected with the same environment the API uses
(DOCSTORE_DRIVER, FIREBASE_PROJECT_ID, DB_DSN, REDIS_URL, SQLITE_PATH).`,
	SilenceUsage: true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.AddCommand(migrateCmd(), exportCmd())
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// env is what every subcommand needs: a logger and an open store.
type env struct {
	log   *zap.Logger
	store docstore.Store
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		return nil, err
	}

	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}

	logger.Info("store opened", zap.String("driver", cfg.Store.Driver))
	return &env{log: logger, store: store}, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.log.Warn("store close failed", zap.Error(err))
	}
	_ = e.log.Sync()
}
