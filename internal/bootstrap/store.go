package bootstrap

import (
	"context"
	"fmt"

	"github.com/adminpanel-sm/adminpanel-backend/config"
	"github.com/adminpanel-sm/adminpanel-backend/internal/docstore"
)

// OpenStore connects the document store selected by DOCSTORE_DRIVER.
func OpenStore(ctx context.Context, cfg *config.Config) (docstore.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverFirestore:
		client, err := InitializeFirestore(ctx, &cfg.Firebase)
		if err != nil {
			return nil, err
		}
		return docstore.NewFirestore(client), nil

	case config.DriverPostgres:
		pool, err := OpenDB(ctx, DBOptions{DSN: cfg.Store.PostgresDSN})
		if err != nil {
			return nil, err
		}
		s, err := docstore.NewPostgres(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return s, nil

	case config.DriverRedis:
		client, err := OpenRedis(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		return docstore.NewRedis(client, "adminpanel:"), nil

	case config.DriverSQLite:
		return docstore.OpenSQLite(ctx, cfg.Store.SQLitePath)

	default:
		return nil, fmt.Errorf("unknown DOCSTORE_DRIVER %q", cfg.Store.Driver)
	}
}
