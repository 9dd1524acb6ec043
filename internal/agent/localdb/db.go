// Package localdb bootstraps the agent's durable local store: an SQLite
// database whose tables act as the offline cache partitions (reports,
// sites, sync_queue, principals, region_mapping). Versioning is handled by
// embedded goose migrations, which are additive only.
package localdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/dmitrijs2005/surveysync/internal/agent/localdb/migrations"
	"github.com/dmitrijs2005/surveysync/internal/agent/repositories/principals"
	"github.com/dmitrijs2005/surveysync/internal/agent/repositories/regions"
	"github.com/dmitrijs2005/surveysync/internal/agent/repositories/reports"
	"github.com/dmitrijs2005/surveysync/internal/agent/repositories/sites"
	"github.com/dmitrijs2005/surveysync/internal/agent/repositories/syncqueue"
	"github.com/dmitrijs2005/surveysync/internal/logging"
	"github.com/pressly/goose/v3"
)

// Repositories bundles one repository per partition, all bound to the same
// database handle.
type Repositories struct {
	Reports    reports.Repository
	Sites      sites.Repository
	Queue      syncqueue.Repository
	Principals principals.Repository
	Regions    regions.Repository
	DB         *sql.DB
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

func openAndMigrate(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// InitDatabase idempotently opens the local store, applying any pending
// migrations. If the store is unreadable it is deleted and recreated from
// scratch: losing the cache is preferred to a permanently broken offline
// mode.
func InitDatabase(ctx context.Context, dsn string, log logging.Logger) (*Repositories, error) {
	db, err := openAndMigrate(ctx, dsn)
	if err != nil {
		log.Warn(ctx, "local database unusable, recreating", "dsn", dsn, "error", err)
		removeDatabaseFiles(dsn)

		db, err = openAndMigrate(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to recreate local database: %w", err)
		}
	}

	repos := &Repositories{
		Reports:    reports.NewSQLiteRepository(db),
		Sites:      sites.NewSQLiteRepository(db),
		Queue:      syncqueue.NewSQLiteRepository(db),
		Principals: principals.NewSQLiteRepository(db),
		Regions:    regions.NewSQLiteRepository(db),
		DB:         db,
	}
	return repos, nil
}

func removeDatabaseFiles(dsn string) {
	for _, suffix := range []string{"", "-wal", "-shm"} {
		_ = os.Remove(dsn + suffix)
	}
}
