package repository

import (
	"context"
	"fmt"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/repository/postgres"
	"portfolio-backend/internal/repository/sqlite"
	"portfolio-backend/pkg/database"
)

// Open connects to DATABASE_URL, applies the schema and returns the matching
// repository with a function that releases the underlying pool.
func Open(ctx context.Context, url string) (domain.ContactRepository, func(), error) {
	driver, dsn, err := database.ParseURL(url)
	if err != nil {
		return nil, nil, err
	}

	switch driver {
	case database.DriverPostgres:
		pool, err := database.NewPostgresConnection(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := database.MigratePostgres(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return postgres.NewContactRepository(pool), pool.Close, nil

	case database.DriverSQLite:
		db, err := database.NewSQLiteConnection(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		if err := database.MigrateSQLite(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return sqlite.NewContactRepository(db), func() { _ = db.Close() }, nil
	}

	return nil, nil, fmt.Errorf("database: unsupported driver %q", driver)
}
