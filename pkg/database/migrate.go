package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFS embed.FS

// Driver identifies the datastore behind DATABASE_URL
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// ParseURL picks the driver for a DATABASE_URL and returns the DSN that driver expects
func ParseURL(url string) (Driver, string, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres, url, nil
	case strings.HasPrefix(url, "sqlite://"):
		path := strings.TrimPrefix(url, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("database: sqlite URL %q has no path", url)
		}
		return DriverSQLite, path, nil
	case strings.HasPrefix(url, "file:"):
		return DriverSQLite, strings.TrimPrefix(url, "file:"), nil
	default:
		return "", "", fmt.Errorf("database: unsupported DATABASE_URL scheme in %q", redact(url))
	}
}

// MigratePostgres applies the embedded postgres schema; safe to run repeatedly
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	return migrate(ctx, DriverPostgres, func(ctx context.Context, stmt string) error {
		_, err := pool.Exec(ctx, stmt)
		return err
	})
}

// MigrateSQLite applies the embedded sqlite schema; safe to run repeatedly
func MigrateSQLite(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, DriverSQLite, func(ctx context.Context, stmt string) error {
		_, err := db.ExecContext(ctx, stmt)
		return err
	})
}

func migrate(ctx context.Context, driver Driver, exec func(context.Context, string) error) error {
	files, err := MigrationFiles(driver)
	if err != nil {
		return err
	}
	for _, name := range files {
		content, err := migrationFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		for _, stmt := range splitStatements(string(content)) {
			if err := exec(ctx, stmt); err != nil {
				return fmt.Errorf("apply migration %s: %w", name, err)
			}
		}
	}
	return nil
}

// MigrationFiles lists the embedded migrations for a driver in apply order
func MigrationFiles(driver Driver) ([]string, error) {
	files, err := fs.Glob(migrationFS, "migrations/"+string(driver)+"/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func splitStatements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		if s := strings.TrimSpace(stmt); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// redact hides credentials embedded in a URL before it reaches an error message
func redact(url string) string {
	if at := strings.LastIndex(url, "@"); at >= 0 {
		if scheme := strings.Index(url, "://"); scheme >= 0 && scheme < at {
			return url[:scheme+3] + "***" + url[at:]
		}
	}
	return url
}
