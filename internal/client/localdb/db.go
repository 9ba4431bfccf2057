// Package localdb bootstraps the local sqlite database backing the advisory
// profile cache, applying the embedded goose migrations.
package localdb

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"

	_ "github.com/mattn/go-sqlite3"

	"github.com/technoheaven/portal-client/internal/client/migrations"
)

// RunMigrations applies all embedded migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the database at dsn and migrates it.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
