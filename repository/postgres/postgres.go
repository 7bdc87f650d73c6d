// Package postgres opens the PostgreSQL connection pool and keeps the
// books schema in place.
package postgres

import (
	"context"
	"database/sql"
	"time"

	"booktracker/config"

	_ "github.com/lib/pq"
)

// OpenDBConn creates a PostgreSQL database connection pool.
func OpenDBConn(cfg config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	duration, err := time.ParseDuration(cfg.Database.MaxIdleTime)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxIdleTime(duration)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = db.PingContext(ctx)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the books table if it does not exist yet. Idempotent,
// run on every server start.
func EnsureSchema(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS books (
			id bigserial PRIMARY KEY,
			title text NOT NULL,
			year integer NOT NULL DEFAULT 0,
			author text NOT NULL,
			status text NOT NULL,
			date_added text NOT NULL,
			note text NOT NULL DEFAULT ''
		)`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := db.ExecContext(ctx, query)
	return err
}
