package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func InitDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	err = db.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not ping database: %w", err)
	}

	return db, nil
}

// AccountsTable returns the quoted accounts table name of an environment, e.g. "dev_Users".
// Quoting keeps the case, so the name matches the Redis key prefix.
func AccountsTable(envName string) string {
	return pgx.Identifier{envName + "_Users"}.Sanitize()
}

func Migrate(ctx context.Context, db *sql.DB, envName string) error {
	_, err := db.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	username VARCHAR(250) PRIMARY KEY,
	email TEXT NOT NULL,
	password_hash TEXT NOT NULL CHECK (password_hash <> ''),
	created_at TIMESTAMP NOT NULL DEFAULT now()
)`, AccountsTable(envName)))

	if err != nil {
		return fmt.Errorf("could not create accounts table: %w", err)
	}

	return nil
}
