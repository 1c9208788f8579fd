package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kuvalkin/accounts/internal/service/account"
	"github.com/kuvalkin/accounts/internal/support/database"
)

type dbRepo struct {
	db      *sql.DB
	table   string
	timeout time.Duration
}

// NewDatabaseRepository stores accounts in the <envName>_users table
func NewDatabaseRepository(db *sql.DB, envName string, timeout time.Duration) account.Repository {
	return &dbRepo{
		db:      db,
		table:   database.AccountsTable(envName),
		timeout: timeout,
	}
}

func (d *dbRepo) Find(ctx context.Context, username string) (*account.Account, bool, error) {
	localCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	row := d.db.QueryRowContext(
		localCtx,
		fmt.Sprintf("SELECT username, email, password_hash FROM %s WHERE username = $1", d.table),
		username,
	)

	acc := &account.Account{}
	err := row.Scan(&acc.Username, &acc.Email, &acc.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("query error: %w", err)
	}

	return acc, true, nil
}

func (d *dbRepo) Add(ctx context.Context, acc *account.Account) error {
	localCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	_, err := d.db.ExecContext(
		localCtx,
		fmt.Sprintf("INSERT INTO %s (username, email, password_hash) VALUES ($1, $2, $3)", d.table),
		acc.Username,
		acc.Email,
		acc.PasswordHash,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return account.ErrUsernameNotUnique
		}

		return fmt.Errorf("query error: %w", err)
	}

	return nil
}
