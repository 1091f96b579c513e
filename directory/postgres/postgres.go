// Package postgres provides a PostgreSQL-backed UserDirectory. Schema
// management runs through embedded goose migrations; email uniqueness is a
// functional unique index on lower(email), so the database is the final
// arbiter of duplicate registration no matter how many processes share it.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/authcore-go/authcore"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const pgUniqueViolation = "23505"

// Directory is a PostgreSQL authcore.UserDirectory over database/sql with
// the pgx stdlib driver.
type Directory struct {
	db *sql.DB
}

// New returns a directory over an open database handle. The handle stays
// owned by the caller; Close here is a no-op on it.
func New(db *sql.DB) *Directory {
	return &Directory{db: db}
}

// Open connects to dsn with the pgx stdlib driver, verifies the connection,
// and returns a directory owning the handle.
func Open(ctx context.Context, dsn string) (*Directory, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Directory{db: db}, nil
}

// gooseUpContext is a seam for testing RunMigrations.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded schema migrations.
func (d *Directory) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, d.db, "migrations")
}

// Close closes the underlying handle. Use only with directories from Open.
func (d *Directory) Close() error {
	return d.db.Close()
}

func scanPrincipal(row *sql.Row) (authcore.Principal, error) {
	var (
		p        authcore.Principal
		lastAuth sql.NullTime
	)
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Credential, &p.CreatedAt, &lastAuth)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return authcore.Principal{}, authcore.ErrPrincipalNotFound
		}
		return authcore.Principal{}, fmt.Errorf("db error: %w", err)
	}
	if lastAuth.Valid {
		p.LastAuthenticatedAt = lastAuth.Time
	}
	return p, nil
}

const principalColumns = "id, first_name, last_name, email, credential, created_at, last_authenticated_at"

func (d *Directory) GetByEmail(ctx context.Context, email string) (authcore.Principal, error) {
	query := `SELECT ` + principalColumns + ` FROM principals WHERE lower(email) = lower($1)`
	return scanPrincipal(d.db.QueryRowContext(ctx, query, email))
}

func (d *Directory) GetByID(ctx context.Context, id string) (authcore.Principal, error) {
	query := `SELECT ` + principalColumns + ` FROM principals WHERE id = $1`
	return scanPrincipal(d.db.QueryRowContext(ctx, query, id))
}

func (d *Directory) Add(ctx context.Context, principal authcore.Principal) (authcore.Principal, error) {
	query := `INSERT INTO principals (id, first_name, last_name, email, credential, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := d.db.ExecContext(ctx, query,
		principal.ID, principal.FirstName, principal.LastName,
		principal.Email, principal.Credential, principal.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return authcore.Principal{}, authcore.ErrDuplicateEmail
		}
		return authcore.Principal{}, fmt.Errorf("db error: %w", err)
	}
	return principal, nil
}

func (d *Directory) Update(ctx context.Context, principal authcore.Principal) error {
	query := `UPDATE principals
	          SET first_name = $2, last_name = $3, email = $4, credential = $5, last_authenticated_at = $6
	          WHERE id = $1`

	var lastAuth sql.NullTime
	if !principal.LastAuthenticatedAt.IsZero() {
		lastAuth = sql.NullTime{Time: principal.LastAuthenticatedAt, Valid: true}
	}

	res, err := d.db.ExecContext(ctx, query,
		principal.ID, principal.FirstName, principal.LastName,
		principal.Email, principal.Credential, lastAuth)
	if err != nil {
		if isUniqueViolation(err) {
			return authcore.ErrDuplicateEmail
		}
		return fmt.Errorf("db error: %w", err)
	}
	return requireRowTouched(res)
}

func (d *Directory) Delete(ctx context.Context, id string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM principals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRowTouched(res)
}

func requireRowTouched(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return authcore.ErrPrincipalNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
