package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS portfolio_kv (
	origin     TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (origin, key)
)`

// PostgresStore is a Store on a PostgreSQL table. Rows are scoped by origin so
// several local profiles can share one database.
type PostgresStore struct {
	pool   *pgxpool.Pool
	origin string
}

// OpenPostgres establishes a connection pool, verifies it and ensures the table exists.
func OpenPostgres(ctx context.Context, databaseURL, origin string) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, errors.New("database URL is required")
	}
	if origin == "" {
		origin = "default"
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, &UnavailableError{Backend: "postgres", Cause: err}
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &UnavailableError{Backend: "postgres", Cause: err}
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create portfolio_kv table: %w", err)
	}
	return &PostgresStore{pool: pool, origin: origin}, nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM portfolio_kv WHERE origin = $1 AND key = $2`,
		s.origin, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", s.classify(key, err)
	}
	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO portfolio_kv (origin, key, value)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (origin, key) DO UPDATE SET value = $3, updated_at = NOW()`,
		s.origin, key, value,
	)
	if err != nil {
		return s.classify(key, err)
	}
	return nil
}

func (s *PostgresStore) Remove(ctx context.Context, key string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM portfolio_kv WHERE origin = $1 AND key = $2`,
		s.origin, key,
	)
	if err != nil {
		return s.classify(key, err)
	}
	return nil
}

func (s *PostgresStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT key FROM portfolio_kv WHERE origin = $1 ORDER BY key`,
		s.origin,
	)
	if err != nil {
		return nil, s.classify("", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, s.classify("", err)
	}
	return keys, nil
}

func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *PostgresStore) classify(key string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 53: insufficient resources (disk full, out of memory, ...)
		if strings.HasPrefix(pgErr.Code, "53") {
			return &QuotaExceededError{Key: key, Cause: err}
		}
		return fmt.Errorf("postgres store %s: %w", key, err)
	}
	if pgconn.SafeToRetry(err) || errors.Is(err, context.DeadlineExceeded) {
		return &UnavailableError{Backend: "postgres", Cause: err}
	}
	return fmt.Errorf("postgres store %s: %w", key, err)
}
