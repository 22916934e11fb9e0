package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PostgresStore wraps the database connection shared by pgvector operations.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection and returns a store instance.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

// EnsureSchema creates the pgvector extension and the chunks table if missing.
// The vector column is sized to the embedder's dimension; changing models with
// an existing table requires a manual migration.
func (s *PostgresStore) EnsureSchema(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("ensure schema: invalid dimension %d", dimension)
	}

	if _, err := s.db.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS chunks (
		id UUID PRIMARY KEY,
		content TEXT NOT NULL,
		source TEXT NOT NULL DEFAULT '',
		vector vector(%d) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`, dimension)

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create chunks table: %w", err)
	}
	return nil
}
