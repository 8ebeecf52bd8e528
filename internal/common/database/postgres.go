package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"recruitment-portal/internal/common/config"
)

const pingTimeout = 5 * time.Second

// PostgresClient holds the pool behind the Postgres application store.
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres opens the pool without touching the network; the first query
// or Ping dials.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	if cfg.Host == "" || cfg.Database == "" {
		return nil, fmt.Errorf("postgres host and database are required")
	}
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	// Submissions are short single-row writes; a small pool is plenty.
	maxOpen, maxIdle := cfg.MaxConnections, cfg.MaxIdle
	if maxOpen <= 0 {
		maxOpen = 10
	}
	if maxIdle <= 0 || maxIdle > maxOpen {
		maxIdle = maxOpen / 2
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// Ping bounds the check so /ready never hangs on a dead server.
func (c *PostgresClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := c.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}

func (c *PostgresClient) Close() error {
	if c == nil || c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
