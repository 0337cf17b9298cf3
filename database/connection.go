package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Open creates a connection pool for url and pings it. maxConns <= 0 keeps
// the pgxpool default.
func Open(ctx context.Context, url string, maxConns int) (*pgxpool.Pool, error) {
	if url == "" {
		return nil, fmt.Errorf("database URL is empty (set DATABASE_URL or DB_HOST/DB_USER/DB_DATABASE)")
	}

	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}
	if maxConns > 0 {
		poolConfig.MaxConns = int32(maxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return pool, nil
}

// ServerInfo describes the server a pool is connected to.
type ServerInfo struct {
	Version  string
	Database string
	User     string
}

// Describe reports the server version and the current database and user.
func Describe(ctx context.Context, pool *pgxpool.Pool) (*ServerInfo, error) {
	var info ServerInfo
	err := pool.QueryRow(ctx, "SELECT version(), current_database(), current_user").
		Scan(&info.Version, &info.Database, &info.User)
	if err != nil {
		return nil, fmt.Errorf("querying server info: %w", err)
	}
	return &info, nil
}
