package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dtroode/portfolio-server/database"
)

const (
	applicationName   = "portfolio-server"
	maxConns          = 8
	maxConnIdleTime   = 5 * time.Minute
	healthCheckPeriod = time.Minute
)

var errNoPool = errors.New("connection pool is nil")

// Connection is the pgx pool behind the document repository.
type Connection struct {
	*pgxpool.Pool
}

// NewConection migrates the documents schema and opens a pool for dsn. The
// pool is pinged once so a bad dsn fails at startup.
func NewConection(ctx context.Context, dsn string) (*Connection, error) {
	conf, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}
	conf.MaxConns = maxConns
	conf.MaxConnIdleTime = maxConnIdleTime
	conf.HealthCheckPeriod = healthCheckPeriod
	if _, ok := conf.ConnConfig.RuntimeParams["application_name"]; !ok {
		conf.ConnConfig.RuntimeParams["application_name"] = applicationName
	}

	if err := database.Migrate(ctx, dsn); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}

	return &Connection{
		Pool: pool,
	}, nil
}

func (s *Connection) Close() error {
	if s.Pool != nil {
		s.Pool.Close()
	}
	return nil
}

// Ping checks the pool can reach the server.
func (s *Connection) Ping(ctx context.Context) error {
	if s.Pool == nil {
		return errNoPool
	}
	return s.Pool.Ping(ctx)
}
