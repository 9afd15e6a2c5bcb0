package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/richxcame/restaurant-backoffice/pkg/config"
)

const (
	applicationName  = "backoffice"
	connMaxIdleTime  = 5 * time.Minute
	healthCheckEvery = 30 * time.Second
)

// poolConfig turns DB_* settings into a pgx pool configuration
func poolConfig(cfg *config.DatabaseConfig) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse postgres DSN: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 && cfg.MinConns <= cfg.MaxConns {
		pc.MinConns = int32(cfg.MinConns)
	}
	pc.MaxConnIdleTime = connMaxIdleTime
	pc.HealthCheckPeriod = healthCheckEvery
	pc.ConnConfig.RuntimeParams["application_name"] = applicationName
	return pc, nil
}

// openPostgres dials a pgx pool and hands it to database/sql, so repositories and
// golang-migrate share one connection set. The returned func closes the pool.
func openPostgres(ctx context.Context, cfg *config.DatabaseConfig) (*sql.DB, func(), error) {
	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, nil, fmt.Errorf("create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping postgres at %s:%s: %w", cfg.Host, cfg.Port, err)
	}

	return stdlib.OpenDBFromPool(pool), pool.Close, nil
}
