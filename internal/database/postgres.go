package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/stwalsh4118/ciftlik/internal/config"
)

// Database holds the storage handles used by the repositories.
// Pool is nil when running on sqlite.
type Database struct {
	Pool *pgxpool.Pool
	Gorm *gorm.DB
	sql  *sql.DB
}

// Open connects to the database selected by cfg.Driver.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Database, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return NewSQLite(cfg.Path)
	case config.DriverPostgres, "":
		return NewPostgres(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// NewPostgresPool creates a PostgreSQL connection pool using pgx.
// It configures pool sizing and timeouts and pings before returning.
func NewPostgresPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MinConns = int32(cfg.PoolMin)
	poolConfig.MaxConns = int32(cfg.PoolMax)

	poolConfig.ConnConfig.ConnectTimeout = 5 * time.Second
	poolConfig.MaxConnIdleTime = 30 * time.Second
	poolConfig.MaxConnLifetime = 1 * time.Hour
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// NewPostgres opens a pgx pool and layers gorm on top of it, so both share
// the same connections.
func NewPostgres(ctx context.Context, cfg config.DatabaseConfig) (*Database, error) {
	pool, err := NewPostgresPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig())
	if err != nil {
		_ = sqlDB.Close()
		pool.Close()
		return nil, fmt.Errorf("failed to open gorm on pgx pool: %w", err)
	}

	return &Database{Pool: pool, Gorm: gdb, sql: sqlDB}, nil
}

// Ping checks if the database connection is alive.
func (db *Database) Ping(ctx context.Context) error {
	if db.Pool != nil {
		return db.Pool.Ping(ctx)
	}
	if db.sql != nil {
		return db.sql.PingContext(ctx)
	}
	return fmt.Errorf("database is not initialized")
}

// Close releases the gorm handle and the pool. Safe to call more than once.
func (db *Database) Close() {
	if db.sql != nil {
		_ = db.sql.Close()
	}
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// Stats returns statistics about the postgres pool, or nil on sqlite.
func (db *Database) Stats() *pgxpool.Stat {
	if db.Pool == nil {
		return nil
	}
	return db.Pool.Stat()
}
