// Package postgres registers the PostgreSQL providers: "postgres" on a pgx
// pool and "pq" on database/sql with lib/pq.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"

	"github.com/Konsultn-Engineering/minorm/connector"
	"github.com/Konsultn-Engineering/minorm/database"
	"github.com/Konsultn-Engineering/minorm/dialect"
)

type Provider struct{}

// PQProvider connects through database/sql with the lib/pq driver.
type PQProvider struct{}

func init() {
	connector.Register("postgres", &Provider{})
	connector.Register("postgresql", &Provider{})
	connector.Register("pq", &PQProvider{})
}

func buildDSN(cfg connector.Config) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	return connector.NewDSNBuilder("postgres").
		FromConfig(cfg).
		WithPostgresDefaults().
		Build()
}

func (p *Provider) Connect(ctx context.Context, cfg connector.Config) (connector.Connection, error) {
	cfg = cfg.WithPoolDefaults()

	poolCfg, err := pgxpool.ParseConfig(buildDSN(cfg))
	if err != nil {
		return nil, err
	}

	poolCfg.MaxConns = int32(cfg.Pool.MaxOpen)
	poolCfg.MinConns = int32(cfg.Pool.MaxIdle)
	poolCfg.MaxConnLifetime = cfg.Pool.MaxLifetime
	poolCfg.MaxConnIdleTime = cfg.Pool.MaxIdleTime
	if cfg.Pool.HealthCheckFreq > 0 {
		poolCfg.HealthCheckPeriod = cfg.Pool.HealthCheckFreq
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	return &connection{pool: pool, dialect: dialect.NewPostgresDialect()}, nil
}

func (p *Provider) Dialect() dialect.Dialect {
	return dialect.NewPostgresDialect()
}

func (p *Provider) HealthCheck(ctx context.Context, conn connector.Connection) error {
	return conn.Health(ctx)
}

func (p *PQProvider) Connect(ctx context.Context, cfg connector.Config) (connector.Connection, error) {
	cfg = cfg.WithPoolDefaults()
	return connector.OpenSQL(ctx, "postgres", buildDSN(cfg), cfg.Pool, dialect.NewPostgresDialect())
}

func (p *PQProvider) Dialect() dialect.Dialect {
	return dialect.NewPostgresDialect()
}

func (p *PQProvider) HealthCheck(ctx context.Context, conn connector.Connection) error {
	return conn.Health(ctx)
}

type connection struct {
	pool    *pgxpool.Pool
	dialect dialect.Dialect
}

func (c *connection) Database() database.Database {
	return database.NewPgxDatabase(c.pool)
}

func (c *connection) Dialect() dialect.Dialect {
	return c.dialect
}

func (c *connection) Health(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *connection) Stats() connector.ConnectionStats {
	s := c.pool.Stat()
	return connector.ConnectionStats{
		OpenConnections: int(s.TotalConns()),
		InUse:           int(s.AcquiredConns()),
		Idle:            int(s.IdleConns()),
	}
}

func (c *connection) Close() error {
	c.pool.Close()
	return nil
}
