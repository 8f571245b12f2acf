// Package sqlite registers the "sqlite" provider on the pure Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/Konsultn-Engineering/minorm/connector"
	"github.com/Konsultn-Engineering/minorm/dialect"
)

type Provider struct{}

func init() {
	connector.Register("sqlite", &Provider{})
	connector.Register("sqlite3", &Provider{})
}

// DSN returns the file name for cfg, ":memory:" when none is configured.
func DSN(cfg connector.Config) string {
	switch {
	case cfg.DSN != "":
		return cfg.DSN
	case cfg.Database != "":
		return cfg.Database
	default:
		return ":memory:"
	}
}

// IsMemory reports whether dsn names an in-memory database.
func IsMemory(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

func (p *Provider) Connect(ctx context.Context, cfg connector.Config) (connector.Connection, error) {
	dsn := DSN(cfg)
	cfg = cfg.WithPoolDefaults()
	// Every connection to :memory: opens its own database.
	if IsMemory(dsn) {
		cfg.Pool.MaxOpen = 1
		cfg.Pool.MaxIdle = 1
		cfg.Pool.MaxLifetime = 0
		cfg.Pool.MaxIdleTime = 0
	}
	return connector.OpenSQL(ctx, "sqlite", dsn, cfg.Pool, dialect.NewSQLiteDialect())
}

func (p *Provider) Dialect() dialect.Dialect {
	return dialect.NewSQLiteDialect()
}

func (p *Provider) HealthCheck(ctx context.Context, conn connector.Connection) error {
	return conn.Health(ctx)
}
