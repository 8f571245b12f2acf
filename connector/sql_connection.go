package connector

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Konsultn-Engineering/minorm/database"
	"github.com/Konsultn-Engineering/minorm/dialect"
)

// SQLConnection is a Connection over database/sql, shared by the providers
// whose drivers register with database/sql.
type SQLConnection struct {
	db      *sql.DB
	dialect dialect.Dialect
}

// OpenSQL opens driverName with dsn, applies pool settings and pings.
func OpenSQL(ctx context.Context, driverName, dsn string, pool PoolConfig, d dialect.Dialect) (*SQLConnection, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", driverName, err)
	}
	if pool.MaxOpen > 0 {
		db.SetMaxOpenConns(pool.MaxOpen)
	}
	if pool.MaxIdle > 0 {
		db.SetMaxIdleConns(pool.MaxIdle)
	}
	if pool.MaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.MaxLifetime)
	}
	if pool.MaxIdleTime > 0 {
		db.SetConnMaxIdleTime(pool.MaxIdleTime)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", driverName, err)
	}
	return NewSQLConnection(db, d), nil
}

// NewSQLConnection wraps an open handle.
func NewSQLConnection(db *sql.DB, d dialect.Dialect) *SQLConnection {
	return &SQLConnection{db: db, dialect: d}
}

// DB returns the underlying *sql.DB instance.
func (c *SQLConnection) DB() *sql.DB { return c.db }

func (c *SQLConnection) Database() database.Database { return database.NewSqlDatabase(c.db) }

func (c *SQLConnection) Dialect() dialect.Dialect { return c.dialect }

func (c *SQLConnection) Health(ctx context.Context) error { return c.db.PingContext(ctx) }

func (c *SQLConnection) Stats() ConnectionStats {
	s := c.db.Stats()
	return ConnectionStats{
		OpenConnections: s.OpenConnections,
		InUse:           s.InUse,
		Idle:            s.Idle,
	}
}

func (c *SQLConnection) Close() error { return c.db.Close() }
