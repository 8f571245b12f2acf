// Package mysql registers the "mysql" and "tidb" providers on
// go-sql-driver/mysql.
package mysql

import (
	"context"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/Konsultn-Engineering/minorm/connector"
	"github.com/Konsultn-Engineering/minorm/dialect"
)

type Provider struct {
	dialect func() dialect.Dialect
}

func init() {
	connector.Register("mysql", &Provider{dialect: dialect.NewMySQLDialect})
	connector.Register("tidb", &Provider{dialect: dialect.NewTiDBDialect})
}

// FormatDSN renders the go-sql-driver DSN for cfg.
func FormatDSN(cfg connector.Config) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	port := cfg.Port
	if port == 0 {
		port = 3306
	}
	mc.Addr = fmt.Sprintf("%s:%d", cfg.Host, port)
	mc.DBName = cfg.Database
	mc.ParseTime = true
	if cfg.ConnectTimeout > 0 {
		mc.Timeout = cfg.ConnectTimeout
	}
	if cfg.QueryTimeout > 0 {
		mc.ReadTimeout = cfg.QueryTimeout
		mc.WriteTimeout = cfg.QueryTimeout
	}
	if len(cfg.Params) > 0 {
		mc.Params = make(map[string]string, len(cfg.Params))
		for k, v := range cfg.Params {
			mc.Params[k] = v
		}
	}
	return mc.FormatDSN()
}

func (p *Provider) Connect(ctx context.Context, cfg connector.Config) (connector.Connection, error) {
	cfg = cfg.WithPoolDefaults()
	// MySQL closes idle connections server side after wait_timeout.
	if cfg.Pool.MaxLifetime > 5*time.Minute {
		cfg.Pool.MaxLifetime = 5 * time.Minute
	}
	return connector.OpenSQL(ctx, "mysql", FormatDSN(cfg), cfg.Pool, p.dialect())
}

func (p *Provider) Dialect() dialect.Dialect {
	return p.dialect()
}

func (p *Provider) HealthCheck(ctx context.Context, conn connector.Connection) error {
	return conn.Health(ctx)
}
