package mysql

import (
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/minorm/connector"
	"github.com/Konsultn-Engineering/minorm/dialect"
)

func TestFormatDSN(t *testing.T) {
	dsn := FormatDSN(connector.Config{
		Host:           "db.local",
		Username:       "app",
		Password:       "secret",
		Database:       "shop",
		ConnectTimeout: 5 * time.Second,
		Params:         map[string]string{"autocommit": "true"},
	})

	parsed, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "db.local:3306", parsed.Addr)
	assert.Equal(t, "app", parsed.User)
	assert.Equal(t, "secret", parsed.Passwd)
	assert.Equal(t, "shop", parsed.DBName)
	assert.True(t, parsed.ParseTime)
	assert.Equal(t, 5*time.Second, parsed.Timeout)
	assert.Equal(t, "true", parsed.Params["autocommit"])
}

func TestFormatDSNPassthrough(t *testing.T) {
	assert.Equal(t, "u:p@/db", FormatDSN(connector.Config{DSN: "u:p@/db", Host: "ignored"}))
}

func TestProviderDialects(t *testing.T) {
	assert.Equal(t, "mysql", (&Provider{dialect: dialect.NewMySQLDialect}).Dialect().Name())
	assert.Equal(t, "tidb", (&Provider{dialect: dialect.NewTiDBDialect}).Dialect().Name())
}
