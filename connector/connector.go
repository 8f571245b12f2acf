// Package connector opens database connections through registered providers.
package connector

import (
	"context"

	"github.com/Konsultn-Engineering/minorm/database"
	"github.com/Konsultn-Engineering/minorm/dialect"
)

// Connection is an open database together with its dialect.
type Connection interface {
	Database() database.Database
	Dialect() dialect.Dialect
	Health(ctx context.Context) error
	Stats() ConnectionStats
	Close() error
}

type Connector interface {
	Connect(ctx context.Context) (Connection, error)
	ConnectWithRetry(ctx context.Context, opts RetryConfig) (Connection, error)
	Close() error
}
