// Package minorm is the entry point: it opens a connection through the
// registered providers and returns an engine bound to its dialect.
package minorm

import (
	"context"
	"fmt"

	"github.com/Konsultn-Engineering/minorm/connector"
	"github.com/Konsultn-Engineering/minorm/engine"

	_ "github.com/Konsultn-Engineering/minorm/providers/mysql"
	_ "github.com/Konsultn-Engineering/minorm/providers/postgres"
	_ "github.com/Konsultn-Engineering/minorm/providers/sqlite"
)

type Config = connector.Config

// Connect opens cfg and wraps the connection in an engine. Closing the
// engine closes the connection.
func Connect(ctx context.Context, cfg Config, opts ...engine.Option) (*engine.Engine, error) {
	conn, err := connector.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return engine.FromConnection(conn, opts...), nil
}

// ConnectFile loads a YAML config file and connects with it.
func ConnectFile(ctx context.Context, path string, opts ...engine.Option) (*engine.Engine, error) {
	cfg, err := connector.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return Connect(ctx, cfg, opts...)
}
