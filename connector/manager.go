package connector

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/Konsultn-Engineering/minorm/dialect"
)

type standardConnector struct {
	provider Provider
	config   Config
	logger   *slog.Logger
}

var globalManager = &Manager{
	providers: make(map[string]Provider),
}

type Manager struct {
	providers map[string]Provider
	mu        sync.RWMutex
}

func Register(name string, provider Provider) {
	globalManager.mu.Lock()
	defer globalManager.mu.Unlock()
	globalManager.providers[name] = provider
}

// Providers lists the registered provider names.
func Providers() []string {
	globalManager.mu.RLock()
	defer globalManager.mu.RUnlock()
	names := make([]string, 0, len(globalManager.providers))
	for n := range globalManager.providers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// New returns a connector for the named provider.
func New(name string, config Config) (Connector, error) {
	globalManager.mu.RLock()
	provider, ok := globalManager.providers[name]
	globalManager.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("provider %s not registered", name)
	}
	return &standardConnector{provider: provider, config: config, logger: slog.Default()}, nil
}

// Open validates cfg, connects through the provider named by cfg.Driver
// (retrying when cfg.Retry is set) and applies the dialect override.
func Open(ctx context.Context, cfg Config) (Connection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c, err := New(cfg.Driver, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	var conn Connection
	if cfg.Retry != nil {
		conn, err = c.ConnectWithRetry(ctx, *cfg.Retry)
		if err != nil {
			return nil, fmt.Errorf("failed to connect after %d retries: %w", cfg.Retry.MaxRetries, err)
		}
	} else {
		conn, err = c.Connect(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to connect: %w", err)
		}
	}

	if cfg.Dialect != nil {
		d, err := dialect.FromDescriptor(*cfg.Dialect)
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
		conn = &dialectOverride{Connection: conn, dialect: d}
	}
	return conn, nil
}

func (c *standardConnector) Connect(ctx context.Context) (Connection, error) {
	return c.provider.Connect(ctx, c.config)
}

func (c *standardConnector) ConnectWithRetry(ctx context.Context, opts RetryConfig) (Connection, error) {
	return retryConnect(ctx, opts, c.logger, func(ctx context.Context) (Connection, error) {
		return c.provider.Connect(ctx, c.config)
	})
}

func (c *standardConnector) Close() error {
	return nil
}

type dialectOverride struct {
	Connection
	dialect dialect.Dialect
}

func (d *dialectOverride) Dialect() dialect.Dialect { return d.dialect }
