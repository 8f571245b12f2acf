// Package engine executes assembled statements on a database.Database. It
// offers typed entry points over registered structs (Count[T], Insert[T],
// From[T]) and table-name entry points on *Engine for callers without a
// compiled entity type.
package engine

import (
	"log/slog"

	"github.com/Konsultn-Engineering/minorm/builder"
	"github.com/Konsultn-Engineering/minorm/cache"
	"github.com/Konsultn-Engineering/minorm/connector"
	"github.com/Konsultn-Engineering/minorm/database"
	"github.com/Konsultn-Engineering/minorm/dialect"
	"github.com/Konsultn-Engineering/minorm/schema"
)

type Engine struct {
	db         database.Database
	dialect    dialect.Dialect
	cache      *schema.Cache
	statements *cache.StatementCache
	builder    *builder.Builder
	logger     *slog.Logger
	stats      counters
}

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithCache sets the metadata cache. The default is schema.Default.
func WithCache(c *schema.Cache) Option {
	return func(e *Engine) {
		if c != nil {
			e.cache = c
		}
	}
}

// WithStatementCache shares a command text cache between engines.
func WithStatementCache(c *cache.StatementCache) Option {
	return func(e *Engine) { e.statements = c }
}

func New(db database.Database, d dialect.Dialect, opts ...Option) *Engine {
	e := &Engine{
		db:      db,
		dialect: d,
		cache:   schema.Default,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.statements == nil {
		e.statements = cache.NewStatementCache(0)
	}
	e.builder = builder.New(d, builder.WithStatementCache(e.statements))
	return e
}

// FromConnection builds an engine over an open connector.Connection.
func FromConnection(conn connector.Connection, opts ...Option) *Engine {
	return New(conn.Database(), conn.Dialect(), opts...)
}

func (e *Engine) DB() database.Database { return e.db }

func (e *Engine) Dialect() dialect.Dialect { return e.dialect }

func (e *Engine) Cache() *schema.Cache { return e.cache }

func (e *Engine) Builder() *builder.Builder { return e.builder }

// Close closes the underlying database.
func (e *Engine) Close() error {
	return e.db.Close()
}
