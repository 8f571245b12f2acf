package engine

import (
	"context"
	"fmt"

	"github.com/Konsultn-Engineering/minorm/ast"
	"github.com/Konsultn-Engineering/minorm/builder"
	"github.com/Konsultn-Engineering/minorm/query"
	"github.com/Konsultn-Engineering/minorm/schema"
)

// Session is a typed query over T. Order fields name Go fields of T.
type Session[T any] struct {
	engine *Engine
	filter ast.Expr
	match  query.Node
	opts   builder.Options
}

func From[T any](e *Engine) *Session[T] {
	return &Session[T]{engine: e}
}

// Where sets an expression filter over T.
func (s *Session[T]) Where(expr ast.Expr) *Session[T] {
	s.filter = expr
	return s
}

// Match sets a filter built with the query package. Its field names are Go
// field names of T. With Where it is combined by AND.
func (s *Session[T]) Match(n query.Node) *Session[T] {
	s.match = n
	return s
}

func (s *Session[T]) OrderBy(field string) *Session[T] {
	s.opts.OrderBy = append(s.opts.OrderBy, builder.Asc(field))
	return s
}

func (s *Session[T]) OrderByDesc(field string) *Session[T] {
	s.opts.OrderBy = append(s.opts.OrderBy, builder.Desc(field))
	return s
}

func (s *Session[T]) Top(n int) *Session[T] {
	s.opts.Top = n
	return s
}

func (s *Session[T]) Hints(hints string) *Session[T] {
	s.opts.Hints = hints
	return s
}

// With applies builder options.
func (s *Session[T]) With(opts ...builder.Option) *Session[T] {
	for _, opt := range opts {
		if opt != nil {
			opt(&s.opts)
		}
	}
	return s
}

// node combines the expression and builder filters.
func (s *Session[T]) node(ent *schema.Entity) (query.Node, error) {
	c := s.engine.cache
	exprNode, err := where(s.filter, ent, c)
	if err != nil {
		return nil, err
	}
	if s.match == nil {
		return exprNode, nil
	}
	bound, err := query.Bind(s.match, ent, c)
	if err != nil {
		return nil, err
	}
	if exprNode == nil {
		return bound, nil
	}
	return query.And(exprNode, bound), nil
}

func (s *Session[T]) statement() (*schema.Entity, *builder.Statement, error) {
	e := s.engine
	ent, table, err := target[T](e)
	if err != nil {
		return nil, nil, err
	}
	props, err := e.cache.Properties(ent)
	if err != nil {
		return nil, nil, err
	}
	columns := make([]query.Field, len(props))
	for i, cp := range props {
		columns[i] = fieldOf(cp)
	}
	order := make([]builder.OrderField, len(s.opts.OrderBy))
	for i, o := range s.opts.OrderBy {
		f, err := query.BindField(o.Field, ent, e.cache)
		if err != nil {
			return nil, nil, err
		}
		order[i] = builder.OrderField{Field: f, Descending: o.Descending}
	}
	n, err := s.node(ent)
	if err != nil {
		return nil, nil, err
	}

	stmt, err := e.builder.Select(table).
		Columns(columns...).
		Where(n).
		OrderBy(order...).
		Top(s.opts.Top).
		Hints(s.opts.Hints).
		Build()
	if err != nil {
		return nil, nil, err
	}
	return ent, stmt, nil
}

// Find returns every matching row.
func (s *Session[T]) Find(ctx context.Context) ([]T, error) {
	e := s.engine
	ent, stmt, err := s.statement()
	if err != nil {
		return nil, e.reject(err)
	}

	rows, err := e.query(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	plan, err := e.cache.NewScanPlan(ent, columns)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, 10)
	for rows.Next() {
		var item T
		if err := plan.ScanRow(rows, &item); err != nil {
			return nil, fmt.Errorf("query %s: %w", stmt.Table, err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// First returns the first matching row and whether there was one.
func (s *Session[T]) First(ctx context.Context) (T, bool, error) {
	var zero T
	s.opts.Top = 1
	items, err := s.Find(ctx)
	if err != nil || len(items) == 0 {
		return zero, false, err
	}
	return items[0], true, nil
}

// Count counts the matching rows; order and top are ignored.
func (s *Session[T]) Count(ctx context.Context) (int64, error) {
	e := s.engine
	ent, table, err := target[T](e)
	if err != nil {
		return 0, e.reject(err)
	}
	n, err := s.node(ent)
	if err != nil {
		return 0, e.reject(err)
	}
	return e.Count(ctx, table, n, builder.WithHints(s.opts.Hints))
}

func (s *Session[T]) Exists(ctx context.Context) (bool, error) {
	e := s.engine
	ent, table, err := target[T](e)
	if err != nil {
		return false, e.reject(err)
	}
	n, err := s.node(ent)
	if err != nil {
		return false, e.reject(err)
	}
	return e.Exists(ctx, table, n, builder.WithHints(s.opts.Hints))
}

// Query is From[T](e).Where(filter).With(opts...).Find(ctx).
func Query[T any](ctx context.Context, e *Engine, filter ast.Expr, opts ...builder.Option) ([]T, error) {
	return From[T](e).Where(filter).With(opts...).Find(ctx)
}

// Query is the table-name form. Each row is returned as a column to value map.
func (e *Engine) Query(ctx context.Context, table string, columns []query.Field, filter query.Node, opts ...builder.Option) ([]map[string]any, error) {
	stmt, err := e.builder.Query(table, columns, filter, opts...)
	if err != nil {
		return nil, e.reject(err)
	}
	rows, err := e.query(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []map[string]any
	vals := make([]any, len(names))
	ptrs := make([]any, len(names))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("query %s: %w", table, err)
		}
		row := make(map[string]any, len(names))
		for i, n := range names {
			row[n] = vals[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
