package engine

import (
	"context"
	"database/sql"

	"github.com/Konsultn-Engineering/minorm/ast"
	"github.com/Konsultn-Engineering/minorm/builder"
	"github.com/Konsultn-Engineering/minorm/query"
	"github.com/Konsultn-Engineering/minorm/schema"
)

// target resolves the entity and table of T.
func target[T any](e *Engine) (*schema.Entity, string, error) {
	ent, err := schema.EntityOf[T](e.cache)
	if err != nil {
		return nil, "", err
	}
	table, err := e.cache.ClassMappedName(ent)
	if err != nil {
		return nil, "", err
	}
	return ent, table, nil
}

// where normalizes an optional predicate; nil matches every row.
func where(expr ast.Expr, ent *schema.Entity, c *schema.Cache) (query.Node, error) {
	if expr == nil {
		return nil, nil
	}
	return query.Normalize(expr, ent, c)
}

func (e *Engine) prepareAggregate(kind builder.Kind, table string, field query.Field, filter query.Node, opts []builder.Option) (*builder.Statement, error) {
	stmt, err := e.builder.Aggregate(kind, table, field, filter, opts...)
	return stmt, e.reject(err)
}

func prepareAggregate[T any](e *Engine, kind builder.Kind, field, filter ast.Expr, opts []builder.Option) (*builder.Statement, error) {
	ent, table, err := target[T](e)
	if err != nil {
		return nil, e.reject(err)
	}
	var f query.Field
	if field != nil {
		if f, err = query.ResolveField(field, ent, e.cache); err != nil {
			return nil, e.reject(err)
		}
	}
	n, err := where(filter, ent, e.cache)
	if err != nil {
		return nil, e.reject(err)
	}
	return e.prepareAggregate(kind, table, f, n, opts)
}

func (e *Engine) readInt64(ctx context.Context, stmt *builder.Statement) (int64, error) {
	var v sql.NullInt64
	if _, err := e.scalar(ctx, stmt, &v); err != nil {
		return 0, err
	}
	return v.Int64, nil
}

// readFloat64 returns 0 for a NULL result, as AVG and SUM give over no rows.
func (e *Engine) readFloat64(ctx context.Context, stmt *builder.Statement) (float64, error) {
	var v sql.NullFloat64
	if _, err := e.scalar(ctx, stmt, &v); err != nil {
		return 0, err
	}
	return v.Float64, nil
}

func (e *Engine) readValue(ctx context.Context, stmt *builder.Statement) (any, error) {
	var v any
	if _, err := e.scalar(ctx, stmt, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (e *Engine) readExists(ctx context.Context, stmt *builder.Statement) (bool, error) {
	var v any
	return e.scalar(ctx, stmt, &v)
}

// Table-name entry points. Fields of filter and field are column names
// unless already bound.

func (e *Engine) Count(ctx context.Context, table string, filter query.Node, opts ...builder.Option) (int64, error) {
	stmt, err := e.prepareAggregate(builder.KindCount, table, query.Field{}, filter, opts)
	if err != nil {
		return 0, err
	}
	return e.readInt64(ctx, stmt)
}

func (e *Engine) Sum(ctx context.Context, table string, field query.Field, filter query.Node, opts ...builder.Option) (float64, error) {
	stmt, err := e.prepareAggregate(builder.KindSum, table, field, filter, opts)
	if err != nil {
		return 0, err
	}
	return e.readFloat64(ctx, stmt)
}

func (e *Engine) Average(ctx context.Context, table string, field query.Field, filter query.Node, opts ...builder.Option) (float64, error) {
	stmt, err := e.prepareAggregate(builder.KindAverage, table, field, filter, opts)
	if err != nil {
		return 0, err
	}
	return e.readFloat64(ctx, stmt)
}

// Min returns the driver value of the minimum, nil over no rows.
func (e *Engine) Min(ctx context.Context, table string, field query.Field, filter query.Node, opts ...builder.Option) (any, error) {
	stmt, err := e.prepareAggregate(builder.KindMin, table, field, filter, opts)
	if err != nil {
		return nil, err
	}
	return e.readValue(ctx, stmt)
}

// Max returns the driver value of the maximum, nil over no rows.
func (e *Engine) Max(ctx context.Context, table string, field query.Field, filter query.Node, opts ...builder.Option) (any, error) {
	stmt, err := e.prepareAggregate(builder.KindMax, table, field, filter, opts)
	if err != nil {
		return nil, err
	}
	return e.readValue(ctx, stmt)
}

func (e *Engine) Exists(ctx context.Context, table string, filter query.Node, opts ...builder.Option) (bool, error) {
	stmt, err := e.builder.Exists(table, filter, opts...)
	if err != nil {
		return false, e.reject(err)
	}
	return e.readExists(ctx, stmt)
}

func (e *Engine) CountAsync(ctx context.Context, table string, filter query.Node, opts ...builder.Option) *Future[int64] {
	stmt, err := e.prepareAggregate(builder.KindCount, table, query.Field{}, filter, opts)
	return start(ctx, "engine.CountAsync", stmt, err, e.readInt64)
}

func (e *Engine) SumAsync(ctx context.Context, table string, field query.Field, filter query.Node, opts ...builder.Option) *Future[float64] {
	stmt, err := e.prepareAggregate(builder.KindSum, table, field, filter, opts)
	return start(ctx, "engine.SumAsync", stmt, err, e.readFloat64)
}

func (e *Engine) AverageAsync(ctx context.Context, table string, field query.Field, filter query.Node, opts ...builder.Option) *Future[float64] {
	stmt, err := e.prepareAggregate(builder.KindAverage, table, field, filter, opts)
	return start(ctx, "engine.AverageAsync", stmt, err, e.readFloat64)
}

func (e *Engine) MinAsync(ctx context.Context, table string, field query.Field, filter query.Node, opts ...builder.Option) *Future[any] {
	stmt, err := e.prepareAggregate(builder.KindMin, table, field, filter, opts)
	return start(ctx, "engine.MinAsync", stmt, err, e.readValue)
}

func (e *Engine) MaxAsync(ctx context.Context, table string, field query.Field, filter query.Node, opts ...builder.Option) *Future[any] {
	stmt, err := e.prepareAggregate(builder.KindMax, table, field, filter, opts)
	return start(ctx, "engine.MaxAsync", stmt, err, e.readValue)
}

// Typed entry points. field selects a member of T (ast.FieldOf[T]("Total"));
// filter is a predicate over T, nil for every row.

func Count[T any](ctx context.Context, e *Engine, filter ast.Expr, opts ...builder.Option) (int64, error) {
	stmt, err := prepareAggregate[T](e, builder.KindCount, nil, filter, opts)
	if err != nil {
		return 0, err
	}
	return e.readInt64(ctx, stmt)
}

func Sum[T any](ctx context.Context, e *Engine, field, filter ast.Expr, opts ...builder.Option) (float64, error) {
	stmt, err := prepareAggregate[T](e, builder.KindSum, field, filter, opts)
	if err != nil {
		return 0, err
	}
	return e.readFloat64(ctx, stmt)
}

func Average[T any](ctx context.Context, e *Engine, field, filter ast.Expr, opts ...builder.Option) (float64, error) {
	stmt, err := prepareAggregate[T](e, builder.KindAverage, field, filter, opts)
	if err != nil {
		return 0, err
	}
	return e.readFloat64(ctx, stmt)
}

func Min[T any](ctx context.Context, e *Engine, field, filter ast.Expr, opts ...builder.Option) (any, error) {
	stmt, err := prepareAggregate[T](e, builder.KindMin, field, filter, opts)
	if err != nil {
		return nil, err
	}
	return e.readValue(ctx, stmt)
}

func Max[T any](ctx context.Context, e *Engine, field, filter ast.Expr, opts ...builder.Option) (any, error) {
	stmt, err := prepareAggregate[T](e, builder.KindMax, field, filter, opts)
	if err != nil {
		return nil, err
	}
	return e.readValue(ctx, stmt)
}

func Exists[T any](ctx context.Context, e *Engine, filter ast.Expr, opts ...builder.Option) (bool, error) {
	ent, table, err := target[T](e)
	if err != nil {
		return false, e.reject(err)
	}
	n, err := where(filter, ent, e.cache)
	if err != nil {
		return false, e.reject(err)
	}
	return e.Exists(ctx, table, n, opts...)
}

func CountAsync[T any](ctx context.Context, e *Engine, filter ast.Expr, opts ...builder.Option) *Future[int64] {
	stmt, err := prepareAggregate[T](e, builder.KindCount, nil, filter, opts)
	return start(ctx, "engine.CountAsync", stmt, err, e.readInt64)
}

func SumAsync[T any](ctx context.Context, e *Engine, field, filter ast.Expr, opts ...builder.Option) *Future[float64] {
	stmt, err := prepareAggregate[T](e, builder.KindSum, field, filter, opts)
	return start(ctx, "engine.SumAsync", stmt, err, e.readFloat64)
}

func AverageAsync[T any](ctx context.Context, e *Engine, field, filter ast.Expr, opts ...builder.Option) *Future[float64] {
	stmt, err := prepareAggregate[T](e, builder.KindAverage, field, filter, opts)
	return start(ctx, "engine.AverageAsync", stmt, err, e.readFloat64)
}

func MinAsync[T any](ctx context.Context, e *Engine, field, filter ast.Expr, opts ...builder.Option) *Future[any] {
	stmt, err := prepareAggregate[T](e, builder.KindMin, field, filter, opts)
	return start(ctx, "engine.MinAsync", stmt, err, e.readValue)
}

func MaxAsync[T any](ctx context.Context, e *Engine, field, filter ast.Expr, opts ...builder.Option) *Future[any] {
	stmt, err := prepareAggregate[T](e, builder.KindMax, field, filter, opts)
	return start(ctx, "engine.MaxAsync", stmt, err, e.readValue)
}
