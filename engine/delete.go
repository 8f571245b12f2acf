package engine

import (
	"context"

	"github.com/Konsultn-Engineering/minorm/ast"
	"github.com/Konsultn-Engineering/minorm/builder"
	"github.com/Konsultn-Engineering/minorm/ormerr"
	"github.com/Konsultn-Engineering/minorm/query"
)

// Delete removes the rows of T matching filter; nil removes every row.
func Delete[T any](ctx context.Context, e *Engine, filter ast.Expr, opts ...builder.Option) (int64, error) {
	ent, table, err := target[T](e)
	if err != nil {
		return 0, e.reject(err)
	}
	n, err := where(filter, ent, e.cache)
	if err != nil {
		return 0, e.reject(err)
	}
	return e.Delete(ctx, table, n, opts...)
}

// DeleteByKey removes the row of T whose primary key equals key.
func DeleteByKey[T any](ctx context.Context, e *Engine, key any, opts ...builder.Option) (int64, error) {
	const op = "engine.DeleteByKey"
	ent, table, err := target[T](e)
	if err != nil {
		return 0, e.reject(err)
	}
	pk, err := e.cache.PrimaryKey(ent)
	if err != nil {
		return 0, e.reject(err)
	}
	if !pk.Found() {
		return 0, e.reject(ormerr.InvalidArgument(op, "%s has no primary key", ent.ID()))
	}
	if query.IsNullValue(key) {
		return 0, e.reject(ormerr.InvalidArgument(op, "key cannot be nil"))
	}
	filter := query.NewCondition(query.Field{
		Name:          pk.Property.Name,
		DeclaringType: ent.ID(),
		MappedName:    pk.MappedName,
	}, query.OpEqual, key)
	return e.Delete(ctx, table, filter, opts...)
}

// Delete is the table-name form.
func (e *Engine) Delete(ctx context.Context, table string, filter query.Node, opts ...builder.Option) (int64, error) {
	stmt, err := e.builder.Delete(table, filter, opts...)
	if err != nil {
		return 0, e.reject(err)
	}
	return e.affected(ctx, stmt)
}
