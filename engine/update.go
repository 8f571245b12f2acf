package engine

import (
	"context"
	"reflect"
	"time"

	"github.com/Konsultn-Engineering/minorm/ast"
	"github.com/Konsultn-Engineering/minorm/builder"
	"github.com/Konsultn-Engineering/minorm/ormerr"
	"github.com/Konsultn-Engineering/minorm/query"
	"github.com/Konsultn-Engineering/minorm/schema"
)

// updateSet collects the columns Update writes: everything but the keys and
// CreatedAt.
func updateSet(props []schema.ClassProperty, rv reflect.Value) ([]builder.Assignment, error) {
	set := make([]builder.Assignment, 0, len(props))
	for _, cp := range props {
		if cp.Primary || cp.Identity || cp.Property.Name == "CreatedAt" {
			continue
		}
		a, err := assignment(cp, rv)
		if err != nil {
			return nil, err
		}
		set = append(set, a)
	}
	return set, nil
}

// Update writes the non-key columns of v to the row with v's primary key.
func Update[T any](ctx context.Context, e *Engine, v *T, opts ...builder.Option) (int64, error) {
	const op = "engine.Update"
	rv, err := structOf(op, v)
	if err != nil {
		return 0, e.reject(err)
	}
	ent, _, err := target[T](e)
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
	key := pk.Property.Value(rv)
	if key.IsZero() {
		return 0, e.reject(ormerr.InvalidArgument(op, "primary key %s is zero", pk.Property.Name))
	}

	filter := query.NewCondition(query.Field{
		Name:          pk.Property.Name,
		DeclaringType: ent.ID(),
		MappedName:    pk.MappedName,
	}, query.OpEqual, key.Interface())
	return update(ctx, e, ent, rv, filter, opts)
}

// UpdateWhere writes the non-key columns of v to every row matching filter.
func UpdateWhere[T any](ctx context.Context, e *Engine, v *T, filter ast.Expr, opts ...builder.Option) (int64, error) {
	const op = "engine.UpdateWhere"
	rv, err := structOf(op, v)
	if err != nil {
		return 0, e.reject(err)
	}
	ent, _, err := target[T](e)
	if err != nil {
		return 0, e.reject(err)
	}
	n, err := where(filter, ent, e.cache)
	if err != nil {
		return 0, e.reject(err)
	}
	return update(ctx, e, ent, rv, n, opts)
}

// update leaves rv unchanged when the statement fails.
func update(ctx context.Context, e *Engine, ent *schema.Entity, rv reflect.Value, filter query.Node, opts []builder.Option) (n int64, err error) {
	restore := snapshot(rv)
	defer func() {
		if err != nil {
			restore()
		}
	}()
	props, err := e.cache.Properties(ent)
	if err != nil {
		return 0, e.reject(err)
	}
	table, err := e.cache.ClassMappedName(ent)
	if err != nil {
		return 0, e.reject(err)
	}
	touchTimestamps(props, rv, time.Now(), false)
	set, err := updateSet(props, rv)
	if err != nil {
		return 0, e.reject(err)
	}
	return e.Update(ctx, table, set, filter, opts...)
}

// Update is the table-name form: SET set WHERE filter.
func (e *Engine) Update(ctx context.Context, table string, set []builder.Assignment, filter query.Node, opts ...builder.Option) (int64, error) {
	stmt, err := e.builder.Update(table, set, filter, opts...)
	if err != nil {
		return 0, e.reject(err)
	}
	return e.affected(ctx, stmt)
}

func (e *Engine) affected(ctx context.Context, stmt *builder.Statement) (int64, error) {
	res, err := e.exec(ctx, stmt)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
