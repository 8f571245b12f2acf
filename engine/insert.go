package engine

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/Konsultn-Engineering/minorm/builder"
	"github.com/Konsultn-Engineering/minorm/database"
	"github.com/Konsultn-Engineering/minorm/schema"
)

// Insert writes v. Zero fields with a generator tag are generated first; a
// zero identity field is left to the database and read back into v. When the
// row is not written, v is left as it was.
func Insert[T any](ctx context.Context, e *Engine, v *T, opts ...builder.Option) (err error) {
	const op = "engine.Insert"
	rv, err := structOf(op, v)
	if err != nil {
		return e.reject(err)
	}
	restore := snapshot(rv)
	written := false
	defer func() {
		if err != nil && !written {
			restore()
		}
	}()
	ent, table, err := target[T](e)
	if err != nil {
		return e.reject(err)
	}
	props, err := e.cache.Properties(ent)
	if err != nil {
		return e.reject(err)
	}

	touchTimestamps(props, rv, time.Now(), true)

	values := make([]builder.Assignment, 0, len(props))
	var identity *schema.ClassProperty
	for i := range props {
		cp := props[i]
		if _, err := schema.AssignGenerated(cp.Property, rv); err != nil {
			return e.reject(err)
		}
		if cp.Identity && cp.Property.Value(rv).IsZero() {
			identity = &props[i]
			continue
		}
		a, err := assignment(cp, rv)
		if err != nil {
			return e.reject(err)
		}
		values = append(values, a)
	}

	identityColumn := ""
	if identity != nil {
		identityColumn = identity.MappedName
	}
	stmt, err := e.builder.Insert(table, values, identityColumn, opts...)
	if err != nil {
		return e.reject(err)
	}

	id, err := e.runInsert(ctx, stmt)
	if err != nil {
		return err
	}
	written = true
	if identity == nil || id == nil {
		return nil
	}
	return storeIdentity(identity.Property.Value(rv), id)
}

// InsertAll inserts each element of vs in order and stops at the first error.
func InsertAll[T any](ctx context.Context, e *Engine, vs []*T, opts ...builder.Option) error {
	for i, v := range vs {
		if err := Insert(ctx, e, v, opts...); err != nil {
			return fmt.Errorf("insert %d of %d: %w", i+1, len(vs), err)
		}
	}
	return nil
}

// Insert is the table-name form. It returns the generated identity when
// identity names a column, nil otherwise.
func (e *Engine) Insert(ctx context.Context, table string, values []builder.Assignment, identity string, opts ...builder.Option) (any, error) {
	stmt, err := e.builder.Insert(table, values, identity, opts...)
	if err != nil {
		return nil, e.reject(err)
	}
	return e.runInsert(ctx, stmt)
}

func (e *Engine) runInsert(ctx context.Context, stmt *builder.Statement) (any, error) {
	if stmt.Command == database.CommandRowSet {
		var id any
		found, err := e.scalar(ctx, stmt, &id)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, fmt.Errorf("insert %s: no identity returned", stmt.Table)
		}
		return id, nil
	}

	res, err := e.exec(ctx, stmt)
	if err != nil {
		return nil, err
	}
	if stmt.Identity == "" {
		return nil, nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", stmt.Table, err)
	}
	return id, nil
}

// storeIdentity converts a driver identity value into the field.
func storeIdentity(f reflect.Value, id any) error {
	switch v := id.(type) {
	case int64:
		return setInt(f, v)
	case int32:
		return setInt(f, int64(v))
	case int:
		return setInt(f, int64(v))
	}
	iv := reflect.ValueOf(id)
	if iv.Type().ConvertibleTo(f.Type()) {
		f.Set(iv.Convert(f.Type()))
		return nil
	}
	return fmt.Errorf("cannot store identity %T in %s", id, f.Type())
}
