package engine

import (
	"fmt"
	"reflect"
	"time"

	"github.com/Konsultn-Engineering/minorm/builder"
	"github.com/Konsultn-Engineering/minorm/ormerr"
	"github.com/Konsultn-Engineering/minorm/query"
	"github.com/Konsultn-Engineering/minorm/schema"
)

var timeType = reflect.TypeOf(time.Time{})

// structOf dereferences a non-nil *T.
func structOf[T any](op string, v *T) (reflect.Value, error) {
	if v == nil {
		return reflect.Value{}, ormerr.InvalidArgument(op, "entity cannot be nil")
	}
	return reflect.ValueOf(v).Elem(), nil
}

// snapshot copies v and returns a function that writes the copy back.
// Mapped fields are top-level, so a shallow copy covers every write made
// before a statement runs.
func snapshot(v reflect.Value) (restore func()) {
	saved := reflect.New(v.Type()).Elem()
	saved.Set(v)
	return func() { v.Set(saved) }
}

// touchTimestamps sets UpdatedAt to now and, on insert, a zero CreatedAt.
func touchTimestamps(props []schema.ClassProperty, v reflect.Value, now time.Time, insert bool) {
	for _, cp := range props {
		switch cp.Property.Name {
		case "CreatedAt":
			if !insert {
				continue
			}
			if f := cp.Property.Value(v); f.IsZero() {
				setTime(f, now)
			}
		case "UpdatedAt":
			setTime(cp.Property.Value(v), now)
		}
	}
}

func setTime(f reflect.Value, now time.Time) {
	switch {
	case f.Type() == timeType:
		f.Set(reflect.ValueOf(now))
	case f.Kind() == reflect.Ptr && f.Type().Elem() == timeType:
		t := now
		f.Set(reflect.ValueOf(&t))
	}
}

// fieldOf is the bound query field of a resolved property.
func fieldOf(cp schema.ClassProperty) query.Field {
	return query.Field{
		Name:          cp.Property.Name,
		DeclaringType: cp.Property.DeclaringType(),
		MappedName:    cp.MappedName,
	}
}

// assignment reads the value of cp from v through its converter.
func assignment(cp schema.ClassProperty, v reflect.Value) (builder.Assignment, error) {
	raw := cp.Property.Value(v)
	var value any
	if !(raw.Kind() == reflect.Ptr && raw.IsNil()) {
		value = raw.Interface()
	}
	converted, err := cp.Converter.Apply(value)
	if err != nil {
		return builder.Assignment{}, fmt.Errorf("failed to convert %s: %w", cp.Property.Name, err)
	}
	return builder.Assignment{Field: fieldOf(cp), Value: converted, DbType: cp.Converter.DbType}, nil
}

// setInt stores a driver-reported identity into an integer field.
func setInt(f reflect.Value, id int64) error {
	switch f.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f.SetInt(id)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		f.SetUint(uint64(id))
	default:
		return fmt.Errorf("cannot store identity %d in %s", id, f.Type())
	}
	return nil
}
