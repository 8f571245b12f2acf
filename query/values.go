package query

import "reflect"

func isCollection(v any) bool {
	if v == nil {
		return false
	}
	t := reflect.TypeOf(v)
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return t.Elem().Kind() != reflect.Uint8
	}
	return false
}

// Values expands a set operand (any slice or array other than []byte) into
// its elements. It reports false when v is not a set.
func Values(v any) ([]any, bool) {
	if vs, ok := v.([]any); ok {
		return vs, true
	}
	if !isCollection(v) {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// IsNullValue reports whether v is nil or a nil pointer, map or interface.
func IsNullValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map:
		return rv.IsNil()
	}
	return false
}
