package schema

import (
	"encoding/json"
	"fmt"
	"sync"
)

// ConvertFunc maps a field value to the value bound as a statement parameter.
type ConvertFunc func(value any) (any, error)

// Converter describes how a property's values are bound: the inferred
// database type and an optional value conversion.
type Converter struct {
	Name    string
	DbType  DbType
	Convert ConvertFunc
}

// Apply converts v; a Converter without a ConvertFunc passes v through.
func (c Converter) Apply(v any) (any, error) {
	if c.Convert == nil || v == nil {
		return v, nil
	}
	return c.Convert(v)
}

var converterRegistry sync.Map // string -> Converter

// RegisterConverter makes a named converter available to `convert:name` tags.
// Registering after entities have been resolved requires flushing the
// converter cache of existing Cache instances.
func RegisterConverter(name string, c Converter) {
	c.Name = name
	converterRegistry.Store(name, c)
}

// LookupConverter returns a registered converter.
func LookupConverter(name string) (Converter, bool) {
	c, ok := converterRegistry.Load(name)
	if !ok {
		return Converter{}, false
	}
	return c.(Converter), true
}

func init() {
	RegisterConverter("json", Converter{
		DbType: DbJSON,
		Convert: func(value any) (any, error) {
			b, err := json.Marshal(value)
			if err != nil {
				return nil, fmt.Errorf("json converter: %w", err)
			}
			return string(b), nil
		},
	})
	RegisterConverter("text", Converter{
		DbType: DbString,
		Convert: func(value any) (any, error) {
			if s, ok := value.(fmt.Stringer); ok {
				return s.String(), nil
			}
			return fmt.Sprint(value), nil
		},
	})
}
