package schema

import (
	"reflect"
	"strings"

	"github.com/Konsultn-Engineering/minorm/cache"
)

// TableNamer lets a struct declare its table name explicitly.
type TableNamer interface {
	TableName() string
}

// Entity is the registered descriptor of a struct type. It is built once by
// the Registry and is read-only afterwards.
type Entity struct {
	Type reflect.Type
	Name string

	// Properties in declaration order.
	Properties []*Property

	id        string
	tableName string // declared through TableNamer, "" if none
	byName    map[string]*Property
	byFold    map[string]*Property
}

func (e *Entity) MemberKind() cache.MemberKind { return cache.MemberClass }

// DeclaringType returns the package-qualified type identifier.
func (e *Entity) DeclaringType() string {
	if e == nil {
		return ""
	}
	return e.id
}

func (e *Entity) MemberName() string {
	if e == nil {
		return ""
	}
	return e.Name
}

// ID is the package-qualified type identifier, e.g. "app/models.User".
func (e *Entity) ID() string { return e.DeclaringType() }

// DeclaredTableName returns the name from TableNamer, if the type implements it.
func (e *Entity) DeclaredTableName() (string, bool) {
	return e.tableName, e.tableName != ""
}

// Property looks a field up by its Go name. An exact match wins; otherwise
// the lookup is case-insensitive.
func (e *Entity) Property(name string) (*Property, bool) {
	if e == nil {
		return nil, false
	}
	if p, ok := e.byName[name]; ok {
		return p, true
	}
	p, ok := e.byFold[strings.ToLower(name)]
	return p, ok
}

// propertyAt finds the top-level field stored at offset with type t.
func (e *Entity) propertyAt(offset uintptr, t reflect.Type) (*Property, bool) {
	for _, p := range e.Properties {
		if len(p.Index) == 1 && p.Offset == offset && p.Type == t {
			return p, true
		}
	}
	return nil, false
}

// Property describes one mapped struct field.
type Property struct {
	Name   string
	Type   reflect.Type
	Index  []int
	Offset uintptr
	Tag    *ParsedTag

	entity *Entity
}

func (p *Property) MemberKind() cache.MemberKind { return cache.MemberProperty }

func (p *Property) DeclaringType() string {
	if p == nil {
		return ""
	}
	return p.entity.DeclaringType()
}

func (p *Property) MemberName() string {
	if p == nil {
		return ""
	}
	return p.Name
}

// Entity returns the declaring entity.
func (p *Property) Entity() *Entity { return p.entity }

// Value returns the field of the struct value v (v must be of the declaring type).
func (p *Property) Value(v reflect.Value) reflect.Value {
	return v.FieldByIndex(p.Index)
}

// KeyDescriptor is the resolved primary or identity key of an entity.
// The zero value means the entity has none.
type KeyDescriptor struct {
	Property   *Property
	MappedName string
}

// Found reports whether the entity has this key.
func (k KeyDescriptor) Found() bool { return k.Property != nil }

// ClassProperty is a property together with its resolved mapping.
type ClassProperty struct {
	Property   *Property
	MappedName string
	Primary    bool
	Identity   bool
	Converter  Converter
}
