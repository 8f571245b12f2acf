package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"unsafe"

	"github.com/Konsultn-Engineering/minorm/ormerr"
)

// Registry holds one Entity descriptor per struct type. Descriptors are
// built with reflection exactly once, at registration; every later lookup is
// a map read.
type Registry struct {
	parser   *TagParser
	mu       sync.Mutex // serializes publication so ids stay unique
	entities sync.Map   // reflect.Type -> *Entity
	byID     sync.Map   // string -> *Entity
}

// NewRegistry creates a registry reading struct tags named tagName ("db" when empty).
func NewRegistry(tagName string) *Registry {
	return &Registry{parser: NewTagParser(tagName)}
}

// Register builds and stores the descriptor of t (pointer types are
// dereferenced). Registering the same type twice returns the first descriptor.
func (r *Registry) Register(t reflect.Type) (*Entity, error) {
	if t == nil {
		return nil, ormerr.InvalidArgument("schema.Register", "type cannot be nil")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if existing, ok := r.entities.Load(t); ok {
		return existing.(*Entity), nil
	}
	if t.Kind() != reflect.Struct {
		return nil, ormerr.InvalidArgument("schema.Register", "invalid model type: %s (expected struct)", t.Kind())
	}

	e, err := r.buildEntity(t)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.entities.Load(t); ok {
		return existing.(*Entity), nil
	}
	e.id = r.uniqueID(e.id)
	r.entities.Store(t, e)
	r.byID.Store(e.id, e)
	return e, nil
}

// uniqueID suffixes id when another type already holds it. Types declared
// inside functions share a package path and name, so typeID alone cannot
// tell them apart.
func (r *Registry) uniqueID(id string) string {
	candidate := id
	for n := 1; ; n++ {
		if _, taken := r.byID.Load(candidate); !taken {
			return candidate
		}
		candidate = id + "#" + strconv.Itoa(n)
	}
}

// Lookup returns the descriptor of a registered type.
func (r *Registry) Lookup(t reflect.Type) (*Entity, bool) {
	if t == nil {
		return nil, false
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	e, ok := r.entities.Load(t)
	if !ok {
		return nil, false
	}
	return e.(*Entity), true
}

// LookupID returns the descriptor registered under a type identifier.
func (r *Registry) LookupID(id string) (*Entity, bool) {
	e, ok := r.byID.Load(id)
	if !ok {
		return nil, false
	}
	return e.(*Entity), true
}

// Entities returns every registered descriptor, in no particular order.
func (r *Registry) Entities() []*Entity {
	var out []*Entity
	r.entities.Range(func(_, v any) bool {
		out = append(out, v.(*Entity))
		return true
	})
	return out
}

// Register registers T with r.
func Register[T any](r *Registry) (*Entity, error) {
	return r.Register(reflect.TypeFor[T]())
}

// typeID is the package-qualified identifier of t.
func typeID(t reflect.Type) string {
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

func (r *Registry) buildEntity(t reflect.Type) (*Entity, error) {
	numFields := t.NumField()
	e := &Entity{
		Type:       t,
		Name:       t.Name(),
		Properties: make([]*Property, 0, numFields),
		id:         typeID(t),
		byName:     make(map[string]*Property, numFields),
		byFold:     make(map[string]*Property, numFields),
	}

	if tn, ok := reflect.New(t).Interface().(TableNamer); ok {
		e.tableName = tn.TableName()
	}

	for i := 0; i < numFields; i++ {
		f := t.Field(i)

		// Unexported and embedded fields are not mapped.
		if !f.IsExported() || f.Anonymous {
			continue
		}

		tag, err := r.parser.ParseTag(f.Name, f.Tag)
		if err != nil {
			return nil, ormerr.InvalidArgument("schema.Register", "error parsing tag for %s.%s: %v", t.Name(), f.Name, err)
		}
		if tag.Skip {
			continue
		}

		p := &Property{
			Name:   f.Name,
			Type:   f.Type,
			Index:  f.Index,
			Offset: f.Offset,
			Tag:    tag,
			entity: e,
		}
		e.Properties = append(e.Properties, p)
		e.byName[f.Name] = p
		e.byFold[strings.ToLower(f.Name)] = p
	}

	if len(e.Properties) == 0 {
		return nil, ormerr.InvalidArgument("schema.Register", "type %s has no mappable fields", e.id)
	}
	return e, nil
}

// PropertyOf resolves a pointer-to-field selector such as
//
//	func(u *User) any { return &u.Email }
//
// to the registered property. The selector is evaluated once against a
// zero value; only direct fields of T are accepted.
func PropertyOf[T any](e *Entity, selector func(*T) any) (*Property, error) {
	if selector == nil {
		return nil, ormerr.InvalidArgument("schema.PropertyOf", "selector cannot be nil")
	}
	if e == nil {
		return nil, ormerr.InvalidArgument("schema.PropertyOf", "entity cannot be nil")
	}
	if e.Type != reflect.TypeFor[T]() {
		return nil, ormerr.InvalidMemberReference("schema.PropertyOf", "selector on %s does not belong to %s", reflect.TypeFor[T](), e.id)
	}

	target := new(T)
	ptr := reflect.ValueOf(selector(target))
	if ptr.Kind() != reflect.Ptr || ptr.IsNil() {
		return nil, ormerr.InvalidArgument("schema.PropertyOf", "selector must return a pointer to a field")
	}

	base := uintptr(unsafe.Pointer(target))
	addr := ptr.Pointer()
	size := reflect.TypeFor[T]().Size()
	if addr < base || addr >= base+size {
		return nil, ormerr.InvalidMemberReference("schema.PropertyOf", "selector does not point into %s", e.id)
	}

	p, ok := e.propertyAt(addr-base, ptr.Type().Elem())
	if !ok {
		return nil, ormerr.InvalidMemberReference("schema.PropertyOf", "selector does not address a mapped field of %s", e.id)
	}
	return p, nil
}

// MustRegister is Register that panics on error; intended for package init.
func MustRegister[T any](r *Registry) *Entity {
	e, err := Register[T](r)
	if err != nil {
		panic(fmt.Sprintf("schema: register %s: %v", reflect.TypeFor[T](), err))
	}
	return e
}
