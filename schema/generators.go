package schema

import (
	"crypto/rand"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// IDGenerator produces client-side primary key values for `generator:` tags.
type IDGenerator interface {
	Generate() (any, error)
	Type() string
}

// UUIDGenerator generates UUID v4 values.
type UUIDGenerator struct{}

func (g UUIDGenerator) Generate() (any, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID: %w", err)
	}
	return id, nil
}

func (g UUIDGenerator) Type() string { return "uuid" }

// ULIDGenerator generates monotonic ULID values. Monotonic entropy is not
// safe for concurrent use, hence the mutex.
type ULIDGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *ULIDGenerator) Generate() (any, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(time.Now()), g.entropy)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ULID: %w", err)
	}
	return id, nil
}

func (g *ULIDGenerator) Type() string { return "ulid" }

// GeneratorRegistry manages ID generators by name.
type GeneratorRegistry struct {
	generators sync.Map // string -> IDGenerator
}

var defaultGenerators = NewGeneratorRegistry()

func NewGeneratorRegistry() *GeneratorRegistry {
	r := &GeneratorRegistry{}
	r.Register("uuid", UUIDGenerator{})
	r.Register("ulid", NewULIDGenerator())
	return r
}

func (r *GeneratorRegistry) Register(name string, generator IDGenerator) {
	r.generators.Store(name, generator)
}

func (r *GeneratorRegistry) Get(name string) (IDGenerator, bool) {
	gen, ok := r.generators.Load(name)
	if !ok {
		return nil, false
	}
	return gen.(IDGenerator), true
}

func (r *GeneratorRegistry) Generate(generatorType string) (any, error) {
	gen, ok := r.Get(generatorType)
	if !ok {
		return nil, fmt.Errorf("unknown generator type: %s", generatorType)
	}
	return gen.Generate()
}

// RegisterGenerator adds a generator to the default registry.
func RegisterGenerator(name string, generator IDGenerator) {
	defaultGenerators.Register(name, generator)
}

// GenerateID runs a generator from the default registry.
func GenerateID(generatorType string) (any, error) {
	return defaultGenerators.Generate(generatorType)
}

// AssignGenerated fills the field of p on the addressable struct value v with
// a freshly generated value when the field is zero and p declares a
// generator. It reports whether a value was assigned.
func AssignGenerated(p *Property, v reflect.Value) (bool, error) {
	if p.Tag == nil || p.Tag.Generator == "" {
		return false, nil
	}
	field := p.Value(v)
	if !field.IsZero() {
		return false, nil
	}

	id, err := GenerateID(p.Tag.Generator)
	if err != nil {
		return false, err
	}

	idv := reflect.ValueOf(id)
	switch {
	case idv.Type().AssignableTo(field.Type()):
		field.Set(idv)
	case field.Kind() == reflect.String:
		s, ok := id.(fmt.Stringer)
		if !ok {
			return false, fmt.Errorf("generator %s: cannot assign %T to %s", p.Tag.Generator, id, field.Type())
		}
		field.SetString(s.String())
	case idv.Type().ConvertibleTo(field.Type()):
		field.Set(idv.Convert(field.Type()))
	default:
		return false, fmt.Errorf("generator %s: cannot assign %T to %s", p.Tag.Generator, id, field.Type())
	}
	return true, nil
}
