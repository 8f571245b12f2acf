package schema

import (
	"log/slog"
	"reflect"
	"strings"

	"github.com/Konsultn-Engineering/minorm/cache"
	"github.com/Konsultn-Engineering/minorm/ormerr"
)

// Cache is the metadata cache service: property and class mapped names,
// primary and identity keys, class property lists and type converters, each
// populated lazily once per structural key and flushable on demand.
//
// Default is the process-wide instance; tests construct isolated ones with New.
type Cache struct {
	registry   *Registry
	discoverer Discoverer
	naming     NamingStrategy
	logger     *slog.Logger

	propertyNames *cache.Store[string]
	classNames    *cache.Store[string]
	primaryKeys   *cache.Store[KeyDescriptor]
	identityKeys  *cache.Store[KeyDescriptor]
	properties    *cache.Store[[]ClassProperty]
	converters    *cache.Store[Converter]
}

type Option func(*Cache)

// WithRegistry shares a registry between caches.
func WithRegistry(r *Registry) Option {
	return func(c *Cache) { c.registry = r }
}

// WithDiscoverer replaces the tag-based mapping discovery.
func WithDiscoverer(d Discoverer) Option {
	return func(c *Cache) { c.discoverer = d }
}

// WithNamingStrategy sets the fallback naming convention (Verbatim by default).
func WithNamingStrategy(s NamingStrategy) Option {
	return func(c *Cache) { c.naming = s }
}

// WithLogger sets the logger used for cache events.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// New creates an empty cache service.
func New(options ...Option) *Cache {
	c := &Cache{
		discoverer: TagDiscoverer{},
		naming:     Verbatim(),
	}
	for _, opt := range options {
		opt(c)
	}
	if c.registry == nil {
		c.registry = NewRegistry(DefaultTagName)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	c.propertyNames = cache.NewStore[string]("property_mapped_name")
	c.classNames = cache.NewStore[string]("class_mapped_name")
	c.primaryKeys = cache.NewStore[KeyDescriptor]("primary_key")
	c.identityKeys = cache.NewStore[KeyDescriptor]("identity_key")
	c.properties = cache.NewStore[[]ClassProperty]("class_properties")
	c.converters = cache.NewStore[Converter]("type_converter")
	return c
}

// Default is the process-wide cache service.
var Default = New()

// Registry returns the entity registry backing the cache.
func (c *Cache) Registry() *Registry { return c.registry }

// Entity registers (or looks up) the descriptor of t.
func (c *Cache) Entity(t reflect.Type) (*Entity, error) {
	return c.registry.Register(t)
}

// EntityOf registers (or looks up) the descriptor of T.
func EntityOf[T any](c *Cache) (*Entity, error) {
	return c.registry.Register(reflect.TypeFor[T]())
}

// PropertyMappedName returns the column name of p.
func (c *Cache) PropertyMappedName(p *Property) (string, error) {
	if p == nil {
		return "", ormerr.InvalidArgument("schema.PropertyMappedName", "property cannot be nil")
	}
	return c.propertyNames.GetMember(p, func() (string, error) {
		name, ok, err := c.discoverer.MappedName(p)
		if err != nil {
			return "", err
		}
		if !ok {
			name = c.naming.ColumnName(p.Name)
		}
		c.logger.Debug("schema: property mapped name resolved",
			"entity", p.DeclaringType(), "property", p.Name, "mapped", name, "declared", ok)
		return name, nil
	})
}

// PropertyMappedNameByName resolves a field of e by Go name.
func (c *Cache) PropertyMappedNameByName(e *Entity, name string) (string, error) {
	p, err := c.property(e, name)
	if err != nil {
		return "", err
	}
	return c.PropertyMappedName(p)
}

// MappedNameOf returns the column name of field `name` of T.
func MappedNameOf[T any](c *Cache, name string) (string, error) {
	e, err := EntityOf[T](c)
	if err != nil {
		return "", err
	}
	return c.PropertyMappedNameByName(e, name)
}

// MappedNameFor returns the column name of the field addressed by selector.
func MappedNameFor[T any](c *Cache, selector func(*T) any) (string, error) {
	e, err := EntityOf[T](c)
	if err != nil {
		return "", err
	}
	p, err := PropertyOf(e, selector)
	if err != nil {
		return "", err
	}
	return c.PropertyMappedName(p)
}

// ClassMappedName returns the table name of e.
func (c *Cache) ClassMappedName(e *Entity) (string, error) {
	if e == nil {
		return "", ormerr.InvalidArgument("schema.ClassMappedName", "entity cannot be nil")
	}
	return c.classNames.GetMember(e, func() (string, error) {
		name, ok, err := c.discoverer.MappedName(e)
		if err != nil {
			return "", err
		}
		if !ok {
			name = c.naming.TableName(e.Name)
		}
		c.logger.Debug("schema: class mapped name resolved", "entity", e.id, "mapped", name, "declared", ok)
		return name, nil
	})
}

// TableNameOf returns the table name of T.
func TableNameOf[T any](c *Cache) (string, error) {
	e, err := EntityOf[T](c)
	if err != nil {
		return "", err
	}
	return c.ClassMappedName(e)
}

// PrimaryKey returns the primary key of e. A declared primary property wins;
// otherwise a property named Id, <Type>Id or <Table>Id (case-insensitive) is
// used. The zero descriptor means e has no primary key.
func (c *Cache) PrimaryKey(e *Entity) (KeyDescriptor, error) {
	if e == nil {
		return KeyDescriptor{}, ormerr.InvalidArgument("schema.PrimaryKey", "entity cannot be nil")
	}
	return c.primaryKeys.GetMember(e, func() (KeyDescriptor, error) {
		for _, p := range e.Properties {
			ok, err := c.discoverer.IsPrimary(p)
			if err != nil {
				return KeyDescriptor{}, err
			}
			if ok {
				return c.describeKey(p)
			}
		}

		table, err := c.ClassMappedName(e)
		if err != nil {
			return KeyDescriptor{}, err
		}
		for _, candidate := range []string{"id", strings.ToLower(e.Name) + "id", strings.ToLower(table) + "id"} {
			if p, ok := e.byFold[candidate]; ok {
				return c.describeKey(p)
			}
		}
		return KeyDescriptor{}, nil
	})
}

// PrimaryKeyOf returns the primary key of T.
func PrimaryKeyOf[T any](c *Cache) (KeyDescriptor, error) {
	e, err := EntityOf[T](c)
	if err != nil {
		return KeyDescriptor{}, err
	}
	return c.PrimaryKey(e)
}

// IdentityKey returns the declared identity (database-generated) key of e.
func (c *Cache) IdentityKey(e *Entity) (KeyDescriptor, error) {
	if e == nil {
		return KeyDescriptor{}, ormerr.InvalidArgument("schema.IdentityKey", "entity cannot be nil")
	}
	return c.identityKeys.GetMember(e, func() (KeyDescriptor, error) {
		for _, p := range e.Properties {
			ok, err := c.discoverer.IsIdentity(p)
			if err != nil {
				return KeyDescriptor{}, err
			}
			if ok {
				return c.describeKey(p)
			}
		}
		return KeyDescriptor{}, nil
	})
}

// Properties returns the mapped properties of e in declaration order. The
// returned slice is a copy.
func (c *Cache) Properties(e *Entity) ([]ClassProperty, error) {
	if e == nil {
		return nil, ormerr.InvalidArgument("schema.Properties", "entity cannot be nil")
	}
	list, err := c.properties.GetMember(e, func() ([]ClassProperty, error) {
		primary, err := c.PrimaryKey(e)
		if err != nil {
			return nil, err
		}
		identity, err := c.IdentityKey(e)
		if err != nil {
			return nil, err
		}

		out := make([]ClassProperty, 0, len(e.Properties))
		for _, p := range e.Properties {
			name, err := c.PropertyMappedName(p)
			if err != nil {
				return nil, err
			}
			conv, err := c.Converter(p)
			if err != nil {
				return nil, err
			}
			out = append(out, ClassProperty{
				Property:   p,
				MappedName: name,
				Primary:    primary.Property == p,
				Identity:   identity.Property == p,
				Converter:  conv,
			})
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]ClassProperty(nil), list...), nil
}

// Converter returns the binding converter of p: the converter named by its
// `convert:` tag, or a pass-through converter with the DbType inferred from
// the `type:` tag or the field type.
func (c *Cache) Converter(p *Property) (Converter, error) {
	if p == nil {
		return Converter{}, ormerr.InvalidArgument("schema.Converter", "property cannot be nil")
	}
	return c.converters.GetMember(p, func() (Converter, error) {
		if p.Tag != nil && p.Tag.Converter != "" {
			conv, ok := LookupConverter(p.Tag.Converter)
			if !ok {
				return Converter{}, ormerr.InvalidArgument("schema.Converter",
					"unknown converter %q on %s.%s", p.Tag.Converter, p.entity.Name, p.Name)
			}
			return conv, nil
		}
		if p.Tag != nil && p.Tag.Type != "" {
			if d, ok := ParseDbType(p.Tag.Type); ok {
				return Converter{DbType: d}, nil
			}
		}
		return Converter{DbType: InferDbType(p.Type)}, nil
	})
}

func (c *Cache) describeKey(p *Property) (KeyDescriptor, error) {
	name, err := c.PropertyMappedName(p)
	if err != nil {
		return KeyDescriptor{}, err
	}
	return KeyDescriptor{Property: p, MappedName: name}, nil
}

func (c *Cache) property(e *Entity, name string) (*Property, error) {
	if e == nil {
		return nil, ormerr.InvalidArgument("schema.Property", "entity cannot be nil")
	}
	if name == "" {
		return nil, ormerr.InvalidArgument("schema.Property", "property name cannot be empty")
	}
	p, ok := e.Property(name)
	if !ok {
		return nil, ormerr.InvalidMemberReference("schema.Property", "%s has no mapped field %q", e.id, name)
	}
	return p, nil
}

// Flush helpers. Each clears one cache instance immediately and totally.

func (c *Cache) FlushPropertyMappedNames() { c.propertyNames.Flush() }
func (c *Cache) FlushClassMappedNames()    { c.classNames.Flush() }
func (c *Cache) FlushPrimaryKeys()         { c.primaryKeys.Flush() }
func (c *Cache) FlushIdentityKeys()        { c.identityKeys.Flush() }
func (c *Cache) FlushProperties()          { c.properties.Flush() }
func (c *Cache) FlushConverters()          { c.converters.Flush() }

// Flush clears every cache instance. Registered entity descriptors are kept.
func (c *Cache) Flush() {
	c.propertyNames.Flush()
	c.classNames.Flush()
	c.primaryKeys.Flush()
	c.identityKeys.Flush()
	c.properties.Flush()
	c.converters.Flush()
	c.logger.Debug("schema: metadata caches flushed")
}

// Close flushes the caches. The Cache stays usable and repopulates on demand.
func (c *Cache) Close() error {
	c.Flush()
	return nil
}

// Stats returns a snapshot of every cache instance.
func (c *Cache) Stats() []cache.StoreStats {
	return []cache.StoreStats{
		c.propertyNames.Stats(),
		c.classNames.Stats(),
		c.primaryKeys.Stats(),
		c.identityKeys.Stats(),
		c.properties.Stats(),
		c.converters.Stats(),
	}
}
