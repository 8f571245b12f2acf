package schema

import (
	"github.com/Konsultn-Engineering/minorm/cache"
)

// Discoverer is the mapping-declaration collaborator consulted by Cache on a
// miss. Implementations must be deterministic; Cache calls them at most once
// per member between flushes (more only under a populate race).
type Discoverer interface {
	// MappedName returns the declared physical name of a *Property or *Entity,
	// and false when nothing is declared.
	MappedName(m cache.Member) (string, bool, error)
	IsPrimary(p *Property) (bool, error)
	IsIdentity(p *Property) (bool, error)
}

// TagDiscoverer reads mappings from struct tags and TableNamer.
type TagDiscoverer struct{}

func (TagDiscoverer) MappedName(m cache.Member) (string, bool, error) {
	switch v := m.(type) {
	case *Property:
		if v.Tag != nil && v.Tag.ColumnName != "" {
			return v.Tag.ColumnName, true, nil
		}
	case *Entity:
		if name, ok := v.DeclaredTableName(); ok {
			return name, true, nil
		}
	}
	return "", false, nil
}

func (TagDiscoverer) IsPrimary(p *Property) (bool, error) {
	return p.Tag != nil && p.Tag.Primary, nil
}

func (TagDiscoverer) IsIdentity(p *Property) (bool, error) {
	return p.Tag != nil && p.Tag.Identity, nil
}
