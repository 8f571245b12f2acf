package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// RowScanner is the subset of a result set needed to scan one row.
type RowScanner interface {
	Columns() ([]string, error)
	Scan(dest ...any) error
}

// ScanPlan maps the columns of one result set to properties of an entity.
// Build it once per result set and reuse it for every row.
type ScanPlan struct {
	entity  *Entity
	columns []string
	targets []*Property // nil for unmapped columns
}

// NewScanPlan matches columns against the mapped names of e. Matching is
// exact first, then case-insensitive; unmatched columns are discarded.
func (c *Cache) NewScanPlan(e *Entity, columns []string) (*ScanPlan, error) {
	props, err := c.Properties(e)
	if err != nil {
		return nil, err
	}

	exact := make(map[string]*Property, len(props))
	folded := make(map[string]*Property, len(props))
	for _, cp := range props {
		exact[cp.MappedName] = cp.Property
		folded[strings.ToLower(cp.MappedName)] = cp.Property
	}

	plan := &ScanPlan{entity: e, columns: columns, targets: make([]*Property, len(columns))}
	for i, col := range columns {
		if p, ok := exact[col]; ok {
			plan.targets[i] = p
		} else if p, ok := folded[strings.ToLower(col)]; ok {
			plan.targets[i] = p
		}
	}
	return plan, nil
}

// ScanRow scans the current row into dest, which must be a non-nil pointer to
// the plan's entity type.
func (p *ScanPlan) ScanRow(row RowScanner, dest any) error {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Type() != p.entity.Type {
		return fmt.Errorf("scan destination must be *%s, got %T", p.entity.Type, dest)
	}
	v = v.Elem()

	dests := make([]any, len(p.columns))
	for i, prop := range p.targets {
		if prop == nil {
			var discard any
			dests[i] = &discard
			continue
		}
		dests[i] = prop.Value(v).Addr().Interface()
	}
	return row.Scan(dests...)
}

// DebugBindings renders the column to field bindings of the plan.
func (p *ScanPlan) DebugBindings() string {
	var b strings.Builder
	b.WriteString("Bindings:\n")
	for i, col := range p.columns {
		if prop := p.targets[i]; prop != nil {
			fmt.Fprintf(&b, "  %2d. %-16s → %-16s (%s)\n", i+1, col, prop.Name, prop.Type)
		} else {
			fmt.Fprintf(&b, "  %2d. %-16s → [unbound]\n", i+1, col)
		}
	}
	return b.String()
}
