// Package query holds the database-agnostic intermediate form of a predicate:
// conditions over resolved fields, grouped by And/Or. Trees come from
// Normalize (expression input) or from the builder functions in this package.
package query

import (
	"fmt"
	"strings"
)

// Field is a reference to a column. MappedName is filled by Normalize or
// Bind; a table-name query may leave it empty, in which case Name is the
// column name.
type Field struct {
	Name          string
	DeclaringType string
	MappedName    string
}

// NewField references a column by name, with no declaring entity.
func NewField(name string) Field {
	return Field{Name: name}
}

// Column returns the physical column name.
func (f Field) Column() string {
	if f.MappedName != "" {
		return f.MappedName
	}
	return f.Name
}

// Bound reports whether the field has been resolved against an entity.
func (f Field) Bound() bool { return f.MappedName != "" }

// Node is a *Condition or a *Group. The set is closed.
type Node interface {
	node()
	String() string
}

// Condition is Field <Operation> Value. Value holds a []any for In, NotIn,
// Between and NotBetween, nil for IsNull and IsNotNull, and a scalar otherwise.
type Condition struct {
	Field     Field
	Operation Operation
	Value     any
}

func (*Condition) node() {}

func (c *Condition) String() string {
	switch c.Operation {
	case OpIsNull, OpIsNotNull:
		return c.Field.Column() + " " + c.Operation.String()
	}
	return fmt.Sprintf("%s %s %v", c.Field.Column(), c.Operation, c.Value)
}

// Group joins children with And or Or. Not negates the whole group.
type Group struct {
	Op       Operation
	Children []Node
	Not      bool
}

func (*Group) node() {}

func (g *Group) String() string {
	parts := make([]string, len(g.Children))
	for i, c := range g.Children {
		parts[i] = c.String()
	}
	s := "(" + strings.Join(parts, " "+g.Op.String()+" ") + ")"
	if g.Not {
		s = "NOT " + s
	}
	return s
}

// Walk calls fn for every condition of n, depth first, left to right.
func Walk(n Node, fn func(*Condition) error) error {
	switch v := n.(type) {
	case *Condition:
		return fn(v)
	case *Group:
		for _, c := range v.Children {
			if err := Walk(c, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
