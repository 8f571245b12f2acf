package query

import (
	"github.com/Konsultn-Engineering/minorm/ormerr"
	"github.com/Konsultn-Engineering/minorm/schema"
)

const opBind = "query.Bind"

// Bind resolves the fields of a builder-made tree against root and returns a
// new tree; n is not modified. Fields already bound to another entity fail
// with ormerr.ErrInvalidMemberReference.
func Bind(n Node, root *schema.Entity, c *schema.Cache) (Node, error) {
	if n == nil {
		return nil, ormerr.InvalidArgument(opBind, "node cannot be nil")
	}
	if root == nil {
		return nil, ormerr.InvalidArgument(opBind, "root entity cannot be nil")
	}
	if c == nil {
		c = schema.Default
	}
	return bind(n, root, c)
}

func bind(n Node, root *schema.Entity, c *schema.Cache) (Node, error) {
	switch v := n.(type) {
	case *Condition:
		if v.Field.DeclaringType != "" && v.Field.DeclaringType != root.ID() {
			return nil, ormerr.InvalidMemberReference(opBind,
				"field %s is declared on %s, not on %s", v.Field.Name, v.Field.DeclaringType, root.ID())
		}
		if v.Field.Name == "" {
			return nil, ormerr.InvalidArgument(opBind, "field name cannot be empty")
		}
		_, f, err := resolve(opBind, root, c, v.Field.Name)
		if err != nil {
			return nil, err
		}
		return &Condition{Field: f, Operation: v.Operation, Value: v.Value}, nil

	case *Group:
		if !v.Op.IsConnective() {
			return nil, ormerr.UnsupportedExpression(opBind, "group operation %s is not a connective", v.Op)
		}
		children := make([]Node, len(v.Children))
		for i, child := range v.Children {
			b, err := bind(child, root, c)
			if err != nil {
				return nil, err
			}
			children[i] = b
		}
		return &Group{Op: v.Op, Children: children, Not: v.Not}, nil
	}
	return nil, ormerr.UnsupportedExpression(opBind, "unknown node %T", n)
}
