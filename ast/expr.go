package ast

import (
	"reflect"
	"strings"
)

// Member references a field of an entity by its Go name. Owner is the
// declaring struct type; nil means the root entity of the expression.
type Member struct {
	Name  string
	Owner reflect.Type
}

func (m *Member) Type() NodeType         { return NodeMember }
func (m *Member) Accept(v Visitor) error { return v.VisitMember(m) }

func (m *Member) String() string {
	if m.Owner != nil {
		return m.Owner.Name() + "." + m.Name
	}
	return m.Name
}

// Binary is a comparison between two operands.
type Binary struct {
	Left     Expr
	Operator Operator
	Right    Expr
}

func (b *Binary) Type() NodeType         { return NodeBinary }
func (b *Binary) Accept(v Visitor) error { return v.VisitBinary(b) }

func (b *Binary) String() string {
	return str(b.Left) + " " + string(b.Operator) + " " + str(b.Right)
}

// Logical joins two predicates with AND or OR. Nesting is kept as written.
type Logical struct {
	Left     Expr
	Operator Operator
	Right    Expr
}

func (l *Logical) Type() NodeType         { return NodeLogical }
func (l *Logical) Accept(v Visitor) error { return v.VisitLogical(l) }

func (l *Logical) String() string {
	return "(" + str(l.Left) + " " + string(l.Operator) + " " + str(l.Right) + ")"
}

// Not negates a predicate.
type Not struct {
	Operand Expr
}

func (n *Not) Type() NodeType         { return NodeNot }
func (n *Not) Accept(v Visitor) error { return v.VisitNot(n) }

func (n *Not) String() string { return "NOT " + str(n.Operand) }

func str(e Expr) string {
	if e == nil {
		return "<nil>"
	}
	return e.String()
}

// Format renders e on one line, for logs and error messages.
func Format(e Expr) string {
	return strings.TrimSpace(str(e))
}
