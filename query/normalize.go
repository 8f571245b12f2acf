package query

import (
	"reflect"

	"github.com/Konsultn-Engineering/minorm/ast"
	"github.com/Konsultn-Engineering/minorm/ormerr"
	"github.com/Konsultn-Engineering/minorm/schema"
)

const opNormalize = "query.Normalize"

// Normalize converts a predicate expression over root into the intermediate
// form, resolving every member to its mapped column through c.
//
// Supported shapes:
//
//	member <cmp> constant, constant <cmp> member
//	collection.Contains(member)                     -> In
//	member.Contains / StartsWith / EndsWith(string) -> Like
//	a AND b, a OR b, NOT a
//	bool member                                     -> member = true
//
// Anything else fails with ormerr.ErrUnsupportedExpression. A member that is
// not a mapped field of root fails with ormerr.ErrInvalidMemberReference.
func Normalize(expr ast.Expr, root *schema.Entity, c *schema.Cache) (Node, error) {
	if expr == nil {
		return nil, ormerr.InvalidArgument(opNormalize, "expression cannot be nil")
	}
	if root == nil {
		return nil, ormerr.InvalidArgument(opNormalize, "root entity cannot be nil")
	}
	if c == nil {
		c = schema.Default
	}
	n := &normalizer{root: root, cache: c}
	return n.node(expr)
}

// normalizer implements ast.Visitor; each Visit method leaves its result in out.
type normalizer struct {
	root  *schema.Entity
	cache *schema.Cache
	out   Node
}

func (n *normalizer) node(e ast.Expr) (Node, error) {
	if e == nil {
		return nil, ormerr.UnsupportedExpression(opNormalize, "missing operand")
	}
	n.out = nil
	if err := e.Accept(n); err != nil {
		return nil, err
	}
	out := n.out
	n.out = nil
	return out, nil
}

// VisitMember handles a member used as a predicate, which must be boolean.
func (n *normalizer) VisitMember(m *ast.Member) error {
	p, f, err := n.field(m)
	if err != nil {
		return err
	}
	t := p.Type
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Bool {
		return ormerr.UnsupportedExpression(opNormalize, "member %s of type %s is not a predicate", m, p.Type)
	}
	n.out = &Condition{Field: f, Operation: OpEqual, Value: true}
	return nil
}

func (n *normalizer) VisitConstant(c *ast.Constant) error {
	return ormerr.UnsupportedExpression(opNormalize, "constant %s is not a predicate", c)
}

func (n *normalizer) VisitBinary(b *ast.Binary) error {
	op, ok := comparison(b.Operator)
	if !ok {
		return ormerr.UnsupportedExpression(opNormalize, "operator %q is not a comparison", b.Operator)
	}

	var (
		member   *ast.Member
		constant *ast.Constant
	)
	switch l := b.Left.(type) {
	case *ast.Member:
		r, isConst := b.Right.(*ast.Constant)
		if !isConst {
			return ormerr.UnsupportedExpression(opNormalize, "comparison %s needs a constant operand", b)
		}
		member, constant = l, r
	case *ast.Constant:
		r, isMember := b.Right.(*ast.Member)
		if !isMember {
			return ormerr.UnsupportedExpression(opNormalize, "comparison %s needs a member operand", b)
		}
		member, constant = r, l
		op = swap(op)
	default:
		return ormerr.UnsupportedExpression(opNormalize, "comparison %s needs a member operand", b)
	}

	_, f, err := n.field(member)
	if err != nil {
		return err
	}

	if constant.IsNull() {
		switch op {
		case OpEqual:
			n.out = &Condition{Field: f, Operation: OpIsNull}
			return nil
		case OpNotEqual:
			n.out = &Condition{Field: f, Operation: OpIsNotNull}
			return nil
		default:
			return ormerr.UnsupportedExpression(opNormalize, "null is only comparable with = and <>")
		}
	}

	n.out = &Condition{Field: f, Operation: op, Value: constant.Val}
	return nil
}

func (n *normalizer) VisitLogical(l *ast.Logical) error {
	var op Operation
	switch l.Operator {
	case ast.OpAnd:
		op = OpAnd
	case ast.OpOr:
		op = OpOr
	default:
		return ormerr.UnsupportedExpression(opNormalize, "operator %q is not a connective", l.Operator)
	}

	left, err := n.node(l.Left)
	if err != nil {
		return err
	}
	right, err := n.node(l.Right)
	if err != nil {
		return err
	}

	// An unparenthesized chain a AND b AND c arrives left-nested; it becomes
	// one group. Right-nested groups were written with parentheses and stay.
	children := []Node{left}
	if g, ok := left.(*Group); ok && g.Op == op && !g.Not {
		if _, chained := l.Left.(*ast.Logical); chained {
			children = append([]Node(nil), g.Children...)
		}
	}
	n.out = &Group{Op: op, Children: append(children, right)}
	return nil
}

func (n *normalizer) VisitNot(x *ast.Not) error {
	inner, err := n.node(x.Operand)
	if err != nil {
		return err
	}
	n.out = Not(inner)
	return nil
}

func (n *normalizer) VisitCall(c *ast.Call) error {
	if len(c.Args) != 1 {
		return ormerr.UnsupportedExpression(opNormalize, "call %s: expected one argument", c)
	}

	switch target := c.Target.(type) {
	case *ast.Constant:
		// collection.Contains(member)
		if c.Method != ast.MethodContains || !target.IsCollection() {
			return ormerr.UnsupportedExpression(opNormalize, "call %s is not supported", c)
		}
		member, ok := c.Args[0].(*ast.Member)
		if !ok {
			return ormerr.UnsupportedExpression(opNormalize, "call %s: argument must be a member", c)
		}
		_, f, err := n.field(member)
		if err != nil {
			return err
		}
		n.out = &Condition{Field: f, Operation: OpIn, Value: target.Elements()}
		return nil

	case *ast.Member:
		// member.Contains / StartsWith / EndsWith(string)
		p, f, err := n.field(target)
		if err != nil {
			return err
		}
		if p.Type.Kind() != reflect.String {
			return ormerr.UnsupportedExpression(opNormalize, "call %s: %s is not a string", c, target)
		}
		arg, ok := c.Args[0].(*ast.Constant)
		if !ok {
			return ormerr.UnsupportedExpression(opNormalize, "call %s: argument must be a constant", c)
		}
		s, ok := arg.Val.(string)
		if !ok {
			return ormerr.UnsupportedExpression(opNormalize, "call %s: argument must be a string", c)
		}

		var pattern string
		switch c.Method {
		case ast.MethodContains:
			pattern = "%" + s + "%"
		case ast.MethodStartsWith:
			pattern = s + "%"
		case ast.MethodEndsWith:
			pattern = "%" + s
		default:
			return ormerr.UnsupportedExpression(opNormalize, "method %s is not supported", c.Method)
		}
		n.out = &Condition{Field: f, Operation: OpLike, Value: pattern}
		return nil
	}
	return ormerr.UnsupportedExpression(opNormalize, "call %s: unsupported receiver", c)
}

// field resolves a member against the root entity.
func (n *normalizer) field(m *ast.Member) (*schema.Property, Field, error) {
	if m.Owner != nil {
		owner := m.Owner
		for owner.Kind() == reflect.Ptr {
			owner = owner.Elem()
		}
		if owner != n.root.Type {
			return nil, Field{}, ormerr.InvalidMemberReference(opNormalize,
				"member %s is declared on %s, not on %s", m.Name, owner, n.root.ID())
		}
	}
	return resolve(opNormalize, n.root, n.cache, m.Name)
}

func resolve(op string, root *schema.Entity, c *schema.Cache, name string) (*schema.Property, Field, error) {
	p, ok := root.Property(name)
	if !ok {
		return nil, Field{}, ormerr.InvalidMemberReference(op, "%s has no mapped field %q", root.ID(), name)
	}
	mapped, err := c.PropertyMappedName(p)
	if err != nil {
		return nil, Field{}, err
	}
	return p, Field{Name: p.Name, DeclaringType: root.ID(), MappedName: mapped}, nil
}

func comparison(op ast.Operator) (Operation, bool) {
	switch op {
	case ast.OpEqual:
		return OpEqual, true
	case ast.OpNotEqual:
		return OpNotEqual, true
	case ast.OpLessThan:
		return OpLessThan, true
	case ast.OpLessThanOrEqual:
		return OpLessThanOrEqual, true
	case ast.OpGreaterThan:
		return OpGreaterThan, true
	case ast.OpGreaterThanOrEqual:
		return OpGreaterThanOrEqual, true
	}
	return 0, false
}

// swap mirrors a comparison for exchanged operands.
func swap(op Operation) Operation {
	switch op {
	case OpLessThan:
		return OpGreaterThan
	case OpLessThanOrEqual:
		return OpGreaterThanOrEqual
	case OpGreaterThan:
		return OpLessThan
	case OpGreaterThanOrEqual:
		return OpLessThanOrEqual
	}
	return op
}

// ResolveField resolves a field selector, which must be a member of root.
// It is the column argument of aggregates and order-by clauses.
func ResolveField(expr ast.Expr, root *schema.Entity, c *schema.Cache) (Field, error) {
	if root == nil {
		return Field{}, ormerr.InvalidArgument(opNormalize, "root entity cannot be nil")
	}
	m, ok := expr.(*ast.Member)
	if !ok || m == nil {
		return Field{}, ormerr.UnsupportedExpression(opNormalize, "field selector must be a member, got %T", expr)
	}
	if c == nil {
		c = schema.Default
	}
	n := &normalizer{root: root, cache: c}
	_, f, err := n.field(m)
	return f, err
}

// BindField resolves a field by name against root.
func BindField(f Field, root *schema.Entity, c *schema.Cache) (Field, error) {
	if root == nil {
		return Field{}, ormerr.InvalidArgument(opBind, "root entity cannot be nil")
	}
	if f.DeclaringType != "" && f.DeclaringType != root.ID() {
		return Field{}, ormerr.InvalidMemberReference(opBind,
			"field %s is declared on %s, not on %s", f.Name, f.DeclaringType, root.ID())
	}
	if c == nil {
		c = schema.Default
	}
	_, out, err := resolve(opBind, root, c, f.Name)
	return out, err
}
