package ast

import "reflect"

// Field references a field of the root entity.
func Field(name string) *Member {
	return &Member{Name: name}
}

// FieldOf references a field declared on T.
func FieldOf[T any](name string) *Member {
	return &Member{Name: name, Owner: reflect.TypeFor[T]()}
}

// Value wraps a literal operand.
func Value(v any) *Constant {
	return &Constant{Val: v}
}

func operand(v any) Expr {
	if e, ok := v.(Expr); ok {
		return e
	}
	return Value(v)
}

func compare(left any, op Operator, right any) *Binary {
	return &Binary{Left: operand(left), Operator: op, Right: operand(right)}
}

// Comparison factories. Operands that are not Expr are wrapped with Value.

func Eq(left, right any) *Binary { return compare(left, OpEqual, right) }
func Ne(left, right any) *Binary { return compare(left, OpNotEqual, right) }
func Lt(left, right any) *Binary { return compare(left, OpLessThan, right) }
func Le(left, right any) *Binary { return compare(left, OpLessThanOrEqual, right) }
func Gt(left, right any) *Binary { return compare(left, OpGreaterThan, right) }
func Ge(left, right any) *Binary { return compare(left, OpGreaterThanOrEqual, right) }

// And joins predicates left to right: And(a, b, c) is (a AND b) AND c.
func And(first Expr, rest ...Expr) Expr { return fold(OpAnd, first, rest) }

// Or joins predicates left to right.
func Or(first Expr, rest ...Expr) Expr { return fold(OpOr, first, rest) }

func fold(op Operator, first Expr, rest []Expr) Expr {
	out := first
	for _, e := range rest {
		out = &Logical{Left: out, Operator: op, Right: e}
	}
	return out
}

// Negate wraps e in Not.
func Negate(e Expr) *Not { return &Not{Operand: e} }

// Contains is target.Contains(arg): membership when target is a collection
// constant, substring match when target is a string member.
func Contains(target Expr, arg any) *Call {
	return &Call{Target: target, Method: MethodContains, Args: []Expr{operand(arg)}}
}

func StartsWith(target Expr, prefix any) *Call {
	return &Call{Target: target, Method: MethodStartsWith, Args: []Expr{operand(prefix)}}
}

func EndsWith(target Expr, suffix any) *Call {
	return &Call{Target: target, Method: MethodEndsWith, Args: []Expr{operand(suffix)}}
}

// In is Contains(Value(values), Field(field)).
func In(field string, values any) *Call {
	return Contains(Value(values), Field(field))
}

// IsNull is Eq(Field(field), nil).
func IsNull(field string) *Binary {
	return Eq(Field(field), nil)
}
