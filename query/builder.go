package query

// Predicate starts a condition on a named field:
//
//	query.Where("Id").In(1, 2)
//	query.And(query.Where("Age").Gt(18), query.Where("Name").Like("A%"))
type Predicate struct {
	field Field
}

// Where starts a condition on a field of the target entity (or a column of
// the target table, for table-name queries).
func Where(name string) Predicate {
	return Predicate{field: Field{Name: name}}
}

// On starts a condition on an already resolved field.
func On(f Field) Predicate {
	return Predicate{field: f}
}

func (p Predicate) cond(op Operation, v any) *Condition {
	return &Condition{Field: p.field, Operation: op, Value: v}
}

func (p Predicate) Eq(v any) *Condition      { return p.cond(OpEqual, v) }
func (p Predicate) Ne(v any) *Condition      { return p.cond(OpNotEqual, v) }
func (p Predicate) Lt(v any) *Condition      { return p.cond(OpLessThan, v) }
func (p Predicate) Le(v any) *Condition      { return p.cond(OpLessThanOrEqual, v) }
func (p Predicate) Gt(v any) *Condition      { return p.cond(OpGreaterThan, v) }
func (p Predicate) Ge(v any) *Condition      { return p.cond(OpGreaterThanOrEqual, v) }
func (p Predicate) Like(v any) *Condition    { return p.cond(OpLike, v) }
func (p Predicate) NotLike(v any) *Condition { return p.cond(OpNotLike, v) }
func (p Predicate) IsNull() *Condition       { return p.cond(OpIsNull, nil) }
func (p Predicate) IsNotNull() *Condition    { return p.cond(OpIsNotNull, nil) }

func (p Predicate) Between(lo, hi any) *Condition {
	return p.cond(OpBetween, []any{lo, hi})
}

func (p Predicate) NotBetween(lo, hi any) *Condition {
	return p.cond(OpNotBetween, []any{lo, hi})
}

// In matches any of values. A single slice argument is used as the set.
func (p Predicate) In(values ...any) *Condition {
	return p.cond(OpIn, valueSet(values))
}

func (p Predicate) NotIn(values ...any) *Condition {
	return p.cond(OpNotIn, valueSet(values))
}

func valueSet(values []any) any {
	if len(values) == 1 && isCollection(values[0]) {
		return values[0]
	}
	if values == nil {
		return []any{}
	}
	return values
}

// NewCondition builds a condition from its parts; it is the table-name
// counterpart of Where for callers holding a Field and an Operation.
func NewCondition(f Field, op Operation, v any) *Condition {
	return &Condition{Field: f, Operation: op, Value: v}
}

// And groups nodes with AND, in the given order.
func And(nodes ...Node) *Group { return &Group{Op: OpAnd, Children: nodes} }

// Or groups nodes with OR, in the given order.
func Or(nodes ...Node) *Group { return &Group{Op: OpOr, Children: nodes} }

// Not negates n. A condition gets the negated operation; a group is flagged.
func Not(n Node) Node {
	switch v := n.(type) {
	case *Condition:
		if op, ok := v.Operation.Negate(); ok {
			return &Condition{Field: v.Field, Operation: op, Value: v.Value}
		}
		return &Group{Op: OpAnd, Children: []Node{v}, Not: true}
	case *Group:
		return &Group{Op: v.Op, Children: v.Children, Not: !v.Not}
	}
	return n
}
