package ast

type Operator string

// Comparison operators
const (
	OpEqual              Operator = "="
	OpNotEqual           Operator = "<>"
	OpLessThan           Operator = "<"
	OpLessThanOrEqual    Operator = "<="
	OpGreaterThan        Operator = ">"
	OpGreaterThanOrEqual Operator = ">="
)

// Logical operators
const (
	OpAnd Operator = "AND"
	OpOr  Operator = "OR"
)

// Inverse returns the comparison that holds when o does not, and false for
// operators without one.
func (o Operator) Inverse() (Operator, bool) {
	switch o {
	case OpEqual:
		return OpNotEqual, true
	case OpNotEqual:
		return OpEqual, true
	case OpLessThan:
		return OpGreaterThanOrEqual, true
	case OpLessThanOrEqual:
		return OpGreaterThan, true
	case OpGreaterThan:
		return OpLessThanOrEqual, true
	case OpGreaterThanOrEqual:
		return OpLessThan, true
	}
	return "", false
}

// Swapped returns the operator that holds with the operands exchanged
// (a < b is b > a).
func (o Operator) Swapped() Operator {
	switch o {
	case OpLessThan:
		return OpGreaterThan
	case OpLessThanOrEqual:
		return OpGreaterThanOrEqual
	case OpGreaterThan:
		return OpLessThan
	case OpGreaterThanOrEqual:
		return OpLessThanOrEqual
	}
	return o
}

// IsComparison reports whether o is one of the six comparison operators.
func (o Operator) IsComparison() bool {
	switch o {
	case OpEqual, OpNotEqual, OpLessThan, OpLessThanOrEqual, OpGreaterThan, OpGreaterThanOrEqual:
		return true
	}
	return false
}

// Method names understood on Call nodes.
const (
	MethodContains   = "Contains"
	MethodStartsWith = "StartsWith"
	MethodEndsWith   = "EndsWith"
)
