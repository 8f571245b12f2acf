package query

import "fmt"

// Operation is the comparison or connective of an intermediate node.
type Operation int

const (
	OpEqual Operation = iota
	OpNotEqual
	OpLessThan
	OpLessThanOrEqual
	OpGreaterThan
	OpGreaterThanOrEqual
	OpLike
	OpNotLike
	OpBetween
	OpNotBetween
	OpIn
	OpNotIn
	OpIsNull
	OpIsNotNull
	OpAnd
	OpOr
)

var operationNames = [...]string{
	OpEqual:              "Equal",
	OpNotEqual:           "NotEqual",
	OpLessThan:           "LessThan",
	OpLessThanOrEqual:    "LessThanOrEqual",
	OpGreaterThan:        "GreaterThan",
	OpGreaterThanOrEqual: "GreaterThanOrEqual",
	OpLike:               "Like",
	OpNotLike:            "NotLike",
	OpBetween:            "Between",
	OpNotBetween:         "NotBetween",
	OpIn:                 "In",
	OpNotIn:              "NotIn",
	OpIsNull:             "IsNull",
	OpIsNotNull:          "IsNotNull",
	OpAnd:                "And",
	OpOr:                 "Or",
}

func (o Operation) String() string {
	if o >= 0 && int(o) < len(operationNames) {
		return operationNames[o]
	}
	return fmt.Sprintf("Operation(%d)", int(o))
}

// IsConnective reports whether o joins child nodes (And, Or).
func (o Operation) IsConnective() bool { return o == OpAnd || o == OpOr }

// Negate returns the operation that holds exactly when o does not.
// Connectives have no negation at the condition level.
func (o Operation) Negate() (Operation, bool) {
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
	case OpLike:
		return OpNotLike, true
	case OpNotLike:
		return OpLike, true
	case OpBetween:
		return OpNotBetween, true
	case OpNotBetween:
		return OpBetween, true
	case OpIn:
		return OpNotIn, true
	case OpNotIn:
		return OpIn, true
	case OpIsNull:
		return OpIsNotNull, true
	case OpIsNotNull:
		return OpIsNull, true
	}
	return o, false
}
