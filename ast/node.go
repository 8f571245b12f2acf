// Package ast is the constrained predicate expression tree accepted by the
// normalizer. Only the node kinds declared here exist; anything that cannot
// be expressed with them has no SQL translation.
package ast

type NodeType int

const (
	NodeMember NodeType = iota
	NodeConstant
	NodeBinary
	NodeLogical
	NodeNot
	NodeCall
)

func (t NodeType) String() string {
	switch t {
	case NodeMember:
		return "Member"
	case NodeConstant:
		return "Constant"
	case NodeBinary:
		return "Binary"
	case NodeLogical:
		return "Logical"
	case NodeNot:
		return "Not"
	case NodeCall:
		return "Call"
	default:
		return "Unknown"
	}
}

// Expr is a node of a predicate tree.
type Expr interface {
	Type() NodeType
	Accept(v Visitor) error
	String() string
}
