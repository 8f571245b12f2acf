package ast

// Visitor is implemented by every consumer of a predicate tree. Adding a
// node kind adds a method here, so consumers fail to compile until they
// handle it.
type Visitor interface {
	VisitMember(*Member) error
	VisitConstant(*Constant) error
	VisitBinary(*Binary) error
	VisitLogical(*Logical) error
	VisitNot(*Not) error
	VisitCall(*Call) error
}
