package ast

import "strings"

// Call is a method call in predicate position, e.g. ids.Contains(e.Id) or
// e.Name.StartsWith("A"). Target is the receiver.
type Call struct {
	Target Expr
	Method string
	Args   []Expr
}

func (c *Call) Type() NodeType         { return NodeCall }
func (c *Call) Accept(v Visitor) error { return v.VisitCall(c) }

func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = str(a)
	}
	return str(c.Target) + "." + c.Method + "(" + strings.Join(args, ", ") + ")"
}
