package ast

import (
	"fmt"
	"reflect"
	"strconv"
)

// Constant is a literal operand. Slices and arrays are collection constants
// (the receiver of Contains); nil is SQL NULL.
type Constant struct {
	Val any
}

func (c *Constant) Type() NodeType           { return NodeConstant }
func (c *Constant) Accept(vis Visitor) error { return vis.VisitConstant(c) }

func (c *Constant) String() string {
	switch v := c.Val.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(v)
	}
	return fmt.Sprint(c.Val)
}

// IsNull reports whether the constant is nil (including typed nil pointers).
func (c *Constant) IsNull() bool {
	if c.Val == nil {
		return true
	}
	rv := reflect.ValueOf(c.Val)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map:
		return rv.IsNil()
	}
	return false
}

// IsCollection reports whether the constant is a slice or array other than []byte.
func (c *Constant) IsCollection() bool {
	if c.Val == nil {
		return false
	}
	t := reflect.TypeOf(c.Val)
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return t.Elem().Kind() != reflect.Uint8
	}
	return false
}

// Elements returns the items of a collection constant in order.
func (c *Constant) Elements() []any {
	if !c.IsCollection() {
		return nil
	}
	rv := reflect.ValueOf(c.Val)
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
