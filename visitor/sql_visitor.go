// Package visitor translates the intermediate predicate form into a
// parameterized SQL fragment for a dialect.
package visitor

import (
	"strconv"
	"strings"
	"sync"

	"github.com/Konsultn-Engineering/minorm/dialect"
	"github.com/Konsultn-Engineering/minorm/ormerr"
	"github.com/Konsultn-Engineering/minorm/query"
	"github.com/Konsultn-Engineering/minorm/schema"
)

const opTranslate = "visitor.Translate"

var visitorPool = sync.Pool{
	New: func() any {
		return &SQLVisitor{
			params: make([]Param, 0, 8),
			names:  make(map[string]int, 8),
		}
	},
}

// SQLVisitor accumulates command text and parameters. Fragments written by
// Translate and Bind share one parameter list, so a whole statement can be
// assembled with a single visitor.
type SQLVisitor struct {
	sb      strings.Builder
	params  []Param
	names   map[string]int
	dialect dialect.Dialect
}

// NewSQLVisitor takes a visitor from the pool. Call Release when done.
func NewSQLVisitor(d dialect.Dialect) *SQLVisitor {
	v := visitorPool.Get().(*SQLVisitor)
	v.dialect = d
	v.Reset()
	return v
}

func (v *SQLVisitor) Release() {
	v.dialect = nil
	v.Reset()
	visitorPool.Put(v)
}

func (v *SQLVisitor) Reset() {
	v.sb.Reset()
	v.params = v.params[:0]
	clear(v.names)
}

func (v *SQLVisitor) Dialect() dialect.Dialect { return v.dialect }

// GetSB exposes the command text buffer to statement assemblers.
func (v *SQLVisitor) GetSB() *strings.Builder { return &v.sb }

// Result copies the accumulated text and parameters.
func (v *SQLVisitor) Result() *Result {
	params := make([]Param, len(v.params))
	copy(params, v.params)
	return &Result{SQL: v.sb.String(), Params: params}
}

// Bind adds a parameter named after base and returns its placeholder.
func (v *SQLVisitor) Bind(base string, value any) string {
	name := v.uniqueName(base)
	v.params = append(v.params, NewParam(name, value))
	return v.dialect.Placeholder(name, len(v.params))
}

// BindTyped is Bind with an explicit database type.
func (v *SQLVisitor) BindTyped(base string, value any, dbType schema.DbType) string {
	ph := v.Bind(base, value)
	if dbType != schema.DbUnknown {
		v.params[len(v.params)-1].DbType = dbType
	}
	return ph
}

func (v *SQLVisitor) uniqueName(base string) string {
	base = sanitize(base)
	n, seen := v.names[base]
	v.names[base] = n + 1
	if !seen {
		return base
	}
	for {
		name := base + "_" + strconv.Itoa(n)
		if _, taken := v.names[name]; !taken {
			v.names[name] = 1
			return name
		}
		n++
		v.names[base] = n + 1
	}
}

func sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "p"
	}
	return b.String()
}

// Column writes a quoted column reference.
func (v *SQLVisitor) Column(f query.Field) error {
	col := f.Column()
	if col == "" {
		return ormerr.InvalidArgument(opTranslate, "field name cannot be empty")
	}
	v.sb.WriteString(v.dialect.QuoteIdentifier(col))
	return nil
}

// Translate appends the predicate n. On error the visitor is rolled back to
// its state before the call, so no partial fragment or parameter remains.
func (v *SQLVisitor) Translate(n query.Node) error {
	if n == nil {
		return ormerr.InvalidArgument(opTranslate, "node cannot be nil")
	}
	mark, paramMark := v.sb.Len(), len(v.params)
	if err := v.node(n, false); err != nil {
		v.rollback(mark, paramMark)
		return err
	}
	return nil
}

func (v *SQLVisitor) rollback(mark, paramMark int) {
	text := v.sb.String()[:mark]
	v.sb.Reset()
	v.sb.WriteString(text)
	v.params = v.params[:paramMark]
	clear(v.names)
	for _, p := range v.params {
		v.names[p.Name]++
	}
}

func (v *SQLVisitor) node(n query.Node, nested bool) error {
	switch x := n.(type) {
	case *query.Condition:
		return v.condition(x)
	case *query.Group:
		return v.group(x, nested)
	case nil:
		return ormerr.InvalidArgument(opTranslate, "node cannot be nil")
	}
	return ormerr.UnsupportedExpression(opTranslate, "unknown node %T", n)
}

func (v *SQLVisitor) group(g *query.Group, nested bool) error {
	var sep string
	switch g.Op {
	case query.OpAnd:
		sep = " AND "
	case query.OpOr:
		sep = " OR "
	default:
		return ormerr.UnsupportedExpression(opTranslate, "group operation %s is not a connective", g.Op)
	}
	if len(g.Children) == 0 {
		return ormerr.InvalidArgument(opTranslate, "group has no conditions")
	}

	if len(g.Children) == 1 && !g.Not {
		return v.node(g.Children[0], nested)
	}

	paren := nested || g.Not
	if g.Not {
		v.sb.WriteString("NOT ")
	}
	if paren {
		v.sb.WriteByte('(')
	}
	for i, child := range g.Children {
		if i > 0 {
			v.sb.WriteString(sep)
		}
		if err := v.node(child, true); err != nil {
			return err
		}
	}
	if paren {
		v.sb.WriteByte(')')
	}
	return nil
}

var comparisonOps = map[query.Operation]string{
	query.OpEqual:              " = ",
	query.OpNotEqual:           " <> ",
	query.OpLessThan:           " < ",
	query.OpLessThanOrEqual:    " <= ",
	query.OpGreaterThan:        " > ",
	query.OpGreaterThanOrEqual: " >= ",
	query.OpLike:               " LIKE ",
	query.OpNotLike:            " NOT LIKE ",
}

func (v *SQLVisitor) condition(c *query.Condition) error {
	switch c.Operation {
	case query.OpEqual, query.OpNotEqual:
		if query.IsNullValue(c.Value) {
			if err := v.Column(c.Field); err != nil {
				return err
			}
			if c.Operation == query.OpEqual {
				v.sb.WriteString(" IS NULL")
			} else {
				v.sb.WriteString(" IS NOT NULL")
			}
			return nil
		}
		return v.compare(c)

	case query.OpLessThan, query.OpLessThanOrEqual, query.OpGreaterThan, query.OpGreaterThanOrEqual,
		query.OpLike, query.OpNotLike:
		if query.IsNullValue(c.Value) {
			return ormerr.InvalidArgument(opTranslate, "%s on %s requires a non-null value", c.Operation, c.Field.Column())
		}
		return v.compare(c)

	case query.OpIsNull, query.OpIsNotNull:
		if err := v.Column(c.Field); err != nil {
			return err
		}
		if c.Operation == query.OpIsNull {
			v.sb.WriteString(" IS NULL")
		} else {
			v.sb.WriteString(" IS NOT NULL")
		}
		return nil

	case query.OpBetween, query.OpNotBetween:
		return v.between(c)

	case query.OpIn, query.OpNotIn:
		return v.in(c)
	}
	return ormerr.UnsupportedExpression(opTranslate, "operation %s is not a condition", c.Operation)
}

func (v *SQLVisitor) compare(c *query.Condition) error {
	if err := v.Column(c.Field); err != nil {
		return err
	}
	v.sb.WriteString(comparisonOps[c.Operation])
	v.sb.WriteString(v.Bind(c.Field.Name, c.Value))
	return nil
}

func (v *SQLVisitor) between(c *query.Condition) error {
	values, ok := query.Values(c.Value)
	if !ok || len(values) != 2 {
		return ormerr.InvalidArgument(opTranslate, "%s on %s requires exactly two values", c.Operation, c.Field.Column())
	}
	if err := v.Column(c.Field); err != nil {
		return err
	}
	if c.Operation == query.OpNotBetween {
		v.sb.WriteString(" NOT")
	}
	v.sb.WriteString(" BETWEEN ")
	v.sb.WriteString(v.Bind(c.Field.Name+"_Left", values[0]))
	v.sb.WriteString(" AND ")
	v.sb.WriteString(v.Bind(c.Field.Name+"_Right", values[1]))
	return nil
}

func (v *SQLVisitor) in(c *query.Condition) error {
	values, ok := query.Values(c.Value)
	if !ok {
		return ormerr.InvalidArgument(opTranslate, "%s on %s requires a set of values, got %T", c.Operation, c.Field.Column(), c.Value)
	}

	if len(values) == 0 {
		if v.dialect.EmptyInPolicy() != dialect.EmptyInConstant {
			return ormerr.InvalidArgument(opTranslate, "%s on %s requires at least one value", c.Operation, c.Field.Column())
		}
		if c.Operation == query.OpIn {
			v.sb.WriteString("1 = 0")
		} else {
			v.sb.WriteString("1 = 1")
		}
		return nil
	}

	if err := v.Column(c.Field); err != nil {
		return err
	}
	if c.Operation == query.OpNotIn {
		v.sb.WriteString(" NOT")
	}
	v.sb.WriteString(" IN (")
	for i, val := range values {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		v.sb.WriteString(v.Bind(c.Field.Name, val))
	}
	v.sb.WriteByte(')')
	return nil
}
