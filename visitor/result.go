package visitor

import (
	"database/sql"
	"sort"
	"strings"

	"github.com/Konsultn-Engineering/minorm/dialect"
	"github.com/Konsultn-Engineering/minorm/ormerr"
	"github.com/Konsultn-Engineering/minorm/query"
	"github.com/Konsultn-Engineering/minorm/schema"
)

// Param is one bound statement parameter.
type Param struct {
	Name   string
	Value  any
	DbType schema.DbType
}

// Result is command text plus its parameters. Placeholders appear in the
// text in the same order as Params.
type Result struct {
	SQL    string
	Params []Param
}

// Args returns the parameter values for the driver. Named dialects get
// sql.NamedArg values.
func (r *Result) Args(d dialect.Dialect) []any {
	args := make([]any, len(r.Params))
	for i, p := range r.Params {
		if d != nil && d.BindStyle() == dialect.BindNamed {
			args[i] = sql.Named(p.Name, p.Value)
		} else {
			args[i] = p.Value
		}
	}
	return args
}

// Values returns the parameter values in order.
func (r *Result) Values() []any {
	out := make([]any, len(r.Params))
	for i, p := range r.Params {
		out[i] = p.Value
	}
	return out
}

// Debug renders the text with parameter values inlined. The output is for
// logs only and must never be executed.
func (r *Result) Debug(d dialect.Dialect) string {
	s := r.SQL
	switch d.BindStyle() {
	case dialect.BindAnonymous:
		var b strings.Builder
		i := 0
		for _, ch := range s {
			if ch == '?' && i < len(r.Params) {
				b.WriteString(d.RenderValue(r.Params[i].Value))
				i++
				continue
			}
			b.WriteRune(ch)
		}
		return b.String()
	default:
		// One pass; the longest placeholder wins, so @Id leaves @Identity and
		// $1 leaves $10 alone, and inlined values are never rescanned.
		pairs := make([][2]string, len(r.Params))
		for i, p := range r.Params {
			pairs[i] = [2]string{d.Placeholder(p.Name, i+1), d.RenderValue(p.Value)}
		}
		sort.SliceStable(pairs, func(i, j int) bool { return len(pairs[i][0]) > len(pairs[j][0]) })
		oldnew := make([]string, 0, 2*len(pairs))
		for _, p := range pairs {
			oldnew = append(oldnew, p[0], p[1])
		}
		return strings.NewReplacer(oldnew...).Replace(s)
	}
}

// Translate renders n for dialect d.
func Translate(n query.Node, d dialect.Dialect) (*Result, error) {
	if d == nil {
		return nil, ormerr.InvalidArgument(opTranslate, "dialect cannot be nil")
	}
	v := NewSQLVisitor(d)
	defer v.Release()

	if err := v.Translate(n); err != nil {
		return nil, err
	}
	return v.Result(), nil
}

// TranslateField renders the single condition field <op> value. It is the
// table-name entry point: field needs no entity, and its Name is the column
// unless MappedName is set.
func TranslateField(field query.Field, op query.Operation, value any, d dialect.Dialect) (*Result, error) {
	if op.IsConnective() {
		return nil, ormerr.InvalidArgument(opTranslate, "%s is not a field operation", op)
	}
	return Translate(query.NewCondition(field, op, value), d)
}

// NewParam binds value under name with an inferred database type.
func NewParam(name string, value any) Param {
	return Param{Name: name, Value: value, DbType: schema.InferDbTypeOf(value)}
}
