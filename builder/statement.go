// Package builder assembles complete statements from translated predicates.
// Statements are built without touching the transport; every translation or
// option error surfaces here, before anything is executed.
package builder

import (
	"github.com/Konsultn-Engineering/minorm/database"
	"github.com/Konsultn-Engineering/minorm/dialect"
	"github.com/Konsultn-Engineering/minorm/query"
	"github.com/Konsultn-Engineering/minorm/schema"
	"github.com/Konsultn-Engineering/minorm/visitor"
)

// Kind is the statement being assembled.
type Kind uint8

const (
	KindQuery Kind = iota
	KindInsert
	KindUpdate
	KindDelete
	KindCount
	KindSum
	KindAverage
	KindMin
	KindMax
	KindExists
)

var kindNames = [...]string{
	KindQuery:   "Query",
	KindInsert:  "Insert",
	KindUpdate:  "Update",
	KindDelete:  "Delete",
	KindCount:   "Count",
	KindSum:     "Sum",
	KindAverage: "Average",
	KindMin:     "Min",
	KindMax:     "Max",
	KindExists:  "Exists",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// IsAggregate reports whether k computes one scalar over a column.
func (k Kind) IsAggregate() bool {
	switch k {
	case KindCount, KindSum, KindAverage, KindMin, KindMax:
		return true
	}
	return false
}

// Command is the result shape the transport should expect for k.
func (k Kind) Command() database.CommandType {
	switch k {
	case KindQuery:
		return database.CommandRowSet
	case KindInsert, KindUpdate, KindDelete:
		return database.CommandNonQuery
	default:
		return database.CommandScalar
	}
}

func (k Kind) function() string {
	switch k {
	case KindCount:
		return "COUNT"
	case KindSum:
		return "SUM"
	case KindAverage:
		return "AVG"
	case KindMin:
		return "MIN"
	case KindMax:
		return "MAX"
	}
	return ""
}

// Alias is the column alias of the scalar produced by an aggregate or
// exists statement, e.g. "AverageValue".
func (k Kind) Alias() string { return k.String() + "Value" }

// Statement is ready-to-execute command text with its parameters.
type Statement struct {
	Kind    Kind
	Table   string
	SQL     string
	Params  []visitor.Param
	Command database.CommandType
	// Identity is the column an insert reads back, "" if none.
	Identity string
}

// Args returns the driver arguments for d.
func (s *Statement) Args(d dialect.Dialect) []any {
	r := visitor.Result{SQL: s.SQL, Params: s.Params}
	return r.Args(d)
}

// Debug renders the statement with values inlined, for logs only.
func (s *Statement) Debug(d dialect.Dialect) string {
	r := visitor.Result{SQL: s.SQL, Params: s.Params}
	return r.Debug(d)
}

// OrderField is one ORDER BY term.
type OrderField struct {
	Field      query.Field
	Descending bool
}

// Asc orders by the named column ascending.
func Asc(name string) OrderField { return OrderField{Field: query.NewField(name)} }

// Desc orders by the named column descending.
func Desc(name string) OrderField { return OrderField{Field: query.NewField(name), Descending: true} }

// Assignment is a column value written by Insert or Update.
type Assignment struct {
	Field  query.Field
	Value  any
	DbType schema.DbType
}

// Set assigns value to the named column.
func Set(name string, value any) Assignment {
	return Assignment{Field: query.NewField(name), Value: value}
}

// Options are the per-call statement options.
type Options struct {
	// Hints are table hints. Blank hints mean none; non-blank hints on a
	// dialect without hint support fail with ormerr.ErrUnsupportedOption.
	Hints   string
	Top     int
	OrderBy []OrderField
}

type Option func(*Options)

func WithHints(hints string) Option {
	return func(o *Options) { o.Hints = hints }
}

// WithTop limits a query to n rows.
func WithTop(n int) Option {
	return func(o *Options) { o.Top = n }
}

func WithOrderBy(fields ...OrderField) Option {
	return func(o *Options) { o.OrderBy = append(o.OrderBy, fields...) }
}

// Apply folds opts into an Options value.
func Apply(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
