package builder

import (
	"strconv"

	"github.com/Konsultn-Engineering/minorm/query"
)

// SelectBuilder is the fluent form of Builder.Query.
type SelectBuilder struct {
	b       *Builder
	table   string
	columns []query.Field
	where   query.Node
	opts    Options
}

func (b *Builder) Select(table string) *SelectBuilder {
	return &SelectBuilder{b: b, table: table}
}

func (s *SelectBuilder) Columns(columns ...query.Field) *SelectBuilder {
	s.columns = append(s.columns, columns...)
	return s
}

// Where sets the filter. A nil node selects every row.
func (s *SelectBuilder) Where(n query.Node) *SelectBuilder {
	s.where = n
	return s
}

func (s *SelectBuilder) OrderBy(fields ...OrderField) *SelectBuilder {
	s.opts.OrderBy = append(s.opts.OrderBy, fields...)
	return s
}

func (s *SelectBuilder) Top(n int) *SelectBuilder {
	s.opts.Top = n
	return s
}

func (s *SelectBuilder) Hints(hints string) *SelectBuilder {
	s.opts.Hints = hints
	return s
}

// With applies functional options on top of what was set fluently.
func (s *SelectBuilder) With(opts ...Option) *SelectBuilder {
	for _, opt := range opts {
		if opt != nil {
			opt(&s.opts)
		}
	}
	return s
}

func (s *SelectBuilder) Build() (*Statement, error) {
	const op = "builder.Query"
	b := s.b

	parts := make([]string, 0, len(s.columns)+1)
	parts = append(parts, strconv.Itoa(s.opts.Top))
	for _, c := range s.columns {
		parts = append(parts, c.Column())
	}

	ref, err := b.tableRef(op, s.table, s.opts.Hints)
	if err != nil {
		return nil, err
	}
	prefix, suffix := b.dialect.Top(s.opts.Top)
	key := b.key(KindQuery, s.table, s.opts.Hints, parts...)
	head, err := b.statements.GetOrBuild(key, func() (string, error) {
		cols, err := b.columnList(op, s.columns)
		if err != nil {
			return "", err
		}
		return "SELECT " + prefix + cols + " FROM " + ref, nil
	})
	if err != nil {
		return nil, err
	}
	return b.finish(op, KindQuery, s.table, key, head, s.where, s.opts.OrderBy, suffix)
}
