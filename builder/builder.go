package builder

import (
	"strings"

	"github.com/Konsultn-Engineering/minorm/cache"
	"github.com/Konsultn-Engineering/minorm/dialect"
	"github.com/Konsultn-Engineering/minorm/ormerr"
	"github.com/Konsultn-Engineering/minorm/query"
	"github.com/Konsultn-Engineering/minorm/utils"
	"github.com/Konsultn-Engineering/minorm/visitor"
)

// Builder assembles statements for one dialect. The metadata-only part of
// each statement (everything before WHERE) and whole statements keyed by
// predicate shape are kept in a StatementCache.
type Builder struct {
	dialect    dialect.Dialect
	dialectKey uint64
	statements *cache.StatementCache
}

type BuilderOption func(*Builder)

// WithStatementCache shares c between builders. By default each Builder owns
// a cache of cache.DefaultStatementCacheSize entries.
func WithStatementCache(c *cache.StatementCache) BuilderOption {
	return func(b *Builder) { b.statements = c }
}

func New(d dialect.Dialect, opts ...BuilderOption) *Builder {
	b := &Builder{dialect: d}
	if d != nil {
		b.dialectKey = dialect.Fingerprint(d)
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.statements == nil {
		b.statements = cache.NewStatementCache(0)
	}
	return b
}

func (b *Builder) Dialect() dialect.Dialect { return b.dialect }

// Statements returns the command text cache.
func (b *Builder) Statements() *cache.StatementCache { return b.statements }

// Query builds SELECT columns FROM table [WHERE where] [ORDER BY ...].
// No columns selects *.
func (b *Builder) Query(table string, columns []query.Field, where query.Node, opts ...Option) (*Statement, error) {
	return b.Select(table).Columns(columns...).Where(where).With(opts...).Build()
}

// Aggregate builds SELECT FUNC(field) AS <Kind>Value FROM table [WHERE where].
// Count accepts an empty field and counts rows.
func (b *Builder) Aggregate(kind Kind, table string, field query.Field, where query.Node, opts ...Option) (*Statement, error) {
	op := "builder." + kind.String()
	if !kind.IsAggregate() {
		return nil, ormerr.InvalidArgument(op, "%s is not an aggregate", kind)
	}
	if kind != KindCount && field.Column() == "" {
		return nil, ormerr.InvalidArgument(op, "field cannot be empty")
	}
	o := Apply(opts...)
	ref, err := b.tableRef(op, table, o.Hints)
	if err != nil {
		return nil, err
	}

	key := b.key(kind, table, o.Hints, field.Column())
	head, err := b.statements.GetOrBuild(key, func() (string, error) {
		arg := "*"
		if col := field.Column(); col != "" {
			arg = b.dialect.QuoteIdentifier(col)
		}
		return "SELECT " + kind.function() + "(" + arg + ") AS " + b.dialect.QuoteIdentifier(kind.Alias()) + " FROM " + ref, nil
	})
	if err != nil {
		return nil, err
	}
	return b.finish(op, kind, table, key, head, where, nil, "")
}

// Exists builds a one-row probe of table filtered by where.
func (b *Builder) Exists(table string, where query.Node, opts ...Option) (*Statement, error) {
	const op = "builder.Exists"
	o := Apply(opts...)
	ref, err := b.tableRef(op, table, o.Hints)
	if err != nil {
		return nil, err
	}

	key := b.key(KindExists, table, o.Hints)
	prefix, suffix := b.dialect.Top(1)
	head, err := b.statements.GetOrBuild(key, func() (string, error) {
		return "SELECT " + prefix + "1 AS " + b.dialect.QuoteIdentifier(KindExists.Alias()) + " FROM " + ref, nil
	})
	if err != nil {
		return nil, err
	}
	return b.finish(op, KindExists, table, key, head, where, nil, suffix)
}

// tableRef quotes table and applies hints. A non-blank hint on a dialect
// without hint support is rejected here, before the cache is consulted.
func (b *Builder) tableRef(op, table, hints string) (string, error) {
	if b.dialect == nil {
		return "", ormerr.InvalidArgument(op, "dialect cannot be nil")
	}
	if strings.TrimSpace(table) == "" {
		return "", ormerr.InvalidArgument(op, "table name cannot be empty")
	}
	hints = strings.TrimSpace(hints)
	if hints != "" && !b.dialect.SupportsHints() {
		return "", ormerr.UnsupportedOption(op, "the %s dialect does not support hints", b.dialect.Name())
	}
	return b.dialect.ApplyHints(dialect.QuoteQualified(b.dialect, table), hints)
}

// finish appends the WHERE clause, order and suffix to head and collects
// the parameters. A statement with the same head, predicate shape and order
// reuses the cached text and only binds the new values.
func (b *Builder) finish(op string, kind Kind, table string, headKey uint64, head string, where query.Node, order []OrderField, suffix string) (*Statement, error) {
	key := templateKey(headKey, where, order)
	if tpl, ok := b.statements.Template(key); ok {
		if params, ok := bindTemplate(tpl, where); ok {
			return &Statement{Kind: kind, Table: table, SQL: tpl.SQL, Params: params, Command: kind.Command()}, nil
		}
	}

	v := visitor.NewSQLVisitor(b.dialect)
	defer v.Release()

	sb := v.GetSB()
	sb.WriteString(head)
	if where != nil {
		sb.WriteString(" WHERE ")
		if err := v.Translate(where); err != nil {
			return nil, err
		}
	}
	if err := b.orderBy(op, v, order); err != nil {
		return nil, err
	}
	sb.WriteString(suffix)

	res := v.Result()
	names := make([]string, len(res.Params))
	for i, p := range res.Params {
		names[i] = p.Name
	}
	b.statements.SetTemplate(key, cache.Template{SQL: res.SQL, Names: names})

	return &Statement{
		Kind:    kind,
		Table:   table,
		SQL:     res.SQL,
		Params:  res.Params,
		Command: kind.Command(),
	}, nil
}

func templateKey(headKey uint64, where query.Node, order []OrderField) uint64 {
	key := utils.Mix64(headKey, query.Shape(where))
	for _, o := range order {
		dir := " ASC"
		if o.Descending {
			dir = " DESC"
		}
		key = utils.Mix64(key, utils.U64(o.Field.Column()+dir))
	}
	return key
}

// bindTemplate pairs the cached names with the values of where. It reports
// false when the counts disagree, and the statement is translated instead.
func bindTemplate(tpl cache.Template, where query.Node) ([]visitor.Param, bool) {
	values := query.Arguments(where)
	if len(values) != len(tpl.Names) {
		return nil, false
	}
	params := make([]visitor.Param, len(values))
	for i, val := range values {
		params[i] = visitor.NewParam(tpl.Names[i], val)
	}
	return params, true
}

func (b *Builder) orderBy(op string, v *visitor.SQLVisitor, order []OrderField) error {
	if len(order) == 0 {
		return nil
	}
	sb := v.GetSB()
	sb.WriteString(" ORDER BY ")
	for i, o := range order {
		if i > 0 {
			sb.WriteString(", ")
		}
		if o.Field.Column() == "" {
			return ormerr.InvalidArgument(op, "order field cannot be empty")
		}
		sb.WriteString(b.dialect.QuoteIdentifier(o.Field.Column()))
		if o.Descending {
			sb.WriteString(" DESC")
		} else {
			sb.WriteString(" ASC")
		}
	}
	return nil
}

// key fingerprints the metadata-only part of a statement.
func (b *Builder) key(kind Kind, table, hints string, parts ...string) uint64 {
	h := utils.NewHasher()
	h.WriteUint64(b.dialectKey)
	h.WriteUint64(uint64(kind))
	h.WriteString(table)
	h.WriteString(strings.TrimSpace(hints))
	for _, p := range parts {
		h.WriteString(p)
	}
	return h.Sum64()
}
