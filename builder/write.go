package builder

import (
	"strings"

	"github.com/Konsultn-Engineering/minorm/dialect"
	"github.com/Konsultn-Engineering/minorm/ormerr"
	"github.com/Konsultn-Engineering/minorm/query"
	"github.com/Konsultn-Engineering/minorm/visitor"
)

func (b *Builder) columnList(op string, fields []query.Field) (string, error) {
	if len(fields) == 0 {
		return "*", nil
	}
	var sb strings.Builder
	for i, f := range fields {
		if f.Column() == "" {
			return "", ormerr.InvalidArgument(op, "column name cannot be empty")
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(b.dialect.QuoteIdentifier(f.Column()))
	}
	return sb.String(), nil
}

// Insert builds INSERT INTO table (...) VALUES (...). When identity is set
// the generated value is read back the way the dialect reports it.
func (b *Builder) Insert(table string, values []Assignment, identity string, opts ...Option) (*Statement, error) {
	const op = "builder.Insert"
	if len(values) == 0 {
		return nil, ormerr.InvalidArgument(op, "insert requires at least one value")
	}
	o := Apply(opts...)

	fields := make([]query.Field, len(values))
	parts := make([]string, 0, len(values)+1)
	parts = append(parts, identity)
	for i, a := range values {
		fields[i] = a.Field
		parts = append(parts, a.Field.Column())
	}

	ref, err := b.tableRef(op, table, o.Hints)
	if err != nil {
		return nil, err
	}
	strategy := b.dialect.IdentityStrategy()
	head, err := b.statements.GetOrBuild(b.key(KindInsert, table, o.Hints, parts...), func() (string, error) {
		cols, err := b.columnList(op, fields)
		if err != nil {
			return "", err
		}
		head := "INSERT INTO " + ref + " (" + cols + ")"
		if identity != "" && strategy == dialect.IdentityOutput {
			head += " OUTPUT INSERTED." + b.dialect.QuoteIdentifier(identity)
		}
		return head, nil
	})
	if err != nil {
		return nil, err
	}

	v := visitor.NewSQLVisitor(b.dialect)
	defer v.Release()
	sb := v.GetSB()
	sb.WriteString(head)
	sb.WriteString(" VALUES (")
	for i, a := range values {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.BindTyped(a.Field.Name, a.Value, a.DbType))
	}
	sb.WriteByte(')')

	command := KindInsert.Command()
	if identity != "" {
		switch strategy {
		case dialect.IdentityReturning:
			sb.WriteString(" RETURNING " + b.dialect.QuoteIdentifier(identity))
			command = KindQuery.Command()
		case dialect.IdentityOutput:
			command = KindQuery.Command()
		}
	}

	res := v.Result()
	return &Statement{
		Kind:     KindInsert,
		Table:    table,
		SQL:      res.SQL,
		Params:   res.Params,
		Command:  command,
		Identity: identity,
	}, nil
}

// Update builds UPDATE table SET ... [WHERE where]. Set parameters come
// before where parameters.
func (b *Builder) Update(table string, set []Assignment, where query.Node, opts ...Option) (*Statement, error) {
	const op = "builder.Update"
	if len(set) == 0 {
		return nil, ormerr.InvalidArgument(op, "update requires at least one assignment")
	}
	o := Apply(opts...)
	ref, err := b.tableRef(op, table, o.Hints)
	if err != nil {
		return nil, err
	}

	v := visitor.NewSQLVisitor(b.dialect)
	defer v.Release()
	sb := v.GetSB()
	sb.WriteString("UPDATE " + ref + " SET ")
	for i, a := range set {
		if i > 0 {
			sb.WriteString(", ")
		}
		if err := v.Column(a.Field); err != nil {
			return nil, err
		}
		sb.WriteString(" = ")
		sb.WriteString(v.BindTyped(a.Field.Name, a.Value, a.DbType))
	}
	if where != nil {
		sb.WriteString(" WHERE ")
		if err := v.Translate(where); err != nil {
			return nil, err
		}
	}

	res := v.Result()
	return &Statement{Kind: KindUpdate, Table: table, SQL: res.SQL, Params: res.Params, Command: KindUpdate.Command()}, nil
}

// Delete builds DELETE FROM table [WHERE where]. A nil where deletes every row.
func (b *Builder) Delete(table string, where query.Node, opts ...Option) (*Statement, error) {
	const op = "builder.Delete"
	o := Apply(opts...)
	ref, err := b.tableRef(op, table, o.Hints)
	if err != nil {
		return nil, err
	}
	return b.finish(op, KindDelete, table, b.key(KindDelete, table, o.Hints), "DELETE FROM "+ref, where, nil, "")
}
