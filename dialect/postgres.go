package dialect

import (
	"github.com/lib/pq"
)

type Postgres struct {
	*Generic
}

func NewPostgresDialect() Dialect {
	return &Postgres{Generic: newGeneric(Descriptor{
		Name:              "postgres",
		IdentifierQuoting: "double",
		PlaceholderStyle:  "ordinal",
		ParameterPrefix:   "$",
		Paging:            "limit",
		Identity:          "returning",
	})}
}

func (p *Postgres) QuoteIdentifier(name string) string {
	return pq.QuoteIdentifier(name)
}

func (p *Postgres) RenderValue(v any) string {
	return renderValue(v, byteaLiteral)
}
