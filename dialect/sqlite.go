package dialect

type SQLite struct {
	*Generic
}

func NewSQLiteDialect() Dialect {
	return &SQLite{Generic: newGeneric(Descriptor{
		Name:              "sqlite",
		IdentifierQuoting: "double",
		PlaceholderStyle:  "named",
		ParameterPrefix:   "@",
		Paging:            "limit",
		Identity:          "returning",
	})}
}

func (s *SQLite) RenderValue(v any) string {
	if b, ok := v.(bool); ok {
		if b {
			return "1"
		}
		return "0"
	}
	return s.Generic.RenderValue(v)
}
