package dialect

// SQLServer is the only built-in dialect with table hints (WITH (NOLOCK)).
type SQLServer struct {
	*Generic
}

func NewSQLServerDialect() Dialect {
	return &SQLServer{Generic: newGeneric(Descriptor{
		Name:              "sqlserver",
		SupportsHints:     true,
		IdentifierQuoting: "bracket",
		PlaceholderStyle:  "named",
		ParameterPrefix:   "@",
		Paging:            "top",
		Identity:          "output",
	})}
}

func (s *SQLServer) RenderValue(v any) string {
	switch val := v.(type) {
	case bool:
		if val {
			return "1"
		}
		return "0"
	case string:
		return "N" + s.Generic.RenderValue(val)
	}
	return s.Generic.RenderValue(v)
}
