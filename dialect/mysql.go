package dialect

type MySQL struct {
	*Generic
}

func NewMySQLDialect() Dialect {
	return newMySQL("mysql")
}

func newMySQL(name string) *MySQL {
	return &MySQL{Generic: newGeneric(Descriptor{
		Name:              name,
		IdentifierQuoting: "backtick",
		PlaceholderStyle:  "anonymous",
		Paging:            "limit",
		Identity:          "last_insert_id",
	})}
}

func (m *MySQL) RenderValue(v any) string {
	if b, ok := v.(bool); ok {
		if b {
			return "1"
		}
		return "0"
	}
	return m.Generic.RenderValue(v)
}
