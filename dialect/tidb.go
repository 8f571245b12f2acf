package dialect

// TiDB speaks the MySQL protocol and syntax.
type TiDB struct {
	*MySQL
}

func NewTiDBDialect() Dialect {
	return &TiDB{MySQL: newMySQL("tidb")}
}
