package visitor

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/minorm/dialect"
	"github.com/Konsultn-Engineering/minorm/ormerr"
	"github.com/Konsultn-Engineering/minorm/query"
	"github.com/Konsultn-Engineering/minorm/schema"
)

func names(r *Result) []string {
	out := make([]string, len(r.Params))
	for i, p := range r.Params {
		out[i] = p.Name
	}
	return out
}

func TestTranslate(t *testing.T) {
	sqlite := dialect.NewSQLiteDialect()

	tests := []struct {
		name   string
		node   query.Node
		sql    string
		values []any
		names  []string
	}{
		{"Equal", query.Where("Id").Eq(1), `"Id" = @Id`, []any{1}, []string{"Id"}},
		{"NotEqual", query.Where("Id").Ne(1), `"Id" <> @Id`, []any{1}, []string{"Id"}},
		{"LessThan", query.Where("Age").Lt(3), `"Age" < @Age`, []any{3}, []string{"Age"}},
		{"GreaterThanOrEqual", query.Where("Age").Ge(3), `"Age" >= @Age`, []any{3}, []string{"Age"}},
		{"EqualNull", query.Where("Email").Eq(nil), `"Email" IS NULL`, []any{}, []string{}},
		{"NotEqualNull", query.Where("Email").Ne(nil), `"Email" IS NOT NULL`, []any{}, []string{}},
		{"IsNull", query.Where("Email").IsNull(), `"Email" IS NULL`, []any{}, []string{}},
		{"IsNotNull", query.Where("Email").IsNotNull(), `"Email" IS NOT NULL`, []any{}, []string{}},
		{"Like", query.Where("Name").Like("A%"), `"Name" LIKE @Name`, []any{"A%"}, []string{"Name"}},
		{"NotLike", query.Where("Name").NotLike("A%"), `"Name" NOT LIKE @Name`, []any{"A%"}, []string{"Name"}},
		{"In", query.Where("Id").In(1, 2), `"Id" IN (@Id, @Id_1)`, []any{1, 2}, []string{"Id", "Id_1"}},
		{"InSlice", query.Where("Id").In([]int64{7, 8, 9}), `"Id" IN (@Id, @Id_1, @Id_2)`, []any{int64(7), int64(8), int64(9)}, []string{"Id", "Id_1", "Id_2"}},
		{"NotIn", query.Where("Id").NotIn(5), `"Id" NOT IN (@Id)`, []any{5}, []string{"Id"}},
		{"Between", query.Where("Age").Between(1, 9), `"Age" BETWEEN @Age_Left AND @Age_Right`, []any{1, 9}, []string{"Age_Left", "Age_Right"}},
		{"NotBetween", query.Where("Age").NotBetween(1, 9), `"Age" NOT BETWEEN @Age_Left AND @Age_Right`, []any{1, 9}, []string{"Age_Left", "Age_Right"}},
		{
			"MappedName",
			query.On(query.Field{Name: "Name", MappedName: "full_name"}).Eq("x"),
			`"full_name" = @Name`, []any{"x"}, []string{"Name"},
		},
		{
			"FlatGroup",
			query.And(query.Where("Id").Eq(1), query.Where("Id").Ne(2)),
			`"Id" = @Id AND "Id" <> @Id_1`, []any{1, 2}, []string{"Id", "Id_1"},
		},
		{
			"NestedGroup",
			query.Or(query.Where("A").Eq(1), query.And(query.Where("B").Eq(2), query.Where("C").Eq(3))),
			`"A" = @A OR ("B" = @B AND "C" = @C)`, []any{1, 2, 3}, []string{"A", "B", "C"},
		},
		{
			"NegatedGroup",
			query.Not(query.Or(query.Where("A").Eq(1), query.Where("B").Eq(2))),
			`NOT ("A" = @A OR "B" = @B)`, []any{1, 2}, []string{"A", "B"},
		},
		{
			"SingleChildGroup",
			query.And(query.Where("A").Eq(1)),
			`"A" = @A`, []any{1}, []string{"A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Translate(tt.node, sqlite)
			require.NoError(t, err)
			assert.Equal(t, tt.sql, r.SQL)
			assert.Equal(t, tt.values, r.Values())
			assert.Equal(t, tt.names, names(r))
		})
	}
}

func TestTranslate_PlaceholderStyles(t *testing.T) {
	node := query.Where("Id").In(1, 2)

	pg, err := Translate(node, dialect.NewPostgresDialect())
	require.NoError(t, err)
	assert.Equal(t, `"Id" IN ($1, $2)`, pg.SQL)

	my, err := Translate(node, dialect.NewMySQLDialect())
	require.NoError(t, err)
	assert.Equal(t, "`Id` IN (?, ?)", my.SQL)

	ms, err := Translate(node, dialect.NewSQLServerDialect())
	require.NoError(t, err)
	assert.Equal(t, "[Id] IN (@Id, @Id_1)", ms.SQL)

	for _, r := range []*Result{pg, my, ms} {
		assert.Len(t, r.Params, 2)
		assert.Equal(t, []any{1, 2}, r.Values())
		assert.Equal(t, schema.DbInt64, r.Params[0].DbType)
	}
}

func TestTranslate_EntryPathsAgree(t *testing.T) {
	type Entity struct{ Id int64 }
	c := schema.New()
	e, err := schema.EntityOf[Entity](c)
	require.NoError(t, err)

	typed, err := query.Bind(query.Where("Id").In([]int64{1, 2}), e, c)
	require.NoError(t, err)

	for _, d := range []dialect.Dialect{dialect.NewSQLiteDialect(), dialect.NewPostgresDialect()} {
		fromEntity, err := Translate(typed, d)
		require.NoError(t, err)
		fromTable, err := TranslateField(query.NewField("Id"), query.OpIn, []int64{1, 2}, d)
		require.NoError(t, err)
		assert.Equal(t, fromTable, fromEntity, d.Name())
	}
}

func TestTranslate_EmptyIn(t *testing.T) {
	_, err := Translate(query.Where("Id").In(), dialect.NewSQLiteDialect())
	assert.True(t, ormerr.IsInvalidArgument(err))

	_, err = TranslateField(query.NewField("Id"), query.OpIn, []int{}, dialect.NewPostgresDialect())
	assert.True(t, ormerr.IsInvalidArgument(err))

	lenient, err := dialect.FromDescriptor(dialect.Descriptor{Name: "lenient", EmptyInPolicy: "constant"})
	require.NoError(t, err)

	r, err := Translate(query.And(query.Where("Id").In(), query.Where("Id").NotIn([]int{})), lenient)
	require.NoError(t, err)
	assert.Equal(t, "1 = 0 AND 1 = 1", r.SQL)
	assert.Empty(t, r.Params)
}

func TestTranslate_Errors(t *testing.T) {
	d := dialect.NewSQLiteDialect()
	tests := []struct {
		name string
		node query.Node
	}{
		{"BetweenOneValue", query.NewCondition(query.NewField("Age"), query.OpBetween, []any{1})},
		{"BetweenScalar", query.NewCondition(query.NewField("Age"), query.OpBetween, 1)},
		{"InScalar", query.NewCondition(query.NewField("Id"), query.OpIn, 1)},
		{"LessThanNull", query.Where("Age").Lt(nil)},
		{"EmptyField", query.Where("").Eq(1)},
		{"EmptyGroup", query.And()},
		{"Nil", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Translate(tt.node, d)
			assert.Nil(t, r)
			assert.True(t, ormerr.IsInvalidArgument(err), "got %v", err)
		})
	}

	_, err := TranslateField(query.NewField("Id"), query.OpAnd, nil, d)
	assert.True(t, ormerr.IsInvalidArgument(err))

	_, err = Translate(&query.Group{Op: query.OpEqual, Children: []query.Node{query.Where("A").Eq(1)}}, d)
	assert.True(t, ormerr.IsUnsupportedExpression(err))

	_, err = Translate(query.Where("A").Eq(1), nil)
	assert.True(t, ormerr.IsInvalidArgument(err))
}

func TestSQLVisitor_AllOrNothing(t *testing.T) {
	v := NewSQLVisitor(dialect.NewSQLiteDialect())
	defer v.Release()

	require.NoError(t, v.Translate(query.Where("A").Eq(1)))
	v.GetSB().WriteString(" AND ")

	bad := query.And(query.Where("B").Eq(2), query.Where("C").In())
	require.Error(t, v.Translate(bad))

	r := v.Result()
	assert.Equal(t, `"A" = @A AND `, r.SQL)
	assert.Len(t, r.Params, 1)

	require.NoError(t, v.Translate(query.Where("B").Eq(2)))
	assert.Equal(t, []string{"A", "B"}, names(v.Result()))
}

func TestSQLVisitor_UniqueNames(t *testing.T) {
	v := NewSQLVisitor(dialect.NewPostgresDialect())
	defer v.Release()

	assert.Equal(t, "$1", v.Bind("Id", 1))
	assert.Equal(t, "$2", v.Bind("Id", 2))
	assert.Equal(t, "$3", v.Bind("Id_1", 3))
	assert.Equal(t, "$4", v.Bind("first name", 4))
	assert.Equal(t, []string{"Id", "Id_1", "Id_1_1", "first_name"}, names(v.Result()))
}

func TestResultArgs(t *testing.T) {
	r, err := Translate(query.Where("Id").In(1, 2), dialect.NewSQLiteDialect())
	require.NoError(t, err)
	assert.Equal(t, []any{sql.Named("Id", 1), sql.Named("Id_1", 2)}, r.Args(dialect.NewSQLiteDialect()))
	assert.Equal(t, []any{1, 2}, r.Args(dialect.NewMySQLDialect()))
}

func TestResultDebug(t *testing.T) {
	pg := dialect.NewPostgresDialect()
	vals := make([]any, 11)
	for i := range vals {
		vals[i] = i
	}
	r, err := Translate(query.Where("Id").In(vals...), pg)
	require.NoError(t, err)
	assert.Equal(t, `"Id" IN (0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)`, r.Debug(pg))

	my := dialect.NewMySQLDialect()
	r, err = Translate(query.And(query.Where("Name").Eq("o'k"), query.Where("Age").Gt(3)), my)
	require.NoError(t, err)
	assert.Equal(t, "`Name` = 'o''k' AND `Age` > 3", r.Debug(my))
}

func TestResultDebugNamedPrefixes(t *testing.T) {
	lite := dialect.NewSQLiteDialect()
	r, err := Translate(query.And(query.Where("Identity").Eq("@Id"), query.Where("Id").Eq(7)), lite)
	require.NoError(t, err)
	require.Equal(t, `"Identity" = @Identity AND "Id" = @Id`, r.SQL)
	assert.Equal(t, `"Identity" = '@Id' AND "Id" = 7`, r.Debug(lite))

	empty := &Result{SQL: `SELECT 1`}
	assert.Equal(t, `SELECT 1`, empty.Debug(lite))
}
