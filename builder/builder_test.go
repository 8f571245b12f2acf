package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/minorm/cache"
	"github.com/Konsultn-Engineering/minorm/database"
	"github.com/Konsultn-Engineering/minorm/dialect"
	"github.com/Konsultn-Engineering/minorm/ormerr"
	"github.com/Konsultn-Engineering/minorm/query"
)

func values(s *Statement) []any {
	out := make([]any, len(s.Params))
	for i, p := range s.Params {
		out[i] = p.Value
	}
	return out
}

func TestQuery(t *testing.T) {
	tests := []struct {
		name     string
		dialect  dialect.Dialect
		columns  []query.Field
		where    query.Node
		opts     []Option
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "postgres star",
			dialect:  dialect.NewPostgresDialect(),
			where:    query.Where("id").In(1, 2),
			wantSQL:  `SELECT * FROM "customers" WHERE "id" IN ($1, $2)`,
			wantArgs: []any{1, 2},
		},
		{
			name:     "mysql columns order and top",
			dialect:  dialect.NewMySQLDialect(),
			columns:  []query.Field{query.NewField("id"), query.NewField("name")},
			where:    query.Where("country").Eq("SE"),
			opts:     []Option{WithOrderBy(Desc("name"), Asc("id")), WithTop(10)},
			wantSQL:  "SELECT `id`, `name` FROM `customers` WHERE `country` = ? ORDER BY `name` DESC, `id` ASC LIMIT 10",
			wantArgs: []any{"SE"},
		},
		{
			name:     "sqlserver top and hints",
			dialect:  dialect.NewSQLServerDialect(),
			columns:  []query.Field{query.NewField("id")},
			where:    query.Where("id").Gt(5),
			opts:     []Option{WithTop(3), WithHints("NOLOCK")},
			wantSQL:  "SELECT TOP (3) [id] FROM [customers] WITH (NOLOCK) WHERE [id] > @id",
			wantArgs: []any{5},
		},
		{
			name:    "no where",
			dialect: dialect.NewSQLiteDialect(),
			wantSQL: `SELECT * FROM "customers"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(tt.dialect)
			stmt, err := b.Query("customers", tt.columns, tt.where, tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, stmt.SQL)
			if tt.wantArgs == nil {
				assert.Empty(t, stmt.Params)
			} else {
				assert.Equal(t, tt.wantArgs, values(stmt))
			}
			assert.Equal(t, KindQuery, stmt.Kind)
			assert.Equal(t, database.CommandRowSet, stmt.Command)
		})
	}
}

func TestSelectBuilderFluent(t *testing.T) {
	b := New(dialect.NewPostgresDialect())
	stmt, err := b.Select("sales.orders").
		Columns(query.NewField("id")).
		Where(query.And(query.Where("total").Ge(10), query.Where("status").Ne(nil))).
		OrderBy(Asc("id")).
		Top(5).
		Build()
	require.NoError(t, err)
	assert.Equal(t, `SELECT "id" FROM "sales"."orders" WHERE "total" >= $1 AND "status" IS NOT NULL ORDER BY "id" ASC LIMIT 5`, stmt.SQL)
	assert.Equal(t, []any{10}, values(stmt))
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		field   query.Field
		dialect dialect.Dialect
		where   query.Node
		opts    []Option
		wantSQL string
	}{
		{"count rows", KindCount, query.Field{}, dialect.NewSQLiteDialect(), nil, nil,
			`SELECT COUNT(*) AS "CountValue" FROM "tables"`},
		{"count column", KindCount, query.NewField("id"), dialect.NewSQLiteDialect(), nil, nil,
			`SELECT COUNT("id") AS "CountValue" FROM "tables"`},
		{"sum", KindSum, query.NewField("amount"), dialect.NewPostgresDialect(), query.Where("id").Lt(3), nil,
			`SELECT SUM("amount") AS "SumValue" FROM "tables" WHERE "id" < $1`},
		{"average", KindAverage, query.NewField("column_int"), dialect.NewSQLiteDialect(), query.Where("id").In(1, 2), nil,
			`SELECT AVG("column_int") AS "AverageValue" FROM "tables" WHERE "id" IN (@id, @id_1)`},
		{"min with hints", KindMin, query.NewField("x"), dialect.NewSQLServerDialect(), nil, []Option{WithHints("NOLOCK")},
			`SELECT MIN([x]) AS [MinValue] FROM [tables] WITH (NOLOCK)`},
		{"max blank hints", KindMax, query.NewField("x"), dialect.NewMySQLDialect(), nil, []Option{WithHints("  ")},
			"SELECT MAX(`x`) AS `MaxValue` FROM `tables`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := New(tt.dialect).Aggregate(tt.kind, "tables", tt.field, tt.where, tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, stmt.SQL)
			assert.Equal(t, database.CommandScalar, stmt.Command)
		})
	}
}

func TestAggregateRejectsHints(t *testing.T) {
	for _, d := range []dialect.Dialect{
		dialect.NewPostgresDialect(),
		dialect.NewMySQLDialect(),
		dialect.NewSQLiteDialect(),
		dialect.NewTiDBDialect(),
	} {
		t.Run(d.Name(), func(t *testing.T) {
			b := New(d)
			for _, kind := range []Kind{KindCount, KindSum, KindAverage, KindMin, KindMax} {
				stmt, err := b.Aggregate(kind, "tables", query.NewField("x"), query.Where("id").In(1, 2), WithHints("WhatEver"))
				require.Error(t, err)
				assert.Nil(t, stmt)
				assert.True(t, ormerr.IsUnsupportedOption(err), kind.String())
			}

			_, err := b.Exists("tables", nil, WithHints("WhatEver"))
			assert.True(t, ormerr.IsUnsupportedOption(err))
			_, err = b.Query("tables", nil, nil, WithHints("WhatEver"))
			assert.True(t, ormerr.IsUnsupportedOption(err))
			assert.Zero(t, b.Statements().Len())
		})
	}
}

func TestAggregateInvalid(t *testing.T) {
	b := New(dialect.NewSQLiteDialect())

	_, err := b.Aggregate(KindQuery, "t", query.NewField("x"), nil)
	assert.True(t, ormerr.IsInvalidArgument(err))

	_, err = b.Aggregate(KindSum, "t", query.Field{}, nil)
	assert.True(t, ormerr.IsInvalidArgument(err))

	_, err = b.Aggregate(KindSum, " ", query.NewField("x"), nil)
	assert.True(t, ormerr.IsInvalidArgument(err))

	_, err = b.Aggregate(KindAverage, "t", query.NewField("x"), query.Where("id").In())
	assert.True(t, ormerr.IsInvalidArgument(err))
}

func TestExists(t *testing.T) {
	stmt, err := New(dialect.NewSQLServerDialect()).Exists("t", query.Where("id").Eq(1))
	require.NoError(t, err)
	assert.Equal(t, "SELECT TOP (1) 1 AS [ExistsValue] FROM [t] WHERE [id] = @id", stmt.SQL)

	stmt, err = New(dialect.NewPostgresDialect()).Exists("t", query.Where("id").Eq(1))
	require.NoError(t, err)
	assert.Equal(t, `SELECT 1 AS "ExistsValue" FROM "t" WHERE "id" = $1 LIMIT 1`, stmt.SQL)
}

func TestInsert(t *testing.T) {
	values := []Assignment{Set("name", "Ada"), Set("email", "ada@example.com")}

	tests := []struct {
		name        string
		dialect     dialect.Dialect
		identity    string
		wantSQL     string
		wantCommand database.CommandType
	}{
		{"postgres returning", dialect.NewPostgresDialect(), "id",
			`INSERT INTO "people" ("name", "email") VALUES ($1, $2) RETURNING "id"`, database.CommandRowSet},
		{"mysql last insert id", dialect.NewMySQLDialect(), "id",
			"INSERT INTO `people` (`name`, `email`) VALUES (?, ?)", database.CommandNonQuery},
		{"sqlserver output", dialect.NewSQLServerDialect(), "id",
			"INSERT INTO [people] ([name], [email]) OUTPUT INSERTED.[id] VALUES (@name, @email)", database.CommandRowSet},
		{"no identity", dialect.NewSQLiteDialect(), "",
			`INSERT INTO "people" ("name", "email") VALUES (@name, @email)`, database.CommandNonQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := New(tt.dialect).Insert("people", values, tt.identity)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, stmt.SQL)
			assert.Equal(t, tt.wantCommand, stmt.Command)
			assert.Equal(t, tt.identity, stmt.Identity)
			assert.Len(t, stmt.Params, 2)
		})
	}

	_, err := New(dialect.NewSQLiteDialect()).Insert("people", nil, "")
	assert.True(t, ormerr.IsInvalidArgument(err))
}

func TestUpdateParamNamesAreUnique(t *testing.T) {
	stmt, err := New(dialect.NewSQLiteDialect()).Update("people",
		[]Assignment{Set("name", "Grace")},
		query.Where("name").Eq("Ada"))
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "people" SET "name" = @name WHERE "name" = @name_1`, stmt.SQL)
	assert.Equal(t, []any{"Grace", "Ada"}, values(stmt))
	assert.Equal(t, database.CommandNonQuery, stmt.Command)

	_, err = New(dialect.NewSQLiteDialect()).Update("people", nil, nil)
	assert.True(t, ormerr.IsInvalidArgument(err))
}

func TestDelete(t *testing.T) {
	b := New(dialect.NewPostgresDialect())

	stmt, err := b.Delete("people", query.Where("id").Between(1, 9))
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "people" WHERE "id" BETWEEN $1 AND $2`, stmt.SQL)
	assert.Equal(t, "id_Left", stmt.Params[0].Name)
	assert.Equal(t, "id_Right", stmt.Params[1].Name)

	stmt, err = b.Delete("people", nil)
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "people"`, stmt.SQL)

	_, err = b.Delete("people", nil, WithHints("NOLOCK"))
	assert.True(t, ormerr.IsUnsupportedOption(err))
}

func TestStatementCacheReusesHeads(t *testing.T) {
	shared := cache.NewStatementCache(16)
	b := New(dialect.NewPostgresDialect(), WithStatementCache(shared))

	first, err := b.Aggregate(KindAverage, "t", query.NewField("x"), query.Where("id").In(1, 2))
	require.NoError(t, err)
	assert.Equal(t, 1, shared.Len())

	second, err := b.Aggregate(KindAverage, "t", query.NewField("x"), query.Where("id").In(7, 8))
	require.NoError(t, err)
	assert.Equal(t, 1, shared.Len())
	assert.Equal(t, first.SQL, second.SQL)
	assert.Equal(t, []any{7, 8}, values(second))

	_, err = b.Aggregate(KindSum, "t", query.NewField("x"), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, shared.Len())
}

func TestStatementCacheSeparatesDialectsWithOneName(t *testing.T) {
	shared := cache.NewStatementCache(16)
	hinted, err := dialect.FromDescriptor(dialect.Descriptor{Name: "warehouse", SupportsHints: true, IdentifierQuoting: "bracket"})
	require.NoError(t, err)
	plain, err := dialect.FromDescriptor(dialect.Descriptor{Name: "warehouse"})
	require.NoError(t, err)

	stmt, err := New(hinted, WithStatementCache(shared)).
		Aggregate(KindCount, "t", query.Field{}, nil, WithHints("NOLOCK"))
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) AS [CountValue] FROM [t] WITH (NOLOCK)", stmt.SQL)

	b := New(plain, WithStatementCache(shared))
	_, err = b.Aggregate(KindCount, "t", query.Field{}, nil, WithHints("NOLOCK"))
	assert.True(t, ormerr.IsUnsupportedOption(err))
	_, err = b.Exists("t", nil, WithHints("NOLOCK"))
	assert.True(t, ormerr.IsUnsupportedOption(err))
	_, err = b.Query("t", nil, nil, WithHints("NOLOCK"))
	assert.True(t, ormerr.IsUnsupportedOption(err))
	_, err = b.Insert("t", []Assignment{Set("name", "Ada")}, "", WithHints("NOLOCK"))
	assert.True(t, ormerr.IsUnsupportedOption(err))

	stmt, err = b.Aggregate(KindCount, "t", query.Field{}, nil)
	require.NoError(t, err)
	assert.Equal(t, `SELECT COUNT(*) AS "CountValue" FROM "t"`, stmt.SQL)
}

func TestStatementCacheReusesTemplates(t *testing.T) {
	shared := cache.NewStatementCache(16)
	b := New(dialect.NewSQLServerDialect(), WithStatementCache(shared))
	where := func(lo, hi int, name any) query.Node {
		return query.And(query.Where("id").Between(lo, hi), query.Where("name").Eq(name))
	}

	first, err := b.Aggregate(KindMax, "t", query.NewField("x"), where(1, 9, "Ada"))
	require.NoError(t, err)
	second, err := b.Aggregate(KindMax, "t", query.NewField("x"), where(3, 4, "Grace"))
	require.NoError(t, err)
	assert.Equal(t, 1, shared.Templates())
	assert.Equal(t, first.SQL, second.SQL)
	assert.Equal(t, []any{3, 4, "Grace"}, values(second))
	assert.Equal(t, "id_Right", second.Params[1].Name)

	third, err := b.Aggregate(KindMax, "t", query.NewField("x"), where(3, 4, nil))
	require.NoError(t, err)
	assert.Equal(t, 2, shared.Templates(), "a null operand is a different shape")
	assert.Equal(t, "SELECT MAX([x]) AS [MaxValue] FROM [t] WHERE [id] BETWEEN @id_Left AND @id_Right AND [name] IS NULL", third.SQL)
	assert.Equal(t, []any{3, 4}, values(third))

	ordered, err := b.Select("t").Where(query.Where("id").Eq(1)).OrderBy(OrderField{Field: query.NewField("id"), Descending: true}).Build()
	require.NoError(t, err)
	again, err := b.Select("t").Where(query.Where("id").Eq(2)).OrderBy(OrderField{Field: query.NewField("id")}).Build()
	require.NoError(t, err)
	assert.NotEqual(t, ordered.SQL, again.SQL)
	assert.Contains(t, again.SQL, "ORDER BY [id] ASC")
}

func TestKind(t *testing.T) {
	assert.Equal(t, "Average", KindAverage.String())
	assert.Equal(t, "AverageValue", KindAverage.Alias())
	assert.True(t, KindMax.IsAggregate())
	assert.False(t, KindExists.IsAggregate())
	assert.Equal(t, "Unknown", Kind(200).String())
}

func TestStatementArgs(t *testing.T) {
	stmt, err := New(dialect.NewSQLiteDialect()).Query("t", nil, query.Where("id").Eq(1))
	require.NoError(t, err)
	args := stmt.Args(dialect.NewSQLiteDialect())
	require.Len(t, args, 1)
	assert.Contains(t, stmt.Debug(dialect.NewSQLiteDialect()), `"id" = 1`)
}
