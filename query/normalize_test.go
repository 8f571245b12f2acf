package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/minorm/ast"
	"github.com/Konsultn-Engineering/minorm/ormerr"
	"github.com/Konsultn-Engineering/minorm/schema"
)

type Person struct {
	Id      int64
	Name    string `db:"full_name"`
	Age     int
	Active  bool
	Email   *string
	Country string
}

type Company struct {
	Id   int64
	Name string
}

func entity(t *testing.T, c *schema.Cache) *schema.Entity {
	t.Helper()
	e, err := schema.EntityOf[Person](c)
	require.NoError(t, err)
	return e
}

func TestNormalize(t *testing.T) {
	c := schema.New()
	e := entity(t, c)

	tests := []struct {
		name     string
		expr     ast.Expr
		expected Node
	}{
		{
			name:     "Equal",
			expr:     ast.Eq(ast.Field("Age"), 30),
			expected: &Condition{Field: Field{"Age", e.ID(), "Age"}, Operation: OpEqual, Value: 30},
		},
		{
			name:     "MappedName",
			expr:     ast.Ne(ast.Field("Name"), "x"),
			expected: &Condition{Field: Field{"Name", e.ID(), "full_name"}, Operation: OpNotEqual, Value: "x"},
		},
		{
			name:     "ConstantOnLeftSwaps",
			expr:     ast.Lt(18, ast.Field("Age")),
			expected: &Condition{Field: Field{"Age", e.ID(), "Age"}, Operation: OpGreaterThan, Value: 18},
		},
		{
			name:     "CollectionContainsIsIn",
			expr:     ast.Contains(ast.Value([]int64{1, 2}), ast.Field("Id")),
			expected: &Condition{Field: Field{"Id", e.ID(), "Id"}, Operation: OpIn, Value: []any{int64(1), int64(2)}},
		},
		{
			name:     "StringContainsIsLike",
			expr:     ast.Contains(ast.Field("Name"), "an"),
			expected: &Condition{Field: Field{"Name", e.ID(), "full_name"}, Operation: OpLike, Value: "%an%"},
		},
		{
			name:     "StartsWith",
			expr:     ast.StartsWith(ast.Field("Country"), "U"),
			expected: &Condition{Field: Field{"Country", e.ID(), "Country"}, Operation: OpLike, Value: "U%"},
		},
		{
			name:     "EndsWith",
			expr:     ast.EndsWith(ast.Field("Country"), "a"),
			expected: &Condition{Field: Field{"Country", e.ID(), "Country"}, Operation: OpLike, Value: "%a"},
		},
		{
			name:     "NullIsIsNull",
			expr:     ast.Eq(ast.Field("Email"), nil),
			expected: &Condition{Field: Field{"Email", e.ID(), "Email"}, Operation: OpIsNull},
		},
		{
			name:     "NotNullIsIsNotNull",
			expr:     ast.Ne(ast.Field("Email"), nil),
			expected: &Condition{Field: Field{"Email", e.ID(), "Email"}, Operation: OpIsNotNull},
		},
		{
			name:     "BoolMember",
			expr:     ast.Field("Active"),
			expected: &Condition{Field: Field{"Active", e.ID(), "Active"}, Operation: OpEqual, Value: true},
		},
		{
			name:     "NotInvertsCondition",
			expr:     ast.Negate(ast.In("Id", []int{1})),
			expected: &Condition{Field: Field{"Id", e.ID(), "Id"}, Operation: OpNotIn, Value: []any{1}},
		},
		{
			name:     "OwnerMatchesRoot",
			expr:     ast.Eq(ast.FieldOf[Person]("Age"), 1),
			expected: &Condition{Field: Field{"Age", e.ID(), "Age"}, Operation: OpEqual, Value: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.expr, e, c)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalize_Groups(t *testing.T) {
	c := schema.New()
	e := entity(t, c)

	chain := ast.And(ast.Eq(ast.Field("Age"), 1), ast.Eq(ast.Field("Id"), 2), ast.Eq(ast.Field("Country"), "x"))
	got, err := Normalize(chain, e, c)
	require.NoError(t, err)
	g, ok := got.(*Group)
	require.True(t, ok)
	assert.Equal(t, OpAnd, g.Op)
	require.Len(t, g.Children, 3, "left-nested chain becomes one group")
	assert.Equal(t, "Age", g.Children[0].(*Condition).Field.Name)
	assert.Equal(t, "Country", g.Children[2].(*Condition).Field.Name)

	nested := ast.And(ast.Eq(ast.Field("Age"), 1), ast.Or(ast.Eq(ast.Field("Id"), 2), ast.Eq(ast.Field("Id"), 3)))
	got, err = Normalize(nested, e, c)
	require.NoError(t, err)
	assert.Equal(t, "(Age Equal 1 And (Id Equal 2 Or Id Equal 3))", got.String())

	rightNested := &ast.Logical{
		Left:     ast.Eq(ast.Field("Age"), 1),
		Operator: ast.OpAnd,
		Right:    ast.And(ast.Eq(ast.Field("Id"), 2), ast.Eq(ast.Field("Id"), 3)),
	}
	got, err = Normalize(rightNested, e, c)
	require.NoError(t, err)
	assert.Equal(t, "(Age Equal 1 And (Id Equal 2 And Id Equal 3))", got.String())

	negated, err := Normalize(ast.Negate(nested), e, c)
	require.NoError(t, err)
	assert.True(t, negated.(*Group).Not)
}

func TestNormalize_Errors(t *testing.T) {
	c := schema.New()
	e := entity(t, c)

	tests := []struct {
		name  string
		expr  ast.Expr
		check func(error) bool
	}{
		{"MemberVsMember", ast.Eq(ast.Field("Age"), ast.Field("Id")), ormerr.IsUnsupportedExpression},
		{"ConstantVsConstant", ast.Eq(1, 1), ormerr.IsUnsupportedExpression},
		{"UnknownMethod", &ast.Call{Target: ast.Field("Name"), Method: "Matches", Args: []ast.Expr{ast.Value("x")}}, ormerr.IsUnsupportedExpression},
		{"ContainsOnNonString", ast.Contains(ast.Field("Age"), "1"), ormerr.IsUnsupportedExpression},
		{"ContainsOnScalarConstant", ast.Contains(ast.Value(5), ast.Field("Id")), ormerr.IsUnsupportedExpression},
		{"NonBoolMember", ast.Field("Age"), ormerr.IsUnsupportedExpression},
		{"ConstantPredicate", ast.Value(true), ormerr.IsUnsupportedExpression},
		{"NullOrdering", ast.Lt(ast.Field("Email"), nil), ormerr.IsUnsupportedExpression},
		{"ComparisonAsConnective", &ast.Logical{Left: ast.Field("Active"), Operator: ast.OpEqual, Right: ast.Field("Active")}, ormerr.IsUnsupportedExpression},
		{"UnknownMember", ast.Eq(ast.Field("Salary"), 1), ormerr.IsInvalidMemberReference},
		{"ForeignMember", ast.Eq(ast.FieldOf[Company]("Id"), 1), ormerr.IsInvalidMemberReference},
		{"NilOperand", &ast.Binary{Left: ast.Field("Id"), Operator: ast.OpEqual}, ormerr.IsUnsupportedExpression},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.expr, e, c)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, tt.check(err), "unexpected error kind: %v", err)
		})
	}

	_, err := Normalize(nil, e, c)
	assert.True(t, ormerr.IsInvalidArgument(err))
	_, err = Normalize(ast.Field("Active"), nil, c)
	assert.True(t, ormerr.IsInvalidArgument(err))
}

func TestBind(t *testing.T) {
	c := schema.New()
	e := entity(t, c)

	tree := And(Where("Name").Eq("x"), Or(Where("id").In(1, 2), Where("Age").Between(1, 9)))
	bound, err := Bind(tree, e, c)
	require.NoError(t, err)

	var cols []string
	require.NoError(t, Walk(bound, func(cond *Condition) error {
		cols = append(cols, cond.Field.MappedName)
		assert.Equal(t, e.ID(), cond.Field.DeclaringType)
		return nil
	}))
	assert.Equal(t, []string{"full_name", "Id", "Age"}, cols)

	// The input tree is untouched.
	assert.False(t, tree.Children[0].(*Condition).Field.Bound())

	_, err = Bind(Where("Salary").Eq(1), e, c)
	assert.True(t, ormerr.IsInvalidMemberReference(err))

	foreign := On(Field{Name: "Id", DeclaringType: "other.Company"}).Eq(1)
	_, err = Bind(foreign, e, c)
	assert.True(t, ormerr.IsInvalidMemberReference(err))
}

func TestBuilderAndExpressionAgree(t *testing.T) {
	c := schema.New()
	e := entity(t, c)

	fromExpr, err := Normalize(ast.Contains(ast.Value([]int{1, 2}), ast.Field("Id")), e, c)
	require.NoError(t, err)
	fromBuilder, err := Bind(Where("Id").In(1, 2), e, c)
	require.NoError(t, err)

	assert.Equal(t, fromExpr, fromBuilder)
	assert.Equal(t, Shape(fromExpr), Shape(fromBuilder))
}

func TestShape(t *testing.T) {
	assert.Equal(t, Shape(Where("Id").Eq(1)), Shape(Where("Id").Eq(2)))
	assert.NotEqual(t, Shape(Where("Id").Eq(1)), Shape(Where("Id").Eq(nil)))
	assert.NotEqual(t, Shape(Where("Id").In(1, 2)), Shape(Where("Id").In(1, 2, 3)))
	assert.NotEqual(t, Shape(And(Where("A").Eq(1))), Shape(Not(And(Where("A").Eq(1)))))
	assert.NotEqual(t, Shape(Where("A").Eq(1)), Shape(Where("B").Eq(1)))
	assert.NotEqual(t, Shape(Where("Id").Lt(1)), Shape(Where("Id").Lt(nil)))
	assert.NotEqual(t, Shape(Where("Id").In()),
		Shape(&Condition{Field: NewField("Id"), Operation: OpIn, Value: 5}))
	assert.NotEqual(t, Shape(Where("id").Eq(1)),
		Shape(On(Field{Name: "Id", MappedName: "id"}).Eq(1)), "parameter names follow Name")
}

func TestArguments(t *testing.T) {
	tree := And(
		Where("Id").Between(1, 9),
		Or(Where("Name").Eq("Ada"), Where("Name").Eq(nil)),
		Where("Email").IsNotNull(),
		Where("Age").In(30, 40),
	)
	assert.Equal(t, []any{1, 9, "Ada", 30, 40}, Arguments(tree))
	assert.Empty(t, Arguments(nil))
	assert.Empty(t, Arguments(Where("Id").In()))
}

func TestBuilder(t *testing.T) {
	assert.Equal(t, []int{1, 2}, Where("Id").In([]int{1, 2}).Value, "single slice argument is the set")
	assert.Equal(t, []any{1, 2}, Where("Id").In(1, 2).Value)
	assert.Equal(t, []any{}, Where("Id").In().Value)
	assert.Equal(t, []any{1, 5}, Where("Age").Between(1, 5).Value)

	n := Not(Where("Age").Gt(3)).(*Condition)
	assert.Equal(t, OpLessThanOrEqual, n.Operation)

	vs, ok := Values([3]string{"a", "b", "c"})
	require.True(t, ok)
	assert.Len(t, vs, 3)
	_, ok = Values([]byte("ab"))
	assert.False(t, ok)
	assert.True(t, IsNullValue((*int)(nil)))
}
