package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct{ Id int64 }

func TestFactories(t *testing.T) {
	in := In("Id", []int64{1, 2})
	assert.Equal(t, NodeCall, in.Type())
	assert.Equal(t, MethodContains, in.Method)
	assert.True(t, in.Target.(*Constant).IsCollection())
	assert.Equal(t, []any{int64(1), int64(2)}, in.Target.(*Constant).Elements())
	assert.Equal(t, "[1 2].Contains(Id)", in.String())

	eq := Eq(Field("Name"), "x")
	assert.Equal(t, `Name = "x"`, eq.String())

	assert.True(t, IsNull("Name").Right.(*Constant).IsNull())
	assert.Equal(t, "sample.Id", FieldOf[sample]("Id").String())
}

func TestAndPreservesOrder(t *testing.T) {
	e := And(Eq(Field("A"), 1), Eq(Field("B"), 2), Eq(Field("C"), 3))
	assert.Equal(t, "((A = 1 AND B = 2) AND C = 3)", Format(e))

	single := Or(Eq(Field("A"), 1))
	assert.Equal(t, NodeBinary, single.Type())
}

func TestConstant(t *testing.T) {
	var p *int
	assert.True(t, Value(nil).IsNull())
	assert.True(t, Value(p).IsNull())
	assert.False(t, Value(0).IsNull())
	assert.False(t, Value([]byte("ab")).IsCollection())
	assert.True(t, Value([2]string{"a", "b"}).IsCollection())
	assert.Nil(t, Value("x").Elements())
}

func TestOperator(t *testing.T) {
	inv, ok := OpLessThan.Inverse()
	assert.True(t, ok)
	assert.Equal(t, OpGreaterThanOrEqual, inv)
	_, ok = OpAnd.Inverse()
	assert.False(t, ok)
	assert.Equal(t, OpGreaterThan, OpLessThan.Swapped())
	assert.Equal(t, OpEqual, OpEqual.Swapped())
	assert.True(t, OpNotEqual.IsComparison())
	assert.False(t, OpOr.IsComparison())
}
