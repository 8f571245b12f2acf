package schema

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		name     string
		tag      reflect.StructTag
		expected ParsedTag
	}{
		{"Empty", ``, ParsedTag{}},
		{"Skip", `db:"-"`, ParsedTag{Skip: true}},
		{"BareColumn", `db:"first_name"`, ParsedTag{ColumnName: "first_name"}},
		{"ExplicitColumn", `db:"column:email_address"`, ParsedTag{ColumnName: "email_address"}},
		{"BareFlag", `db:"primary"`, ParsedTag{Primary: true}},
		{"ColumnAndFlags", `db:"id;primary;identity"`, ParsedTag{ColumnName: "id", Primary: true, Identity: true}},
		{"Generator", `db:"pk;generator:uuid"`, ParsedTag{Primary: true, Generator: "uuid"}},
		{"TypeAndConverter", `db:"type:varchar(64);convert:text"`, ParsedTag{Type: "varchar(64)", Converter: "text"}},
		{"UnknownOptionIgnored", `db:"name:x;index:idx_x"`, ParsedTag{ColumnName: "x"}},
		{"OtherTagIgnored", `json:"x"`, ParsedTag{}},
	}

	parser := NewTagParser("")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.ParseTag("Field", tt.tag)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, *got)
		})
	}
}

func TestParseTag_EmptyValue(t *testing.T) {
	_, err := NewTagParser("").ParseTag("Field", `db:"column:"`)
	assert.Error(t, err)
}

func TestParseTag_CustomTagName(t *testing.T) {
	got, err := NewTagParser("orm").ParseTag("Field", `db:"ignored" orm:"kept"`)
	require.NoError(t, err)
	assert.Equal(t, "kept", got.ColumnName)
}

func TestNamingStrategies(t *testing.T) {
	tests := []struct {
		name       string
		s          NamingStrategy
		field      string
		wantColumn string
		class      string
		wantTable  string
	}{
		{"Verbatim", Verbatim(), "UserID", "UserID", "OrderLine", "OrderLine"},
		{"SnakeCase", SnakeCase(), "UserID", "user_id", "OrderLine", "order_line"},
		{"SnakeCasePlural", SnakeCasePlural(), "HTTPServer", "http_server", "Category", "categories"},
		{"Plural", Plural(), "Name", "Name", "Person", "People"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantColumn, tt.s.ColumnName(tt.field))
			assert.Equal(t, tt.wantTable, tt.s.TableName(tt.class))
		})
	}
}

func TestInferDbType(t *testing.T) {
	var s *string
	tests := []struct {
		value    any
		expected DbType
	}{
		{int64(1), DbInt64},
		{1, DbInt64},
		{int32(1), DbInt32},
		{1.5, DbDouble},
		{"x", DbString},
		{s, DbString},
		{true, DbBoolean},
		{[]byte("x"), DbBinary},
		{struct{}{}, DbObject},
		{nil, DbUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, InferDbTypeOf(tt.value), "%T", tt.value)
	}

	d, ok := ParseDbType(" varchar(255) ")
	require.True(t, ok)
	assert.Equal(t, DbString, d)
	_, ok = ParseDbType("geometry")
	assert.False(t, ok)
	assert.Equal(t, "Decimal", DbDecimal.String())
}
