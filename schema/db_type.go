package schema

import (
	"database/sql"
	"encoding/json"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DbType is the database type inferred for a parameter value.
type DbType uint8

const (
	DbUnknown DbType = iota
	DbBoolean
	DbInt8
	DbInt16
	DbInt32
	DbInt64
	DbUInt8
	DbUInt16
	DbUInt32
	DbUInt64
	DbSingle
	DbDouble
	DbDecimal
	DbString
	DbBinary
	DbDateTime
	DbGuid
	DbJSON
	DbObject
)

var dbTypeNames = [...]string{
	DbUnknown:  "Unknown",
	DbBoolean:  "Boolean",
	DbInt8:     "Int8",
	DbInt16:    "Int16",
	DbInt32:    "Int32",
	DbInt64:    "Int64",
	DbUInt8:    "UInt8",
	DbUInt16:   "UInt16",
	DbUInt32:   "UInt32",
	DbUInt64:   "UInt64",
	DbSingle:   "Single",
	DbDouble:   "Double",
	DbDecimal:  "Decimal",
	DbString:   "String",
	DbBinary:   "Binary",
	DbDateTime: "DateTime",
	DbGuid:     "Guid",
	DbJSON:     "JSON",
	DbObject:   "Object",
}

func (d DbType) String() string {
	if int(d) < len(dbTypeNames) {
		return dbTypeNames[d]
	}
	return "Unknown"
}

var (
	timeType        = reflect.TypeOf(time.Time{})
	uuidType        = reflect.TypeOf(uuid.UUID{})
	bytesType       = reflect.TypeOf([]byte{})
	rawMessageType  = reflect.TypeOf(json.RawMessage{})
	nullStringType  = reflect.TypeOf(sql.NullString{})
	nullInt64Type   = reflect.TypeOf(sql.NullInt64{})
	nullInt32Type   = reflect.TypeOf(sql.NullInt32{})
	nullFloat64Type = reflect.TypeOf(sql.NullFloat64{})
	nullBoolType    = reflect.TypeOf(sql.NullBool{})
	nullTimeType    = reflect.TypeOf(sql.NullTime{})
)

// InferDbType maps a Go type to a DbType. Pointers are dereferenced.
func InferDbType(t reflect.Type) DbType {
	if t == nil {
		return DbUnknown
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t {
	case timeType, nullTimeType:
		return DbDateTime
	case uuidType:
		return DbGuid
	case bytesType:
		return DbBinary
	case rawMessageType:
		return DbJSON
	case nullStringType:
		return DbString
	case nullInt64Type:
		return DbInt64
	case nullInt32Type:
		return DbInt32
	case nullFloat64Type:
		return DbDouble
	case nullBoolType:
		return DbBoolean
	}

	switch t.Kind() {
	case reflect.Bool:
		return DbBoolean
	case reflect.Int8:
		return DbInt8
	case reflect.Int16:
		return DbInt16
	case reflect.Int32:
		return DbInt32
	case reflect.Int, reflect.Int64:
		return DbInt64
	case reflect.Uint8:
		return DbUInt8
	case reflect.Uint16:
		return DbUInt16
	case reflect.Uint32:
		return DbUInt32
	case reflect.Uint, reflect.Uint64:
		return DbUInt64
	case reflect.Float32:
		return DbSingle
	case reflect.Float64:
		return DbDouble
	case reflect.String:
		return DbString
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return DbBinary
		}
	}
	return DbObject
}

// InferDbTypeOf infers the DbType of a value; nil is DbUnknown.
func InferDbTypeOf(v any) DbType {
	if v == nil {
		return DbUnknown
	}
	return InferDbType(reflect.TypeOf(v))
}

// sqlTypeMap maps declared SQL type names (as written in a `type:` tag) to DbType.
var sqlTypeMap = map[string]DbType{
	// Character types
	"CHAR": DbString, "VARCHAR": DbString, "TEXT": DbString, "CLOB": DbString,
	"NCHAR": DbString, "NVARCHAR": DbString, "NTEXT": DbString,
	"CHARACTER": DbString, "CHARACTER VARYING": DbString,

	// Integers
	"TINYINT": DbInt8, "SMALLINT": DbInt16, "MEDIUMINT": DbInt32,
	"INT": DbInt32, "INTEGER": DbInt32, "BIGINT": DbInt64,
	"SERIAL": DbInt32, "BIGSERIAL": DbInt64,

	// Floating point and exact numerics
	"REAL": DbSingle, "FLOAT": DbDouble, "DOUBLE": DbDouble, "DOUBLE PRECISION": DbDouble,
	"DECIMAL": DbDecimal, "NUMERIC": DbDecimal, "MONEY": DbDecimal,

	// Other
	"BOOLEAN": DbBoolean, "BOOL": DbBoolean, "BIT": DbBoolean,
	"DATE": DbDateTime, "DATETIME": DbDateTime, "DATETIME2": DbDateTime,
	"TIMESTAMP": DbDateTime, "TIMESTAMPTZ": DbDateTime,
	"BLOB": DbBinary, "BYTEA": DbBinary, "VARBINARY": DbBinary, "BINARY": DbBinary,
	"UUID": DbGuid, "UNIQUEIDENTIFIER": DbGuid,
	"JSON": DbJSON, "JSONB": DbJSON,
}

// ParseDbType maps a SQL type name such as "varchar(255)" to a DbType.
func ParseDbType(sqlType string) (DbType, bool) {
	name := strings.ToUpper(strings.TrimSpace(sqlType))
	if idx := strings.IndexByte(name, '('); idx != -1 {
		name = strings.TrimSpace(name[:idx])
	}
	d, ok := sqlTypeMap[name]
	return d, ok
}
