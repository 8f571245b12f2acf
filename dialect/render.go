package dialect

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

func hexBlob(b []byte) string { return fmt.Sprintf("X'%x'", b) }

// byteaLiteral is the PostgreSQL hex bytea literal.
func byteaLiteral(b []byte) string { return fmt.Sprintf("E'\\\\x%x'", b) }

func renderValue(v any, blob func([]byte) string) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'"
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", val)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val)
	case float32, float64:
		return strconv.FormatFloat(reflect.ValueOf(val).Float(), 'f', -1, 64)
	case time.Time:
		return "'" + val.Format("2006-01-02 15:04:05.000000") + "'"
	case []byte:
		return blob(val)
	case fmt.Stringer:
		return "'" + strings.ReplaceAll(val.String(), "'", "''") + "'"
	default:
		return "'" + strings.ReplaceAll(fmt.Sprint(val), "'", "''") + "'"
	}
}
