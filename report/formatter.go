package report

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"shiftreport/internal/timeutil"
)

const (
	highlightOpen  = `<span style="color:red!important">`
	highlightClose = `</span>`
)

// FormatFunc produces the display string of one cell.
type FormatFunc func(value any, row []any, column Column, data Row) string

// Format is the shift attendance cell formatter. It renders value with base
// and wraps in_time for late entries and out_time for early exits in a red
// marker. Rows without data, such as total rows, are never highlighted.
func Format(value any, row []any, column Column, data Row, base FormatFunc) string {
	if base == nil {
		base = PlainFormatter
	}
	formatted := base(value, row, column, data)
	if Highlighted(column, data) {
		return highlightOpen + formatted + highlightClose
	}
	return formatted
}

// Highlighted reports whether Format marks the cell. Writers that cannot
// carry markup use it to style cells their own way.
func Highlighted(column Column, data Row) bool {
	if data == nil {
		return false
	}
	switch column.Fieldname {
	case FieldInTime:
		return Truthy(data[FieldLateEntry])
	case FieldOutTime:
		return Truthy(data[FieldEarlyExit])
	default:
		return false
	}
}

// Truthy treats nil, false, numeric zero, NaN, empty strings and nil
// references as false and every other value as true.
func Truthy(value any) bool {
	if value == nil {
		return false
	}
	if b, ok := value.(bool); ok {
		return b
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.String:
		return rv.Len() != 0
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	default:
		return true
	}
}

// PlainFormatter renders a cell value as text without markup.
func PlainFormatter(value any, _ []any, column Column, _ Row) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		if v.IsZero() {
			return ""
		}
		switch column.Fieldtype {
		case FieldTypeDate:
			return v.Format(timeutil.DateLayout)
		case FieldTypeTime:
			return v.Format(timeutil.ClockLayout)
		default:
			return v.Format(timeutil.DateTimeLayout)
		}
	case bool:
		if v {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
