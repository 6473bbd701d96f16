// Package codec implements the per-kind value conversions between the wire
// representation (strings) and native values.
//
// Decode functions report absence through a second boolean result instead of
// an error: the conversion contract is deliberately lenient, and a value that
// fails to parse is dropped by the caller rather than rejected. Callers that
// need "field was not present" to stay distinct from "present with a zero
// value" rely on that boolean, so decoders never substitute zero values for
// unparsable input.
package codec

import (
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// Delimiter separates array elements on the wire: a comma surrounded by
// single spaces.
const Delimiter = " , "

// Options carries the conversion-relevant slice of the operation
// configuration.
type Options struct {
	// Location is the timezone date inputs are interpreted in. Nil means UTC.
	// Encoding ignores it: an encoded date uses the calendar fields of the
	// time value itself.
	Location *time.Location
	// Lenient enables a format-guessing fallback for date inputs the fixed
	// layout list rejects.
	Lenient bool
}

func (o Options) location() *time.Location {
	if o.Location != nil {
		return o.Location
	}
	return time.UTC
}

// Stringify renders a native value the way the wire expects scalars: plain
// base-10 numbers, "true"/"false" booleans, the date wire layout for times.
func Stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.FormatInt(int64(t), 10)
	case int8:
		return strconv.FormatInt(int64(t), 10)
	case int16:
		return strconv.FormatInt(int64(t), 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint8:
		return strconv.FormatUint(uint64(t), 10)
	case uint16:
		return strconv.FormatUint(uint64(t), 10)
	case uint32:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.Format(dateWireLayout)
	case fmt.Stringer:
		return t.String()
	case nil:
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// truthy mirrors loose boolean coercion: zero numbers, empty strings and nil
// are false, everything else (including empty slices and maps) is true.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int8:
		return t != 0
	case int16:
		return t != 0
	case int32:
		return t != 0
	case int64:
		return t != 0
	case uint:
		return t != 0
	case uint8:
		return t != 0
	case uint16:
		return t != 0
	case uint32:
		return t != 0
	case uint64:
		return t != 0
	case float32:
		return t != 0
	case float64:
		return t != 0
	}
	return true
}

// toSlice converts any slice or array value into []any. The second result is
// false for non-sequence values.
func toSlice(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if arr, ok := v.([]any); ok {
		return arr, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
