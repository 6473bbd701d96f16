package codec

import (
	"strconv"
	"strings"

	"github.com/reoring/sheetkit/schema"
)

// trueWords is the literal set of wire strings that decode to true. Any other
// defined input decodes to false; bool decoding is total over defined input.
var trueWords = map[string]bool{
	"true": true,
	"1":    true,
	"yes":  true,
	"on":   true,
	"y":    true,
}

// DecodeScalar converts one wire cell into a native value according to the
// field kind. The second result is false when the input does not parse;
// unknown kinds pass the raw string through unchanged.
func DecodeScalar(f schema.Field, raw string, o Options) (any, bool) {
	switch f.Kind {
	case schema.KindString:
		return raw, true
	case schema.KindBool:
		return trueWords[strings.ToLower(raw)], true
	case schema.KindInteger:
		return decodeInteger(raw)
	case schema.KindNumber:
		return decodeNumber(raw)
	case schema.KindDate:
		return decodeDate(raw, o)
	}
	return raw, true
}

// EncodeScalar converts one native value back into its wire string. When
// present is false the descriptor default takes over (invoked if it is a
// generator); without a default the result is absent. Unknown kinds pass a
// present value through via plain stringification.
func EncodeScalar(f schema.Field, v any, present bool) (string, bool) {
	if !present {
		if !f.HasDefault() {
			return "", false
		}
		v = f.Default()
		if v == nil {
			return "", false
		}
	}
	switch f.Kind {
	case schema.KindString:
		return Stringify(v), true
	case schema.KindBool:
		return strconv.FormatBool(truthy(v)), true
	case schema.KindInteger:
		n, ok := parseIntegerPrefix(Stringify(v))
		if !ok {
			return "", false
		}
		return strconv.FormatInt(n, 10), true
	case schema.KindNumber:
		fl, ok := parseNumber(Stringify(v))
		if !ok {
			return "", false
		}
		return strconv.FormatFloat(fl, 'f', -1, 64), true
	case schema.KindDate:
		return encodeDate(v)
	}
	if present {
		return Stringify(v), true
	}
	return "", false
}

func decodeInteger(raw string) (any, bool) {
	n, ok := parseIntegerPrefix(raw)
	if !ok {
		return nil, false
	}
	return n, true
}

func decodeNumber(raw string) (any, bool) {
	fl, ok := parseNumber(raw)
	if !ok {
		return nil, false
	}
	return fl, true
}

// parseIntegerPrefix reads a base-10 integer from the front of the input, so
// decimals truncate toward zero ("3.9" parses as 3, "-3.9" as -3). No leading
// digits means no value.
func parseIntegerPrefix(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	j := i
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == i {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:j], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseNumber(s string) (float64, bool) {
	fl, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return fl, true
}
