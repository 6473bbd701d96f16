package codec

import (
	"strings"

	"github.com/reoring/sheetkit/schema"
)

// DecodeArray splits a delimited wire value and decodes each segment with the
// field's item kind. Segments that fail to decode are dropped, so the result
// can be shorter than the number of input segments. The result is never
// absent: an absent input yields the descriptor default when that default is
// itself a sequence, and an empty sequence otherwise. A field without a valid
// item kind decodes every segment to nothing, leaving an empty sequence; that
// is long-standing wire behavior, not something to tighten up.
func DecodeArray(f schema.Field, raw string, present bool, o Options) []any {
	if !present {
		if f.HasDefault() {
			if arr, ok := toSlice(f.Default()); ok {
				return arr
			}
		}
		return []any{}
	}
	segs := strings.Split(raw, Delimiter)
	out := make([]any, 0, len(segs))
	for _, seg := range segs {
		if v, ok := decodeItem(f.Item, strings.TrimSpace(seg), o); ok {
			out = append(out, v)
		}
	}
	return out
}

// EncodeArray joins a native sequence into the delimited wire form. Elements
// go through the item-kind encoder with plain stringification as the
// fallback, so encoding never drops elements. An empty sequence encodes to an
// empty string. A non-sequence value falls through to the default branch: a
// sequence default joins element stringifications, anything else is absent.
func EncodeArray(f schema.Field, v any, present bool) (string, bool) {
	if present {
		if arr, ok := toSlice(v); ok {
			parts := make([]string, len(arr))
			for i, item := range arr {
				if s, ok := encodeItem(f.Item, item); ok {
					parts[i] = s
					continue
				}
				parts[i] = Stringify(item)
			}
			return strings.Join(parts, Delimiter), true
		}
	}
	if !f.HasDefault() {
		return "", false
	}
	arr, ok := toSlice(f.Default())
	if !ok {
		return "", false
	}
	parts := make([]string, len(arr))
	for i, item := range arr {
		parts[i] = Stringify(item)
	}
	return strings.Join(parts, Delimiter), true
}

func decodeItem(item schema.Kind, seg string, o Options) (any, bool) {
	switch item {
	case schema.KindString:
		return seg, true
	case schema.KindNumber:
		return decodeNumber(seg)
	case schema.KindInteger:
		return decodeInteger(seg)
	case schema.KindDate:
		return decodeDate(seg, o)
	}
	return nil, false
}

func encodeItem(item schema.Kind, v any) (string, bool) {
	switch item {
	case schema.KindString:
		return Stringify(v), true
	case schema.KindNumber:
		fl, ok := parseNumber(Stringify(v))
		if !ok {
			return "", false
		}
		return Stringify(fl), true
	case schema.KindInteger:
		n, ok := parseIntegerPrefix(Stringify(v))
		if !ok {
			return "", false
		}
		return Stringify(n), true
	case schema.KindDate:
		return encodeDate(v)
	}
	return "", false
}
