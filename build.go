package sheetkit

import (
	"strings"

	json "github.com/goccy/go-json"

	"github.com/reoring/sheetkit/codec"
	"github.com/reoring/sheetkit/schema"
)

// buildRecord walks the descriptor set over one remote row and produces the
// application record. Fields whose column is missing from the row are left
// out of the result entirely; that absence is the caller's signal that the
// remote had nothing for them. Object fields recurse against the same row:
// nested fields live flat in the remote row, keyed by their own column names.
func buildRecord(o codec.Options, item map[string]any, fs schema.Fields) Record {
	rec := make(Record, len(fs))
	for name, f := range fs {
		switch f.Kind {
		case schema.KindObject:
			if len(f.Object) == 0 {
				continue
			}
			rec[name] = buildRecord(o, item, f.Object)
		case schema.KindArray:
			cell, ok := item[f.Column(name)]
			if !ok {
				continue
			}
			raw, present := cellString(cell)
			rec[name] = codec.DecodeArray(f, raw, present, o)
		default:
			cell, ok := item[f.Column(name)]
			if !ok {
				continue
			}
			raw, present := cellString(cell)
			if !present {
				continue
			}
			if v, ok := codec.DecodeScalar(f, raw, o); ok {
				rec[name] = v
			}
		}
	}
	return rec
}

// cellString normalizes one raw cell into the string the codecs consume.
// Rich-link cells (a JSON object carrying Url and LinkText) collapse to just
// the URL. Blank strings normalize to absent so a blank remote cell behaves
// like a missing one, not like an explicit empty value. Non-string scalars
// stringify generically.
func cellString(cell any) (string, bool) {
	switch s := cell.(type) {
	case string:
		if strings.Contains(s, "Url") && strings.Contains(s, "LinkText") {
			if u, ok := richLinkURL(s); ok {
				return u, true
			}
		}
		if strings.TrimSpace(s) == "" {
			return "", false
		}
		return s, true
	case nil:
		return "", false
	}
	return codec.Stringify(cell), true
}

func richLinkURL(s string) (string, bool) {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return "", false
	}
	u, ok := m["Url"].(string)
	if !ok {
		return "", false
	}
	if _, ok := m["LinkText"]; !ok {
		return "", false
	}
	return u, true
}
