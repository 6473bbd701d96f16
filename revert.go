package sheetkit

import (
	"github.com/reoring/sheetkit/codec"
	"github.com/reoring/sheetkit/schema"
)

// revertRecord walks the descriptor set over an application record and
// produces the outbound row. A field that is neither present in the record
// nor (when applyDefaults is set) covered by a descriptor default is omitted
// from the row entirely; omitted fields are never sent, which is what makes
// partial updates keep the remote's existing values. Nested object fields
// flatten: their sub-row merges into the parent row under the nested column
// names. Object defaults are not auto-expanded; only a present nested record
// recurses.
func revertRecord(rec Record, fs schema.Fields, applyDefaults bool) Row {
	row := make(Row, len(fs))
	for name, f := range fs {
		col := f.Column(name)
		switch f.Kind {
		case schema.KindObject:
			if len(f.Object) == 0 {
				continue
			}
			sub, ok := asRecord(rec[name])
			if !ok {
				continue
			}
			for k, v := range revertRecord(sub, f.Object, applyDefaults) {
				row[k] = v
			}
		case schema.KindArray:
			v, present := fieldValue(rec, name)
			if !present && !(applyDefaults && f.HasDefault()) {
				continue
			}
			if s, ok := codec.EncodeArray(f, v, present); ok {
				row[col] = s
			}
		default:
			v, present := fieldValue(rec, name)
			if !present && !(applyDefaults && f.HasDefault()) {
				continue
			}
			if s, ok := codec.EncodeScalar(f, v, present); ok {
				row[col] = s
			}
		}
	}
	return row
}

// fieldValue treats an explicit nil the same as a missing entry: both mean
// "absent" to the conversion contract.
func fieldValue(rec Record, name string) (any, bool) {
	v, ok := rec[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func asRecord(v any) (Record, bool) {
	switch t := v.(type) {
	case Record:
		return t, true
	case map[string]any:
		return t, true
	}
	return nil, false
}
