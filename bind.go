package sheetkit

import (
	"github.com/mitchellh/mapstructure"
)

// Bind decodes a record into a caller struct. Field mapping follows the
// `sheet` struct tag, falling back to case-insensitive field-name matching.
//
//	type User struct {
//		ID   string `sheet:"id"`
//		Age  int64  `sheet:"age"`
//	}
//	var u User
//	err := sheetkit.Bind(rec, &u)
//
// Absent record fields leave the struct fields at their zero values; Bind
// cannot preserve the absent/zero distinction, so callers that need it should
// keep working with Record.
func Bind(rec Record, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "sheet",
	})
	if err != nil {
		return err
	}
	return dec.Decode(map[string]any(rec))
}

// Unbind converts a caller struct into a record using the same `sheet` tag
// mapping, for handing typed values to Create/Update/Delete.
func Unbind(v any) (Record, error) {
	var m map[string]any
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &m,
		TagName: "sheet",
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(v); err != nil {
		return nil, err
	}
	return Record(m), nil
}
