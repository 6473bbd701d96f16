// Package schema declares the field descriptors a table handle is built from.
//
// A Fields map describes one logical record shape: each entry names a logical
// field and carries a Field descriptor telling the conversion layer which
// remote column the field lives in, which codec applies, and what to do when
// the field is missing. Descriptors form a small tagged variant over scalar,
// array and object kinds instead of a duck-typed property bag, so conversion
// code can switch exhaustively on Kind.
package schema

import (
	"sort"

	"github.com/google/uuid"
)

// Kind identifies the codec a field uses on the wire.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindString
	KindNumber
	KindInteger
	KindBool
	KindDate
	KindArray
	KindObject
)

var kindNames = map[Kind]string{
	KindString:  "string",
	KindNumber:  "number",
	KindInteger: "integer",
	KindBool:    "boolean",
	KindDate:    "date",
	KindArray:   "array",
	KindObject:  "object",
}

// String returns the wire-format name of the kind ("boolean", "date", ...).
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "invalid"
}

// KindOf maps a descriptor type name to its Kind. The second result reports
// whether the name is known.
func KindOf(name string) (Kind, bool) {
	switch name {
	case "string":
		return KindString, true
	case "number":
		return KindNumber, true
	case "integer":
		return KindInteger, true
	case "boolean", "bool":
		return KindBool, true
	case "date", "datetime":
		return KindDate, true
	case "array":
		return KindArray, true
	case "object":
		return KindObject, true
	}
	return KindInvalid, false
}

// Field describes one logical field of a record.
//
// Default is always a thunk: literal defaults are wrapped at construction time
// so the conversion layer calls one uniform contract. A nil Default means the
// descriptor carries no default.
type Field struct {
	Kind    Kind
	Key     string     // Remote column name; empty means "use the logical field name".
	Primary bool       // Marks the record's unique identifier.
	Default func() any // Applied when the field is absent during revert.
	Item    Kind       // Element kind for KindArray fields.
	Object  Fields     // Nested descriptors for KindObject fields.
}

// Column resolves the remote column name for a field declared under the given
// logical name.
func (f Field) Column(name string) string {
	if f.Key != "" {
		return f.Key
	}
	return name
}

// HasDefault reports whether the descriptor carries a default.
func (f Field) HasDefault() bool { return f.Default != nil }

// ---- descriptor builders ----

// String returns a string field descriptor.
func String() Field { return Field{Kind: KindString} }

// Number returns a float field descriptor.
func Number() Field { return Field{Kind: KindNumber} }

// Integer returns an integer field descriptor.
func Integer() Field { return Field{Kind: KindInteger} }

// Bool returns a boolean field descriptor.
func Bool() Field { return Field{Kind: KindBool} }

// Date returns a date field descriptor.
func Date() Field { return Field{Kind: KindDate} }

// Array returns an array field descriptor whose elements decode with the
// given item kind. Item kinds are limited to string, number, integer and date.
func Array(item Kind) Field { return Field{Kind: KindArray, Item: item} }

// Object returns a nested object descriptor. Nested fields live flat in the
// remote row alongside top-level ones, keyed by their own column names.
func Object(fields Fields) Field { return Field{Kind: KindObject, Object: fields} }

// WithKey overrides the remote column name.
func (f Field) WithKey(key string) Field {
	f.Key = key
	return f
}

// AsPrimary marks the field as the record's unique identifier. A schema must
// carry exactly one primary field for FindByID/Update/Delete to work.
func (f Field) AsPrimary() Field {
	f.Primary = true
	return f
}

// WithDefault attaches a literal default, wrapped into a thunk.
func (f Field) WithDefault(v any) Field {
	f.Default = func() any { return v }
	return f
}

// WithDefaultFunc attaches a generator default, invoked each time the default
// is applied.
func (f Field) WithDefaultFunc(fn func() any) Field {
	f.Default = fn
	return f
}

// UUID is a generator default producing a fresh UUID string, handy for
// primary key fields: schema.String().AsPrimary().WithDefaultFunc(schema.UUID).
func UUID() any { return uuid.New().String() }

// Fields maps logical field names to descriptors. It is treated as immutable
// once handed to a table.
type Fields map[string]Field

// PrimaryKey returns the logical name and descriptor of the single field
// marked primary. It fails with ErrNoPrimaryKey when none is marked and with
// a MultiplePrimaryKeysError when more than one is: a first-wins pick over an
// unordered map would be nondeterministic.
func (fs Fields) PrimaryKey() (string, Field, error) {
	var names []string
	for name, f := range fs {
		if f.Primary {
			names = append(names, name)
		}
	}
	switch len(names) {
	case 0:
		return "", Field{}, ErrNoPrimaryKey
	case 1:
		return names[0], fs[names[0]], nil
	}
	sort.Strings(names)
	return "", Field{}, &MultiplePrimaryKeysError{Names: names}
}
