// Package sheetkit is a typed client for row-oriented remote table APIs that
// exchange every value as text. It provides:
//
//   - Schema-driven conversion between wire rows (strings) and typed records
//     (string, number, integer, boolean, date, array, nested object)
//   - Record operations over one call shape: FindByID/Find/Create/Update/Delete
//     and their bulk variants, with primary-key discovery and preconditions
//   - Bounded linear-backoff retry on rate-limited (429) responses
//   - Struct binding for callers who prefer typed records over maps
//
// Design policy:
//
//   - Public API lives in the root package; descriptors under schema/, value
//     codecs under codec/, the request dispatcher under internal/.
//   - Absence propagates distinctly from zero/false/empty throughout the
//     conversion pipeline, so partial updates never resurrect omitted fields.
//   - Conversion is lenient on purpose: unparsable scalars and array elements
//     are dropped, not rejected.
//
// Typical usage:
//
//	client, err := sheetkit.NewClient(sheetkit.Credentials{AppID: id, AccessKey: key})
//	users, err := client.Table("users", schema.Fields{
//		"id":   schema.String().WithKey("User_ID").AsPrimary(),
//		"age":  schema.Integer(),
//		"tags": schema.Array(schema.KindString),
//	})
//	rec, err := users.FindByID(ctx, "123")
package sheetkit
