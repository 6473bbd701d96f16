package sheetkit

// Record is the caller-facing record shape: logical field names mapped to
// natively typed values (string, int64, float64, bool, time.Time, []any,
// nested Record). A field that was not present in the source simply has no
// entry; absence is how "not set" is surfaced, not an explicit null.
type Record map[string]any

// Row is the flat outbound wire form of one record: remote column names
// mapped to string values. Fields omitted here are not sent at all, so the
// remote side keeps its existing values on partial updates.
type Row map[string]string

// Properties is the opaque per-call options bag forwarded to the remote API
// (Selector expressions, user settings and the like). Locale and Timezone are
// filled from the connection configuration; caller entries win on conflict.
type Properties map[string]any
