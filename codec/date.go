package codec

import (
	"time"

	"github.com/araddon/dateparse"
)

// dateLayouts is the fixed ordered list of accepted date inputs. The first
// layout that parses wins.
var dateLayouts = []string{
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
}

// dateWireLayout is the outbound date format. Encoding uses the calendar
// fields of the time value as-is; it does not shift into the configured
// timezone. That asymmetry matches the wire contract and is pinned by tests.
const dateWireLayout = "2006-01-02 15:04:05"

func decodeDate(raw string, o Options) (any, bool) {
	loc := o.location()
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	if o.Lenient {
		if t, err := dateparse.ParseIn(raw, loc); err == nil {
			return t, true
		}
	}
	return nil, false
}

// encodeDate renders a time value in the wire layout. String values pass
// through verbatim so callers can hand over pre-formatted dates (including
// string defaults); anything else is absent.
func encodeDate(v any) (string, bool) {
	switch t := v.(type) {
	case time.Time:
		return t.Format(dateWireLayout), true
	case *time.Time:
		if t == nil {
			return "", false
		}
		return t.Format(dateWireLayout), true
	case string:
		return t, true
	}
	return "", false
}
