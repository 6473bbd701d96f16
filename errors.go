package sheetkit

import (
	"errors"
	"fmt"

	"github.com/reoring/sheetkit/internal/wire"
)

// ErrEmptyID reports a FindByID call with an empty identifier.
var ErrEmptyID = errors.New("sheetkit: an id is required to find a record")

// ErrEmptyResponse reports a nominally successful call whose body carried no
// data. It is deliberately distinct from transport failures.
var ErrEmptyResponse = wire.ErrEmptyResponse

// StatusError reports a non-2xx HTTP response, including the rate-limit
// responses that exhausted their retry budget.
type StatusError = wire.StatusError

// MissingKeyError reports a record handed to update/delete without a value
// under the schema's primary key field. Index identifies the offending record
// in bulk operations and is -1 for single-record calls.
type MissingKeyError struct {
	Field string
	Index int
}

func (e *MissingKeyError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("sheetkit: record at index %d has no value for primary key field %q", e.Index, e.Field)
	}
	return fmt.Sprintf("sheetkit: record has no value for primary key field %q", e.Field)
}

// IsRateLimited reports whether err is a 429 response, typically one that
// outlived the retry budget.
func IsRateLimited(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.RateLimited()
}
