package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoPrimaryKey reports a schema without any field marked primary when an
// operation requires one.
var ErrNoPrimaryKey = errors.New("schema: no primary key field declared")

// MultiplePrimaryKeysError reports a schema declaring more than one primary
// field. Names is sorted for stable messages.
type MultiplePrimaryKeysError struct {
	Names []string
}

func (e *MultiplePrimaryKeysError) Error() string {
	return fmt.Sprintf("schema: multiple primary key fields declared: %s", strings.Join(e.Names, ", "))
}
