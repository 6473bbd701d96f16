package sheetkit

import "time"

// tableConfig carries the per-table slice of the operation configuration.
// It is fixed at Table construction and read-only afterwards.
type tableConfig struct {
	timezone     string // empty means "inherit the client timezone"
	returnRaw    bool
	sendRaw      bool
	maxRetries   int
	retryDelay   time.Duration
	lenientDates bool
}

// TableOption adjusts per-table behavior.
type TableOption func(*tableConfig)

// ReturnRawData skips the build step: operations hand back the remote rows
// untouched instead of converted records.
func ReturnRawData() TableOption { return func(tc *tableConfig) { tc.returnRaw = true } }

// SendRawData skips the revert step: outbound records are sent as-is instead
// of being converted through the schema.
func SendRawData() TableOption { return func(tc *tableConfig) { tc.sendRaw = true } }

// WithRetry bounds the rate-limit retry policy: up to maxRetries additional
// attempts after a 429, waiting delay * attemptNumber between attempts.
func WithRetry(maxRetries int, delay time.Duration) TableOption {
	return func(tc *tableConfig) {
		tc.maxRetries = maxRetries
		tc.retryDelay = delay
	}
}

// WithTableTimezone overrides the connection timezone for this table's date
// parsing and call properties.
func WithTableTimezone(tz string) TableOption { return func(tc *tableConfig) { tc.timezone = tz } }

// WithLenientDates enables format guessing for date inputs the fixed layout
// list rejects. Off by default: the strict ordered layout list is the
// documented wire behavior.
func WithLenientDates() TableOption { return func(tc *tableConfig) { tc.lenientDates = true } }
