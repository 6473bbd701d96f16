package wire

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// linearBackOff waits delay * attemptNumber between attempts: the delay
// scales with the attempt count instead of doubling. backoff.WithMaxRetries
// bounds the attempt budget around it.
type linearBackOff struct {
	delay time.Duration
	n     int64
}

var _ backoff.BackOff = (*linearBackOff)(nil)

func (b *linearBackOff) NextBackOff() time.Duration {
	b.n++
	return time.Duration(b.n) * b.delay
}

func (b *linearBackOff) Reset() { b.n = 0 }
