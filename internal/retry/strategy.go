// Package retry adds bounded retries to HTTP fetches of heightmap
// sources. Only the transport retries; the diff pipeline above it still
// sees a single success or failure per source.
package retry

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"golang.org/x/exp/constraints"
)

// Strategy yields the delay before the given retry attempt and whether
// the retry budget is exhausted.
type Strategy interface {
	Sleep(uint) (time.Duration, bool)
}

type noRetry struct{}

// NewNever returns a strategy that refuses every retry. A Transport
// without an explicit strategy falls back to it.
func NewNever() *noRetry {
	return &noRetry{}
}

func (nr *noRetry) Sleep(n uint) (time.Duration, bool) {
	return 0, true
}

// Entropy draws a jittered delay in [0, n). Production uses
// rand.Int63n; tests inject a deterministic function.
type Entropy func(int64) int64

type exponentialBackOff struct {
	base          time.Duration
	max           time.Duration
	maxRetryCount uint
	entropy       Entropy
}

// NewExponentialBackOff doubles the delay each attempt, capped at max,
// until maxRetryCount attempts have been spent. A nil entropy means
// full jitter over the computed delay.
func NewExponentialBackOff(base time.Duration, max time.Duration, maxRetryCount uint, entropy Entropy) *exponentialBackOff {
	return &exponentialBackOff{
		base:          base,
		max:           max,
		maxRetryCount: maxRetryCount,
		entropy:       entropy,
	}
}

func (eb *exponentialBackOff) Sleep(retryCount uint) (time.Duration, bool) {
	if retryCount >= eb.maxRetryCount {
		return 0, true
	}
	entropy := eb.jitter()

	// 1<<retryCount no longer fits in int64 from 63 on. Treat that and
	// a multiplication overflow alike: the delay saturated at max.
	if retryCount >= 63 {
		return time.Duration(entropy(min(math.MaxInt64, int64(eb.max)))), false
	}

	delay, err := mulInt64(1<<retryCount, int64(eb.base))
	if err != nil {
		return time.Duration(entropy(min(math.MaxInt64, int64(eb.max)))), false
	}
	return time.Duration(entropy(min(delay, int64(eb.max)))), false
}

func (eb *exponentialBackOff) jitter() Entropy {
	if eb.entropy == nil {
		return rand.Int63n
	}
	return eb.entropy
}

func min[T constraints.Ordered](l T, r T) T {
	if l > r {
		return r
	}
	return l
}

var errOverflow = errors.New("overflow")

func mulInt64(l int64, r int64) (int64, error) {
	if l == 0 || r == 0 {
		return l * r, nil
	}
	if l > math.MaxInt64/r {
		return 0, errOverflow
	}
	return l * r, nil
}
