package entropy

import (
	"fmt"
	"math"
	"math/bits"

	errorsmod "cosmossdk.io/errors"

	"lotteryd/internal/lottery/types"
)

// Reseeder produces the digest for the given attempt (attempt >= 1) after
// prev was rejected.
type Reseeder func(attempt uint64, prev Digest) (Digest, error)

// Reducer maps digests uniformly onto [1, N].
type Reducer struct {
	n           uint64
	maxAttempts int

	// maxSafe = floor(2^64/n)*n. acceptAll is set when n divides 2^64.
	maxSafe   uint64
	acceptAll bool
}

func NewReducer(n uint64, maxAttempts int) (Reducer, error) {
	if n == 0 || n > math.MaxUint32 {
		return Reducer{}, fmt.Errorf("range must be in [1, %d], got %d", uint64(math.MaxUint32), n)
	}
	if maxAttempts <= 0 {
		return Reducer{}, fmt.Errorf("maxAttempts must be > 0")
	}
	r := Reducer{n: n, maxAttempts: maxAttempts}
	if n == 1 {
		r.acceptAll = true
		return r, nil
	}
	q, _ := bits.Div64(1, 0, n)
	hi, lo := bits.Mul64(q, n)
	if hi != 0 {
		r.acceptAll = true
	} else {
		r.maxSafe = lo
	}
	return r, nil
}

// DefaultReducer reduces onto [1, types.RangeMax].
func DefaultReducer() Reducer {
	r, err := NewReducer(types.RangeMax, types.MaxDrawAttempts)
	if err != nil {
		panic(err)
	}
	return r
}

// MaxSafe returns the exclusive acceptance bound. ok is false when every raw
// value is accepted (n divides 2^64).
func (r Reducer) MaxSafe() (bound uint64, ok bool) {
	return r.maxSafe, !r.acceptAll
}

// Accept reports whether raw falls outside the biased tail.
func (r Reducer) Accept(raw uint64) bool {
	return r.acceptAll || raw < r.maxSafe
}

// Reduce returns a value in [1, N] and the number of digests examined.
// reseed is called once per rejected digest; its error aborts the draw.
func (r Reducer) Reduce(d Digest, reseed Reseeder) (uint32, int, error) {
	if r.n == 0 {
		return 0, 0, fmt.Errorf("reducer not initialized")
	}
	for attempt := 1; ; attempt++ {
		raw := d.Raw()
		if r.Accept(raw) {
			return uint32(raw%r.n) + 1, attempt, nil
		}
		if attempt >= r.maxAttempts {
			return 0, attempt, errorsmod.Wrapf(types.ErrEntropyExhausted, "%d digests rejected", attempt)
		}
		if reseed == nil {
			return 0, attempt, errorsmod.Wrap(types.ErrEntropyExhausted, "digest rejected and no reseed source")
		}
		next, err := reseed(uint64(attempt), d)
		if err != nil {
			return 0, attempt, err
		}
		d = next
	}
}
