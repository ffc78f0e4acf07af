// Package entropy turns weakly trusted inputs into an unbiased draw.
//
// A draw is built in three steps: Collect assembles the ordered entropy
// bundle, a Mixer (DoubleSHA256 in production) folds it into a digest, and a
// Reducer maps the digest into [1, n] by rejection sampling.
package entropy

import (
	"lotteryd/internal/lottery/types"
)

// Time is one reading of the host chain's clock.
type Time struct {
	Slot      uint64
	Timestamp int64
}

// Bundle is the ordered list of byte segments hashed for one attempt.
// Segment order is part of the output and must not change.
type Bundle [][]byte

// Bytes returns the in-order concatenation of all segments.
func (b Bundle) Bytes() []byte {
	return concatBytes(b...)
}

// Collect assembles the entropy bundle for req.
//
// Segments, in order: namespace, caller, slot (u64 LE), timestamp (i64 LE),
// uid, result key, participant, oracle digest. The result key binds the output
// to the record it will be written to.
func Collect(namespace string, req types.DrawRequest, now Time, oracleDigest []byte, resultKey [32]byte) (Bundle, error) {
	if err := types.ValidateUID(req.UID); err != nil {
		return nil, err
	}
	return Bundle{
		[]byte(namespace),
		append([]byte(nil), req.Caller[:]...),
		u64le(now.Slot),
		i64le(now.Timestamp),
		[]byte(req.UID),
		append([]byte(nil), resultKey[:]...),
		append([]byte(nil), req.Participant[:]...),
		append([]byte(nil), oracleDigest...),
	}, nil
}

// RetryBundle is the input of a re-mix after a rejected digest. The attempt
// counter keeps successive digests distinct even when the clock has not moved.
func RetryBundle(prev Digest, now Time, attempt uint64) Bundle {
	return Bundle{
		append([]byte(nil), prev[:]...),
		u64le(now.Slot),
		i64le(now.Timestamp),
		u64le(attempt),
	}
}
