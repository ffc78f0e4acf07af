package types

import (
	"encoding/json"
	"fmt"

	errorsmod "cosmossdk.io/errors"
)

// LotteryResult is the per-caller record holding the most recent draw.
type LotteryResult struct {
	UID       string `json:"uid,omitempty"`
	Value     uint32 `json:"value"`
	Timestamp int64  `json:"timestamp,omitempty"` // unix seconds
}

func (r LotteryResult) Validate() error {
	if len(r.UID) > MaxUIDLen {
		return ErrUidTooLong
	}
	if r.Value == 0 || uint64(r.Value) > RangeMax {
		return fmt.Errorf("value %d out of range [1, %d]", r.Value, RangeMax)
	}
	return nil
}

func MarshalResult(r LotteryResult) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(r)
}

func UnmarshalResult(bz []byte) (LotteryResult, error) {
	var r LotteryResult
	if err := json.Unmarshal(bz, &r); err != nil {
		return LotteryResult{}, errorsmod.Wrapf(ErrStorage, "decode result: %v", err)
	}
	return r, nil
}

// DrawRequest is one invocation of the draw operation. It is never persisted.
type DrawRequest struct {
	Caller Identity
	UID    string
	// Participant is an extra entropy contributor chosen by the caller. It is
	// not trusted for unpredictability against a colluding caller.
	Participant Identity
}

// ValidateUID checks the uid length bound.
func ValidateUID(uid string) error {
	if len(uid) > MaxUIDLen {
		return errorsmod.Wrapf(ErrUidTooLong, "got %d bytes", len(uid))
	}
	return nil
}

// Proof is the caller's authorization for a request: an ed25519 signature
// over DrawSignBytes of the request at Nonce.
type Proof struct {
	Nonce     uint64
	Signature []byte
}

func (p *Proof) Present() bool {
	return p != nil && len(p.Signature) > 0
}
