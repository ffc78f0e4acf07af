package types

import "context"

// TimeSource supplies the current logical time of the host chain.
type TimeSource interface {
	CurrentSlot(ctx context.Context) (uint64, error)
	CurrentTimestamp(ctx context.Context) (int64, error)
}

// EntropyOracle supplies a recent digest that neither the caller nor the
// operator controls.
type EntropyOracle interface {
	RecentDigest(ctx context.Context) ([]byte, error)
}

// SignatureVerifier checks that sig is signer's signature over msg.
type SignatureVerifier interface {
	Verify(signer Identity, msg, sig []byte) bool
}
