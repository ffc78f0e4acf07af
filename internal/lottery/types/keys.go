package types

import (
	"crypto/sha256"
	"encoding/binary"
)

const (
	// ModuleName defines the module name.
	ModuleName = "lottery"

	// DefaultNamespace is used when no namespace is configured.
	DefaultNamespace = ModuleName

	// MaxUIDLen is the maximum uid length in bytes.
	MaxUIDLen = 12

	// RangeMax is the upper bound of a draw; values are in [1, RangeMax].
	RangeMax uint64 = 100_000

	// MaxDrawAttempts bounds the rejection-sampling loop of a single draw.
	MaxDrawAttempts = 64

	// RecentHashesLen is the number of block hashes kept for the entropy oracle.
	RecentHashesLen = 16
)

// Keep this domain stable; it is part of every result key.
const resultKeyDomain = "lottery/v1/result"

var (
	// ResultKeyPrefix stores LotteryResult by derived key: ResultKeyPrefix || key(32).
	ResultKeyPrefix = []byte{0x01}

	// NonceKeyPrefix stores the last accepted tx nonce per signer: NonceKeyPrefix || signer.
	NonceKeyPrefix = []byte{0x02}

	// RecentHashesKey stores the recent block hashes, newest first.
	RecentHashesKey = []byte{0x03}
)

// DeriveKey derives the result record key for an identity within a namespace.
// It depends on nothing but its inputs, so repeated draws by the same caller
// always target the same record.
func DeriveKey(namespace string, id Identity) [32]byte {
	h := sha256.New()
	_, _ = h.Write([]byte(resultKeyDomain))

	// Length-prefix each part to avoid ambiguous concatenations.
	var lenBuf [4]byte
	for _, p := range [][]byte{[]byte(namespace), id[:]} {
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(p)))
		_, _ = h.Write(lenBuf[:])
		_, _ = h.Write(p)
	}

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func ResultStoreKey(key [32]byte) []byte {
	bz := make([]byte, 0, len(ResultKeyPrefix)+len(key))
	bz = append(bz, ResultKeyPrefix...)
	return append(bz, key[:]...)
}

func NonceStoreKey(signer Identity) []byte {
	bz := make([]byte, 0, len(NonceKeyPrefix)+IdentitySize)
	bz = append(bz, NonceKeyPrefix...)
	return append(bz, signer[:]...)
}
