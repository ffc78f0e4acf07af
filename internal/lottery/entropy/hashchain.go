package entropy

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// DigestSize is the output size of the hash chain.
const DigestSize = sha256.Size

type Digest [DigestSize]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Raw returns the low 8 bytes of d as a little-endian u64.
func (d Digest) Raw() uint64 {
	return binary.LittleEndian.Uint64(d[:8])
}

// Mixer folds a bundle into a fixed-size digest.
type Mixer interface {
	Mix(b Bundle) Digest
}

// DoubleSHA256 hashes the concatenated bundle, then hashes the 32-byte result
// again. The second round sees only the fully mixed round-one output.
type DoubleSHA256 struct{}

var _ Mixer = DoubleSHA256{}

func (DoubleSHA256) Mix(b Bundle) Digest {
	h := sha256.New()
	for _, seg := range b {
		_, _ = h.Write(seg)
	}
	round1 := h.Sum(nil)
	return sha256.Sum256(round1)
}
