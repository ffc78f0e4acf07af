package entropy

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDoubleSHA256_TwoRounds(t *testing.T) {
	b := Bundle{[]byte("a"), []byte("bc"), []byte{}, []byte("d")}

	r1 := sha256.Sum256([]byte("abcd"))
	want := sha256.Sum256(r1[:])

	got := DoubleSHA256{}.Mix(b)
	require.Equal(t, Digest(want), got)
}

func TestDoubleSHA256_DiffersFromSingleRound(t *testing.T) {
	b := Bundle{[]byte("lottery")}
	single := sha256.Sum256([]byte("lottery"))
	require.NotEqual(t, Digest(single), DoubleSHA256{}.Mix(b))
}

func TestDoubleSHA256_Deterministic(t *testing.T) {
	b := Bundle{[]byte("x"), u64le(7)}
	require.Equal(t, DoubleSHA256{}.Mix(b), DoubleSHA256{}.Mix(b))
}

func TestDigest_RawIsLowEightBytesLittleEndian(t *testing.T) {
	var d Digest
	d[0] = 0x01
	d[7] = 0x80
	d[8] = 0xff // outside the low 8 bytes
	require.Equal(t, uint64(0x8000000000000001), d.Raw())
}
