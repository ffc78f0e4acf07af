package entropy

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"lotteryd/internal/lottery/types"
)

func testIdentity(b byte) types.Identity {
	var id types.Identity
	for i := range id {
		id[i] = b
	}
	return id
}

func TestCollect_SegmentOrder(t *testing.T) {
	req := types.DrawRequest{
		Caller:      testIdentity(0x0a),
		UID:         "ABC",
		Participant: testIdentity(0x0b),
	}
	oracle := bytes.Repeat([]byte{0xd0}, 32)
	resultKey := types.DeriveKey("lottery", req.Caller)

	b, err := Collect("lottery", req, Time{Slot: 10, Timestamp: 1000}, oracle, resultKey)
	require.NoError(t, err)
	require.Len(t, b, 8)

	slot := make([]byte, 8)
	binary.LittleEndian.PutUint64(slot, 10)
	ts := make([]byte, 8)
	binary.LittleEndian.PutUint64(ts, 1000)

	require.Equal(t, []byte("lottery"), b[0])
	require.Equal(t, req.Caller[:], b[1])
	require.Equal(t, slot, b[2])
	require.Equal(t, ts, b[3])
	require.Equal(t, []byte("ABC"), b[4])
	require.Equal(t, resultKey[:], b[5])
	require.Equal(t, req.Participant[:], b[6])
	require.Equal(t, oracle, b[7])

	want := concatBytes([]byte("lottery"), req.Caller[:], slot, ts, []byte("ABC"), resultKey[:], req.Participant[:], oracle)
	require.Equal(t, want, b.Bytes())
}

func TestCollect_NegativeTimestampEncoding(t *testing.T) {
	b, err := Collect("ns", types.DrawRequest{Caller: testIdentity(1)}, Time{Slot: 1, Timestamp: -1}, nil, [32]byte{})
	require.NoError(t, err)
	require.Equal(t, bytes.Repeat([]byte{0xff}, 8), b[3])
}

func TestCollect_UidBoundary(t *testing.T) {
	req := types.DrawRequest{Caller: testIdentity(1), UID: strings.Repeat("x", types.MaxUIDLen)}
	_, err := Collect("ns", req, Time{}, nil, [32]byte{})
	require.NoError(t, err)

	req.UID = strings.Repeat("x", types.MaxUIDLen+1)
	b, err := Collect("ns", req, Time{}, nil, [32]byte{})
	require.ErrorIs(t, err, types.ErrUidTooLong)
	require.Nil(t, b)
}

func TestCollect_UidLengthIsBytesNotRunes(t *testing.T) {
	// 5 runes, 15 bytes.
	req := types.DrawRequest{Caller: testIdentity(1), UID: "彩票号码呀"}
	_, err := Collect("ns", req, Time{}, nil, [32]byte{})
	require.ErrorIs(t, err, types.ErrUidTooLong)
}

func TestCollect_CopiesInputs(t *testing.T) {
	oracle := []byte{1, 2, 3}
	b, err := Collect("ns", types.DrawRequest{Caller: testIdentity(1)}, Time{}, oracle, [32]byte{})
	require.NoError(t, err)
	oracle[0] = 9
	require.Equal(t, []byte{1, 2, 3}, b[7])
}

func TestRetryBundle_AttemptCounterChangesDigest(t *testing.T) {
	var prev Digest
	now := Time{Slot: 5, Timestamp: 50}
	m := DoubleSHA256{}

	d1 := m.Mix(RetryBundle(prev, now, 1))
	d2 := m.Mix(RetryBundle(prev, now, 2))
	if d1 == d2 {
		t.Fatalf("expected distinct digests for distinct attempts under a frozen clock")
	}
}
