package types

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDrawSignBytes_Layout(t *testing.T) {
	var caller, participant Identity
	caller[0], participant[31] = 0x11, 0x22
	req := DrawRequest{Caller: caller, UID: "ROUND-7", Participant: participant}

	var buf bytes.Buffer
	buf.WriteString("lottery/draw/v1")
	buf.WriteByte(0)
	var n4 [4]byte
	binary.LittleEndian.PutUint32(n4[:], 7)
	buf.Write(n4[:])
	buf.WriteString("lottery")
	var n8 [8]byte
	binary.LittleEndian.PutUint64(n8[:], 9)
	buf.Write(n8[:])
	buf.Write(caller[:])
	binary.LittleEndian.PutUint32(n4[:], 7)
	buf.Write(n4[:])
	buf.WriteString("ROUND-7")
	buf.Write(participant[:])

	require.Equal(t, buf.Bytes(), DrawSignBytes("lottery", req, 9))
}

func TestDrawSignBytes_BindsEveryField(t *testing.T) {
	var caller, other Identity
	caller[0], other[0] = 0x01, 0x02
	req := DrawRequest{Caller: caller, UID: "A"}
	base := DrawSignBytes("lottery", req, 1)

	variants := map[string][]byte{
		"namespace":   DrawSignBytes("lottery2", req, 1),
		"nonce":       DrawSignBytes("lottery", req, 2),
		"caller":      DrawSignBytes("lottery", DrawRequest{Caller: other, UID: "A"}, 1),
		"uid":         DrawSignBytes("lottery", DrawRequest{Caller: caller, UID: "B"}, 1),
		"participant": DrawSignBytes("lottery", DrawRequest{Caller: caller, UID: "A", Participant: other}, 1),
	}
	for name, got := range variants {
		require.NotEqual(t, base, got, name)
	}

	// Length prefixes keep namespace and uid boundaries unambiguous.
	require.NotEqual(t,
		DrawSignBytes("ab", DrawRequest{UID: "c"}, 0),
		DrawSignBytes("a", DrawRequest{UID: "bc"}, 0),
	)
}
