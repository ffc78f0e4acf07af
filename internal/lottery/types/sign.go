package types

import "encoding/binary"

const drawSignDomain = "lottery/draw/v1"

// DrawSignBytes returns the message a caller signs to authorize req.
//
// signBytes = DOMAIN || 0x00 || le32(len ns) || ns || le64(nonce) || caller(32)
//             || le32(len uid) || uid || participant(32)
func DrawSignBytes(namespace string, req DrawRequest, nonce uint64) []byte {
	out := make([]byte, 0, len(drawSignDomain)+1+4+len(namespace)+8+2*IdentitySize+4+len(req.UID))
	out = append(out, drawSignDomain...)
	out = append(out, 0)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(namespace)))
	out = append(out, namespace...)
	out = binary.LittleEndian.AppendUint64(out, nonce)
	out = append(out, req.Caller[:]...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(req.UID)))
	out = append(out, req.UID...)
	out = append(out, req.Participant[:]...)
	return out
}
