package types

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// IdentitySize is the length of a caller identity (an ed25519 public key).
const IdentitySize = ed25519.PublicKeySize

// Identity is the fixed-length public identifier of a requester.
type Identity [IdentitySize]byte

// ParseIdentity decodes a hex identity, with or without a 0x prefix.
func ParseIdentity(s string) (Identity, error) {
	if s == "" {
		return Identity{}, fmt.Errorf("identity: empty string")
	}
	ss := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	if len(ss)%2 != 0 {
		return Identity{}, fmt.Errorf("identity: odd length")
	}
	b, err := hex.DecodeString(ss)
	if err != nil {
		return Identity{}, fmt.Errorf("identity: %w", err)
	}
	return IdentityFromBytes(b)
}

func IdentityFromBytes(b []byte) (Identity, error) {
	var id Identity
	if len(b) != IdentitySize {
		return id, fmt.Errorf("identity must be %d bytes, got %d", IdentitySize, len(b))
	}
	copy(id[:], b)
	return id, nil
}

func (id Identity) String() string {
	return hex.EncodeToString(id[:])
}

func (id Identity) IsZero() bool {
	return id == Identity{}
}

func (id Identity) PublicKey() ed25519.PublicKey {
	return ed25519.PublicKey(append([]byte(nil), id[:]...))
}

func (id Identity) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

func (id *Identity) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseIdentity(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
