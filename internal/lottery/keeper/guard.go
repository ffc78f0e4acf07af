package keeper

import (
	"crypto/ed25519"

	errorsmod "cosmossdk.io/errors"

	"lotteryd/internal/lottery/types"
)

// AccessGuard admits only the configured owner, and only with a signature
// over the request being made. It reads no state.
type AccessGuard struct {
	policy   types.AccessPolicy
	verifier types.SignatureVerifier
}

func NewAccessGuard(policy types.AccessPolicy, verifier types.SignatureVerifier) AccessGuard {
	if verifier == nil {
		panic("lottery access guard: verifier is nil")
	}
	return AccessGuard{policy: policy, verifier: verifier}
}

// Authorize checks ownership first, then that proof signs req in namespace.
func (g AccessGuard) Authorize(namespace string, req types.DrawRequest, proof *types.Proof) error {
	if !g.policy.IsOwner(req.Caller) {
		return errorsmod.Wrapf(types.ErrInvalidOwner, "caller=%s", req.Caller)
	}
	if !proof.Present() {
		return errorsmod.Wrap(types.ErrInvalidSigner, "missing signature")
	}
	msg := types.DrawSignBytes(namespace, req, proof.Nonce)
	if !g.verifier.Verify(req.Caller, msg, proof.Signature) {
		return errorsmod.Wrap(types.ErrInvalidSigner, "invalid signature")
	}
	return nil
}

// Ed25519Verifier verifies ed25519 signatures by the signer's key.
type Ed25519Verifier struct{}

var _ types.SignatureVerifier = Ed25519Verifier{}

func (Ed25519Verifier) Verify(signer types.Identity, msg, sig []byte) bool {
	if len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(signer.PublicKey(), msg, sig)
}
