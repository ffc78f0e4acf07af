package app

import (
	"context"
	"encoding/binary"
	"fmt"
	"strconv"

	corestore "cosmossdk.io/core/store"
	errorsmod "cosmossdk.io/errors"

	"lotteryd/internal/codec"
	"lotteryd/internal/lottery/types"
)

// envelopeProof returns the proof carried by env, or nil when it is unsigned.
// The signature is over types.DrawSignBytes at the envelope nonce; a malformed
// nonce is reported by requireSigner once ownership has been checked.
func envelopeProof(env codec.TxEnvelope) *types.Proof {
	if len(env.Sig) == 0 {
		return nil
	}
	nonce, _ := strconv.ParseUint(env.Nonce, 10, 64)
	return &types.Proof{Nonce: nonce, Signature: env.Sig}
}

// requireSigner checks that the envelope names caller as its signer and
// carries a well-formed nonce. It is called after the signature verified.
func requireSigner(env codec.TxEnvelope, caller types.Identity) (uint64, error) {
	signer, err := types.ParseIdentity(env.Signer)
	if err != nil {
		return 0, errorsmod.Wrapf(types.ErrInvalidSigner, "invalid tx.signer: %v", err)
	}
	if signer != caller {
		return 0, errorsmod.Wrapf(types.ErrInvalidSigner, "tx signer mismatch: signer=%s want=%s", signer, caller)
	}
	if env.Nonce == "" {
		return 0, errorsmod.Wrap(types.ErrInvalidSigner, "missing tx.nonce")
	}
	nonce, err := strconv.ParseUint(env.Nonce, 10, 64)
	if err != nil {
		return 0, errorsmod.Wrapf(types.ErrInvalidSigner, "invalid tx.nonce %q", env.Nonce)
	}
	return nonce, nil
}

// checkAndBumpNonce enforces strictly increasing nonces per signer.
func checkAndBumpNonce(ctx context.Context, svc corestore.KVStoreService, signer types.Identity, nonce uint64) error {
	kv := svc.OpenKVStore(ctx)
	key := types.NonceStoreKey(signer)
	bz, err := kv.Get(key)
	if err != nil {
		return errorsmod.Wrap(types.ErrStorage, err.Error())
	}
	if bz != nil {
		if len(bz) != 8 {
			return errorsmod.Wrap(types.ErrStorage, "invalid nonce encoding")
		}
		if last := binary.BigEndian.Uint64(bz); nonce <= last {
			return errorsmod.Wrapf(types.ErrInvalidSigner, "replayed tx.nonce: got %d, last %d", nonce, last)
		}
	}
	next := make([]byte, 8)
	binary.BigEndian.PutUint64(next, nonce)
	if err := kv.Set(key, next); err != nil {
		return errorsmod.Wrap(types.ErrStorage, fmt.Sprintf("write nonce: %v", err))
	}
	return nil
}
