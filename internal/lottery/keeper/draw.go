package keeper

import (
	"context"
	"fmt"

	errorsmod "cosmossdk.io/errors"

	"lotteryd/internal/lottery/entropy"
	"lotteryd/internal/lottery/types"
)

// Outcome describes a committed draw.
type Outcome struct {
	Result    types.LotteryResult
	ResultKey [32]byte
	Attempts  int
	Digest    entropy.Digest // the accepted digest
}

// GenerateRandom draws a value for req and stores it as the caller's result.
func (k Keeper) GenerateRandom(ctx context.Context, req types.DrawRequest, proof *types.Proof) (types.LotteryResult, error) {
	out, err := k.Draw(ctx, req, proof)
	if err != nil {
		return types.LotteryResult{}, err
	}
	return out.Result, nil
}

// Draw runs authorize, collect, mix, reduce and store, in that order. The only
// write is the final SetResult; every earlier failure leaves state untouched.
func (k Keeper) Draw(ctx context.Context, req types.DrawRequest, proof *types.Proof) (Outcome, error) {
	if err := k.Authorize(req, proof); err != nil {
		k.logger.Debug("draw rejected", "caller", req.Caller.String(), "err", err)
		return Outcome{}, err
	}
	// Checked here as well as in Collect so that a bad uid reads neither the
	// clock nor the oracle.
	if err := types.ValidateUID(req.UID); err != nil {
		k.logger.Debug("draw rejected", "caller", req.Caller.String(), "err", err)
		return Outcome{}, err
	}

	now, err := k.now(ctx)
	if err != nil {
		return Outcome{}, err
	}
	oracleDigest, err := k.oracle.RecentDigest(ctx)
	if err != nil {
		return Outcome{}, wrapStorage(err, "read entropy oracle")
	}
	if len(oracleDigest) == 0 {
		return Outcome{}, errorsmod.Wrap(types.ErrStorage, "entropy oracle returned an empty digest")
	}

	key := k.ResultKey(req.Caller)
	bundle, err := entropy.Collect(k.namespace, req, now, oracleDigest, key)
	if err != nil {
		return Outcome{}, err
	}

	digest := k.mixer.Mix(bundle)
	var accepted entropy.Digest
	value, attempts, err := k.reducer.Reduce(digest, func(attempt uint64, prev entropy.Digest) (entropy.Digest, error) {
		fresh, err := k.now(ctx)
		if err != nil {
			return entropy.Digest{}, err
		}
		k.logger.Debug("digest rejected, remixing", "caller", req.Caller.String(), "attempt", attempt)
		next := k.mixer.Mix(entropy.RetryBundle(prev, fresh, attempt))
		accepted = next
		return next, nil
	})
	if err != nil {
		k.logger.Error("draw aborted", "caller", req.Caller.String(), "attempts", attempts, "err", err)
		return Outcome{}, err
	}
	if attempts == 1 {
		accepted = digest
	}

	result := types.LotteryResult{
		UID:       req.UID,
		Value:     value,
		Timestamp: now.Timestamp,
	}
	if err := k.SetResult(ctx, key, result); err != nil {
		return Outcome{}, err
	}

	k.logger.Info("lottery drawn",
		"caller", req.Caller.String(),
		"uid", req.UID,
		"value", value,
		"attempts", attempts,
		"slot", now.Slot,
	)
	return Outcome{Result: result, ResultKey: key, Attempts: attempts, Digest: accepted}, nil
}

// Authorize runs the access guard for req in this keeper's namespace.
func (k Keeper) Authorize(req types.DrawRequest, proof *types.Proof) error {
	return k.guard.Authorize(k.namespace, req, proof)
}

func (k Keeper) now(ctx context.Context) (entropy.Time, error) {
	slot, err := k.clock.CurrentSlot(ctx)
	if err != nil {
		return entropy.Time{}, wrapStorage(err, "read slot")
	}
	ts, err := k.clock.CurrentTimestamp(ctx)
	if err != nil {
		return entropy.Time{}, wrapStorage(err, "read timestamp")
	}
	return entropy.Time{Slot: slot, Timestamp: ts}, nil
}

func wrapStorage(err error, what string) error {
	if types.IsStorageError(err) {
		return errorsmod.Wrap(err, what)
	}
	return errorsmod.Wrap(types.ErrStorage, fmt.Sprintf("%s: %v", what, err))
}
