package keeper

import (
	"context"
	"fmt"

	corestore "cosmossdk.io/core/store"
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"

	"lotteryd/internal/lottery/entropy"
	"lotteryd/internal/lottery/types"
)

type Keeper struct {
	storeService corestore.KVStoreService
	namespace    string
	guard        AccessGuard
	clock        types.TimeSource
	oracle       types.EntropyOracle
	mixer        entropy.Mixer
	reducer      entropy.Reducer
	logger       log.Logger
}

// Option overrides a Keeper default.
type Option func(*Keeper)

// WithMixer replaces the double-SHA256 hash chain.
func WithMixer(m entropy.Mixer) Option {
	return func(k *Keeper) { k.mixer = m }
}

// WithReducer replaces the default [1, 100000] reducer.
func WithReducer(r entropy.Reducer) Option {
	return func(k *Keeper) { k.reducer = r }
}

func NewKeeper(
	storeService corestore.KVStoreService,
	namespace string,
	guard AccessGuard,
	clock types.TimeSource,
	oracle types.EntropyOracle,
	logger log.Logger,
	opts ...Option,
) Keeper {
	if storeService == nil {
		panic("lottery keeper: store service is nil")
	}
	if clock == nil {
		panic("lottery keeper: time source is nil")
	}
	if oracle == nil {
		panic("lottery keeper: entropy oracle is nil")
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if namespace == "" {
		namespace = types.DefaultNamespace
	}
	k := Keeper{
		storeService: storeService,
		namespace:    namespace,
		guard:        guard,
		clock:        clock,
		oracle:       oracle,
		mixer:        entropy.DoubleSHA256{},
		reducer:      entropy.DefaultReducer(),
		logger:       logger.With("module", "x/"+types.ModuleName),
	}
	for _, opt := range opts {
		opt(&k)
	}
	return k
}

func (k Keeper) Logger() log.Logger {
	return k.logger
}

func (k Keeper) Namespace() string {
	return k.namespace
}

// ResultKey is the record key of id in this keeper's namespace.
func (k Keeper) ResultKey(id types.Identity) [32]byte {
	return types.DeriveKey(k.namespace, id)
}

// GetResult returns the record stored under key, or ErrNotFound.
func (k Keeper) GetResult(ctx context.Context, key [32]byte) (types.LotteryResult, error) {
	kv := k.storeService.OpenKVStore(ctx)
	bz, err := kv.Get(types.ResultStoreKey(key))
	if err != nil {
		return types.LotteryResult{}, errorsmod.Wrap(types.ErrStorage, err.Error())
	}
	if bz == nil {
		return types.LotteryResult{}, errorsmod.Wrapf(types.ErrNotFound, "no result under %x", key)
	}
	return types.UnmarshalResult(bz)
}

// SetResult creates or replaces the record under key as a whole.
func (k Keeper) SetResult(ctx context.Context, key [32]byte, r types.LotteryResult) error {
	bz, err := types.MarshalResult(r)
	if err != nil {
		return err
	}
	kv := k.storeService.OpenKVStore(ctx)
	if err := kv.Set(types.ResultStoreKey(key), bz); err != nil {
		return errorsmod.Wrap(types.ErrStorage, err.Error())
	}
	return nil
}

// IterateResults visits every stored record in key order until cb returns true.
func (k Keeper) IterateResults(ctx context.Context, cb func(key [32]byte, r types.LotteryResult) (stop bool)) error {
	kv := k.storeService.OpenKVStore(ctx)
	it, err := kv.Iterator(types.ResultKeyPrefix, storetypes.PrefixEndBytes(types.ResultKeyPrefix))
	if err != nil {
		return err
	}
	defer it.Close()

	for ; it.Valid(); it.Next() {
		raw := it.Key()
		if len(raw) != len(types.ResultKeyPrefix)+32 {
			continue
		}
		var key [32]byte
		copy(key[:], raw[len(types.ResultKeyPrefix):])
		r, err := types.UnmarshalResult(it.Value())
		if err != nil {
			return fmt.Errorf("result %x: %w", key, err)
		}
		if cb(key, r) {
			break
		}
	}
	return it.Error()
}
