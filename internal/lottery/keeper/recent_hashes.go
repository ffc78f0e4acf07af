package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	corestore "cosmossdk.io/core/store"
	errorsmod "cosmossdk.io/errors"

	"lotteryd/internal/lottery/types"
)

// RecentHashes keeps the latest block hashes, newest first, and serves the
// newest one as the entropy oracle digest. A block's own hash is pushed after
// its txs ran, so draws in block H see the hash of block H-1.
type RecentHashes struct {
	storeService corestore.KVStoreService
	capacity     int
}

var _ types.EntropyOracle = RecentHashes{}

func NewRecentHashes(storeService corestore.KVStoreService, capacity int) RecentHashes {
	if storeService == nil {
		panic("recent hashes: store service is nil")
	}
	if capacity <= 0 {
		capacity = types.RecentHashesLen
	}
	return RecentHashes{storeService: storeService, capacity: capacity}
}

func (r RecentHashes) List(ctx context.Context) ([][]byte, error) {
	bz, err := r.storeService.OpenKVStore(ctx).Get(types.RecentHashesKey)
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, nil
	}
	var out [][]byte
	if err := json.Unmarshal(bz, &out); err != nil {
		return nil, fmt.Errorf("decode recent hashes: %w", err)
	}
	return out, nil
}

// Push records hash as the newest entry, evicting the oldest past capacity.
func (r RecentHashes) Push(ctx context.Context, hash []byte) error {
	if len(hash) == 0 {
		return fmt.Errorf("block hash is empty")
	}
	list, err := r.List(ctx)
	if err != nil {
		return err
	}
	list = append([][]byte{append([]byte(nil), hash...)}, list...)
	if len(list) > r.capacity {
		list = list[:r.capacity]
	}
	bz, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode recent hashes: %w", err)
	}
	return r.storeService.OpenKVStore(ctx).Set(types.RecentHashesKey, bz)
}

func (r RecentHashes) RecentDigest(ctx context.Context) ([]byte, error) {
	list, err := r.List(ctx)
	if err != nil {
		return nil, errorsmod.Wrap(types.ErrStorage, err.Error())
	}
	if len(list) == 0 || len(list[0]) == 0 {
		return nil, errorsmod.Wrap(types.ErrStorage, "no recent block hash available")
	}
	return list[0], nil
}
