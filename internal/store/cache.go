package store

import (
	"errors"
	"fmt"

	corestore "cosmossdk.io/core/store"
	"cosmossdk.io/store/cachekv"
	"cosmossdk.io/store/dbadapter"
	storetypes "cosmossdk.io/store/types"
	dbm "github.com/cosmos/cosmos-db"
)

// CacheStore buffers writes over a parent store until Write is called.
// Discarding a CacheStore discards its writes.
type CacheStore struct {
	coreKVStore
	cache *cachekv.Store

	// commit is set on block caches, whose writes only leave through Store.Commit.
	commit *batchStore
}

func newCacheStore(parent storetypes.KVStore) *CacheStore {
	cache := cachekv.NewStore(parent)
	return &CacheStore{coreKVStore: coreKVStore{kv: cache}, cache: cache}
}

// NewCache stages writes on top of c.
func (c *CacheStore) NewCache() *CacheStore {
	return newCacheStore(c.cache)
}

// Write flushes the staged writes into the parent cache.
func (c *CacheStore) Write() error {
	if c.commit != nil {
		return errors.New("block cache is flushed by Store.Commit")
	}
	return catchPanic(c.cache.Write)
}

// batchStore reads committed state and sends writes to the batch of the
// commit in progress.
type batchStore struct {
	dbadapter.Store
	batch dbm.Batch
}

var _ storetypes.KVStore = (*batchStore)(nil)

func (s *batchStore) Set(key, value []byte) {
	storetypes.AssertValidKey(key)
	storetypes.AssertValidValue(value)
	if s.batch == nil {
		panic("store: write outside of commit")
	}
	if err := s.batch.Set(key, value); err != nil {
		panic(err)
	}
}

func (s *batchStore) Delete(key []byte) {
	storetypes.AssertValidKey(key)
	if s.batch == nil {
		panic("store: delete outside of commit")
	}
	if err := s.batch.Delete(key); err != nil {
		panic(err)
	}
}

func (s *batchStore) CacheWrap() storetypes.CacheWrap {
	return cachekv.NewStore(s)
}

// coreKVStore exposes a panicking storetypes.KVStore as a corestore.KVStore.
type coreKVStore struct {
	kv storetypes.KVStore
}

var _ corestore.KVStore = coreKVStore{}

func (s coreKVStore) Get(key []byte) (value []byte, err error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	err = catchPanic(func() { value = s.kv.Get(key) })
	return value, err
}

func (s coreKVStore) Has(key []byte) (ok bool, err error) {
	if err := checkKey(key); err != nil {
		return false, err
	}
	err = catchPanic(func() { ok = s.kv.Has(key) })
	return ok, err
}

func (s coreKVStore) Set(key, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if value == nil {
		return errors.New("value is nil")
	}
	return catchPanic(func() { s.kv.Set(key, value) })
}

func (s coreKVStore) Delete(key []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	return catchPanic(func() { s.kv.Delete(key) })
}

func (s coreKVStore) Iterator(start, end []byte) (it corestore.Iterator, err error) {
	err = catchPanic(func() { it = s.kv.Iterator(start, end) })
	return it, err
}

func (s coreKVStore) ReverseIterator(start, end []byte) (it corestore.Iterator, err error) {
	err = catchPanic(func() { it = s.kv.ReverseIterator(start, end) })
	return it, err
}

func checkKey(key []byte) error {
	if len(key) == 0 {
		return errors.New("key is empty")
	}
	return nil
}

// catchPanic turns a store panic into an error.
func catchPanic(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("store: %v", r)
		}
	}()
	fn()
	return nil
}
