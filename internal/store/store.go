// Package store provides the key-value state of the app: a cosmos-db database
// at the root and staged cache layers on top of it for blocks and txs.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"os"

	corestore "cosmossdk.io/core/store"
	"cosmossdk.io/store/dbadapter"
	dbm "github.com/cosmos/cosmos-db"
)

var (
	// LastHeightKey stores the last committed height as big-endian u64.
	LastHeightKey = []byte{0xf0, 0x01}

	// AppHashKey stores the app hash of the last committed height.
	AppHashKey = []byte{0xf0, 0x02}
)

// Store is the committed state.
type Store struct {
	db dbm.DB
}

// Open opens (or creates) the database under dir.
func Open(backend, name, dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	db, err := dbm.NewDB(name, dbm.BackendType(backend), dir)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return &Store{db: db}, nil
}

// NewMemStore returns a store backed by an in-memory database.
func NewMemStore() *Store {
	return &Store{db: dbm.NewMemDB()}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// KVStore returns a view of the committed state. Writes through it bypass
// staging and are meant for tooling only.
func (s *Store) KVStore() corestore.KVStore {
	return coreKVStore{kv: dbadapter.Store{DB: s.db}}
}

// NewCache stages writes on top of the committed state. The returned cache is
// flushed with Commit.
func (s *Store) NewCache() *CacheStore {
	bs := &batchStore{Store: dbadapter.Store{DB: s.db}}
	c := newCacheStore(bs)
	c.commit = bs
	return c
}

// Commit atomically persists everything staged in c, which must come from
// NewCache. c stays usable, empty, afterwards.
func (s *Store) Commit(c *CacheStore) error {
	if c.commit == nil {
		return fmt.Errorf("commit: not a block cache")
	}
	batch := s.db.NewBatch()
	defer func() { _ = batch.Close() }()

	c.commit.batch = batch
	defer func() { c.commit.batch = nil }()

	if err := catchPanic(c.cache.Write); err != nil {
		return fmt.Errorf("stage batch: %w", err)
	}
	if err := batch.WriteSync(); err != nil {
		return fmt.Errorf("write batch: %w", err)
	}
	return nil
}

// LastCommit returns the last committed height and app hash.
func (s *Store) LastCommit() (int64, []byte, error) {
	hb, err := s.db.Get(LastHeightKey)
	if err != nil {
		return 0, nil, fmt.Errorf("read last height: %w", err)
	}
	if hb == nil {
		return 0, nil, nil
	}
	if len(hb) != 8 {
		return 0, nil, fmt.Errorf("invalid last height encoding")
	}
	appHash, err := s.db.Get(AppHashKey)
	if err != nil {
		return 0, nil, fmt.Errorf("read app hash: %w", err)
	}
	return int64(binary.BigEndian.Uint64(hb)), appHash, nil
}

// SetCommitInfo stages the height and app hash metadata into kv.
func SetCommitInfo(kv corestore.KVStore, height int64, appHash []byte) error {
	hb := make([]byte, 8)
	binary.BigEndian.PutUint64(hb, uint64(height))
	if err := kv.Set(LastHeightKey, hb); err != nil {
		return err
	}
	return kv.Set(AppHashKey, appHash)
}

// AppHash hashes every key/value pair of kv outside the commit metadata, in
// key order. Iteration order is defined by the store, so the hash is stable.
func AppHash(kv corestore.KVStore) ([]byte, error) {
	it, err := kv.Iterator(nil, []byte{0xf0})
	if err != nil {
		return nil, err
	}
	defer it.Close()

	h := sha256.New()
	var lenBuf [4]byte
	for ; it.Valid(); it.Next() {
		for _, p := range [][]byte{it.Key(), it.Value()} {
			binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(p)))
			_, _ = h.Write(lenBuf[:])
			_, _ = h.Write(p)
		}
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

type kvStoreCtxKey struct{}

// WithKVStore returns a context whose store service opens kv.
func WithKVStore(ctx context.Context, kv corestore.KVStore) context.Context {
	return context.WithValue(ctx, kvStoreCtxKey{}, kv)
}

// Service implements corestore.KVStoreService. It opens the staged store
// carried by the context, falling back to the committed state.
type Service struct {
	root *Store
}

var _ corestore.KVStoreService = Service{}

func NewService(root *Store) Service {
	return Service{root: root}
}

func (s Service) OpenKVStore(ctx context.Context) corestore.KVStore {
	if kv, ok := ctx.Value(kvStoreCtxKey{}).(corestore.KVStore); ok && kv != nil {
		return kv
	}
	return s.root.KVStore()
}
