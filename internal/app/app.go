package app

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	abci "github.com/cometbft/cometbft/abci/types"

	"lotteryd/internal/codec"
	"lotteryd/internal/lottery/keeper"
	"lotteryd/internal/lottery/types"
	"lotteryd/internal/store"
)

const (
	AppVersion uint64 = 1
)

type LotteryApp struct {
	*abci.BaseApplication

	logger log.Logger

	mu       sync.Mutex
	root     *store.Store
	block    *store.CacheStore // writes of the block being finalized, flushed on Commit
	height   int64
	lastHash []byte

	clock  *blockClock
	policy types.AccessPolicy
	hashes keeper.RecentHashes
	keeper keeper.Keeper
	svc    store.Service
}

// New builds the app over root. The owner policy is fixed for the app's lifetime.
func New(root *store.Store, policy types.AccessPolicy, namespace string, logger log.Logger, opts ...keeper.Option) (*LotteryApp, error) {
	if root == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if policy.Owner().IsZero() {
		return nil, fmt.Errorf("access policy has no owner")
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	height, appHash, err := root.LastCommit()
	if err != nil {
		return nil, err
	}

	svc := store.NewService(root)
	clock := &blockClock{}
	guard := keeper.NewAccessGuard(policy, keeper.Ed25519Verifier{})
	hashes := keeper.NewRecentHashes(svc, types.RecentHashesLen)

	a := &LotteryApp{
		BaseApplication: abci.NewBaseApplication(),
		logger:          logger,
		root:            root,
		height:          height,
		lastHash:        appHash,
		clock:           clock,
		policy:          policy,
		hashes:          hashes,
		svc:             svc,
	}
	a.keeper = keeper.NewKeeper(svc, namespace, guard, clock, hashes, logger, opts...)
	return a, nil
}

func (a *LotteryApp) Keeper() keeper.Keeper {
	return a.keeper
}

func (a *LotteryApp) Info(_ context.Context, _ *abci.InfoRequest) (*abci.InfoResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return &abci.InfoResponse{
		Data:             "lotteryd (v1)",
		Version:          "v1",
		AppVersion:       AppVersion,
		LastBlockHeight:  a.height,
		LastBlockAppHash: a.lastHash,
	}, nil
}

// CheckTx runs the checks that need no state: decoding, uid length, owner
// and signature. Nonces are checked at delivery.
func (a *LotteryApp) CheckTx(_ context.Context, req *abci.CheckTxRequest) (*abci.CheckTxResponse, error) {
	env, err := codec.DecodeTxEnvelope(req.Tx)
	if err != nil {
		return checkErr(errorsmod.Wrap(types.ErrInvalidRequest, err.Error())), nil
	}
	switch env.Type {
	case codec.TxTypeLotteryDraw:
		drawReq, err := decodeDraw(env)
		if err != nil {
			return checkErr(err), nil
		}
		if err := a.keeper.Authorize(drawReq, envelopeProof(env)); err != nil {
			return checkErr(err), nil
		}
		if _, err := requireSigner(env, drawReq.Caller); err != nil {
			return checkErr(err), nil
		}
		if err := types.ValidateUID(drawReq.UID); err != nil {
			return checkErr(err), nil
		}
		return &abci.CheckTxResponse{Code: 0}, nil
	default:
		return checkErr(errorsmod.Wrapf(types.ErrInvalidRequest, "unknown tx type: %s", env.Type)), nil
	}
}

func (a *LotteryApp) InitChain(_ context.Context, _ *abci.InitChainRequest) (*abci.InitChainResponse, error) {
	// No genesis state; the owner comes from config.
	return &abci.InitChainResponse{}, nil
}

func (a *LotteryApp) FinalizeBlock(ctx context.Context, req *abci.FinalizeBlockRequest) (*abci.FinalizeBlockResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.block == nil {
		a.block = a.root.NewCache()
	}
	a.clock.begin(req.Height, req.Time)
	defer a.clock.end()

	txResults := make([]*abci.ExecTxResult, 0, len(req.Txs))
	for _, txBytes := range req.Txs {
		txResults = append(txResults, a.deliverTx(ctx, txBytes))
	}

	appHash, err := a.endBlock(ctx, req.Height, req.Hash)
	if err != nil {
		// Drop the partial block so the next FinalizeBlock starts from committed state.
		a.block = nil
		return nil, err
	}
	a.height = req.Height
	a.lastHash = appHash

	return &abci.FinalizeBlockResponse{
		TxResults: txResults,
		AppHash:   appHash,
	}, nil
}

// endBlock records the block hash for later draws and stages the commit info.
func (a *LotteryApp) endBlock(ctx context.Context, height int64, hash []byte) ([]byte, error) {
	if len(hash) > 0 {
		if err := a.hashes.Push(store.WithKVStore(ctx, a.block), hash); err != nil {
			return nil, fmt.Errorf("record block hash: %w", err)
		}
	}
	appHash, err := store.AppHash(a.block)
	if err != nil {
		return nil, fmt.Errorf("app hash: %w", err)
	}
	if err := store.SetCommitInfo(a.block, height, appHash); err != nil {
		return nil, fmt.Errorf("stage commit info: %w", err)
	}
	return appHash, nil
}

func (a *LotteryApp) Commit(_ context.Context, _ *abci.CommitRequest) (*abci.CommitResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.block == nil {
		return &abci.CommitResponse{}, nil
	}
	// CometBFT expects Commit to not crash; return error so node halts loudly.
	if err := a.root.Commit(a.block); err != nil {
		return nil, err
	}
	a.block = nil
	return &abci.CommitResponse{}, nil
}

// Query serves committed state.
func (a *LotteryApp) Query(ctx context.Context, req *abci.QueryRequest) (*abci.QueryResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Paths:
	// - /result/<identity>
	// - /result_key/<identity>
	// - /policy
	// - /recent_hashes
	path := strings.TrimSpace(req.Path)
	switch {
	case path == "/policy":
		b, _ := json.Marshal(map[string]any{
			"owner":     a.policy.Owner(),
			"namespace": a.keeper.Namespace(),
		})
		return &abci.QueryResponse{Code: 0, Value: b, Height: a.height}, nil
	case path == "/recent_hashes":
		list, err := a.hashes.List(ctx)
		if err != nil {
			return a.queryErr(errorsmod.Wrap(types.ErrStorage, err.Error())), nil
		}
		out := make([]string, 0, len(list))
		for _, h := range list {
			out = append(out, hex.EncodeToString(h))
		}
		b, _ := json.Marshal(out)
		return &abci.QueryResponse{Code: 0, Value: b, Height: a.height}, nil
	case strings.HasPrefix(path, "/result_key/"):
		id, err := types.ParseIdentity(strings.TrimPrefix(path, "/result_key/"))
		if err != nil {
			return a.queryErr(errorsmod.Wrap(types.ErrInvalidRequest, err.Error())), nil
		}
		key := a.keeper.ResultKey(id)
		b, _ := json.Marshal(map[string]string{"identity": id.String(), "resultKey": hex.EncodeToString(key[:])})
		return &abci.QueryResponse{Code: 0, Value: b, Height: a.height}, nil
	case strings.HasPrefix(path, "/result/"):
		id, err := types.ParseIdentity(strings.TrimPrefix(path, "/result/"))
		if err != nil {
			return a.queryErr(errorsmod.Wrap(types.ErrInvalidRequest, err.Error())), nil
		}
		r, err := a.keeper.GetResult(ctx, a.keeper.ResultKey(id))
		if err != nil {
			return a.queryErr(err), nil
		}
		b, _ := json.Marshal(r)
		return &abci.QueryResponse{Code: 0, Value: b, Height: a.height}, nil
	default:
		return a.queryErr(errorsmod.Wrapf(types.ErrInvalidRequest, "unknown query path %q", path)), nil
	}
}

// deliverTx runs one tx in its own cache. Only successful txs reach the block.
func (a *LotteryApp) deliverTx(ctx context.Context, txBytes []byte) *abci.ExecTxResult {
	env, err := codec.DecodeTxEnvelope(txBytes)
	if err != nil {
		return txErr(errorsmod.Wrap(types.ErrInvalidRequest, err.Error()))
	}

	txStore := a.block.NewCache()
	ctx = store.WithKVStore(ctx, txStore)

	var res *abci.ExecTxResult
	switch env.Type {
	case codec.TxTypeLotteryDraw:
		res = a.deliverDraw(ctx, env)
	default:
		res = txErr(errorsmod.Wrapf(types.ErrInvalidRequest, "unknown tx type: %s", env.Type))
	}
	if res.Code != 0 {
		return res
	}
	if err := txStore.Write(); err != nil {
		return txErr(errorsmod.Wrap(types.ErrStorage, err.Error()))
	}
	return res
}

func (a *LotteryApp) deliverDraw(ctx context.Context, env codec.TxEnvelope) *abci.ExecTxResult {
	req, err := decodeDraw(env)
	if err != nil {
		return txErr(err)
	}
	proof := envelopeProof(env)
	if err := a.keeper.Authorize(req, proof); err != nil {
		return txErr(err)
	}
	nonce, err := requireSigner(env, req.Caller)
	if err != nil {
		return txErr(err)
	}
	if err := checkAndBumpNonce(ctx, a.svc, req.Caller, nonce); err != nil {
		return txErr(err)
	}

	out, err := a.keeper.Draw(ctx, req, proof)
	if err != nil {
		return txErr(err)
	}
	return okEvent(types.EventTypeLotteryDrawn, map[string]string{
		types.AttributeKeyCaller:    req.Caller.String(),
		types.AttributeKeyUID:       out.Result.UID,
		types.AttributeKeyValue:     fmt.Sprintf("%d", out.Result.Value),
		types.AttributeKeyTimestamp: fmt.Sprintf("%d", out.Result.Timestamp),
		types.AttributeKeyResultKey: hex.EncodeToString(out.ResultKey[:]),
		types.AttributeKeyAttempts:  fmt.Sprintf("%d", out.Attempts),
	})
}

func decodeDraw(env codec.TxEnvelope) (types.DrawRequest, error) {
	msg, err := codec.DecodeLotteryDrawTx(env.Value)
	if err != nil {
		return types.DrawRequest{}, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}
	caller, err := types.ParseIdentity(msg.Caller)
	if err != nil {
		return types.DrawRequest{}, errorsmod.Wrapf(types.ErrInvalidRequest, "caller: %v", err)
	}
	req := types.DrawRequest{Caller: caller, UID: msg.UID}
	if msg.Participant != "" {
		if req.Participant, err = types.ParseIdentity(msg.Participant); err != nil {
			return types.DrawRequest{}, errorsmod.Wrapf(types.ErrInvalidRequest, "participant: %v", err)
		}
	}
	return req, nil
}

func okEvent(typ string, attrs map[string]string) *abci.ExecTxResult {
	ev := abci.Event{Type: typ}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ev.Attributes = append(ev.Attributes, abci.EventAttribute{Key: k, Value: attrs[k], Index: true})
	}
	return &abci.ExecTxResult{
		Code:   0,
		Events: []abci.Event{ev},
	}
}

func txErr(err error) *abci.ExecTxResult {
	space, code, msg := errorsmod.ABCIInfo(err, false)
	return &abci.ExecTxResult{Codespace: space, Code: code, Log: msg}
}

func checkErr(err error) *abci.CheckTxResponse {
	space, code, msg := errorsmod.ABCIInfo(err, false)
	return &abci.CheckTxResponse{Codespace: space, Code: code, Log: msg}
}

func (a *LotteryApp) queryErr(err error) *abci.QueryResponse {
	space, code, msg := errorsmod.ABCIInfo(err, false)
	return &abci.QueryResponse{Codespace: space, Code: code, Log: msg, Height: a.height}
}
