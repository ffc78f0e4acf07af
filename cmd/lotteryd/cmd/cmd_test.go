package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	abci "github.com/cometbft/cometbft/abci/types"
	"github.com/stretchr/testify/require"

	"lotteryd/internal/app"
	"lotteryd/internal/codec"
	"lotteryd/internal/lottery/types"
	"lotteryd/internal/store"
)

func TestKeyFromSeed_Deterministic(t *testing.T) {
	a, _, err := keyFromSeed("alice")
	require.NoError(t, err)
	b, _, err := keyFromSeed("alice")
	require.NoError(t, err)
	c, _, err := keyFromSeed("bob")
	require.NoError(t, err)

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)

	_, _, err = keyFromSeed("")
	require.Error(t, err)
}

func TestKeysShow(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"keys", "show", "--seed", "alice"})
	require.NoError(t, root.Execute())

	var got map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	id, _, err := keyFromSeed("alice")
	require.NoError(t, err)
	require.Equal(t, id.String(), got["identity"])
}

func TestBuildDrawTx_AcceptedByApp(t *testing.T) {
	owner, _, err := keyFromSeed("alice")
	require.NoError(t, err)
	policy, err := types.NewAccessPolicy(owner)
	require.NoError(t, err)
	a, err := app.New(store.NewMemStore(), policy, types.DefaultNamespace, nil)
	require.NoError(t, err)

	txBytes, err := buildDrawTx("alice", types.DefaultNamespace, "ROUND-7", 3, "")
	require.NoError(t, err)

	env, err := codec.DecodeTxEnvelope(txBytes)
	require.NoError(t, err)
	require.Equal(t, codec.TxTypeLotteryDraw, env.Type)
	require.Equal(t, "3", env.Nonce)
	require.Equal(t, owner.String(), env.Signer)

	res, err := a.CheckTx(context.Background(), &abci.CheckTxRequest{Tx: txBytes})
	require.NoError(t, err)
	require.Zero(t, res.Code, res.Log)

	participant, _, err := keyFromSeed("bob")
	require.NoError(t, err)
	withParticipant, err := buildDrawTx("alice", types.DefaultNamespace, "ROUND-7", 4, participant.String())
	require.NoError(t, err)
	res, err = a.CheckTx(context.Background(), &abci.CheckTxRequest{Tx: withParticipant})
	require.NoError(t, err)
	require.Zero(t, res.Code, res.Log)

	foreign, err := buildDrawTx("alice", "other-chain", "ROUND-7", 5, "")
	require.NoError(t, err)
	res, err = a.CheckTx(context.Background(), &abci.CheckTxRequest{Tx: foreign})
	require.NoError(t, err)
	require.Equal(t, types.ErrInvalidSigner.ABCICode(), res.Code, res.Log)
}

func TestBuildDrawTx_RejectsBadInput(t *testing.T) {
	_, err := buildDrawTx("alice", types.DefaultNamespace, "0123456789ABC", 1, "")
	require.ErrorIs(t, err, types.ErrUidTooLong)

	_, err = buildDrawTx("alice", types.DefaultNamespace, "A", 1, "not-hex")
	require.Error(t, err)

	_, err = buildDrawTx("", types.DefaultNamespace, "A", 1, "")
	require.Error(t, err)
}

func TestStart_RequiresOwner(t *testing.T) {
	t.Setenv("LOTTERYD_LOTTERY_OWNER", "")
	root := NewRootCmd()
	root.SetArgs([]string{"start", "--home", t.TempDir()})
	require.Error(t, root.Execute())
}
