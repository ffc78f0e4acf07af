package codec

import (
	"encoding/json"
	"fmt"
)

// TxType values routed by the app.
const (
	TxTypeLotteryDraw = "lottery/draw"
)

// TxEnvelope is the transaction container.
//
// CometBFT transactions are opaque bytes; lotteryd uses JSON-encoded envelopes.
type TxEnvelope struct {
	// Basic routing.
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`

	// Tx auth:
	// - Nonce: decimal u64, must strictly increase per signer (replay protection).
	// - Signer: hex ed25519 public key of the signer.
	// - Sig: Ed25519 signature over types.DrawSignBytes for the decoded request.
	Nonce  string `json:"nonce,omitempty"`
	Signer string `json:"signer,omitempty"`
	Sig    []byte `json:"sig,omitempty"`
}

func DecodeTxEnvelope(txBytes []byte) (TxEnvelope, error) {
	var env TxEnvelope
	if err := json.Unmarshal(txBytes, &env); err != nil {
		return TxEnvelope{}, fmt.Errorf("invalid tx json: %w", err)
	}
	if env.Type == "" {
		return TxEnvelope{}, fmt.Errorf("missing tx.type")
	}
	return env, nil
}

func EncodeTxEnvelope(env TxEnvelope) ([]byte, error) {
	if env.Type == "" {
		return nil, fmt.Errorf("missing tx.type")
	}
	return json.Marshal(env)
}

// ---- Lottery ----

// LotteryDrawTx requests a draw for Caller. Caller must equal the envelope
// signer. Participant is optional (hex identity); it only adds entropy.
type LotteryDrawTx struct {
	Caller      string `json:"caller"`
	UID         string `json:"uid"`
	Participant string `json:"participant,omitempty"`
}

func DecodeLotteryDrawTx(value []byte) (LotteryDrawTx, error) {
	var msg LotteryDrawTx
	if err := json.Unmarshal(value, &msg); err != nil {
		return LotteryDrawTx{}, fmt.Errorf("bad %s value: %w", TxTypeLotteryDraw, err)
	}
	if msg.Caller == "" {
		return LotteryDrawTx{}, fmt.Errorf("missing caller")
	}
	return msg, nil
}

func EncodeLotteryDrawTx(msg LotteryDrawTx) ([]byte, error) {
	if msg.Caller == "" {
		return nil, fmt.Errorf("missing caller")
	}
	return json.Marshal(msg)
}
