package cmd

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"lotteryd/internal/codec"
	"lotteryd/internal/lottery/types"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Build signed transactions",
	}

	draw := &cobra.Command{
		Use:   "draw",
		Short: "Print a signed lottery/draw tx for broadcast_tx",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			seed, _ := cmd.Flags().GetString("seed")
			uid, _ := cmd.Flags().GetString("uid")
			nonce, _ := cmd.Flags().GetUint64("nonce")
			participant, _ := cmd.Flags().GetString("participant")
			namespace, _ := cmd.Flags().GetString("namespace")
			asBase64, _ := cmd.Flags().GetBool("base64")

			txBytes, err := buildDrawTx(seed, namespace, uid, nonce, participant)
			if err != nil {
				return err
			}
			out := string(txBytes)
			if asBase64 {
				out = base64.StdEncoding.EncodeToString(txBytes)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	draw.Flags().String("seed", "", "seed phrase of the signing key (see keys show)")
	draw.Flags().String("uid", "", "draw label, at most 12 bytes")
	draw.Flags().Uint64("nonce", 1, "tx nonce, must exceed the signer's last accepted nonce")
	draw.Flags().String("participant", "", "optional hex identity mixed into the draw")
	draw.Flags().String("namespace", types.DefaultNamespace, "lottery namespace of the target chain")
	draw.Flags().Bool("base64", false, "print the tx base64-encoded")

	cmd.AddCommand(draw)
	return cmd
}

func buildDrawTx(seed, namespace, uid string, nonce uint64, participant string) ([]byte, error) {
	id, priv, err := keyFromSeed(seed)
	if err != nil {
		return nil, err
	}
	if err := types.ValidateUID(uid); err != nil {
		return nil, err
	}
	req := types.DrawRequest{Caller: id, UID: uid}
	if participant != "" {
		if req.Participant, err = types.ParseIdentity(participant); err != nil {
			return nil, fmt.Errorf("--participant: %w", err)
		}
	}

	value, err := codec.EncodeLotteryDrawTx(codec.LotteryDrawTx{
		Caller:      id.String(),
		UID:         uid,
		Participant: participant,
	})
	if err != nil {
		return nil, err
	}
	env := codec.TxEnvelope{
		Type:   codec.TxTypeLotteryDraw,
		Value:  value,
		Nonce:  strconv.FormatUint(nonce, 10),
		Signer: id.String(),
		Sig:    ed25519.Sign(priv, types.DrawSignBytes(namespace, req, nonce)),
	}
	return codec.EncodeTxEnvelope(env)
}
