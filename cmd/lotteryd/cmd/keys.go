package cmd

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"lotteryd/internal/lottery/types"
)

// keyFromSeed derives a deterministic ed25519 key from a seed phrase.
// Dev only: anyone who knows the phrase holds the key.
func keyFromSeed(seed string) (types.Identity, ed25519.PrivateKey, error) {
	if seed == "" {
		return types.Identity{}, nil, fmt.Errorf("--seed is required")
	}
	sum := sha256.Sum256([]byte(seed))
	priv := ed25519.NewKeyFromSeed(sum[:])
	id, err := types.IdentityFromBytes(priv.Public().(ed25519.PublicKey))
	if err != nil {
		return types.Identity{}, nil, err
	}
	return id, priv, nil
}

func keysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Dev key helpers",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the identity derived from --seed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			seed, _ := cmd.Flags().GetString("seed")
			id, _, err := keyFromSeed(seed)
			if err != nil {
				return err
			}
			b, err := json.Marshal(map[string]any{"identity": id})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		},
	}
	show.Flags().String("seed", "", "seed phrase")

	cmd.AddCommand(show)
	return cmd
}
