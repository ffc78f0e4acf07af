package cmd

import (
	"context"
	"fmt"

	abci "github.com/cometbft/cometbft/abci/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lotteryd/internal/app"
	"lotteryd/internal/store"
)

func queryCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Read committed state from the local database (node must be stopped)",
	}
	cmd.AddCommand(
		localQueryCmd(v, "result <identity>", "Print the stored draw of an identity", 1, func(args []string) string {
			return "/result/" + args[0]
		}),
		localQueryCmd(v, "result-key <identity>", "Print the record key of an identity", 1, func(args []string) string {
			return "/result_key/" + args[0]
		}),
		localQueryCmd(v, "policy", "Print the owner and namespace", 0, func([]string) string {
			return "/policy"
		}),
		localQueryCmd(v, "recent-hashes", "Print the recent block hashes, newest first", 0, func([]string) string {
			return "/recent_hashes"
		}),
	)
	return cmd
}

func localQueryCmd(v *viper.Viper, use, short string, nargs int, path func([]string) string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := runQuery(cmd.Context(), v, path(args))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(res))
			return err
		},
	}
}

func runQuery(ctx context.Context, v *viper.Viper, path string) ([]byte, error) {
	cfg, err := loadConfig(v)
	if err != nil {
		return nil, err
	}
	policy, err := cfg.AccessPolicy()
	if err != nil {
		return nil, err
	}
	root, err := store.Open(cfg.DB.Backend, cfg.DB.Name, cfg.DataDir())
	if err != nil {
		return nil, err
	}
	defer func() { _ = root.Close() }()

	a, err := app.New(root, policy, cfg.Lottery.Namespace, nil)
	if err != nil {
		return nil, err
	}
	res, err := a.Query(ctx, &abci.QueryRequest{Path: path})
	if err != nil {
		return nil, err
	}
	if res.Code != 0 {
		return nil, fmt.Errorf("query %s: %s (code %d)", path, res.Log, res.Code)
	}
	return res.Value, nil
}
