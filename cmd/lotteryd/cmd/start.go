package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/cometbft/cometbft/abci/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lotteryd/internal/app"
	"lotteryd/internal/observability"
	"lotteryd/internal/store"
)

func startCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the ABCI server until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			logger, err := observability.NewLogger(cmd.ErrOrStderr(), cfg.Log)
			if err != nil {
				return err
			}
			policy, err := cfg.AccessPolicy()
			if err != nil {
				return err
			}

			root, err := store.Open(cfg.DB.Backend, cfg.DB.Name, cfg.DataDir())
			if err != nil {
				return err
			}
			defer func() { _ = root.Close() }()

			a, err := app.New(root, policy, cfg.Lottery.Namespace, logger)
			if err != nil {
				return fmt.Errorf("init app: %w", err)
			}

			srv, err := server.NewServer(cfg.ABCI.Addr, cfg.ABCI.Transport, a)
			if err != nil {
				return fmt.Errorf("create abci server: %w", err)
			}
			if err := srv.Start(); err != nil {
				return fmt.Errorf("abci server start: %w", err)
			}
			defer func() { _ = srv.Stop() }()

			logger.Info("abci server started",
				"addr", cfg.ABCI.Addr,
				"transport", cfg.ABCI.Transport,
				"owner", policy.Owner().String(),
				"namespace", cfg.Lottery.Namespace,
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			logger.Info("shutting down")
			return nil
		},
	}
	cmd.Flags().String("addr", "", "ABCI listen address (overrides abci.addr)")
	cmd.Flags().String("transport", "", "ABCI transport, socket|grpc (overrides abci.transport)")
	cmd.Flags().String("owner", "", "hex ed25519 public key of the lottery owner (overrides lottery.owner)")
	cmd.Flags().String("log-level", "", "log level (overrides log.level)")
	bindFlag(v, cmd, "abci.addr", "addr")
	bindFlag(v, cmd, "abci.transport", "transport")
	bindFlag(v, cmd, "lottery.owner", "owner")
	bindFlag(v, cmd, "log.level", "log-level")
	return cmd
}

// bindFlag lets flag override key only when the flag is set.
func bindFlag(v *viper.Viper, cmd *cobra.Command, key, flag string) {
	_ = v.BindPFlag(key, cmd.Flags().Lookup(flag))
}
