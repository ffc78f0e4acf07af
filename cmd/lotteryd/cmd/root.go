package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lotteryd/internal/config"
)

// NewRootCmd creates the root command for lotteryd. It is called once in main.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:           "lotteryd",
		Short:         "Owner-gated lottery draws as a CometBFT ABCI application",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.PersistentFlags().String("home", ".lotteryd", "app home directory (config.yaml and data/)")
	_ = v.BindPFlag("home", rootCmd.PersistentFlags().Lookup("home"))

	rootCmd.AddCommand(
		startCmd(v),
		keysCmd(),
		txCmd(),
		queryCmd(v),
	)
	return rootCmd
}

func loadConfig(v *viper.Viper) (config.Config, error) {
	return config.Load(v)
}
