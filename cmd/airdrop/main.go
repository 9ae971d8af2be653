package main

import (
	"github.com/celer-network/go-airdrop/cli"
	"github.com/celer-network/go-airdrop/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var logger = log.NewLogger("airdrop")

func main() {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:          "airdrop",
		Short:        "Merkle airdrop claim tool",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return viper.BindPFlags(cmd.Flags())
		},
	}

	rootCmd.AddCommand(
		cli.BuildCommand(),
		cli.ProofCommand(),
		cli.DigestCommand(),
		cli.SignCommand(),
		cli.ClaimCommand(),
		cli.StatusCommand(),
	)

	rootCmd.PersistentFlags().String(cli.FlagConfig, "./config.yaml", "config path")
	err := rootCmd.Execute()
	if err != nil {
		logger.Fatal().Err(err).Send()
	}
}
