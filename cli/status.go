package cli

import (
	"io"

	"github.com/celer-network/go-airdrop/airdrop"
	"github.com/celer-network/go-airdrop/eligibility"
	"github.com/spf13/cobra"
)

type accountStatus struct {
	Account  string `yaml:"account"`
	Eligible bool   `yaml:"eligible"`
	Amount   string `yaml:"amount,omitempty"`
	Claimed  bool   `yaml:"claimed"`
}

type ledgerStatus struct {
	Root    string   `yaml:"root"`
	Claimed []string `yaml:"claimed"`
}

func status(e *env, args []string, out io.Writer) error {
	ledger := airdrop.NewLedger(e.db)
	if len(args) == 0 {
		root, err := e.root()
		if err != nil && err != eligibility.ErrNoIndex {
			return err
		}
		accounts, err := ledger.ClaimedAccounts()
		if err != nil {
			return err
		}
		result := &ledgerStatus{Root: root.Hex(), Claimed: []string{}}
		for _, account := range accounts {
			result.Claimed = append(result.Claimed, account.Hex())
		}
		return writeYaml(out, result)
	}

	account, err := parseAccount(args[0])
	if err != nil {
		return err
	}
	claimed, err := ledger.HasClaimed(account)
	if err != nil {
		return err
	}
	entry, err := e.index.Lookup(account)
	if err != nil {
		return err
	}
	result := &accountStatus{Account: account.Hex(), Claimed: claimed}
	if entry != nil {
		result.Eligible = true
		result.Amount = entry.Amount.String()
	}
	return writeYaml(out, result)
}

func StatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status [account]",
		Short: "Print the claim status of an account, or every claimed account",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(status)(args, cmd.OutOrStdout())
		},
	}
}
