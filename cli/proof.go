package cli

import (
	"io"

	"github.com/spf13/cobra"
)

type rootedProofOutput struct {
	Root        string `yaml:"root"`
	proofOutput `yaml:",inline"`
}

func proof(e *env, args []string, out io.Writer) error {
	account, err := parseAccount(args[0])
	if err != nil {
		return err
	}
	root, err := e.index.Root()
	if err != nil {
		return err
	}
	entry, err := e.lookup(account)
	if err != nil {
		return err
	}
	return writeYaml(out, &rootedProofOutput{Root: root.Hex(), proofOutput: *newProofOutput(entry)})
}

func ProofCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "proof <account>",
		Short: "Print the stored amount and Merkle proof of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(proof)(args, cmd.OutOrStdout())
		},
	}
}
