package cli

import (
	"io"
	"os"

	"github.com/celer-network/go-airdrop/eligibility"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type buildOutput struct {
	Root    string         `yaml:"root"`
	Entries []*proofOutput `yaml:"entries"`
}

func build(e *env, _ []string, out io.Writer) error {
	claims, err := eligibility.LoadList(viper.GetString(flagList))
	if err != nil {
		return err
	}
	set, err := eligibility.Build(claims, e.encoder, e.cfg.TreeHasher())
	if err != nil {
		return err
	}
	if err := e.index.Store(set); err != nil {
		return err
	}
	logger.Info().Str("root", set.Root.Hex()).Int("entries", len(set.Entries)).Msg("eligibility list stored")

	result := &buildOutput{Root: set.Root.Hex()}
	for _, entry := range set.Entries {
		result.Entries = append(result.Entries, newProofOutput(entry))
	}
	if path := viper.GetString(flagOut); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return writeYaml(f, result)
	}
	return writeYaml(out, result)
}

func BuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the Merkle tree of an eligibility list and store every proof",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(build)(args, cmd.OutOrStdout())
		},
	}
	cmd.Flags().String(flagList, "list.yaml", "eligibility list path")
	cmd.Flags().String(flagOut, "", "write the proofs to this file instead of stdout")
	return cmd
}
