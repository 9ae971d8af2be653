package cli

import (
	"fmt"
	"io"
	"math/big"

	"github.com/celer-network/go-airdrop/airdrop"
	"github.com/celer-network/go-airdrop/utils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type digestOutput struct {
	DomainSeparator string `yaml:"domainSeparator"`
	StructHash      string `yaml:"structHash"`
	Digest          string `yaml:"digest"`
}

func digest(e *env, args []string, out io.Writer) error {
	account, err := parseAccount(args[0])
	if err != nil {
		return err
	}
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	hasher, err := e.messageHasher()
	if err != nil {
		return err
	}
	structHash, err := hasher.StructHash(account, amount)
	if err != nil {
		return err
	}
	msgHash, err := hasher.MessageHash(account, amount)
	if err != nil {
		return err
	}
	return writeYaml(out, &digestOutput{
		DomainSeparator: hasher.DomainSeparator().Hex(),
		StructHash:      structHash.Hex(),
		Digest:          msgHash.Hex(),
	})
}

func DigestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "digest <account> <amount>",
		Short: "Print the typed message digest an account signs to claim amount",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(digest)(args, cmd.OutOrStdout())
		},
	}
}

// claimAmount returns the amount flag if set, else the indexed amount.
func (e *env) claimAmount(account common.Address) (*big.Int, error) {
	if s := viper.GetString(flagAmount); s != "" {
		return parseAmount(s)
	}
	entry, err := e.lookup(account)
	if err != nil {
		return nil, err
	}
	return entry.Amount, nil
}

func keystorePath(e *env) string {
	if path := viper.GetString(flagKeystore); path != "" {
		return path
	}
	return e.cfg.Ethereum.Keystore
}

func keystorePassword(e *env) string {
	if password := viper.GetString(flagPassword); password != "" {
		return password
	}
	return e.cfg.Ethereum.Password
}

type signOutput struct {
	Account   string `yaml:"account"`
	Amount    string `yaml:"amount"`
	Signature string `yaml:"signature"`
}

func sign(e *env, _ []string, out io.Writer) error {
	path := keystorePath(e)
	if path == "" {
		return fmt.Errorf("no keystore given")
	}
	key, err := utils.GetPrivateKeyFromKeystore(path, keystorePassword(e))
	if err != nil {
		return err
	}
	account := crypto.PubkeyToAddress(key.PublicKey)
	amount, err := e.claimAmount(account)
	if err != nil {
		return err
	}
	hasher, err := e.messageHasher()
	if err != nil {
		return err
	}
	sig, err := airdrop.SignClaim(key, hasher, account, amount)
	if err != nil {
		return err
	}
	return writeYaml(out, &signOutput{
		Account:   account.Hex(),
		Amount:    amount.String(),
		Signature: hexutil.Encode(sig.Bytes()),
	})
}

func SignCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign the claim of the keystore account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(sign)(args, cmd.OutOrStdout())
		},
	}
	cmd.Flags().String(flagKeystore, "", "claimer keystore, defaults to ethereum.keystore")
	cmd.Flags().String(flagPassword, "", "keystore password, defaults to ethereum.password")
	cmd.Flags().String(flagAmount, "", "claimed amount, defaults to the indexed amount")
	return cmd
}
