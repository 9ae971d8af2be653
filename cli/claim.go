package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/celer-network/go-airdrop/airdrop"
	"github.com/celer-network/go-airdrop/db/memorydb"
	"github.com/celer-network/go-airdrop/token"
	"github.com/celer-network/go-airdrop/types"
	"github.com/celer-network/go-airdrop/utils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type claimOutput struct {
	Account string `yaml:"account"`
	Amount  string `yaml:"amount"`
	Token   string `yaml:"token"`
	DryRun  bool   `yaml:"dryRun"`
}

// erc20Token connects to the configured chain and pays from the keystore
// account.
func erc20Token(e *env) (airdrop.Token, error) {
	if e.cfg.Token == (common.Address{}) {
		return nil, errors.New("token is not configured")
	}
	if e.cfg.Ethereum.Endpoint == "" {
		return nil, errors.New("ethereum.endpoint is not configured")
	}
	client, err := ethclient.Dial(e.cfg.Ethereum.Endpoint)
	if err != nil {
		return nil, err
	}
	auth, err := utils.GetAuthFromKeystore(keystorePath(e), keystorePassword(e))
	if err != nil {
		return nil, err
	}
	return token.NewERC20(e.cfg.Token, client, auth)
}

// dryRunLedger copies the claimed flag of account into a scratch ledger so a
// dry run never marks the real one.
func dryRunLedger(e *env, account common.Address) (*airdrop.Ledger, error) {
	claimed, err := airdrop.NewLedger(e.db).HasClaimed(account)
	if err != nil {
		return nil, err
	}
	ledger := airdrop.NewLedger(memorydb.NewDB())
	if claimed {
		if err := ledger.MarkClaimed(account); err != nil {
			return nil, err
		}
	}
	return ledger, nil
}

func claim(e *env, args []string, out io.Writer) error {
	account, err := parseAccount(args[0])
	if err != nil {
		return err
	}
	sigBytes, err := hexutil.Decode(viper.GetString(flagSignature))
	if err != nil {
		return fmt.Errorf("invalid signature: %w", err)
	}
	sig, err := types.SignatureFromBytes(sigBytes)
	if err != nil {
		return err
	}
	amount, err := e.claimAmount(account)
	if err != nil {
		return err
	}
	var proof []common.Hash
	entry, err := e.index.Lookup(account)
	if err != nil {
		return err
	}
	if entry != nil {
		proof = entry.Proof
	}
	root, err := e.root()
	if err != nil {
		return err
	}
	processorConfig, err := e.cfg.ProcessorConfig(root)
	if err != nil {
		return err
	}

	dryRun := viper.GetBool(flagDryRun)
	var tok airdrop.Token
	var ledger *airdrop.Ledger
	if dryRun {
		tok = token.NewMemory(e.cfg.Token, amount)
		if ledger, err = dryRunLedger(e, account); err != nil {
			return err
		}
	} else {
		if tok, err = erc20Token(e); err != nil {
			return err
		}
		ledger = airdrop.NewLedger(e.db)
	}

	processor, err := airdrop.NewProcessor(processorConfig, ledger, tok)
	if err != nil {
		return err
	}
	processor.Subscribe(airdrop.EventSinkFunc(func(event *airdrop.ClaimedEvent) {
		logger.Info().Str("account", event.Account.Hex()).Str("amount", event.Amount.String()).Bool("dryRun", dryRun).Msg("Claimed")
	}))
	if err := processor.Claim(context.Background(), account, amount, proof, sig); err != nil {
		return err
	}
	return writeYaml(out, &claimOutput{
		Account: account.Hex(),
		Amount:  amount.String(),
		Token:   processor.AirdropToken().Hex(),
		DryRun:  dryRun,
	})
}

func ClaimCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim <account>",
		Short: "Validate a signed claim against the stored proof and pay it out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(claim)(args, cmd.OutOrStdout())
		},
	}
	cmd.Flags().String(flagSignature, "", "65-byte claimer signature, hex")
	cmd.Flags().String(flagAmount, "", "claimed amount, defaults to the indexed amount")
	cmd.Flags().String(flagKeystore, "", "treasury keystore, defaults to ethereum.keystore")
	cmd.Flags().String(flagPassword, "", "keystore password, defaults to ethereum.password")
	cmd.Flags().Bool(flagDryRun, false, "pay from an in-memory treasury and leave the ledger untouched")
	return cmd
}
