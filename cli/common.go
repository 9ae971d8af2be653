// Package cli holds the airdrop subcommands.
package cli

import (
	"fmt"
	"io"
	"math/big"

	"github.com/celer-network/go-airdrop/airdrop"
	"github.com/celer-network/go-airdrop/config"
	"github.com/celer-network/go-airdrop/db"
	"github.com/celer-network/go-airdrop/eligibility"
	"github.com/celer-network/go-airdrop/log"
	"github.com/celer-network/go-airdrop/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const (
	FlagConfig = "config"

	flagList      = "list"
	flagOut       = "out"
	flagAmount    = "amount"
	flagKeystore  = "keystore"
	flagPassword  = "password"
	flagSignature = "signature"
	flagDryRun    = "dryrun"
)

var logger = log.NewLogger("cli")

type env struct {
	cfg        *config.Config
	db         db.DB
	serializer *types.Serializer
	encoder    *airdrop.LeafEncoder
	index      *eligibility.Index
}

func newEnv(cfg *config.Config, database db.DB) (*env, error) {
	serializer, err := types.NewSerializer()
	if err != nil {
		return nil, err
	}
	return &env{
		cfg:        cfg,
		db:         database,
		serializer: serializer,
		encoder:    airdrop.NewLeafEncoder(serializer, cfg.TreeHasher()),
		index:      eligibility.NewIndex(database, serializer),
	}, nil
}

// openEnv loads the config file named by the config flag and opens its db.
func openEnv() (*env, error) {
	cfg, err := config.ReadFile(viper.GetString(FlagConfig))
	if err != nil {
		return nil, err
	}
	database, err := cfg.OpenDB()
	if err != nil {
		return nil, err
	}
	if cfg.DB.Backend == config.BackendMemory {
		logger.Warn().Msg("db.backend is memorydb: the index and ledger are dropped when the command exits")
	}
	e, err := newEnv(cfg, database)
	if err != nil {
		database.Close()
		return nil, err
	}
	return e, nil
}

func (e *env) close() error {
	return e.db.Close()
}

func (e *env) root() (common.Hash, error) {
	if e.cfg.MerkleRoot != (common.Hash{}) {
		return e.cfg.MerkleRoot, nil
	}
	return e.index.Root()
}

func (e *env) messageHasher() (*airdrop.MessageHasher, error) {
	return airdrop.NewMessageHasher(e.serializer, e.cfg.Domain())
}

// withEnv wraps a command body that needs the configured environment.
func withEnv(run func(e *env, args []string, out io.Writer) error) func([]string, io.Writer) error {
	return func(args []string, out io.Writer) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()
		return run(e, args, out)
	}
}

func parseAccount(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid account %q", s)
	}
	return common.HexToAddress(s), nil
}

func parseAmount(s string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	if err := types.CheckAmount(amount); err != nil {
		return nil, err
	}
	return amount, nil
}

func writeYaml(out io.Writer, v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

type proofOutput struct {
	Account string   `yaml:"account"`
	Amount  string   `yaml:"amount"`
	Proof   []string `yaml:"proof"`
}

func newProofOutput(entry *eligibility.Entry) *proofOutput {
	proof := make([]string, len(entry.Proof))
	for i, node := range entry.Proof {
		proof[i] = node.Hex()
	}
	return &proofOutput{
		Account: entry.Account.Hex(),
		Amount:  entry.Amount.String(),
		Proof:   proof,
	}
}

// lookup returns the indexed entry of account or an error naming it.
func (e *env) lookup(account common.Address) (*eligibility.Entry, error) {
	entry, err := e.index.Lookup(account)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("account %s is not eligible", account.Hex())
	}
	return entry, nil
}
