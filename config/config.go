// Package config loads the airdrop parameters shared by the CLI commands.
package config

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/celer-network/go-airdrop/airdrop"
	"github.com/celer-network/go-airdrop/db"
	"github.com/celer-network/go-airdrop/db/badgerdb"
	"github.com/celer-network/go-airdrop/db/memorydb"
	"github.com/celer-network/go-airdrop/merkle"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/viper"
)

const (
	KeyName              = "name"
	KeyVersion           = "version"
	KeyChainID           = "chainId"
	KeyVerifyingContract = "verifyingContract"
	KeyMerkleRoot        = "merkleRoot"
	KeyToken             = "token"
	KeyDBBackend         = "db.backend"
	KeyDBDir             = "db.dir"
	KeyTreeHash          = "tree.hash"
	KeyEthereumEndpoint  = "ethereum.endpoint"
	KeyEthereumKeystore  = "ethereum.keystore"
	KeyEthereumPassword  = "ethereum.password"
)

const (
	BackendMemory = "memorydb"
	BackendBadger = "badgerdb"

	DefaultDBDir = "./airdropdb"
)

var ErrNoMerkleRoot = errors.New("merkleRoot is not configured")

type DBConfig struct {
	Backend string
	Dir     string
}

type EthereumConfig struct {
	Endpoint string
	Keystore string
	Password string
}

type Config struct {
	Name              string
	Version           string
	ChainID           *big.Int
	VerifyingContract common.Address
	// MerkleRoot is zero until the eligibility list has been built.
	MerkleRoot common.Hash
	Token      common.Address
	TreeHash   string
	DB         DBConfig
	Ethereum   EthereumConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyVersion, "1")
	v.SetDefault(KeyChainID, "1")
	v.SetDefault(KeyDBBackend, BackendBadger)
	v.SetDefault(KeyDBDir, DefaultDBDir)
	v.SetDefault(KeyTreeHash, merkle.HasherNameKeccak256)
}

// ReadFile loads and validates the config file at path.
func ReadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return Load(v)
}

// Load validates the values held by v.
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	c := &Config{
		Name:     v.GetString(KeyName),
		Version:  v.GetString(KeyVersion),
		TreeHash: v.GetString(KeyTreeHash),
		DB: DBConfig{
			Backend: v.GetString(KeyDBBackend),
			Dir:     v.GetString(KeyDBDir),
		},
		Ethereum: EthereumConfig{
			Endpoint: v.GetString(KeyEthereumEndpoint),
			Keystore: v.GetString(KeyEthereumKeystore),
			Password: v.GetString(KeyEthereumPassword),
		},
	}
	if c.Name == "" {
		return nil, fmt.Errorf("%s is required", KeyName)
	}

	chainID, ok := new(big.Int).SetString(v.GetString(KeyChainID), 0)
	if !ok || chainID.Sign() < 0 {
		return nil, fmt.Errorf("invalid %s %q", KeyChainID, v.GetString(KeyChainID))
	}
	c.ChainID = chainID

	var err error
	if c.VerifyingContract, err = parseAddress(v, KeyVerifyingContract, true); err != nil {
		return nil, err
	}
	if c.Token, err = parseAddress(v, KeyToken, false); err != nil {
		return nil, err
	}
	if root := v.GetString(KeyMerkleRoot); root != "" {
		b, err := hexutil.Decode(root)
		if err != nil || len(b) != common.HashLength {
			return nil, fmt.Errorf("invalid %s %q", KeyMerkleRoot, root)
		}
		c.MerkleRoot = common.BytesToHash(b)
	}
	if _, err := merkle.HasherByName(c.TreeHash); err != nil {
		return nil, err
	}
	switch c.DB.Backend {
	case BackendMemory:
	case BackendBadger:
		if c.DB.Dir == "" {
			return nil, fmt.Errorf("%s is required for %s", KeyDBDir, BackendBadger)
		}
	default:
		return nil, fmt.Errorf("unknown %s %q", KeyDBBackend, c.DB.Backend)
	}
	return c, nil
}

func parseAddress(v *viper.Viper, key string, required bool) (common.Address, error) {
	s := v.GetString(key)
	if s == "" {
		if required {
			return common.Address{}, fmt.Errorf("%s is required", key)
		}
		return common.Address{}, nil
	}
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid %s %q", key, s)
	}
	return common.HexToAddress(s), nil
}

func (c *Config) Domain() airdrop.Domain {
	return airdrop.Domain{
		Name:              c.Name,
		Version:           c.Version,
		ChainID:           new(big.Int).Set(c.ChainID),
		VerifyingContract: c.VerifyingContract,
	}
}

func (c *Config) TreeHasher() merkle.Hasher {
	// Validated by Load.
	hasher, _ := merkle.HasherByName(c.TreeHash)
	return hasher
}

// ProcessorConfig uses root when MerkleRoot is not configured.
func (c *Config) ProcessorConfig(root common.Hash) (*airdrop.ProcessorConfig, error) {
	if c.MerkleRoot != (common.Hash{}) {
		root = c.MerkleRoot
	}
	if root == (common.Hash{}) {
		return nil, ErrNoMerkleRoot
	}
	return &airdrop.ProcessorConfig{
		MerkleRoot: root,
		Domain:     c.Domain(),
		TreeHasher: c.TreeHasher(),
	}, nil
}

func (c *Config) OpenDB() (db.DB, error) {
	if c.DB.Backend == BackendBadger {
		database, err := badgerdb.NewDB(c.DB.Dir)
		if err != nil {
			return nil, err
		}
		return database, nil
	}
	return memorydb.NewDB(), nil
}
