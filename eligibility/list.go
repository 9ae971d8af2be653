// Package eligibility builds the Merkle commitment of an airdrop list and
// keeps the per-account proofs claimants need.
package eligibility

import (
	"fmt"
	"io/ioutil"
	"math/big"

	"github.com/celer-network/go-airdrop/types"
	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v2"
)

type listFile struct {
	Entries []listEntry `yaml:"entries"`
}

type listEntry struct {
	Account string `yaml:"account"`
	Amount  string `yaml:"amount"`
}

// ParseList decodes a yaml list of entries:
//
//	entries:
//	  - account: "0x70997970c51812dc3a010c7d01b50e0d17dc79c8"
//	    amount: "25000000000000000000"
func ParseList(data []byte) ([]*types.Claim, error) {
	var file listFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, err
	}

	seen := make(map[common.Address]bool, len(file.Entries))
	claims := make([]*types.Claim, 0, len(file.Entries))
	for i, entry := range file.Entries {
		if !common.IsHexAddress(entry.Account) {
			return nil, fmt.Errorf("entry %d: invalid account %q", i, entry.Account)
		}
		account := common.HexToAddress(entry.Account)
		if seen[account] {
			return nil, fmt.Errorf("entry %d: duplicate account %s", i, account.Hex())
		}
		seen[account] = true

		amount, ok := new(big.Int).SetString(entry.Amount, 10)
		if !ok {
			return nil, fmt.Errorf("entry %d: invalid amount %q", i, entry.Amount)
		}
		if err := types.CheckAmount(amount); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		claims = append(claims, types.NewClaim(account, amount))
	}
	return claims, nil
}

// LoadList reads a list file written in the ParseList format.
func LoadList(path string) ([]*types.Claim, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseList(data)
}
