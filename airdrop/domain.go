package airdrop

import (
	"errors"
	"math/big"

	"github.com/celer-network/go-airdrop/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	solsha3 "github.com/miguelmota/go-solidity-sha3"
)

const (
	domainType = "EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"
	claimType  = "AirdropClaim(address account,uint256 amount)"
)

var (
	DomainTypeHash = crypto.Keccak256Hash([]byte(domainType))
	ClaimTypeHash  = crypto.Keccak256Hash([]byte(claimType))

	eip712Prefix = []byte{0x19, 0x01}
)

// Domain identifies the airdrop instance a claim signature is valid for.
type Domain struct {
	Name              string
	Version           string
	ChainID           *big.Int
	VerifyingContract common.Address
}

// MessageHasher computes the EIP-712 digest an account holder signs to
// authorize a claim. The domain separator is fixed at construction.
type MessageHasher struct {
	serializer      *types.Serializer
	domain          Domain
	domainSeparator common.Hash
}

func NewMessageHasher(serializer *types.Serializer, domain Domain) (*MessageHasher, error) {
	if domain.ChainID == nil {
		return nil, errors.New("domain chain id is required")
	}
	encoded, err := serializer.SerializeDomain(
		DomainTypeHash,
		crypto.Keccak256Hash([]byte(domain.Name)),
		crypto.Keccak256Hash([]byte(domain.Version)),
		domain.ChainID,
		domain.VerifyingContract,
	)
	if err != nil {
		return nil, err
	}
	domain.ChainID = new(big.Int).Set(domain.ChainID)
	return &MessageHasher{
		serializer:      serializer,
		domain:          domain,
		domainSeparator: crypto.Keccak256Hash(encoded),
	}, nil
}

func (h *MessageHasher) DomainSeparator() common.Hash {
	return h.domainSeparator
}

func (h *MessageHasher) Domain() Domain {
	d := h.domain
	d.ChainID = new(big.Int).Set(h.domain.ChainID)
	return d
}

// StructHash returns hashStruct(AirdropClaim{account, amount}).
func (h *MessageHasher) StructHash(account common.Address, amount *big.Int) (common.Hash, error) {
	encoded, err := h.serializer.SerializeClaimStruct(ClaimTypeHash, types.NewClaim(account, amount))
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(encoded), nil
}

// MessageHash returns keccak256(0x1901 || domainSeparator || structHash).
func (h *MessageHasher) MessageHash(account common.Address, amount *big.Int) (common.Hash, error) {
	structHash, err := h.StructHash(account, amount)
	if err != nil {
		return common.Hash{}, err
	}
	return common.BytesToHash(solsha3.SoliditySHA3(eip712Prefix, h.domainSeparator[:], structHash[:])), nil
}
