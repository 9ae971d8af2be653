package types

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrNilAmount      = errors.New("amount is nil")
	ErrNegativeAmount = errors.New("amount is negative")
	ErrAmountTooLarge = errors.New("amount exceeds uint256")
)

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// Serializer abi-encodes the fixed-width tuples hashed by the airdrop.
// Every encoding is 32 bytes per static field, so distinct tuples never collide.
type Serializer struct {
	typeRegistry         *typeRegistry
	claimArguments       abi.Arguments
	claimStructArguments abi.Arguments
	domainArguments      abi.Arguments
	eligibilityArguments abi.Arguments
}

func NewSerializer() (*Serializer, error) {
	r, err := newTypeRegistry()
	if err != nil {
		return nil, err
	}
	return &Serializer{
		typeRegistry: r,
		claimArguments: abi.Arguments{
			{Name: "account", Type: r.addressTy},
			{Name: "amount", Type: r.uint256Ty},
		},
		claimStructArguments: abi.Arguments{
			{Name: "typeHash", Type: r.bytes32Ty},
			{Name: "account", Type: r.addressTy},
			{Name: "amount", Type: r.uint256Ty},
		},
		domainArguments: abi.Arguments{
			{Name: "typeHash", Type: r.bytes32Ty},
			{Name: "nameHash", Type: r.bytes32Ty},
			{Name: "versionHash", Type: r.bytes32Ty},
			{Name: "chainId", Type: r.uint256Ty},
			{Name: "verifyingContract", Type: r.addressTy},
		},
		eligibilityArguments: abi.Arguments{
			{Name: "amount", Type: r.uint256Ty},
			{Name: "proof", Type: r.bytes32SliceTy},
		},
	}, nil
}

// CheckAmount reports whether amount is representable as a uint256.
func CheckAmount(amount *big.Int) error {
	switch {
	case amount == nil:
		return ErrNilAmount
	case amount.Sign() < 0:
		return ErrNegativeAmount
	case amount.Cmp(maxUint256) > 0:
		return ErrAmountTooLarge
	}
	return nil
}

// SerializeClaim returns abi.encode(account, amount).
func (s *Serializer) SerializeClaim(claim *Claim) ([]byte, error) {
	if err := CheckAmount(claim.Amount); err != nil {
		return nil, err
	}
	return s.claimArguments.Pack(claim.Account, claim.Amount)
}

// SerializeClaimStruct returns abi.encode(typeHash, account, amount), the EIP-712
// encodeData of a Claim struct prefixed by its type hash.
func (s *Serializer) SerializeClaimStruct(typeHash common.Hash, claim *Claim) ([]byte, error) {
	if err := CheckAmount(claim.Amount); err != nil {
		return nil, err
	}
	return s.claimStructArguments.Pack([32]byte(typeHash), claim.Account, claim.Amount)
}

// SerializeDomain returns the EIP-712 encodeData of an EIP712Domain.
func (s *Serializer) SerializeDomain(
	typeHash common.Hash,
	nameHash common.Hash,
	versionHash common.Hash,
	chainID *big.Int,
	verifyingContract common.Address,
) ([]byte, error) {
	if err := CheckAmount(chainID); err != nil {
		return nil, err
	}
	return s.domainArguments.Pack(
		[32]byte(typeHash), [32]byte(nameHash), [32]byte(versionHash), chainID, verifyingContract)
}

// SerializeEligibility encodes a stored eligibility record.
func (s *Serializer) SerializeEligibility(amount *big.Int, proof []common.Hash) ([]byte, error) {
	if err := CheckAmount(amount); err != nil {
		return nil, err
	}
	nodes := make([][32]byte, len(proof))
	for i, node := range proof {
		nodes[i] = node
	}
	return s.eligibilityArguments.Pack(amount, nodes)
}

// DeserializeEligibility decodes a record written by SerializeEligibility.
func (s *Serializer) DeserializeEligibility(data []byte) (*big.Int, []common.Hash, error) {
	values, err := s.eligibilityArguments.UnpackValues(data)
	if err != nil {
		return nil, nil, err
	}
	if len(values) != 2 {
		return nil, nil, errors.New("malformed eligibility record")
	}
	amount, ok := values[0].(*big.Int)
	if !ok {
		return nil, nil, errors.New("malformed eligibility amount")
	}
	nodes, ok := values[1].([][32]byte)
	if !ok {
		return nil, nil, errors.New("malformed eligibility proof")
	}
	proof := make([]common.Hash, len(nodes))
	for i, node := range nodes {
		proof[i] = common.Hash(node)
	}
	return amount, proof, nil
}
