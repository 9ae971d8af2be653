package airdrop

import (
	"math/big"

	"github.com/celer-network/go-airdrop/merkle"
	"github.com/celer-network/go-airdrop/types"
	"github.com/ethereum/go-ethereum/common"
)

// LeafEncoder turns an (account, amount) pair into its Merkle leaf.
type LeafEncoder struct {
	serializer *types.Serializer
	newHasher  merkle.Hasher
}

func NewLeafEncoder(serializer *types.Serializer, newHasher merkle.Hasher) *LeafEncoder {
	return &LeafEncoder{serializer: serializer, newHasher: newHasher}
}

// EncodeLeaf returns H(H(abi.encode(account, amount))). The second hash keeps a
// 64-byte interior node preimage from ever parsing as a leaf.
func (e *LeafEncoder) EncodeLeaf(account common.Address, amount *big.Int) (common.Hash, error) {
	data, err := e.serializer.SerializeClaim(types.NewClaim(account, amount))
	if err != nil {
		return common.Hash{}, err
	}
	hasher := e.newHasher()
	hasher.Write(data)
	inner := hasher.Sum(nil)
	hasher.Reset()
	hasher.Write(inner)
	return common.BytesToHash(hasher.Sum(nil)), nil
}
