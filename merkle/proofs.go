package merkle

import (
	"hash"

	"github.com/ethereum/go-ethereum/common"
)

// Proof is the ordered list of sibling hashes from a leaf up to the root.
type Proof []common.Hash

// ProcessProof folds proof into leaf and returns the root it leads to.
func ProcessProof(proof Proof, leaf common.Hash, hasher hash.Hash) common.Hash {
	current := leaf
	for _, sibling := range proof {
		current = hashPair(hasher, current, sibling)
	}
	return current
}

// VerifyProof reports whether proof leads from leaf to root. An empty proof
// only verifies a leaf that is itself the root.
func VerifyProof(proof Proof, root common.Hash, leaf common.Hash, hasher hash.Hash) bool {
	return ProcessProof(proof, leaf, hasher) == root
}
