package merkle

import (
	"bytes"
	"errors"
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrEmptyTree     = errors.New("merkle tree needs at least one leaf")
	ErrDuplicateLeaf = errors.New("duplicate merkle leaf")
	ErrUnknownLeaf   = errors.New("leaf is not in the tree")
)

// Tree is a complete binary tree stored as a flat array, root at index 0 and
// the children of node i at 2i+1 and 2i+2. Leaves are sorted so the root only
// depends on the leaf set, not on input order.
type Tree struct {
	newHasher Hasher
	nodes     []common.Hash
	index     map[common.Hash]int
}

// NewTree builds a tree over leaves, which must be distinct.
func NewTree(leaves []common.Hash, newHasher Hasher) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyTree
	}

	sorted := make([]common.Hash, len(leaves))
	copy(sorted, leaves)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i][:], sorted[j][:]) < 0
	})

	tree := &Tree{
		newHasher: newHasher,
		nodes:     make([]common.Hash, 2*len(sorted)-1),
		index:     make(map[common.Hash]int, len(sorted)),
	}
	for i, leaf := range sorted {
		pos := len(tree.nodes) - 1 - i
		if _, dup := tree.index[leaf]; dup {
			return nil, ErrDuplicateLeaf
		}
		tree.nodes[pos] = leaf
		tree.index[leaf] = pos
	}
	hasher := newHasher()
	for i := len(tree.nodes) - 1 - len(sorted); i >= 0; i-- {
		tree.nodes[i] = hashPair(hasher, tree.nodes[2*i+1], tree.nodes[2*i+2])
	}
	return tree, nil
}

// Root gets the root of the tree.
func (t *Tree) Root() common.Hash {
	return t.nodes[0]
}

// Len returns the number of leaves.
func (t *Tree) Len() int {
	return len(t.index)
}

// Prove generates the inclusion proof of leaf.
func (t *Tree) Prove(leaf common.Hash) (Proof, error) {
	pos, ok := t.index[leaf]
	if !ok {
		return nil, ErrUnknownLeaf
	}
	var proof Proof
	for pos > 0 {
		proof = append(proof, t.nodes[siblingIndex(pos)])
		pos = (pos - 1) / 2
	}
	return proof, nil
}

// VerifyProof checks proof against the tree's own root. It is safe for
// concurrent use.
func (t *Tree) VerifyProof(proof Proof, leaf common.Hash) bool {
	return VerifyProof(proof, t.Root(), leaf, t.newHasher())
}

func siblingIndex(pos int) int {
	if pos%2 == 1 {
		return pos + 1
	}
	return pos - 1
}
