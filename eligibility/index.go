package eligibility

import (
	"errors"
	"math/big"

	"github.com/celer-network/go-airdrop/airdrop"
	"github.com/celer-network/go-airdrop/db"
	"github.com/celer-network/go-airdrop/merkle"
	"github.com/celer-network/go-airdrop/types"
	"github.com/ethereum/go-ethereum/common"
)

var ErrNoIndex = errors.New("no eligibility index stored")

// Entry is one account's allocation with its proof against Root.
type Entry struct {
	Account common.Address
	Amount  *big.Int
	Proof   merkle.Proof
}

// Set is a built eligibility tree.
type Set struct {
	Root    common.Hash
	Entries []*Entry
}

// Build commits to claims and computes every account's proof.
func Build(claims []*types.Claim, encoder *airdrop.LeafEncoder, newHasher merkle.Hasher) (*Set, error) {
	leaves := make([]common.Hash, len(claims))
	for i, claim := range claims {
		leaf, err := encoder.EncodeLeaf(claim.Account, claim.Amount)
		if err != nil {
			return nil, err
		}
		leaves[i] = leaf
	}
	tree, err := merkle.NewTree(leaves, newHasher)
	if err != nil {
		return nil, err
	}

	set := &Set{Root: tree.Root(), Entries: make([]*Entry, len(claims))}
	for i, claim := range claims {
		proof, err := tree.Prove(leaves[i])
		if err != nil {
			return nil, err
		}
		set.Entries[i] = &Entry{Account: claim.Account, Amount: claim.Amount, Proof: proof}
	}
	return set, nil
}

// Index persists a Set so proofs can be served by account.
type Index struct {
	db         db.DB
	serializer *types.Serializer
}

func NewIndex(database db.DB, serializer *types.Serializer) *Index {
	return &Index{db: database, serializer: serializer}
}

// Store writes every entry and the root in one bulk write.
func (idx *Index) Store(set *Set) error {
	bulk := idx.db.NewBulk()
	for _, entry := range set.Entries {
		record, err := idx.serializer.SerializeEligibility(entry.Amount, entry.Proof)
		if err != nil {
			bulk.DiscardLast()
			return err
		}
		if err := bulk.Set(db.NamespaceEligibility, entry.Account.Bytes(), record); err != nil {
			bulk.DiscardLast()
			return err
		}
	}
	if err := bulk.Set(db.NamespaceMeta, db.KeyMerkleRoot, set.Root.Bytes()); err != nil {
		bulk.DiscardLast()
		return err
	}
	return bulk.Flush()
}

// Root returns the root of the stored set.
func (idx *Index) Root() (common.Hash, error) {
	value, exists, err := idx.db.Get(db.NamespaceMeta, db.KeyMerkleRoot)
	if err != nil {
		return common.Hash{}, err
	}
	if !exists {
		return common.Hash{}, ErrNoIndex
	}
	return common.BytesToHash(value), nil
}

// Lookup returns the stored entry of account, or nil if it is not eligible.
func (idx *Index) Lookup(account common.Address) (*Entry, error) {
	record, exists, err := idx.db.Get(db.NamespaceEligibility, account.Bytes())
	if err != nil || !exists {
		return nil, err
	}
	amount, proof, err := idx.serializer.DeserializeEligibility(record)
	if err != nil {
		return nil, err
	}
	return &Entry{Account: account, Amount: amount, Proof: proof}, nil
}
