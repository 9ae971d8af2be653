// Package merkle implements the sorted-pair binary Merkle tree used to commit
// to an eligibility set, and verification of its inclusion proofs.
package merkle

import (
	"bytes"
	"fmt"
	"hash"

	"github.com/ethereum/go-ethereum/common"
	"github.com/minio/sha256-simd"
	"golang.org/x/crypto/sha3"
)

// Hasher creates the hash function for leaves and interior nodes.
type Hasher func() hash.Hash

var (
	Keccak256 Hasher = sha3.NewLegacyKeccak256
	SHA256    Hasher = sha256.New
)

const (
	HasherNameKeccak256 = "keccak256"
	HasherNameSHA256    = "sha256"
)

// HasherByName resolves a configured hash name.
func HasherByName(name string) (Hasher, error) {
	switch name {
	case "", HasherNameKeccak256:
		return Keccak256, nil
	case HasherNameSHA256:
		return SHA256, nil
	}
	return nil, fmt.Errorf("unknown merkle hash %q", name)
}

func digest(hasher hash.Hash, data ...[]byte) common.Hash {
	hasher.Reset()
	for _, d := range data {
		hasher.Write(d)
	}
	var out common.Hash
	copy(out[:], hasher.Sum(nil))
	hasher.Reset()
	return out
}

// hashPair hashes two nodes in ascending byte order, so a proof never has to
// say on which side a sibling sits.
func hashPair(hasher hash.Hash, a common.Hash, b common.Hash) common.Hash {
	if bytes.Compare(a[:], b[:]) < 0 {
		return digest(hasher, a[:], b[:])
	}
	return digest(hasher, b[:], a[:])
}
