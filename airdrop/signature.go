package airdrop

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/celer-network/go-airdrop/types"
	"github.com/celer-network/go-airdrop/utils"
	"github.com/ethereum/go-ethereum/common"
)

// IsAuthorized reports whether sig over digest recovers to claimedSigner.
// Malformed signatures recover to no signer and are simply unauthorized.
func IsAuthorized(claimedSigner common.Address, digest common.Hash, sig *types.Signature) bool {
	return utils.SigIsValid(claimedSigner, digest, sig)
}

// SignClaim produces the signature the holder of key submits to claim amount.
func SignClaim(key *ecdsa.PrivateKey, hasher *MessageHasher, account common.Address, amount *big.Int) (*types.Signature, error) {
	digest, err := hasher.MessageHash(account, amount)
	if err != nil {
		return nil, err
	}
	return utils.SignHash(key, digest)
}
