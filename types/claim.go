package types

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// SignatureLength is the size of a [R || S || V] encoded signature.
const SignatureLength = 65

var errSignatureLength = errors.New("signature must be 65 bytes")

// Claim is an (account, amount) pair presented for payout.
type Claim struct {
	Account common.Address
	Amount  *big.Int
}

func NewClaim(account common.Address, amount *big.Int) *Claim {
	return &Claim{Account: account, Amount: amount}
}

// Signature is a secp256k1 recoverable signature. V is the recovery id, either
// 0/1 or the 27/28 form produced by Ethereum wallets.
type Signature struct {
	V uint8
	R common.Hash
	S common.Hash
}

// SignatureFromBytes splits a 65-byte [R || S || V] signature.
func SignatureFromBytes(sig []byte) (*Signature, error) {
	if len(sig) != SignatureLength {
		return nil, errSignatureLength
	}
	return &Signature{
		R: common.BytesToHash(sig[:32]),
		S: common.BytesToHash(sig[32:64]),
		V: sig[64],
	}, nil
}

// Bytes returns the 65-byte [R || S || V] form, with V as stored.
func (s *Signature) Bytes() []byte {
	out := make([]byte, SignatureLength)
	copy(out[:32], s.R[:])
	copy(out[32:64], s.S[:])
	out[64] = s.V
	return out
}
