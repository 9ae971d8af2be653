package utils

import (
	"crypto/ecdsa"
	"io/ioutil"
	"math/big"

	"github.com/celer-network/go-airdrop/types"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// NoSigner is what RecoverSigner yields when no signer can be recovered.
var NoSigner = common.Address{}

// SigIsValid reports whether sig over digest was produced by signer. The zero
// address is never a valid signer.
func SigIsValid(signer common.Address, digest common.Hash, sig *types.Signature) bool {
	recovered := RecoverSigner(digest, sig)
	return recovered != NoSigner && recovered == signer
}

// RecoverSigner recovers the address that signed digest. It never fails:
// out-of-range recovery ids, zero or out-of-range scalars, high-s (malleable)
// signatures and points off the curve all yield NoSigner.
func RecoverSigner(digest common.Hash, sig *types.Signature) common.Address {
	if sig == nil {
		return NoSigner
	}
	v := sig.V
	if v >= 27 {
		v -= 27
	}
	r := new(big.Int).SetBytes(sig.R[:])
	s := new(big.Int).SetBytes(sig.S[:])
	if !crypto.ValidateSignatureValues(v, r, s, true) {
		return NoSigner
	}

	raw := make([]byte, types.SignatureLength)
	copy(raw[:32], sig.R[:])
	copy(raw[32:64], sig.S[:])
	raw[64] = v
	pubKey, err := crypto.SigToPub(digest[:], raw)
	if err != nil {
		return NoSigner
	}
	return crypto.PubkeyToAddress(*pubKey)
}

// SignHash signs digest as-is, returning V in the 27/28 form.
func SignHash(privateKey *ecdsa.PrivateKey, digest common.Hash) (*types.Signature, error) {
	raw, err := crypto.Sign(digest[:], privateKey)
	if err != nil {
		return nil, err
	}
	raw[64] += 27
	return types.SignatureFromBytes(raw)
}

func GetPrivateKeyFromKeystore(path string, password string) (*ecdsa.PrivateKey, error) {
	ksBytes, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	key, err := keystore.DecryptKey(ksBytes, password)
	if err != nil {
		return nil, err
	}
	return key.PrivateKey, nil
}

func GetAuthFromKeystore(path string, password string) (*bind.TransactOpts, error) {
	privateKey, err := GetPrivateKeyFromKeystore(path, password)
	if err != nil {
		return nil, err
	}
	return bind.NewKeyedTransactor(privateKey), nil
}
