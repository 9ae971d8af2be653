package utils

import (
	"io/ioutil"
	"math/big"
	"os"
	"testing"

	"github.com/celer-network/go-airdrop/types"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverSigner(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)
	digest := crypto.Keccak256Hash([]byte("claim"))

	sig, err := SignHash(key, digest)
	require.NoError(t, err)
	assert.True(t, sig.V == 27 || sig.V == 28)
	assert.Equal(t, signer, RecoverSigner(digest, sig))
	assert.True(t, SigIsValid(signer, digest, sig))

	// raw 0/1 recovery ids are accepted too
	raw := *sig
	raw.V -= 27
	assert.Equal(t, signer, RecoverSigner(digest, &raw))

	other := crypto.Keccak256Hash([]byte("other"))
	assert.NotEqual(t, signer, RecoverSigner(other, sig))
	assert.False(t, SigIsValid(signer, other, sig))
}

func TestRecoverSignerMalformed(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	digest := crypto.Keccak256Hash([]byte("claim"))
	sig, err := SignHash(key, digest)
	require.NoError(t, err)

	badV := *sig
	badV.V = 29
	assert.Equal(t, NoSigner, RecoverSigner(digest, &badV))

	zeroR := *sig
	zeroR.R = common.Hash{}
	assert.Equal(t, NoSigner, RecoverSigner(digest, &zeroR))

	zeroS := *sig
	zeroS.S = common.Hash{}
	assert.Equal(t, NoSigner, RecoverSigner(digest, &zeroS))

	// the malleable twin (n - s, flipped v) recovers the same key, but is refused
	n := crypto.S256().Params().N
	highS := *sig
	highS.S = common.BigToHash(new(big.Int).Sub(n, new(big.Int).SetBytes(sig.S[:])))
	highS.V = 27 + (28 - sig.V)
	assert.Equal(t, NoSigner, RecoverSigner(digest, &highS))

	overflowR := *sig
	overflowR.R = common.BigToHash(n)
	assert.Equal(t, NoSigner, RecoverSigner(digest, &overflowR))

	assert.Equal(t, NoSigner, RecoverSigner(digest, nil))
	assert.Equal(t, NoSigner, RecoverSigner(digest, &types.Signature{}))
}

func TestZeroAddressNeverValid(t *testing.T) {
	digest := crypto.Keccak256Hash([]byte("claim"))
	assert.False(t, SigIsValid(common.Address{}, digest, &types.Signature{V: 27}))
	assert.False(t, SigIsValid(common.Address{}, digest, nil))
}

func TestKeystore(t *testing.T) {
	dir, err := ioutil.TempDir("", "airdrop-keystore")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	ks := keystore.NewKeyStore(dir, keystore.LightScryptN, keystore.LightScryptP)
	account, err := ks.ImportECDSA(key, "secret")
	require.NoError(t, err)

	loaded, err := GetPrivateKeyFromKeystore(account.URL.Path, "secret")
	require.NoError(t, err)
	assert.Equal(t, account.Address, crypto.PubkeyToAddress(loaded.PublicKey))

	_, err = GetPrivateKeyFromKeystore(account.URL.Path, "wrong")
	assert.Error(t, err)

	auth, err := GetAuthFromKeystore(account.URL.Path, "secret")
	require.NoError(t, err)
	assert.Equal(t, account.Address, auth.From)
}
