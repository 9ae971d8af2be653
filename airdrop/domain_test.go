package airdrop

import (
	"math/big"
	"testing"

	"github.com/celer-network/go-airdrop/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMessageHasher(t *testing.T, domain Domain) *MessageHasher {
	serializer, err := types.NewSerializer()
	require.NoError(t, err)
	h, err := NewMessageHasher(serializer, domain)
	require.NoError(t, err)
	return h
}

func word(b []byte) []byte {
	return common.LeftPadBytes(b, 32)
}

func TestMessageHashMatchesEIP712(t *testing.T) {
	domain := testDomain()
	h := newTestMessageHasher(t, domain)
	account := common.HexToAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
	amount := big.NewInt(25)

	separator := crypto.Keccak256Hash(
		crypto.Keccak256([]byte("EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)")),
		crypto.Keccak256([]byte(domain.Name)),
		crypto.Keccak256([]byte(domain.Version)),
		word(domain.ChainID.Bytes()),
		word(domain.VerifyingContract.Bytes()),
	)
	assert.Equal(t, separator, h.DomainSeparator())

	structHash := crypto.Keccak256Hash(
		crypto.Keccak256([]byte("AirdropClaim(address account,uint256 amount)")),
		word(account.Bytes()),
		word(amount.Bytes()),
	)
	got, err := h.StructHash(account, amount)
	require.NoError(t, err)
	assert.Equal(t, structHash, got)

	expected := crypto.Keccak256Hash([]byte{0x19, 0x01}, separator[:], structHash[:])
	digest, err := h.MessageHash(account, amount)
	require.NoError(t, err)
	assert.Equal(t, expected, digest)
}

func TestMessageHashIsDomainSeparated(t *testing.T) {
	account := common.HexToAddress("0x01")
	amount := big.NewInt(100)
	base, err := newTestMessageHasher(t, testDomain()).MessageHash(account, amount)
	require.NoError(t, err)

	variants := map[string]func(d *Domain){
		"name":     func(d *Domain) { d.Name = "OtherAirdrop" },
		"version":  func(d *Domain) { d.Version = "2" },
		"chain":    func(d *Domain) { d.ChainID = big.NewInt(1) },
		"contract": func(d *Domain) { d.VerifyingContract = common.HexToAddress("0x02") },
	}
	for name, mutate := range variants {
		t.Run(name, func(t *testing.T) {
			domain := testDomain()
			mutate(&domain)
			digest, err := newTestMessageHasher(t, domain).MessageHash(account, amount)
			require.NoError(t, err)
			assert.NotEqual(t, base, digest)
		})
	}
}

func TestMessageHashIsNotLeaf(t *testing.T) {
	account := common.HexToAddress("0x01")
	amount := big.NewInt(100)
	digest, err := newTestMessageHasher(t, testDomain()).MessageHash(account, amount)
	require.NoError(t, err)
	leaf, err := newTestLeafEncoder(t).EncodeLeaf(account, amount)
	require.NoError(t, err)
	assert.NotEqual(t, leaf, digest)
}

func TestMessageHasherDomainCopy(t *testing.T) {
	domain := testDomain()
	h := newTestMessageHasher(t, domain)
	domain.ChainID.SetInt64(1)

	got := h.Domain()
	assert.Equal(t, 0, got.ChainID.Cmp(big.NewInt(31337)))
	got.ChainID.SetInt64(5)
	assert.Equal(t, 0, h.Domain().ChainID.Cmp(big.NewInt(31337)))
}

func TestMessageHasherErrors(t *testing.T) {
	serializer, err := types.NewSerializer()
	require.NoError(t, err)

	domain := testDomain()
	domain.ChainID = nil
	_, err = NewMessageHasher(serializer, domain)
	assert.Error(t, err)

	h := newTestMessageHasher(t, testDomain())
	_, err = h.MessageHash(common.HexToAddress("0x01"), big.NewInt(-1))
	assert.Error(t, err)
}
