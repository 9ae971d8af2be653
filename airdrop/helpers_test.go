package airdrop

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/celer-network/go-airdrop/db/memorydb"
	"github.com/celer-network/go-airdrop/merkle"
	"github.com/celer-network/go-airdrop/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

var (
	testTokenAddress    = common.HexToAddress("0x5fbdb2315678afecb367f032d93f642f64180aa3")
	testContractAddress = common.HexToAddress("0xe7f1725e7734ce288f8367e1bb143e90bb3f0512")
)

func testDomain() Domain {
	return Domain{
		Name:              "MerkleAirdrop",
		Version:           "1",
		ChainID:           big.NewInt(31337),
		VerifyingContract: testContractAddress,
	}
}

type transfer struct {
	to     common.Address
	amount *big.Int
}

// recordingToken records transfers; onTransfer runs before recording and may
// fail the transfer or call back into the processor.
type recordingToken struct {
	transfers  []transfer
	onTransfer func(ctx context.Context, to common.Address, amount *big.Int) error
}

func (t *recordingToken) Address() common.Address {
	return testTokenAddress
}

func (t *recordingToken) Transfer(ctx context.Context, to common.Address, amount *big.Int) error {
	if t.onTransfer != nil {
		if err := t.onTransfer(ctx, to, amount); err != nil {
			return err
		}
	}
	t.transfers = append(t.transfers, transfer{to: to, amount: amount})
	return nil
}

type holder struct {
	key     *ecdsa.PrivateKey
	address common.Address
	amount  *big.Int
	proof   merkle.Proof
	sig     *types.Signature
}

type fixture struct {
	processor *Processor
	token     *recordingToken
	tree      *merkle.Tree
	alice     *holder
	bob       *holder
	events    []*ClaimedEvent
}

func newHolder(t *testing.T, amount int64) *holder {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return &holder{key: key, address: crypto.PubkeyToAddress(key.PublicKey), amount: big.NewInt(amount)}
}

// newFixture commits a root over {(alice, 100), (bob, 50)} plus some filler
// leaves and signs both claims.
func newFixture(t *testing.T) *fixture {
	serializer, err := types.NewSerializer()
	require.NoError(t, err)
	encoder := NewLeafEncoder(serializer, merkle.Keccak256)

	alice := newHolder(t, 100)
	bob := newHolder(t, 50)
	var leaves []common.Hash
	for _, h := range []*holder{alice, bob, newHolder(t, 7), newHolder(t, 9), newHolder(t, 11)} {
		leaf, err := encoder.EncodeLeaf(h.address, h.amount)
		require.NoError(t, err)
		leaves = append(leaves, leaf)
	}
	tree, err := merkle.NewTree(leaves, merkle.Keccak256)
	require.NoError(t, err)

	token := &recordingToken{}
	processor, err := NewProcessor(&ProcessorConfig{
		MerkleRoot: tree.Root(),
		Domain:     testDomain(),
	}, NewLedger(memorydb.NewDB()), token)
	require.NoError(t, err)

	f := &fixture{processor: processor, token: token, tree: tree, alice: alice, bob: bob}
	processor.Subscribe(EventSinkFunc(func(event *ClaimedEvent) {
		f.events = append(f.events, event)
	}))

	for i, h := range []*holder{alice, bob} {
		h.proof, err = tree.Prove(leaves[i])
		require.NoError(t, err)
		h.sig, err = SignClaim(h.key, processor.MessageHasher(), h.address, h.amount)
		require.NoError(t, err)
	}
	return f
}

func (f *fixture) claim(h *holder) error {
	return f.processor.Claim(context.Background(), h.address, h.amount, h.proof, h.sig)
}

func (f *fixture) hasClaimed(t *testing.T, h *holder) bool {
	claimed, err := f.processor.Ledger().HasClaimed(h.address)
	require.NoError(t, err)
	return claimed
}
