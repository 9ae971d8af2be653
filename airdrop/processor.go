// Package airdrop validates and executes one-time Merkle airdrop claims.
package airdrop

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/celer-network/go-airdrop/log"
	"github.com/celer-network/go-airdrop/merkle"
	"github.com/celer-network/go-airdrop/types"
	"github.com/ethereum/go-ethereum/common"
)

var logger = log.NewLogger("processor")

// Token moves airdropped value. Transfer may call back into Processor.Claim
// with the context it was given; such calls join the running claim. A call
// back on any other context is treated as a new top-level claim: it fails with
// ErrAlreadyClaimed for an account the running claim has marked, and for any
// other account it waits for the running claim to finish, so Transfer must
// not block on it.
type Token interface {
	Address() common.Address
	Transfer(ctx context.Context, to common.Address, amount *big.Int) error
}

type ProcessorConfig struct {
	MerkleRoot common.Hash
	Domain     Domain
	TreeHasher merkle.Hasher
}

// Processor checks claims against a fixed Merkle root and pays them out.
//
// Top-level claims run one at a time. A failed claim leaves neither a ledger
// mark nor an event behind; marks become durable and events are delivered only
// after the top-level claim, and its transfer, succeed.
type Processor struct {
	root       common.Hash
	token      Token
	ledger     *Ledger
	leaves     *LeafEncoder
	messages   *MessageHasher
	treeHasher merkle.Hasher

	lock      sync.Mutex
	inflight  *inflight
	sinksLock sync.RWMutex
	sinks     []EventSink
}

func NewProcessor(config *ProcessorConfig, ledger *Ledger, token Token) (*Processor, error) {
	if token == nil {
		return nil, errors.New("airdrop token is required")
	}
	treeHasher := config.TreeHasher
	if treeHasher == nil {
		treeHasher = merkle.Keccak256
	}
	serializer, err := types.NewSerializer()
	if err != nil {
		return nil, err
	}
	messages, err := NewMessageHasher(serializer, config.Domain)
	if err != nil {
		return nil, err
	}
	return &Processor{
		root:       config.MerkleRoot,
		token:      token,
		ledger:     ledger,
		leaves:     NewLeafEncoder(serializer, treeHasher),
		messages:   messages,
		treeHasher: treeHasher,
		inflight:   newInflight(),
	}, nil
}

// MerkleRoot returns the committed eligibility root.
func (p *Processor) MerkleRoot() common.Hash {
	return p.root
}

// AirdropToken returns the address of the paid out token.
func (p *Processor) AirdropToken() common.Address {
	return p.token.Address()
}

// MessageHash returns the digest account must sign to claim amount.
func (p *Processor) MessageHash(account common.Address, amount *big.Int) (common.Hash, error) {
	return p.messages.MessageHash(account, amount)
}

func (p *Processor) MessageHasher() *MessageHasher {
	return p.messages
}

func (p *Processor) Ledger() *Ledger {
	return p.ledger
}

// Subscribe registers sink for ClaimedEvents of later commits.
func (p *Processor) Subscribe(sink EventSink) {
	p.sinksLock.Lock()
	defer p.sinksLock.Unlock()
	p.sinks = append(p.sinks, sink)
}

// Claim pays amount to account if it has not claimed yet, sig is account's
// signature over MessageHash(account, amount) and proof places the pair under
// the Merkle root. It returns ErrAlreadyClaimed, ErrInvalidSignature or
// ErrInvalidProof, checked in that order, or the ledger or transfer error.
func (p *Processor) Claim(
	ctx context.Context,
	account common.Address,
	amount *big.Int,
	proof merkle.Proof,
	sig *types.Signature,
) error {
	f, nested := frameFromContext(ctx, p)
	if !nested {
		if p.inflight.has(account) {
			logger.Debug().Str("account", account.Hex()).Msg("reject claim: claim in flight")
			return ErrAlreadyClaimed
		}
		p.lock.Lock()
		defer p.lock.Unlock()
		f = newFrame(p.ledger, p.inflight)
		defer f.release()
		ctx = contextWithFrame(ctx, p, f)
	}

	snap := f.snapshot()
	if err := p.claim(ctx, f, account, amount, proof, sig); err != nil {
		f.revertToSnapshot(snap)
		return err
	}
	if nested {
		return nil
	}

	if err := f.commit(); err != nil {
		logger.Error().Err(err).Str("account", account.Hex()).Msg("transfer done but claim marks not persisted")
		return fmt.Errorf("commit claim: %w", err)
	}
	p.deliver(f.events)
	return nil
}

func (p *Processor) claim(
	ctx context.Context,
	f *frame,
	account common.Address,
	amount *big.Int,
	proof merkle.Proof,
	sig *types.Signature,
) error {
	claimed, err := f.hasClaimed(account)
	if err != nil {
		return fmt.Errorf("read ledger: %w", err)
	}
	if claimed {
		logger.Debug().Str("account", account.Hex()).Msg("reject claim: already claimed")
		return ErrAlreadyClaimed
	}

	// an amount outside uint256 has no digest, so nothing can authorize it
	digest, err := p.messages.MessageHash(account, amount)
	if err != nil || !IsAuthorized(account, digest, sig) {
		logger.Debug().Str("account", account.Hex()).Msg("reject claim: invalid signature")
		return ErrInvalidSignature
	}

	leaf, err := p.leaves.EncodeLeaf(account, amount)
	if err != nil || !merkle.VerifyProof(proof, p.root, leaf, p.treeHasher()) {
		logger.Debug().Str("account", account.Hex()).Int("proofLen", len(proof)).Msg("reject claim: invalid proof")
		return ErrInvalidProof
	}

	f.markClaimed(account)
	paid := new(big.Int).Set(amount)
	f.emit(&ClaimedEvent{Account: account, Amount: paid})

	if err := p.token.Transfer(ctx, account, new(big.Int).Set(paid)); err != nil {
		logger.Warn().Err(err).Str("account", account.Hex()).Str("amount", paid.String()).Msg("claim transfer failed")
		return fmt.Errorf("transfer: %w", err)
	}

	logger.Info().Str("account", account.Hex()).Str("amount", paid.String()).Msg("claimed")
	return nil
}

func (p *Processor) deliver(events []*ClaimedEvent) {
	p.sinksLock.RLock()
	sinks := make([]EventSink, len(p.sinks))
	copy(sinks, p.sinks)
	p.sinksLock.RUnlock()

	for _, event := range events {
		for _, sink := range sinks {
			sink.OnClaimed(event)
		}
	}
}
