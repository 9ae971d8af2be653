package airdrop

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// frame is the unit of all-or-nothing execution of one top-level claim,
// including any claims re-entered from its token transfer. Marks and events
// stay in the frame until the top-level claim succeeds.
type frame struct {
	ledger   *Ledger
	inflight *inflight
	marked   map[common.Address]struct{}
	journal  []common.Address
	events   []*ClaimedEvent
}

type snapshot struct {
	marks  int
	events int
}

type frameKey struct {
	p *Processor
}

func newFrame(ledger *Ledger, inflight *inflight) *frame {
	return &frame{
		ledger:   ledger,
		inflight: inflight,
		marked:   make(map[common.Address]struct{}),
	}
}

func frameFromContext(ctx context.Context, p *Processor) (*frame, bool) {
	f, ok := ctx.Value(frameKey{p}).(*frame)
	return f, ok
}

func contextWithFrame(ctx context.Context, p *Processor, f *frame) context.Context {
	return context.WithValue(ctx, frameKey{p}, f)
}

func (f *frame) hasClaimed(account common.Address) (bool, error) {
	if _, ok := f.marked[account]; ok {
		return true, nil
	}
	return f.ledger.HasClaimed(account)
}

func (f *frame) markClaimed(account common.Address) {
	f.marked[account] = struct{}{}
	f.journal = append(f.journal, account)
	f.inflight.add(account)
}

func (f *frame) emit(event *ClaimedEvent) {
	f.events = append(f.events, event)
}

func (f *frame) snapshot() snapshot {
	return snapshot{marks: len(f.journal), events: len(f.events)}
}

func (f *frame) revertToSnapshot(s snapshot) {
	for _, account := range f.journal[s.marks:] {
		delete(f.marked, account)
	}
	f.inflight.remove(f.journal[s.marks:])
	f.journal = f.journal[:s.marks]
	f.events = f.events[:s.events]
}

// commit writes every mark in one transaction.
func (f *frame) commit() error {
	if len(f.journal) == 0 {
		return nil
	}
	tx := f.ledger.db.NewTx()
	for _, account := range f.journal {
		if err := f.ledger.markClaimedTx(tx, account); err != nil {
			tx.Discard()
			return err
		}
	}
	return tx.Commit()
}

// release drops the frame's marks from the in-flight set once the ledger
// holds them or they are reverted.
func (f *frame) release() {
	f.inflight.remove(f.journal)
}

// inflight is the set of accounts marked by the running frame. It is read
// without the processor lock, so a claim for one of these accounts fails fast
// even when it arrives on a context that does not carry the frame.
type inflight struct {
	lock     sync.Mutex
	accounts map[common.Address]struct{}
}

func newInflight() *inflight {
	return &inflight{accounts: make(map[common.Address]struct{})}
}

func (s *inflight) add(account common.Address) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.accounts[account] = struct{}{}
}

func (s *inflight) remove(accounts []common.Address) {
	s.lock.Lock()
	defer s.lock.Unlock()
	for _, account := range accounts {
		delete(s.accounts, account)
	}
}

func (s *inflight) has(account common.Address) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	_, ok := s.accounts[account]
	return ok
}
