package airdrop

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ClaimedEvent is emitted once per successful claim.
type ClaimedEvent struct {
	Account common.Address
	Amount  *big.Int
}

// EventSink receives events of committed claims, in commit order.
type EventSink interface {
	OnClaimed(event *ClaimedEvent)
}

type EventSinkFunc func(event *ClaimedEvent)

func (f EventSinkFunc) OnClaimed(event *ClaimedEvent) {
	f(event)
}
