package token

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/celer-network/go-airdrop/airdrop"
	"github.com/ethereum/go-ethereum/common"
)

var ErrInsufficientBalance = errors.New("insufficient balance")

var _ airdrop.Token = (*Memory)(nil)

// Memory is an in-process token whose treasury pays out claims. It backs
// dry runs of the CLI.
type Memory struct {
	lock     sync.Mutex
	address  common.Address
	treasury *big.Int
	balances map[common.Address]*big.Int
}

func NewMemory(address common.Address, treasury *big.Int) *Memory {
	return &Memory{
		address:  address,
		treasury: new(big.Int).Set(treasury),
		balances: make(map[common.Address]*big.Int),
	}
}

func (m *Memory) Address() common.Address {
	return m.address
}

func (m *Memory) Transfer(ctx context.Context, to common.Address, amount *big.Int) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.treasury.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	m.treasury.Sub(m.treasury, amount)
	balance, ok := m.balances[to]
	if !ok {
		balance = new(big.Int)
		m.balances[to] = balance
	}
	balance.Add(balance, amount)
	return nil
}

func (m *Memory) BalanceOf(owner common.Address) *big.Int {
	m.lock.Lock()
	defer m.lock.Unlock()

	if balance, ok := m.balances[owner]; ok {
		return new(big.Int).Set(balance)
	}
	return new(big.Int)
}

func (m *Memory) Treasury() *big.Int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return new(big.Int).Set(m.treasury)
}
