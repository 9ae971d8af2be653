package token

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/celer-network/go-airdrop/airdrop"
	"github.com/celer-network/go-airdrop/log"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

const erc20ABI = `[
	{"constant":false,"inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"payable":false,"stateMutability":"nonpayable","type":"function"},
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}
]`

var logger = log.NewLogger("token")

// Backend is what ERC20 needs from a chain connection; *ethclient.Client
// satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

var _ airdrop.Token = (*ERC20)(nil)

// ERC20 pays claims by sending transfer transactions from the airdrop
// treasury account and waiting for them to be mined.
type ERC20 struct {
	address  common.Address
	backend  Backend
	auth     *bind.TransactOpts
	contract *bind.BoundContract
}

func NewERC20(address common.Address, backend Backend, auth *bind.TransactOpts) (*ERC20, error) {
	parsed, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, err
	}
	return &ERC20{
		address:  address,
		backend:  backend,
		auth:     auth,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
	}, nil
}

func (t *ERC20) Address() common.Address {
	return t.address
}

// Transfer sends amount to to and blocks until the transaction is mined.
func (t *ERC20) Transfer(ctx context.Context, to common.Address, amount *big.Int) error {
	opts := *t.auth
	opts.Context = ctx
	tx, err := t.contract.Transact(&opts, "transfer", to, amount)
	if err != nil {
		return err
	}
	logger.Debug().Str("tx", tx.Hash().Hex()).Str("to", to.Hex()).Str("amount", amount.String()).Msg("sent transfer")

	receipt, err := bind.WaitMined(ctx, t.backend, tx)
	if err != nil {
		return err
	}
	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		if reason := revertReason(ctx, t.backend, t.auth.From, tx, receipt.BlockNumber); reason != "" {
			return fmt.Errorf("transfer tx %x failed: %s", receipt.TxHash, reason)
		}
		return fmt.Errorf("transfer tx %x failed", receipt.TxHash)
	}
	return nil
}

// BalanceOf queries the token balance of owner.
func (t *ERC20) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	balance := new(*big.Int)
	if err := t.contract.Call(&bind.CallOpts{Context: ctx}, balance, "balanceOf", owner); err != nil {
		return nil, err
	}
	if *balance == nil {
		return nil, errors.New("empty balanceOf result")
	}
	return *balance, nil
}
