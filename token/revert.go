package token

import (
	"bytes"
	"context"
	"math/big"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// selector of Error(string)
var errorSelector = []byte{0x08, 0xc3, 0x79, 0xa0}

// decodeRevertReason returns the message of an Error(string) revert payload.
func decodeRevertReason(data []byte) (string, bool) {
	if len(data) < 4+64 || !bytes.Equal(data[:4], errorSelector) {
		return "", false
	}
	stringTy, err := abi.NewType("string", "", nil)
	if err != nil {
		return "", false
	}
	var reason string
	if err := (abi.Arguments{{Type: stringTy}}).Unpack(&reason, data[4:]); err != nil {
		return "", false
	}
	return reason, true
}

// revertReason replays tx as a call at the block it was mined in. An empty
// string means the node returned no reason.
func revertReason(ctx context.Context, caller bind.ContractCaller, from common.Address, tx *ethtypes.Transaction, blockNumber *big.Int) string {
	msg := ethereum.CallMsg{
		From:     from,
		To:       tx.To(),
		Gas:      tx.Gas(),
		GasPrice: tx.GasPrice(),
		Value:    tx.Value(),
		Data:     tx.Data(),
	}
	data, err := caller.CallContract(ctx, msg, blockNumber)
	if err != nil {
		logger.Debug().Err(err).Str("tx", tx.Hash().Hex()).Msg("replay of failed transfer failed")
		return ""
	}
	reason, _ := decodeRevertReason(data)
	return reason
}
