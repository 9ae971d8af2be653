package airdrop

import (
	"github.com/celer-network/go-airdrop/db"
	"github.com/ethereum/go-ethereum/common"
)

var claimedFlag = []byte{1}

// Ledger records which accounts have claimed. Flags are only ever set; there
// is no way to clear one.
type Ledger struct {
	db db.DB
}

func NewLedger(database db.DB) *Ledger {
	return &Ledger{db: database}
}

func (l *Ledger) HasClaimed(account common.Address) (bool, error) {
	return l.db.Exist(db.NamespaceClaimed, account.Bytes())
}

// MarkClaimed sets the flag of account. Setting it twice is harmless.
func (l *Ledger) MarkClaimed(account common.Address) error {
	tx := l.db.NewTx()
	if err := l.markClaimedTx(tx, account); err != nil {
		tx.Discard()
		return err
	}
	return tx.Commit()
}

func (l *Ledger) markClaimedTx(tx db.Transaction, account common.Address) error {
	return tx.Set(db.NamespaceClaimed, account.Bytes(), claimedFlag)
}

// ClaimedAccounts lists every account whose flag is set, in byte order.
func (l *Ledger) ClaimedAccounts() ([]common.Address, error) {
	start, end := db.NamespaceRange(db.NamespaceClaimed)
	iter := l.db.Iterator(start, end)
	defer iter.Close()

	var accounts []common.Address
	for ; iter.Valid(); iter.Next() {
		key, err := iter.Key()
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, common.BytesToAddress(db.StripNamespace(db.NamespaceClaimed, key)))
	}
	return accounts, nil
}
