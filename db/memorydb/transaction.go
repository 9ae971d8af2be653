package memorydb

import (
	"container/list"
	"errors"
	"sync"

	airdropdb "github.com/celer-network/go-airdrop/db"
)

var (
	errCommitAfterDiscard = errors.New("Commit after discard tx is not allowed")
	errCommitTwice        = errors.New("Commit occurs two times")
)

type Transaction struct {
	txLock    sync.Mutex
	db        *DB
	opList    *list.List
	isDiscard bool
	isCommit  bool
}

type txOp struct {
	key   []byte
	value []byte
}

func (transaction *Transaction) Set(namespace []byte, key []byte, value []byte) error {
	transaction.txLock.Lock()
	defer transaction.txLock.Unlock()

	key = airdropdb.PrependNamespace(namespace, key)
	key = airdropdb.ConvNilToBytes(key)
	value = airdropdb.ConvNilToBytes(value)

	transaction.opList.PushBack(&txOp{key, copyBytes(value)})
	return nil
}

func (transaction *Transaction) Commit() error {
	transaction.txLock.Lock()
	defer transaction.txLock.Unlock()

	if transaction.isDiscard {
		return errCommitAfterDiscard
	} else if transaction.isCommit {
		return errCommitTwice
	}

	transaction.db.apply(transaction.opList)
	transaction.isCommit = true
	return nil
}

func (transaction *Transaction) Discard() {
	transaction.txLock.Lock()
	defer transaction.txLock.Unlock()

	transaction.isDiscard = true
}

func (db *DB) apply(ops *list.List) {
	db.lock.Lock()
	defer db.lock.Unlock()

	for e := ops.Front(); e != nil; e = e.Next() {
		op := e.Value.(*txOp)
		db.db[string(op.key)] = op.value
	}
}
