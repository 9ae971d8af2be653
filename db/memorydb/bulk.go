package memorydb

import (
	"container/list"
	"sync"

	airdropdb "github.com/celer-network/go-airdrop/db"
)

type Bulk struct {
	txLock    sync.Mutex
	db        *DB
	opList    *list.List
	isDiscard bool
	isCommit  bool
}

func (bulk *Bulk) Set(namespace []byte, key []byte, value []byte) error {
	bulk.txLock.Lock()
	defer bulk.txLock.Unlock()

	key = airdropdb.PrependNamespace(namespace, key)
	key = airdropdb.ConvNilToBytes(key)
	value = airdropdb.ConvNilToBytes(value)

	bulk.opList.PushBack(&txOp{key, copyBytes(value)})
	return nil
}

func (bulk *Bulk) Flush() error {
	bulk.txLock.Lock()
	defer bulk.txLock.Unlock()

	if bulk.isDiscard {
		return errCommitAfterDiscard
	} else if bulk.isCommit {
		return errCommitTwice
	}

	bulk.db.apply(bulk.opList)
	bulk.isCommit = true
	return nil
}

func (bulk *Bulk) DiscardLast() {
	bulk.txLock.Lock()
	defer bulk.txLock.Unlock()

	bulk.isDiscard = true
}
