package memorydb

import (
	"container/list"
	"sync"

	airdropdb "github.com/celer-network/go-airdrop/db"
)

// NewDB creates an empty in-memory database. Contents are lost on Close.
func NewDB() *DB {
	return &DB{
		db: make(map[string][]byte),
	}
}

// Enforce database and transaction implements interfaces
var _ airdropdb.DB = (*DB)(nil)

type DB struct {
	lock sync.Mutex
	db   map[string][]byte
}

func (db *DB) Type() string {
	return "memorydb"
}

func (db *DB) Set(namespace []byte, key []byte, value []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	key = airdropdb.PrependNamespace(namespace, key)
	key = airdropdb.ConvNilToBytes(key)
	value = airdropdb.ConvNilToBytes(value)

	db.db[string(key)] = copyBytes(value)
	return nil
}

func (db *DB) Get(namespace []byte, key []byte) ([]byte, bool, error) {
	db.lock.Lock()
	defer db.lock.Unlock()

	key = airdropdb.PrependNamespace(namespace, key)
	key = airdropdb.ConvNilToBytes(key)

	value, exists := db.db[string(key)]
	return copyBytes(value), exists, nil
}

func (db *DB) Exist(namespace []byte, key []byte) (bool, error) {
	db.lock.Lock()
	defer db.lock.Unlock()

	key = airdropdb.PrependNamespace(namespace, key)
	key = airdropdb.ConvNilToBytes(key)

	_, ok := db.db[string(key)]

	return ok, nil
}

func (db *DB) Close() error {
	return nil
}

func (db *DB) NewTx() airdropdb.Transaction {
	return &Transaction{
		db:     db,
		opList: list.New(),
	}
}

func (db *DB) NewBulk() airdropdb.Bulk {
	return &Bulk{
		db:     db,
		opList: list.New(),
	}
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
