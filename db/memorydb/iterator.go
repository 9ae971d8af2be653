package memorydb

import (
	"bytes"
	"errors"
	"sort"

	airdropdb "github.com/celer-network/go-airdrop/db"
)

var errInvalidIterator = errors.New("Iterator is Invalid")

type Iterator struct {
	keys   []string
	values [][]byte
	cursor int
}

func isKeyInRange(key []byte, start []byte, end []byte, reverse bool) bool {
	if reverse {
		if start != nil && bytes.Compare(start, key) < 0 {
			return false
		}
		if end != nil && bytes.Compare(key, end) <= 0 {
			return false
		}
		return true
	}

	if bytes.Compare(key, start) < 0 {
		return false
	}
	if end != nil && bytes.Compare(end, key) <= 0 {
		return false
	}
	return true
}

// Iterator snapshots the keys in range; writes made after creation are not visible.
func (db *DB) Iterator(start []byte, end []byte) airdropdb.Iterator {
	db.lock.Lock()
	defer db.lock.Unlock()

	// if start is bigger than end, then reverse order
	reverse := end != nil && bytes.Compare(start, end) == 1

	var keys sort.StringSlice
	for key := range db.db {
		if isKeyInRange([]byte(key), start, end, reverse) {
			keys = append(keys, key)
		}
	}
	if reverse {
		sort.Sort(sort.Reverse(keys))
	} else {
		sort.Strings(keys)
	}

	values := make([][]byte, len(keys))
	for i, key := range keys {
		values[i] = copyBytes(db.db[key])
	}

	return &Iterator{
		keys:   keys,
		values: values,
	}
}

func (iter *Iterator) Next() error {
	if !iter.Valid() {
		return errInvalidIterator
	}

	iter.cursor++
	return nil
}

func (iter *Iterator) Valid() bool {
	return 0 <= iter.cursor && iter.cursor < len(iter.keys)
}

func (iter *Iterator) Key() ([]byte, error) {
	if !iter.Valid() {
		return nil, errInvalidIterator
	}

	return []byte(iter.keys[iter.cursor]), nil
}

func (iter *Iterator) Value() ([]byte, error) {
	if !iter.Valid() {
		return nil, errInvalidIterator
	}

	return iter.values[iter.cursor], nil
}

func (iter *Iterator) Close() {
	iter.keys = nil
	iter.values = nil
}
