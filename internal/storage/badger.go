// ABOUTME: Badger storage implementation for slot documents
// ABOUTME: Embedded LSM key-value store, one key per slot under a common prefix

package storage

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v3"
)

// badgerPrefix namespaces slot keys inside the badger keyspace.
var badgerPrefix = []byte("slot:")

// BadgerBackend implements Backend on top of badger.
type BadgerBackend struct {
	db *badger.DB
}

var _ Backend = (*BadgerBackend)(nil)

// NewBadgerBackend opens the badger directory at dir.
func NewBadgerBackend(dir string) (*BadgerBackend, error) {
	if err := os.MkdirAll(dir, 0750); err != nil { //nolint:gosec // 0750 is appropriate for user data directory
		return nil, fmt.Errorf("create directory: %w", err)
	}
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerBackend{db: db}, nil
}

func badgerKey(slot string) []byte {
	return append(append([]byte(nil), badgerPrefix...), slot...)
}

// Get reads a slot in a read-only transaction.
func (b *BadgerBackend) Get(slot string) ([]byte, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(slot))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get slot %s: %w", slot, err)
	}
	return value, nil
}

// Set writes a slot and waits for the write to be durable.
func (b *BadgerBackend) Set(slot string, value []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey(slot), value)
	})
	if err != nil {
		return fmt.Errorf("set slot %s: %w", slot, err)
	}
	return b.db.Sync()
}

// Delete removes a slot.
func (b *BadgerBackend) Delete(slot string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(badgerKey(slot))
	})
	if err != nil {
		return fmt.Errorf("delete slot %s: %w", slot, err)
	}
	return nil
}

// Slots iterates keys under the slot prefix.
func (b *BadgerBackend) Slots() ([]string, error) {
	var names []string
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = badgerPrefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().KeyCopy(nil)
			names = append(names, string(bytes.TrimPrefix(key, badgerPrefix)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return names, nil
}

// Close flushes and closes the database.
func (b *BadgerBackend) Close() error {
	return b.db.Close()
}
