package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// BadgerBackend is a persistent on-disk cache backed by BadgerDB.
//
// Useful for CLI workloads where the process is short-lived but the cache
// should survive between invocations. TTLs are enforced by Badger itself.
type BadgerBackend struct {
	db *badger.DB
}

// BadgerConfig configures a BadgerBackend.
type BadgerConfig struct {
	// Path is the directory for the Badger database. Created if missing.
	Path string

	// InMemory runs Badger without disk persistence. Path is ignored.
	InMemory bool
}

// NewBadgerBackend opens (or creates) a Badger-backed cache at the
// configured path.
func NewBadgerBackend(cfg BadgerConfig) (*BadgerBackend, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithLoggingLevel(badger.WARNING) // Reduce log noise

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger cache: %w", err)
	}
	return &BadgerBackend{db: db}, nil
}

func (b *BadgerBackend) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return ErrCacheMiss
		}
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (b *BadgerBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	return b.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
}

func (b *BadgerBackend) Delete(_ context.Context, key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

func (b *BadgerBackend) DeletePrefix(_ context.Context, prefix string) error {
	return b.db.DropPrefix([]byte(prefix))
}

func (b *BadgerBackend) Clear(_ context.Context) error {
	return b.db.DropAll()
}

func (b *BadgerBackend) Close() error {
	return b.db.Close()
}
