// ABOUTME: Charm KV slot backend using transactional Do API
// ABOUTME: Short-lived connections to avoid lock contention with the MCP server process

package charm

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/charm/kv"
	"github.com/harper/carlog/internal/storage"
)

const (
	// DBName is the name of the Charm KV database for vehicle log data.
	DBName = "carlog"

	// DefaultCharmHost is the default Charm server to use.
	DefaultCharmHost = "charm.2389.dev"

	// SlotPrefix namespaces slot documents inside the KV database.
	SlotPrefix = "slot:"
)

// Client holds configuration for KV operations.
// It does NOT hold a persistent connection: each operation opens the
// database, performs the operation, and closes it.
type Client struct {
	dbName   string
	autoSync bool
}

// Compile-time check that Client implements storage.Backend.
var _ storage.Backend = (*Client)(nil)

// Config holds client configuration options.
type Config struct {
	// CharmHost is the Charm server to use (default: charm.2389.dev).
	CharmHost string
	// AutoSync enables automatic sync after writes.
	AutoSync bool
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *Config {
	host := os.Getenv("CHARM_HOST")
	if host == "" {
		host = DefaultCharmHost
	}
	return &Config{
		CharmHost: host,
		AutoSync:  true,
	}
}

// NewClient creates a new client with the given config.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	// Set CHARM_HOST before any KV operations
	if err := os.Setenv("CHARM_HOST", cfg.CharmHost); err != nil {
		return nil, err
	}

	return &Client{
		dbName:   DBName,
		autoSync: cfg.AutoSync,
	}, nil
}

// SlotKey returns the KV key for a slot.
func SlotKey(slot string) []byte {
	return []byte(SlotPrefix + slot)
}

// SlotName extracts the slot name from a KV key, reporting whether it was a slot key.
func SlotName(key []byte) (string, bool) {
	if !bytes.HasPrefix(key, []byte(SlotPrefix)) {
		return "", false
	}
	return string(key[len(SlotPrefix):]), true
}

// Get retrieves a slot (read-only, no lock contention).
func (c *Client) Get(slot string) ([]byte, error) {
	var val []byte
	err := kv.DoReadOnly(c.dbName, func(k *kv.KV) error {
		var err error
		val, err = k.Get(SlotKey(slot))
		return err
	})
	if errors.Is(err, kv.ErrMissingKey) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get slot %s: %w", slot, err)
	}
	return val, nil
}

// Set stores a slot document.
func (c *Client) Set(slot string, value []byte) error {
	return c.do(func(k *kv.KV) error {
		if err := k.Set(SlotKey(slot), value); err != nil {
			return fmt.Errorf("set slot %s: %w", slot, err)
		}
		return nil
	})
}

// Delete removes a slot.
func (c *Client) Delete(slot string) error {
	return c.do(func(k *kv.KV) error {
		if err := k.Delete(SlotKey(slot)); err != nil && !errors.Is(err, kv.ErrMissingKey) {
			return fmt.Errorf("delete slot %s: %w", slot, err)
		}
		return nil
	})
}

// Slots returns all slot names in the database.
func (c *Client) Slots() ([]string, error) {
	var names []string
	err := kv.DoReadOnly(c.dbName, func(k *kv.KV) error {
		keys, err := k.Keys()
		if err != nil {
			return fmt.Errorf("list keys: %w", err)
		}
		for _, key := range keys {
			if name, ok := SlotName(key); ok {
				names = append(names, name)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// do executes fn with write access, syncing afterwards when enabled.
// It fails with storage.ErrReadOnly when another process holds the database.
func (c *Client) do(fn func(k *kv.KV) error) error {
	return kv.Do(c.dbName, func(k *kv.KV) error {
		if k.IsReadOnly() {
			return storage.ErrReadOnly
		}
		if err := fn(k); err != nil {
			return err
		}
		if c.autoSync {
			return k.Sync()
		}
		return nil
	})
}

// Sync triggers a manual sync with the charm server.
func (c *Client) Sync() error {
	return kv.Do(c.dbName, func(k *kv.KV) error {
		return k.Sync()
	})
}

// Reset discards the local database copy and pulls a fresh one from the server.
func (c *Client) Reset() error {
	return kv.Do(c.dbName, func(k *kv.KV) error {
		return k.Reset()
	})
}

// Close is a no-op: connections are closed after each operation.
func (c *Client) Close() error {
	return nil
}
