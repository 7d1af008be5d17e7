// ABOUTME: File-per-slot backend writing JSON documents into a directory
// ABOUTME: Uses temp file plus rename so a crash never leaves a half-written slot

package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const slotExt = ".json"

// FileBackend keeps each slot in <dir>/<slot>.json.
type FileBackend struct {
	mu  sync.Mutex
	dir string
}

var _ Backend = (*FileBackend)(nil)

// NewFileBackend creates the directory if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0750); err != nil { //nolint:gosec // 0750 is appropriate for user data directory
		return nil, fmt.Errorf("create directory: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

func (f *FileBackend) path(slot string) (string, error) {
	if slot == "" || strings.ContainsAny(slot, `/\`) || strings.HasPrefix(slot, ".") {
		return "", fmt.Errorf("invalid slot name %q", slot)
	}
	return filepath.Join(f.dir, slot+slotExt), nil
}

// Get reads the slot file.
func (f *FileBackend) Get(slot string) ([]byte, error) {
	p, err := f.path(slot)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p) //nolint:gosec // path is built from a validated slot name
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %s: %w", slot, err)
	}
	return data, nil
}

// Set writes the slot atomically.
func (f *FileBackend) Set(slot string, value []byte) error {
	p, err := f.path(slot)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return atomicWrite(p, value)
}

// Delete removes the slot file.
func (f *FileBackend) Delete(slot string) error {
	p, err := f.path(slot)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete slot %s: %w", slot, err)
	}
	return nil
}

// Slots lists *.json files in the directory.
func (f *FileBackend) Slots() ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %q: %w", f.dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), slotExt) || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), slotExt))
	}
	sort.Strings(names)
	return names, nil
}

// Close is a no-op; files are closed after every operation.
func (f *FileBackend) Close() error {
	return nil
}

// atomicWrite writes data to a sibling temp file and renames it over path.
func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// AtomicWriteFile exposes atomicWrite for config and export files.
func AtomicWriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil { //nolint:gosec // 0750 is appropriate for user config directory
		return fmt.Errorf("create directory: %w", err)
	}
	return atomicWrite(path, data)
}
