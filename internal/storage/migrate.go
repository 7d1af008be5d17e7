// ABOUTME: Data migration between storage backends
// ABOUTME: Copies every slot document from a source backend to a destination backend

package storage

import (
	"errors"
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated slots.
type MigrateSummary struct {
	Slots int
	Bytes int
}

// MigrateData copies all slots from src to dst.
// Slots already present in dst are overwritten.
func MigrateData(src, dst Backend) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	slots, err := src.Slots()
	if err != nil {
		return nil, fmt.Errorf("list source slots: %w", err)
	}

	for _, slot := range slots {
		value, err := src.Get(slot)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read slot %q: %w", slot, err)
		}
		if err := dst.Set(slot, value); err != nil {
			return nil, fmt.Errorf("write slot %q: %w", slot, err)
		}
		summary.Slots++
		summary.Bytes += len(value)
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
