// ABOUTME: Conformance tests shared by every local storage backend
// ABOUTME: Covers get/set/delete/list semantics and slot migration between backends

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backendFactory func(t *testing.T) Backend

func backends() map[string]backendFactory {
	return map[string]backendFactory{
		"memory": func(t *testing.T) Backend {
			return NewMemory()
		},
		"file": func(t *testing.T) Backend {
			b, err := NewFileBackend(filepath.Join(t.TempDir(), "slots"))
			require.NoError(t, err)
			return b
		},
		"sqlite": func(t *testing.T) Backend {
			b, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "carlog.db"))
			require.NoError(t, err)
			return b
		},
		"badger": func(t *testing.T) Backend {
			b, err := NewBadgerBackend(filepath.Join(t.TempDir(), "badger"))
			require.NoError(t, err)
			return b
		},
	}
}

func TestBackendConformance(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			b := factory(t)
			t.Cleanup(func() { _ = b.Close() })

			_, err := b.Get("vehicle_maintenance_data")
			assert.True(t, errors.Is(err, ErrNotFound), "expected ErrNotFound, got %v", err)

			require.NoError(t, b.Set("vehicle_maintenance_data", []byte(`{"records":[]}`)))
			require.NoError(t, b.Set("vehicle_fuel_options", []byte(`{}`)))

			got, err := b.Get("vehicle_maintenance_data")
			require.NoError(t, err)
			assert.JSONEq(t, `{"records":[]}`, string(got))

			require.NoError(t, b.Set("vehicle_maintenance_data", []byte(`{"records":[{"id":"1"}]}`)))
			got, err = b.Get("vehicle_maintenance_data")
			require.NoError(t, err)
			assert.JSONEq(t, `{"records":[{"id":"1"}]}`, string(got))

			slots, err := b.Slots()
			require.NoError(t, err)
			assert.Equal(t, []string{"vehicle_fuel_options", "vehicle_maintenance_data"}, slots)

			require.NoError(t, b.Delete("vehicle_fuel_options"))
			require.NoError(t, b.Delete("vehicle_fuel_options"), "deleting a missing slot is not an error")
			_, err = b.Get("vehicle_fuel_options")
			assert.True(t, errors.Is(err, ErrNotFound))
		})
	}
}

func TestSQLiteBackend_CreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "nested", "path")
	b, err := NewSQLiteBackend(filepath.Join(nested, "carlog.db"))
	require.NoError(t, err)
	defer b.Close()

	_, err = os.Stat(nested)
	assert.NoError(t, err)
}

func TestSQLiteBackend_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carlog.db")
	b, err := NewSQLiteBackend(path)
	require.NoError(t, err)
	require.NoError(t, b.Set("k", []byte("v")))
	require.NoError(t, b.Close())

	b, err = NewSQLiteBackend(path)
	require.NoError(t, err, "migrations must be idempotent on reopen")
	defer b.Close()
	got, err := b.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}

func TestFileBackend_RejectsPathSlots(t *testing.T) {
	b, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)
	assert.Error(t, b.Set("../escape", []byte("x")))
	assert.Error(t, b.Set(".hidden", []byte("x")))
}

func TestMemory_CopiesValues(t *testing.T) {
	m := NewMemory()
	value := []byte("abc")
	require.NoError(t, m.Set("k", value))
	value[0] = 'z'

	got, err := m.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	require.NoError(t, m.Close())
	_, err = m.Get("k")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMigrateData(t *testing.T) {
	src := NewMemory()
	require.NoError(t, src.Set("a", []byte("12")))
	require.NoError(t, src.Set("b", []byte("345")))

	dst, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)

	summary, err := MigrateData(src, dst)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Slots)
	assert.Equal(t, 5, summary.Bytes)

	got, err := dst.Get("b")
	require.NoError(t, err)
	assert.Equal(t, "345", string(got))
}

func TestIsDirNonEmpty(t *testing.T) {
	dir := t.TempDir()
	nonEmpty, err := IsDirNonEmpty(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.False(t, nonEmpty)

	nonEmpty, err = IsDirNonEmpty(dir)
	require.NoError(t, err)
	assert.False(t, nonEmpty)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "x"), []byte("1"), 0600))
	nonEmpty, err = IsDirNonEmpty(dir)
	require.NoError(t, err)
	assert.True(t, nonEmpty)
}
