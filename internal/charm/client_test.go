// ABOUTME: Tests for charm slot key helpers and client configuration
// ABOUTME: Network-backed KV operations are exercised manually against a charm server

package charm

import "testing"

func TestSlotKeyRoundTrip(t *testing.T) {
	key := SlotKey("vehicle_fuel_options")
	if string(key) != "slot:vehicle_fuel_options" {
		t.Errorf("unexpected key %q", key)
	}
	name, ok := SlotName(key)
	if !ok || name != "vehicle_fuel_options" {
		t.Errorf("expected slot name back, got %q, %v", name, ok)
	}
	if _, ok := SlotName([]byte("item:123")); ok {
		t.Error("expected foreign key to be ignored")
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("CHARM_HOST", "")
	cfg := DefaultConfig()
	if cfg.CharmHost != DefaultCharmHost {
		t.Errorf("expected default host, got %q", cfg.CharmHost)
	}
	if !cfg.AutoSync {
		t.Error("expected AutoSync enabled by default")
	}

	t.Setenv("CHARM_HOST", "charm.example.com")
	if got := DefaultConfig().CharmHost; got != "charm.example.com" {
		t.Errorf("expected env host, got %q", got)
	}
}

func TestNewClient_SetsHost(t *testing.T) {
	t.Setenv("CHARM_HOST", "")
	c, err := NewClient(&Config{CharmHost: "charm.local", AutoSync: false})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if c.dbName != DBName || c.autoSync {
		t.Errorf("unexpected client %+v", c)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
