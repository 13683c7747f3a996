package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/jo-hoe/docscan/internal/kvstore"
)

func TestPinStore_EnableVerifyDisable(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	ctx := context.Background()

	store := NewPinStore(kv)
	if store.Enabled() {
		t.Fatal("Expected pin security to start disabled")
	}

	if err := store.Enable(ctx, "1234"); err != nil {
		t.Fatalf("Enable error: %v", err)
	}
	if !store.Enabled() {
		t.Fatal("Expected pin security to be enabled")
	}

	if err := store.Verify("1234"); err != nil {
		t.Errorf("Expected matching pin to verify, got %v", err)
	}
	if err := store.Verify("9999"); !errors.Is(err, ErrPinMismatch) {
		t.Errorf("Expected ErrPinMismatch, got %v", err)
	}

	if err := store.Disable(ctx, "1234"); err != nil {
		t.Fatalf("Disable error: %v", err)
	}
	if store.Enabled() {
		t.Error("Expected pin security to be disabled")
	}
}

func TestPinStore_DisableRequiresMatchingPin(t *testing.T) {
	store := NewPinStore(kvstore.NewMemoryStore())
	ctx := context.Background()

	if err := store.Enable(ctx, "123456"); err != nil {
		t.Fatalf("Enable error: %v", err)
	}

	if err := store.Disable(ctx, "000000"); !errors.Is(err, ErrPinMismatch) {
		t.Fatalf("Expected ErrPinMismatch, got %v", err)
	}
	if !store.Enabled() {
		t.Error("Expected pin security to remain enabled after failed disable")
	}
}

func TestPinStore_Reload(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	ctx := context.Background()

	store := NewPinStore(kv)
	if err := store.Enable(ctx, "4711"); err != nil {
		t.Fatalf("Enable error: %v", err)
	}

	reloaded := NewPinStore(kv)
	reloaded.Load(ctx)
	if !reloaded.Enabled() {
		t.Fatal("Expected reloaded store to be enabled")
	}
	if err := reloaded.Verify("4711"); err != nil {
		t.Errorf("Expected pin to verify after reload, got %v", err)
	}
}

func TestPinStore_VerifyWithoutEnable(t *testing.T) {
	store := NewPinStore(kvstore.NewMemoryStore())

	if err := store.Verify("1234"); !errors.Is(err, ErrPinNotEnabled) {
		t.Errorf("Expected ErrPinNotEnabled, got %v", err)
	}
}

func TestPinStore_ValidatesPinFormat(t *testing.T) {
	tests := []struct {
		name string
		pin  string
	}{
		{"Too short", "123"},
		{"Too long", "123456789"},
		{"Non-digit characters", "12ab"},
		{"Empty", ""},
	}

	store := NewPinStore(kvstore.NewMemoryStore())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.Enable(context.Background(), tt.pin); err == nil {
				t.Errorf("Expected error for pin %q", tt.pin)
			}
		})
	}
}
