package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/jo-hoe/docscan/internal/kvstore"
)

const (
	pinEnabledKey = "@pin_enabled"
	pinHashKey    = "@pin_hash"

	minPinLength = 4
	maxPinLength = 8
)

var (
	// ErrPinMismatch is returned when a supplied PIN does not match the stored one.
	ErrPinMismatch = errors.New("pin does not match")
	// ErrPinNotEnabled is returned when a PIN operation requires an active PIN.
	ErrPinNotEnabled = errors.New("pin security is not enabled")
)

// PinStore manages the PIN security flag and its associated secret. Only a
// bcrypt hash of the PIN is ever persisted.
type PinStore struct {
	mu      sync.RWMutex
	store   kvstore.Store
	enabled bool
	hash    string
}

func NewPinStore(store kvstore.Store) *PinStore {
	return &PinStore{store: store}
}

// Load reads the persisted flag and hash. An unreadable or inconsistent
// stored state degrades to disabled.
func (s *PinStore) Load(ctx context.Context) {
	enabled, err := s.store.Get(ctx, pinEnabledKey)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			slog.Warn("failed to load pin security flag; keeping disabled", "error", err)
		}
		return
	}
	if enabled != "true" {
		return
	}

	hash, err := s.store.Get(ctx, pinHashKey)
	if err != nil {
		slog.Warn("pin security flag set but hash missing; keeping disabled", "error", err)
		return
	}

	s.mu.Lock()
	s.enabled = true
	s.hash = hash
	s.mu.Unlock()
}

// Enabled reports whether PIN security is active.
func (s *PinStore) Enabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enabled
}

// Enable validates and stores a new PIN, activating PIN security.
func (s *PinStore) Enable(ctx context.Context, pin string) error {
	if err := validatePin(pin); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash pin: %w", err)
	}

	s.mu.Lock()
	s.enabled = true
	s.hash = string(hash)
	s.mu.Unlock()

	if err := s.store.Set(ctx, pinHashKey, string(hash)); err != nil {
		slog.Error("failed to persist pin hash", "error", err)
	}
	if err := s.store.Set(ctx, pinEnabledKey, "true"); err != nil {
		slog.Error("failed to persist pin security flag", "error", err)
	}
	return nil
}

// Verify compares pin against the stored secret.
func (s *PinStore) Verify(pin string) error {
	s.mu.RLock()
	enabled := s.enabled
	hash := s.hash
	s.mu.RUnlock()

	if !enabled {
		return ErrPinNotEnabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)); err != nil {
		return ErrPinMismatch
	}
	return nil
}

// Disable deactivates PIN security. The current PIN must be supplied, which
// is the explicit confirmation step required before dropping the protection.
func (s *PinStore) Disable(ctx context.Context, pin string) error {
	if err := s.Verify(pin); err != nil {
		return err
	}

	s.mu.Lock()
	s.enabled = false
	s.hash = ""
	s.mu.Unlock()

	if err := s.store.Delete(ctx, pinHashKey); err != nil {
		slog.Error("failed to delete pin hash", "error", err)
	}
	if err := s.store.Set(ctx, pinEnabledKey, "false"); err != nil {
		slog.Error("failed to persist pin security flag", "error", err)
	}
	return nil
}

func validatePin(pin string) error {
	if len(pin) < minPinLength || len(pin) > maxPinLength {
		return fmt.Errorf("pin must be %d to %d digits", minPinLength, maxPinLength)
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return errors.New("pin must contain only digits")
		}
	}
	return nil
}
