package history

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/jo-hoe/docscan/internal/kvstore"
)

const historyKey = "scan_history"

// Scan is one completed text extraction.
type Scan struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	ImageID   string    `json:"imageId,omitempty"`
}

// Store keeps the scan history in memory, newest-first, and mirrors it as a
// JSON-encoded sequence to the key-value store. Mutations update memory
// first; a failed persist is logged and the in-memory state is kept.
type Store struct {
	mu    sync.RWMutex
	store kvstore.Store
	scans []Scan
}

func NewStore(store kvstore.Store) *Store {
	return &Store{store: store}
}

// Load reads the persisted history. A missing key yields an empty history;
// a corrupt payload is logged and likewise degrades to empty.
func (s *Store) Load(ctx context.Context) {
	value, err := s.store.Get(ctx, historyKey)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			slog.Warn("failed to load scan history; starting empty", "error", err)
		}
		return
	}

	var scans []Scan
	if err := json.Unmarshal([]byte(value), &scans); err != nil {
		slog.Warn("stored scan history is corrupt; starting empty", "error", err)
		return
	}

	// Stored order is newest-first already; re-sorting makes the invariant
	// hold even if the payload was written by hand.
	sort.SliceStable(scans, func(i, j int) bool {
		return scans[i].Timestamp.After(scans[j].Timestamp)
	})

	s.mu.Lock()
	s.scans = scans
	s.mu.Unlock()
}

// Scans returns a copy of the history, newest-first.
func (s *Store) Scans() []Scan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scans := make([]Scan, len(s.scans))
	copy(scans, s.scans)
	return scans
}

// Add prepends a scan and writes the history through to the store.
func (s *Store) Add(ctx context.Context, scan Scan) {
	s.mu.Lock()
	s.scans = append([]Scan{scan}, s.scans...)
	s.mu.Unlock()

	s.persist(ctx)
}

// Remove deletes the scan with the given id. It reports whether a scan was
// removed.
func (s *Store) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	removed := false
	for i, scan := range s.scans {
		if scan.ID == id {
			s.scans = append(s.scans[:i], s.scans[i+1:]...)
			removed = true
			break
		}
	}
	s.mu.Unlock()

	if removed {
		s.persist(ctx)
	}
	return removed
}

// Clear deletes all scans.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.scans = nil
	s.mu.Unlock()

	s.persist(ctx)
}

func (s *Store) persist(ctx context.Context) {
	s.mu.RLock()
	payload, err := json.Marshal(s.scans)
	s.mu.RUnlock()
	if err != nil {
		slog.Error("failed to encode scan history", "error", err)
		return
	}

	if err := s.store.Set(ctx, historyKey, string(payload)); err != nil {
		slog.Error("failed to persist scan history", "error", err)
	}
}
