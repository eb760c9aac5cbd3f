// Package recent remembers the most recently used recipient addresses.
package recent

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/cristianoliveira/casewatch/internal/logging"
	"github.com/cristianoliveira/casewatch/internal/storage"
)

const (
	// Key is the storage key of the recipient list.
	Key = "recent_emails"
	// MaxEntries bounds the remembered list.
	MaxEntries = 2
)

// Store is a bounded, most-recent-first list of recipients persisted in a KV.
type Store struct {
	kv     storage.KV
	logger logging.Logger
}

// NewStore creates a store over kv.
func NewStore(kv storage.KV, logger logging.Logger) *Store {
	if kv == nil {
		panic("recent.NewStore: kv dependency cannot be nil")
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Store{kv: kv, logger: logger}
}

// Normalize lowercases and trims an address.
func Normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// Add puts value at the front of the list, removing an earlier copy of it,
// and keeps at most MaxEntries. Blank values are ignored.
func (s *Store) Add(value string) error {
	value = Normalize(value)
	if value == "" {
		return nil
	}

	list := normalizeList(append([]string{value}, s.GetAll()...))
	payload, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("recent: encode: %w", err)
	}
	if err := s.kv.Set(Key, string(payload)); err != nil {
		return fmt.Errorf("recent: save: %w", err)
	}
	return nil
}

// GetAll returns the list, most recent first. It never fails: a missing
// entry is an empty list, and an unreadable entry is removed and reported
// as an empty list.
func (s *Store) GetAll() []string {
	raw, ok, err := s.kv.Get(Key)
	if err != nil {
		s.logger.Warn("recent: read failed", "error", err)
		return []string{}
	}
	if !ok {
		return []string{}
	}

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		s.logger.Warn("recent: discarding corrupt entry", "key", Key, "error", err)
		if delErr := s.kv.Delete(Key); delErr != nil {
			s.logger.Warn("recent: delete corrupt entry failed", "error", delErr)
		}
		return []string{}
	}
	return normalizeList(list)
}

// normalizeList normalizes each entry, keeps the first copy of every
// address and truncates to MaxEntries.
func normalizeList(values []string) []string {
	out := make([]string, 0, MaxEntries)
	for _, v := range values {
		if len(out) == MaxEntries {
			break
		}
		v = Normalize(v)
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Clear forgets every remembered recipient.
func (s *Store) Clear() error {
	if err := s.kv.Delete(Key); err != nil {
		return fmt.Errorf("recent: clear: %w", err)
	}
	return nil
}
