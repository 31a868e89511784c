package cache

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Entry is the wire form of one cached value. An entry is valid while
// now - CreatedAt <= TTL; an expired entry is treated as absent and removed
// on the access that finds it (lazy eviction - no background sweep).
type Entry struct {
	Payload   json.RawMessage `json:"payload"`
	CreatedAt int64           `json:"createdAt"` // unix milliseconds
	TTL       int64           `json:"ttl"`       // milliseconds
}

// NamespaceStats describes one namespace's share of the backing store.
type NamespaceStats struct {
	Count     int   `json:"count"`
	SizeBytes int64 `json:"size_bytes"`
}

// Stats summarizes everything stored under the reserved prefix. Used for
// debug surfaces only; nothing correctness-related reads it.
type Stats struct {
	Count          int                       `json:"count"`
	TotalSizeBytes int64                     `json:"total_size_bytes"`
	Namespaces     map[string]NamespaceStats `json:"namespaces"`
}

// Store implements per-entry TTL expiration over a backing Storage. Every
// storage failure is absorbed here and degrades to a miss or a no-op write:
// the cache accelerates search, it must never be the reason a search fails.
type Store struct {
	storage        Storage
	reservedPrefix string
	namespaces     Namespaces
	now            func() time.Time
}

func NewStore(storage Storage, reservedPrefix string, namespaces Namespaces) *Store {
	return &Store{
		storage:        storage,
		reservedPrefix: reservedPrefix,
		namespaces:     namespaces,
		now:            time.Now,
	}
}

// Namespaces exposes the static namespace set this store was built with.
func (s *Store) Namespaces() Namespaces {
	return s.namespaces
}

func (s *Store) resolveKey(ns Namespace, key string) string {
	if key == "" {
		return ns.Prefix
	}
	return ns.Prefix + key
}

// Set writes value wrapped with the namespace's TTL under the resolved key.
// Marshal and storage failures are logged and swallowed.
func (s *Store) Set(ns Namespace, key string, value interface{}) {
	payload, err := json.Marshal(value)
	if err != nil {
		slog.Warn("cache set skipped, payload not serializable", "namespace", ns.Name, "error", err)
		return
	}

	entry := Entry{
		Payload:   payload,
		CreatedAt: s.now().UnixMilli(),
		TTL:       ns.TTL.Milliseconds(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		slog.Warn("cache set skipped, entry not serializable", "namespace", ns.Name, "error", err)
		return
	}

	resolved := s.resolveKey(ns, key)
	if err := s.storage.Set(resolved, string(data)); err != nil {
		slog.Warn("cache write failed", "namespace", ns.Name, "key", resolved, "error", err)
	}
}

// Get reads the resolved key into out and reports whether a valid entry was
// found. An expired or undecodable entry is deleted and reported as absent.
func (s *Store) Get(ns Namespace, key string, out interface{}) bool {
	resolved := s.resolveKey(ns, key)

	raw, found, err := s.storage.Get(resolved)
	if err != nil {
		slog.Warn("cache read failed", "namespace", ns.Name, "key", resolved, "error", err)
		return false
	}
	if !found {
		return false
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		slog.Warn("cache entry corrupt, removing", "namespace", ns.Name, "key", resolved, "error", err)
		s.deleteQuiet(resolved)
		return false
	}

	if s.expired(entry) {
		s.deleteQuiet(resolved)
		return false
	}

	if err := json.Unmarshal(entry.Payload, out); err != nil {
		slog.Warn("cache payload undecodable", "namespace", ns.Name, "key", resolved, "error", err)
		return false
	}
	return true
}

func (s *Store) expired(entry Entry) bool {
	age := s.now().UnixMilli() - entry.CreatedAt
	return age > entry.TTL
}

// Clear removes the namespace's singleton key and, for parameterized
// namespaces, every key sharing the namespace prefix.
func (s *Store) Clear(ns Namespace) {
	keys, err := s.storage.Keys(ns.Prefix)
	if err != nil {
		slog.Warn("cache clear failed", "namespace", ns.Name, "error", err)
		return
	}
	for _, key := range keys {
		s.deleteQuiet(key)
	}
}

// ClearAll removes every key under the reserved prefix, across all
// namespaces. Used for global invalidation without per-namespace knowledge.
func (s *Store) ClearAll() {
	keys, err := s.storage.Keys(s.reservedPrefix)
	if err != nil {
		slog.Warn("cache clear-all failed", "error", err)
		return
	}
	for _, key := range keys {
		s.deleteQuiet(key)
	}
}

// IsAvailable probes the backing store with a trivial write and delete. A
// uuid suffix keeps concurrent probes from colliding.
func (s *Store) IsAvailable() bool {
	probe := s.reservedPrefix + "probe:" + uuid.NewString()

	if err := s.storage.Set(probe, "1"); err != nil {
		return false
	}
	if err := s.storage.Delete(probe); err != nil {
		return false
	}
	return true
}

// StatsSnapshot enumerates reserved-prefix keys and sums serialized sizes.
func (s *Store) StatsSnapshot() Stats {
	stats := Stats{Namespaces: make(map[string]NamespaceStats)}

	keys, err := s.storage.Keys(s.reservedPrefix)
	if err != nil {
		slog.Warn("cache stats unavailable", "error", err)
		return stats
	}

	for _, key := range keys {
		value, found, err := s.storage.Get(key)
		if err != nil || !found {
			continue
		}
		size := int64(len(key) + len(value))
		stats.Count++
		stats.TotalSizeBytes += size

		for _, ns := range s.namespaces.All() {
			if matchesNamespace(key, ns) {
				entry := stats.Namespaces[ns.Name]
				entry.Count++
				entry.SizeBytes += size
				stats.Namespaces[ns.Name] = entry
				break
			}
		}
	}
	return stats
}

func matchesNamespace(key string, ns Namespace) bool {
	if ns.Singleton {
		return key == ns.Prefix
	}
	return len(key) >= len(ns.Prefix) && key[:len(ns.Prefix)] == ns.Prefix
}

func (s *Store) deleteQuiet(key string) {
	if err := s.storage.Delete(key); err != nil {
		slog.Warn("cache delete failed", "key", key, "error", err)
	}
}
