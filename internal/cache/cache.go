package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

// KeyPrefix namespaces every audit entry
const KeyPrefix = "brandpulse:audit:"

// Cache stores serialized audit results
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// Key builds the cache key for a brand or influencer name, or "" when the name
// has no usable characters and must not be cached.
// "Mr. Beast", "mrbeast" and "MR-BEAST" share a key; "C++" and "C#" do not.
func Key(brandName string) string {
	slug := Slug(brandName)
	if slug == "" {
		return ""
	}
	return KeyPrefix + slug
}

// Slug folds case, whitespace, dots, dashes and underscores out of brandName.
// Names that still carry other symbols get a hash suffix so they stay distinct.
func Slug(brandName string) string {
	var folded, alnum strings.Builder
	for _, r := range strings.ToLower(brandName) {
		switch {
		case unicode.IsSpace(r) || r == '.' || r == '-' || r == '_':
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			alnum.WriteRune(r)
		}
		folded.WriteRune(r)
	}

	if folded.Len() == 0 {
		return ""
	}
	if folded.Len() == alnum.Len() {
		return alnum.String()
	}

	suffix := fmt.Sprintf("%08x", uint32(xxhash.Sum64String(folded.String())))
	if alnum.Len() == 0 {
		return suffix
	}
	return alnum.String() + "-" + suffix
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is an in-process Cache used when no Valkey server is configured
type MemoryCache struct {
	entries map[string]memoryEntry
	mu      sync.Mutex
	now     func() time.Time
}

// Ensure MemoryCache implements Cache
var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache creates an empty in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return entry.value, true, nil
}

// Set stores a copy of value. A ttl of zero never expires.
func (m *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.entries[key] = entry
	return nil
}

func (m *MemoryCache) Close() error {
	return nil
}
