package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/Royalwole/sesame-sub004/internal/core/domain"
)

type memoryItem struct {
	listings  *domain.ListingPage
	dashboard *domain.AgentDashboard
	expiresAt time.Time
}

// MemoryStore implements Store in process memory. Used when no Redis URL is
// configured, and by tests.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memoryItem),
		ttl:   DefaultTTL,
		now:   time.Now,
	}
}

func (s *MemoryStore) SaveListings(ctx context.Context, key string, page *domain.ListingPage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[listingsKey(key)] = memoryItem{listings: page, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) LoadListings(ctx context.Context, key string) (*domain.ListingPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[listingsKey(key)]
	if !ok || item.listings == nil || s.now().After(item.expiresAt) {
		return nil, nil
	}
	return item.listings, nil
}

func (s *MemoryStore) SaveDashboard(ctx context.Context, key string, dash *domain.AgentDashboard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[dashboardKey(key)] = memoryItem{dashboard: dash, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) LoadDashboard(ctx context.Context, key string) (*domain.AgentDashboard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[dashboardKey(key)]
	if !ok || item.dashboard == nil || s.now().After(item.expiresAt) {
		return nil, nil
	}
	return item.dashboard, nil
}

func (s *MemoryStore) Entries(ctx context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]Entry, 0, len(s.items))
	for key, item := range s.items {
		ttl := item.expiresAt.Sub(s.now())
		if ttl <= 0 {
			continue
		}
		entries = append(entries, Entry{Key: key, TTL: ttl})
	}
	return entries, nil
}

// PruneExpired removes entries past their expiry. Loads already treat them
// as absent; this reclaims the map slots.
func (s *MemoryStore) PruneExpired(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, item := range s.items {
		if s.now().After(item.expiresAt) {
			delete(s.items, key)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryStore) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]memoryItem)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
