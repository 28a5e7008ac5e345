package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Royalwole/sesame-sub004/internal/core/domain"
)

// Config holds Redis connection configuration.
type Config struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
}

// RedisStore implements Store on Redis. Values are JSON with a TTL so stale
// snapshots age out on their own.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg Config) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{rdb: rdb, ttl: DefaultTTL}, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// Key helpers
func listingsKey(key string) string {
	return fmt.Sprintf("snapshot:listings:%s", key)
}

func dashboardKey(key string) string {
	return fmt.Sprintf("snapshot:dashboard:%s", key)
}

// SaveListings stores a listing page snapshot.
func (s *RedisStore) SaveListings(ctx context.Context, key string, page *domain.ListingPage) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to marshal listing page: %w", err)
	}
	if err := s.rdb.Set(ctx, listingsKey(key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set snapshot: %w", err)
	}
	return nil
}

// LoadListings retrieves a listing page snapshot, or (nil, nil) if absent.
func (s *RedisStore) LoadListings(ctx context.Context, key string) (*domain.ListingPage, error) {
	data, err := s.rdb.Get(ctx, listingsKey(key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var page domain.ListingPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("failed to unmarshal listing page: %w", err)
	}
	return &page, nil
}

// SaveDashboard stores an agent dashboard snapshot.
func (s *RedisStore) SaveDashboard(ctx context.Context, key string, dash *domain.AgentDashboard) error {
	data, err := json.Marshal(dash)
	if err != nil {
		return fmt.Errorf("failed to marshal dashboard: %w", err)
	}
	if err := s.rdb.Set(ctx, dashboardKey(key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set snapshot: %w", err)
	}
	return nil
}

// LoadDashboard retrieves an agent dashboard snapshot, or (nil, nil) if absent.
func (s *RedisStore) LoadDashboard(ctx context.Context, key string) (*domain.AgentDashboard, error) {
	data, err := s.rdb.Get(ctx, dashboardKey(key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var dash domain.AgentDashboard
	if err := json.Unmarshal(data, &dash); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dashboard: %w", err)
	}
	return &dash, nil
}

// Entries scans all snapshot keys with their remaining TTL.
func (s *RedisStore) Entries(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, "snapshot:*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		for _, key := range keys {
			ttl, err := s.rdb.TTL(ctx, key).Result()
			if err != nil {
				ttl = -1
			}
			entries = append(entries, Entry{Key: key, TTL: ttl})
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return entries, nil
}

// Flush removes all snapshot keys.
func (s *RedisStore) Flush(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, "snapshot:*", 100).Result()
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("del failed: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
