package cdn

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

const DefaultRealmTTL = time.Hour

// Realms caches the realm manifest of each region. It backs the latest-version
// and default-locale query defaults, so lookups may block on a network fetch.
type Realms struct {
	client *Client
	ttl    time.Duration
	now    func() time.Time

	mu      sync.RWMutex
	entries map[string]realmEntry
}

type realmEntry struct {
	realm     Realm
	fetchedAt time.Time
}

func NewRealms(client *Client, ttl time.Duration) *Realms {
	if client == nil {
		client = NewClient()
	}
	if ttl <= 0 {
		ttl = DefaultRealmTTL
	}
	return &Realms{
		client:  client,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]realmEntry),
	}
}

func (r *Realms) Get(ctx context.Context, region string) (Realm, error) {
	key := strings.ToLower(strings.TrimSpace(region))
	if key == "" {
		return Realm{}, fmt.Errorf("region is required")
	}

	r.mu.RLock()
	entry, ok := r.entries[key]
	r.mu.RUnlock()
	if ok && r.now().Sub(entry.fetchedAt) < r.ttl {
		return entry.realm, nil
	}

	realm, err := r.client.FetchRealm(ctx, key)
	if err != nil {
		return Realm{}, fmt.Errorf("fetch realm %s: %w", key, err)
	}
	r.Update(key, realm, r.now())
	return realm, nil
}

func (r *Realms) Update(region string, realm Realm, fetchedAt time.Time) {
	if r == nil || strings.TrimSpace(realm.Version) == "" {
		return
	}
	r.mu.Lock()
	r.entries[strings.ToLower(strings.TrimSpace(region))] = realmEntry{realm: realm, fetchedAt: fetchedAt}
	r.mu.Unlock()
}

func (r *Realms) LatestVersion(ctx context.Context, region string) (string, error) {
	realm, err := r.Get(ctx, region)
	if err != nil {
		return "", err
	}
	return realm.Version, nil
}

func (r *Realms) DefaultLocale(ctx context.Context, region string) (string, error) {
	realm, err := r.Get(ctx, region)
	if err != nil {
		return "", err
	}
	if realm.Locale == "" {
		return "", fmt.Errorf("realm %s has no default locale", region)
	}
	return realm.Locale, nil
}
