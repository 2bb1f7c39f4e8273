package auth

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultKeyTTL = time.Hour
	// an unknown kid forces a refetch at most this often
	refetchCooldown = time.Minute
)

// keySet caches the provider's signing certificates, keyed by kid, until the
// max-age the provider advertised runs out. Lookups only take the read lock;
// fetches run outside it, one at a time.
type keySet struct {
	url    string
	client *http.Client
	now    func() time.Time

	fetchMu sync.Mutex

	mu      sync.RWMutex
	keys    map[string]*rsa.PublicKey
	expires time.Time
	fetched time.Time
}

func (k *keySet) get(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	key, known, fresh := k.lookup(kid)
	if known && fresh {
		return key, nil
	}
	if fresh && !k.mayRefetch() {
		return nil, unauthenticated("unknown signing key")
	}

	if err := k.refresh(ctx, kid); err != nil {
		return nil, err
	}
	key, known, _ = k.lookup(kid)
	if !known {
		return nil, unauthenticated("unknown signing key")
	}
	return key, nil
}

func (k *keySet) lookup(kid string) (key *rsa.PublicKey, known, fresh bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	key, known = k.keys[kid]
	fresh = k.keys != nil && k.now().Before(k.expires)
	return key, known, fresh
}

func (k *keySet) mayRefetch() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.now().Sub(k.fetched) >= refetchCooldown
}

func (k *keySet) refresh(ctx context.Context, kid string) error {
	k.fetchMu.Lock()
	defer k.fetchMu.Unlock()

	// another caller may have fetched while this one waited
	if _, known, fresh := k.lookup(kid); fresh && (known || !k.mayRefetch()) {
		return nil
	}

	keys, ttl, err := k.fetch(ctx)
	if err != nil {
		return err
	}

	now := k.now()
	k.mu.Lock()
	k.keys = keys
	k.expires = now.Add(ttl)
	k.fetched = now
	k.mu.Unlock()
	return nil
}

func (k *keySet) fetch(ctx context.Context) (map[string]*rsa.PublicKey, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.url, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := k.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch signing keys: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("fetch signing keys: status %d", resp.StatusCode)
	}

	var certs map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&certs); err != nil {
		return nil, 0, fmt.Errorf("decode signing keys: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(certs))
	for kid, pemText := range certs {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemText))
		if err != nil {
			return nil, 0, fmt.Errorf("parse signing key %s: %w", kid, err)
		}
		keys[kid] = key
	}
	return keys, maxAge(resp.Header.Get("Cache-Control")), nil
}

func maxAge(cacheControl string) time.Duration {
	for _, directive := range strings.Split(cacheControl, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(directive), "=")
		if !ok || !strings.EqualFold(name, "max-age") {
			continue
		}
		if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultKeyTTL
}
