package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func certPEM(t *testing.T) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(2),
		Subject:      pkix.Name{CommonName: "rotating"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))
}

type rotatingCerts struct {
	kid  atomic.Value
	hits atomic.Int32
	srv  *httptest.Server
}

func newRotatingCerts(t *testing.T, kid string) *rotatingCerts {
	t.Helper()
	cert := certPEM(t)
	r := &rotatingCerts{}
	r.kid.Store(kid)
	r.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		r.hits.Add(1)
		w.Header().Set("Cache-Control", "max-age=3600")
		_ = json.NewEncoder(w).Encode(map[string]string{r.kid.Load().(string): cert})
	}))
	t.Cleanup(r.srv.Close)
	return r
}

type clock struct {
	mu sync.Mutex
	at time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.at
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = c.at.Add(d)
}

func TestUnknownKidRefetchesAfterCooldown(t *testing.T) {
	certs := newRotatingCerts(t, "kid-1")
	clk := &clock{at: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	ks := &keySet{url: certs.srv.URL, client: certs.srv.Client(), now: clk.now}
	ctx := context.Background()

	_, err := ks.get(ctx, "kid-1")
	require.NoError(t, err)

	certs.kid.Store("kid-2")
	_, err = ks.get(ctx, "kid-2")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, int32(1), certs.hits.Load(), "no refetch inside the cooldown")

	clk.advance(refetchCooldown + time.Second)
	key, err := ks.get(ctx, "kid-2")
	require.NoError(t, err)
	assert.NotNil(t, key)
	assert.Equal(t, int32(2), certs.hits.Load())

	_, err = ks.get(ctx, "kid-2")
	require.NoError(t, err)
	assert.Equal(t, int32(2), certs.hits.Load())
}

func TestColdCacheFetchesOnce(t *testing.T) {
	certs := newRotatingCerts(t, "kid-1")
	ks := &keySet{url: certs.srv.URL, client: certs.srv.Client(), now: time.Now}

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ks.get(context.Background(), "kid-1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), certs.hits.Load())
}

func TestExpiredKeysAreRefetched(t *testing.T) {
	certs := newRotatingCerts(t, "kid-1")
	clk := &clock{at: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	ks := &keySet{url: certs.srv.URL, client: certs.srv.Client(), now: clk.now}

	_, err := ks.get(context.Background(), "kid-1")
	require.NoError(t, err)
	clk.advance(time.Hour)
	_, err = ks.get(context.Background(), "kid-1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), certs.hits.Load())
}
