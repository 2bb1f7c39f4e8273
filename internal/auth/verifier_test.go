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
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProject = "wisewallet-test"

type provider struct {
	key    *rsa.PrivateKey
	server *httptest.Server
	hits   atomic.Int32
}

func newProvider(t *testing.T) *provider {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "securetoken"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})

	p := &provider{key: key}
	p.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.hits.Add(1)
		w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
		_ = json.NewEncoder(w).Encode(map[string]string{"kid-1": string(certPEM)})
	}))
	t.Cleanup(p.server.Close)
	return p
}

func (p *provider) sign(t *testing.T, kid string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(p.key)
	require.NoError(t, err)
	return signed
}

func validClaims() Claims {
	now := time.Now()
	return Claims{
		Email: "ada@example.com",
		Name:  "Ada",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "firebase-uid-1",
			Issuer:    issuerPrefix + testProject,
			Audience:  jwt.ClaimStrings{testProject},
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func newTestVerifier(t *testing.T, p *provider, devSecret string) *Verifier {
	t.Helper()
	v, err := NewVerifier(Config{
		ProjectID:  testProject,
		CertsURL:   p.server.URL,
		DevSecret:  devSecret,
		HTTPClient: p.server.Client(),
	})
	require.NoError(t, err)
	return v
}

func TestVerifyProviderToken(t *testing.T) {
	p := newProvider(t)
	v := newTestVerifier(t, p, "")

	id, err := v.Verify(context.Background(), p.sign(t, "kid-1", validClaims()))
	require.NoError(t, err)
	assert.Equal(t, Identity{Subject: "firebase-uid-1", Email: "ada@example.com", DisplayName: "Ada"}, id)

	_, err = v.Verify(context.Background(), p.sign(t, "kid-1", validClaims()))
	require.NoError(t, err)
	assert.Equal(t, int32(1), p.hits.Load(), "keys are cached for max-age")
}

func TestVerifyRejects(t *testing.T) {
	p := newProvider(t)
	v := newTestVerifier(t, p, "")

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	wrongAudience := validClaims()
	wrongAudience.Audience = jwt.ClaimStrings{"someone-else"}

	wrongIssuer := validClaims()
	wrongIssuer.Issuer = "https://evil.example.com"

	noSubject := validClaims()
	noSubject.Subject = ""

	cases := map[string]string{
		"expired":        p.sign(t, "kid-1", expired),
		"wrong audience": p.sign(t, "kid-1", wrongAudience),
		"wrong issuer":   p.sign(t, "kid-1", wrongIssuer),
		"no subject":     p.sign(t, "kid-1", noSubject),
		"unknown kid":    p.sign(t, "kid-9", validClaims()),
		"garbage":        "not.a.token",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), raw)
			assert.ErrorIs(t, err, ErrUnauthenticated)
		})
	}
}

func TestVerifyForeignKey(t *testing.T) {
	p := newProvider(t)
	v := newTestVerifier(t, p, "")

	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, validClaims())
	token.Header["kid"] = "kid-1"
	raw, err := token.SignedString(other)
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestVerifyDevToken(t *testing.T) {
	p := newProvider(t)
	raw, err := IssueDevToken("dev-secret", Identity{Subject: "local-1", Email: "dev@example.com"}, time.Hour)
	require.NoError(t, err)

	id, err := newTestVerifier(t, p, "dev-secret").Verify(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "local-1", id.Subject)
	assert.Equal(t, "dev@example.com", id.Email)

	_, err = newTestVerifier(t, p, "").Verify(context.Background(), raw)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = newTestVerifier(t, p, "other-secret").Verify(context.Background(), raw)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestVerifyKeyEndpointDown(t *testing.T) {
	p := newProvider(t)
	raw := p.sign(t, "kid-1", validClaims())
	v := newTestVerifier(t, p, "")
	p.server.Close()

	_, err := v.Verify(context.Background(), raw)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthenticated)
}

func TestNewVerifierNeedsProjectOrSecret(t *testing.T) {
	_, err := NewVerifier(Config{})
	assert.Error(t, err)
}

func TestParseBearer(t *testing.T) {
	token, err := ParseBearer("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	token, err = ParseBearer("bearer   xyz")
	require.NoError(t, err)
	assert.Equal(t, "xyz", token)

	for _, header := range []string{"", "Basic abc", "Bearer", "Bearer   ", "abc"} {
		_, err := ParseBearer(header)
		assert.ErrorIs(t, err, ErrUnauthenticated, header)
	}
}

func TestMaxAge(t *testing.T) {
	assert.Equal(t, 19845*time.Second, maxAge("public, max-age=19845, must-revalidate, no-transform"))
	assert.Equal(t, defaultKeyTTL, maxAge("no-cache"))
	assert.Equal(t, defaultKeyTTL, maxAge("max-age=abc"))
}
