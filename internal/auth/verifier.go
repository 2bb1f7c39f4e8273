package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultCertsURL serves the identity provider's ID-token certificates.
	DefaultCertsURL = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"
	issuerPrefix    = "https://securetoken.google.com/"
)

// Identity is the verified principal behind a token.
type Identity struct {
	Subject     string
	Email       string
	DisplayName string
}

type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type Config struct {
	// ProjectID is the expected audience; the issuer is derived from it.
	ProjectID string
	CertsURL  string
	// DevSecret enables HS256 tokens for local development.
	DevSecret  string
	HTTPClient *http.Client
	Now        func() time.Time
}

// Verifier checks provider-issued RS256 ID tokens and, when configured,
// HS256 development tokens.
type Verifier struct {
	keys      *keySet
	rsParser  *jwt.Parser
	hsParser  *jwt.Parser
	devSecret []byte
}

func NewVerifier(cfg Config) (*Verifier, error) {
	if cfg.ProjectID == "" && cfg.DevSecret == "" {
		return nil, errors.New("auth: project id or dev secret is required")
	}
	if cfg.CertsURL == "" {
		cfg.CertsURL = DefaultCertsURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	v := &Verifier{}
	if cfg.ProjectID != "" {
		v.keys = &keySet{url: cfg.CertsURL, client: cfg.HTTPClient, now: cfg.Now}
		v.rsParser = jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithIssuer(issuerPrefix+cfg.ProjectID),
			jwt.WithAudience(cfg.ProjectID),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
			jwt.WithTimeFunc(cfg.Now),
		)
	}
	if cfg.DevSecret != "" {
		v.devSecret = []byte(cfg.DevSecret)
		v.hsParser = jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(cfg.Now),
		)
	}
	return v, nil
}

// Verify validates raw and returns its identity. Every failure wraps
// ErrUnauthenticated except a failure to reach the provider's key endpoint.
func (v *Verifier) Verify(ctx context.Context, raw string) (Identity, error) {
	unverified, _, err := jwt.NewParser().ParseUnverified(raw, &Claims{})
	if err != nil {
		return Identity{}, unauthenticated("invalid token")
	}

	var (
		claims  Claims
		keyErr  error
		parser  *jwt.Parser
		keyFunc jwt.Keyfunc
	)
	switch unverified.Method.(type) {
	case *jwt.SigningMethodRSA:
		if v.rsParser == nil {
			return Identity{}, unauthenticated("invalid token")
		}
		parser = v.rsParser
		keyFunc = func(t *jwt.Token) (any, error) {
			kid, _ := t.Header["kid"].(string)
			key, err := v.keys.get(ctx, kid)
			if err != nil && !errors.Is(err, ErrUnauthenticated) {
				keyErr = err
			}
			return key, err
		}
	case *jwt.SigningMethodHMAC:
		if v.hsParser == nil {
			return Identity{}, unauthenticated("invalid token")
		}
		parser = v.hsParser
		keyFunc = func(*jwt.Token) (any, error) { return v.devSecret, nil }
	default:
		return Identity{}, unauthenticated("invalid token")
	}

	token, err := parser.ParseWithClaims(raw, &claims, keyFunc)
	if keyErr != nil {
		return Identity{}, keyErr
	}
	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, unauthenticated("token expired")
		}
		return Identity{}, unauthenticated("invalid token")
	}
	if claims.Subject == "" {
		return Identity{}, unauthenticated("token has no subject")
	}

	return Identity{
		Subject:     claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
	}, nil
}

// IssueDevToken signs an HS256 token the Verifier accepts when it was built
// with the same DevSecret.
func IssueDevToken(secret string, id Identity, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("auth: dev secret is not configured")
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: id.Email,
		Name:  id.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString([]byte(secret))
}
