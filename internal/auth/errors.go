package auth

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnauthenticated is returned for a missing, malformed, invalid or expired
// credential.
var ErrUnauthenticated = errors.New("unauthenticated")

func unauthenticated(msg string) error {
	return fmt.Errorf("%w: %s", ErrUnauthenticated, msg)
}

// ParseBearer extracts the token from an Authorization header value.
func ParseBearer(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", unauthenticated("missing token")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", unauthenticated("invalid token")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", unauthenticated("invalid token")
	}
	return token, nil
}
