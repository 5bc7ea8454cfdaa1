package trclient

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CheckToken returns a TokenExpiredError if token is a JSON web token
// whose expiration time is at or before now.
//
// The token's signature is not verified. That is left to the server. Tokens
// that are not JSON web tokens are passed through unchanged.
func CheckToken(token string, now time.Time) error {
	token = strings.TrimSpace(token)
	if strings.Count(token, ".") != 2 {
		return nil
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil
	}

	if claims.ExpiresAt == nil {
		return nil
	}
	if expires := claims.ExpiresAt.Time; !now.Before(expires) {
		return TokenExpiredError{Expired: expires}
	}

	return nil
}
