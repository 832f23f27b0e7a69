package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var timeNow = time.Now

// TokenExpired reports whether token is a JWT whose exp claim is before now.
// The signature is not checked. Tokens that are not JWTs, or carry no exp,
// never expire on the client.
func TokenExpired(token string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}
