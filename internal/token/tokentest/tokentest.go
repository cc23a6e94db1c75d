// Package tokentest mints credentials for tests.
package tokentest

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var signingKey = []byte("rcup-test-signing-key")

// Mint returns an HS256 credential with the given subject, role and expiry.
func Mint(t testing.TB, sub, role string, exp time.Time) string {
	t.Helper()
	return MintClaims(t, jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"exp":  exp.Unix(),
	})
}

// MintClaims signs arbitrary claims.
func MintClaims(t testing.TB, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		t.Fatalf("sign credential: %v", err)
	}
	return signed
}

// Valid returns a credential for a sportsman that expires in an hour.
func Valid(t testing.TB) string {
	t.Helper()
	return Mint(t, "user-1", "sportsman", time.Now().Add(time.Hour))
}
