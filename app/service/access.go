package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"os"
	"strings"
	"time"
)

const (
	AccessTokenVersion = "v1"
	AccessCookieName   = "gluco_access"
	AccessCookieMaxAge = 30 * 24 * time.Hour
)

// SecretSource returns the operator-configured access code. Blank means access control
// has no secret and every write is refused.
type SecretSource func() string

func StaticSecret(secret string) SecretSource {
	return func() string { return secret }
}

func EnvSecret(key string) SecretSource {
	return func() string { return os.Getenv(key) }
}

// AccessVerifier decides whether a raw access code or a previously issued token grants
// write access. It holds no state besides the secret accessor and is safe for concurrent use.
type AccessVerifier struct {
	secret SecretSource
}

func NewAccessVerifier(secret SecretSource) *AccessVerifier {
	if secret == nil {
		secret = StaticSecret("")
	}
	return &AccessVerifier{secret: secret}
}

func (v *AccessVerifier) ConfiguredSecret() (string, bool) {
	secret := strings.TrimSpace(v.secret())
	if secret == "" {
		return "", false
	}
	return secret, true
}

func (v *AccessVerifier) HasSecretConfigured() bool {
	_, ok := v.ConfiguredSecret()
	return ok
}

// ExpectedToken is recomputed on every call so a changed secret takes effect immediately.
func (v *AccessVerifier) ExpectedToken() (string, bool) {
	secret, ok := v.ConfiguredSecret()
	if !ok {
		return "", false
	}
	return hashAccessCode(secret), true
}

func (v *AccessVerifier) IsCodeValid(candidate string) bool {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return false
	}

	expected, ok := v.ExpectedToken()
	if !ok {
		return false
	}

	return constantTimeEquals(hashAccessCode(candidate), expected)
}

// HasValidToken compares a token as issued (already a digest). An empty token is absent.
func (v *AccessVerifier) HasValidToken(token string) bool {
	if token == "" {
		return false
	}

	expected, ok := v.ExpectedToken()
	if !ok {
		return false
	}

	return constantTimeEquals(token, expected)
}

func hashAccessCode(code string) string {
	sum := sha256.Sum256([]byte(AccessTokenVersion + ":" + code))
	return hex.EncodeToString(sum[:])
}

// constantTimeEquals may return early on a length mismatch; equal-length inputs are
// compared in full.
func constantTimeEquals(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
