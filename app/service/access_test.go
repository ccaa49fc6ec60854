package service_test

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"testing"

	"github.com/vibast-solutions/ms-go-glucose/app/service"
)

func hashAccessCodeForTest(version, code string) string {
	sum := sha256.Sum256([]byte(version + ":" + code))
	return hex.EncodeToString(sum[:])
}

func TestAccessVerifier_NoSecretConfigured(t *testing.T) {
	for _, secret := range []string{"", "   ", "\t\n"} {
		verifier := service.NewAccessVerifier(service.StaticSecret(secret))

		if verifier.HasSecretConfigured() {
			t.Fatalf("expected no secret for %q", secret)
		}
		if _, ok := verifier.ConfiguredSecret(); ok {
			t.Fatalf("expected ConfiguredSecret to be absent for %q", secret)
		}
		if token, ok := verifier.ExpectedToken(); ok || token != "" {
			t.Fatalf("expected no token, got %q", token)
		}
		if verifier.IsCodeValid(secret) || verifier.IsCodeValid("anything") {
			t.Fatalf("expected codes to be rejected without a secret")
		}
		if verifier.HasValidToken(hashAccessCodeForTest("v1", "anything")) {
			t.Fatalf("expected tokens to be rejected without a secret")
		}
	}
}

func TestAccessVerifier_NilSourceDegrades(t *testing.T) {
	verifier := service.NewAccessVerifier(nil)
	if verifier.HasSecretConfigured() || verifier.IsCodeValid("x") || verifier.HasValidToken("x") {
		t.Fatalf("expected nil source to behave as unconfigured")
	}
}

func TestAccessVerifier_ExpectedToken(t *testing.T) {
	verifier := service.NewAccessVerifier(service.StaticSecret("  s3cret  "))

	secret, ok := verifier.ConfiguredSecret()
	if !ok || secret != "s3cret" {
		t.Fatalf("expected trimmed secret, got %q %v", secret, ok)
	}

	token, ok := verifier.ExpectedToken()
	if !ok {
		t.Fatalf("expected token")
	}
	if token != hashAccessCodeForTest("v1", "s3cret") {
		t.Fatalf("unexpected token %q", token)
	}
	if len(token) != 64 || strings.ToLower(token) != token {
		t.Fatalf("expected 64 lowercase hex chars, got %q", token)
	}
	if again, _ := verifier.ExpectedToken(); again != token {
		t.Fatalf("expected deterministic token")
	}
}

func TestAccessVerifier_IsCodeValid(t *testing.T) {
	verifier := service.NewAccessVerifier(service.StaticSecret("open-sesame"))

	valid := []string{"open-sesame", "  open-sesame", "open-sesame\n"}
	for _, code := range valid {
		if !verifier.IsCodeValid(code) {
			t.Fatalf("expected %q to be valid", code)
		}
	}

	invalid := []string{"", "   ", "open-sesam", "Open-sesame", "open-sesame!", "open sesame"}
	for _, code := range invalid {
		if verifier.IsCodeValid(code) {
			t.Fatalf("expected %q to be invalid", code)
		}
	}
}

func TestAccessVerifier_HasValidToken(t *testing.T) {
	verifier := service.NewAccessVerifier(service.StaticSecret("open-sesame"))

	token, _ := verifier.ExpectedToken()
	if !verifier.HasValidToken(token) {
		t.Fatalf("expected issued token to be valid")
	}
	if verifier.HasValidToken("") {
		t.Fatalf("expected absent token to be invalid")
	}
	if verifier.HasValidToken("open-sesame") {
		t.Fatalf("expected raw code not to be accepted as a token")
	}
	if verifier.HasValidToken(strings.ToUpper(token)) {
		t.Fatalf("expected token comparison to be exact")
	}
	if verifier.HasValidToken(token[:63]) {
		t.Fatalf("expected truncated token to be invalid")
	}

	other := service.NewAccessVerifier(service.StaticSecret("another-code"))
	otherToken, _ := other.ExpectedToken()
	if verifier.HasValidToken(otherToken) {
		t.Fatalf("expected token for a different secret to be rejected")
	}
}

func TestAccessVerifier_RejectsOtherVersionTokens(t *testing.T) {
	verifier := service.NewAccessVerifier(service.StaticSecret("open-sesame"))

	if verifier.HasValidToken(hashAccessCodeForTest("v0", "open-sesame")) {
		t.Fatalf("expected token from another version to be rejected")
	}
	if verifier.HasValidToken(hashAccessCodeForTest("", "open-sesame")) {
		t.Fatalf("expected unversioned token to be rejected")
	}
}

func TestAccessVerifier_SecretChangesTakeEffect(t *testing.T) {
	var mu sync.Mutex
	secret := "first"
	verifier := service.NewAccessVerifier(func() string {
		mu.Lock()
		defer mu.Unlock()
		return secret
	})

	firstToken, _ := verifier.ExpectedToken()

	mu.Lock()
	secret = "second"
	mu.Unlock()

	if verifier.HasValidToken(firstToken) {
		t.Fatalf("expected old token to stop validating after secret rotation")
	}
	if !verifier.IsCodeValid("second") {
		t.Fatalf("expected new code to validate")
	}
}

func TestEnvSecret(t *testing.T) {
	t.Setenv("TEST_APP_ACCESS_CODE", "from-env")
	verifier := service.NewAccessVerifier(service.EnvSecret("TEST_APP_ACCESS_CODE"))
	if !verifier.IsCodeValid("from-env") {
		t.Fatalf("expected env secret to validate")
	}

	t.Setenv("TEST_APP_ACCESS_CODE", "")
	if verifier.HasSecretConfigured() {
		t.Fatalf("expected blank env secret to disable access")
	}
}
