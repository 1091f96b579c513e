package password

import (
	"strings"
	"testing"
)

func newTestHasher(t *testing.T) *PBKDF2 {
	t.Helper()

	h, err := New(Config{Iterations: minIterations})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return h
}

func TestHashVerifyRoundTrip(t *testing.T) {
	h := newTestHasher(t)

	encoded, err := h.Hash("Str0ngPwd!")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	ok, err := h.Verify("Str0ngPwd!", encoded)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !ok {
		t.Fatal("Verify returned false for matching password")
	}
}

func TestHashProducesUniqueSalts(t *testing.T) {
	h := newTestHasher(t)

	first, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("first Hash failed: %v", err)
	}
	second, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("second Hash failed: %v", err)
	}

	if first == second {
		t.Fatal("two hashes of the same plaintext compared equal")
	}
}

func TestVerifyRejectsWrongPassword(t *testing.T) {
	h := newTestHasher(t)

	encoded, err := h.Hash("correct-password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	ok, err := h.Verify("wrong-password", encoded)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if ok {
		t.Fatal("Verify accepted the wrong password")
	}
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	h := newTestHasher(t)

	if _, err := h.Hash(""); err != ErrEmptyPassword {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
	if _, err := h.Verify("", "1000:c2FsdA:aGFzaA"); err != ErrEmptyPassword {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
}

func TestVerifyRejectsMalformedCredential(t *testing.T) {
	h := newTestHasher(t)

	cases := map[string]string{
		"wrong field count": "only-one-field",
		"bad iterations":    "abc:c2FsdHNhbHRzYWx0c2FsdA:a2V5a2V5a2V5a2V5a2V5a2V5",
		"low iterations":    "10:c2FsdHNhbHRzYWx0c2FsdA:a2V5a2V5a2V5a2V5a2V5a2V5",
		"bad salt base64":   "1000:!!!:a2V5a2V5a2V5a2V5a2V5a2V5",
		"short salt":        "1000:c2FsdA:a2V5a2V5a2V5a2V5a2V5a2V5",
		"bad key base64":    "1000:c2FsdHNhbHRzYWx0c2FsdA:!!!",
	}

	for name, credential := range cases {
		if _, err := h.Verify("password", credential); err != ErrMalformedCredential {
			t.Errorf("%s: expected ErrMalformedCredential, got %v", name, err)
		}
	}
}

func TestVerifyHonorsEmbeddedParameters(t *testing.T) {
	strong, err := New(Config{Iterations: 2 * minIterations})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	encoded, err := strong.Hash("password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !strings.HasPrefix(encoded, "2000:") {
		t.Fatalf("credential does not embed its iteration count: %q", encoded)
	}

	// A hasher configured with different parameters must still verify the
	// stored credential using the embedded ones.
	weak := newTestHasher(t)
	ok, err := weak.Verify("password", encoded)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !ok {
		t.Fatal("Verify ignored embedded work parameters")
	}
}

func TestNewRejectsWeakConfig(t *testing.T) {
	if _, err := New(Config{Iterations: 10}); err == nil {
		t.Fatal("expected error for low iteration count")
	}
	if _, err := New(Config{SaltLength: 4}); err == nil {
		t.Fatal("expected error for short salt")
	}
	if _, err := New(Config{KeyLength: 8}); err == nil {
		t.Fatal("expected error for short key")
	}
}
