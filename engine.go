package authcore

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"strings"

	"github.com/rs/zerolog"

	"github.com/authcore-go/authcore/password"
	"github.com/authcore-go/authcore/revocation"
	"github.com/authcore-go/authcore/token"
)

// Engine orchestrates the hasher, token issuer, and revocation store into
// the user-facing operations: Register, Authenticate, Revoke,
// RecoverCredential, CompleteRecovery, and ValidateToken. It holds no
// mutable state of its own; the revocation store is the only shared-mutable
// collaborator, and it manages its own concurrency. Engine methods are safe
// to call from multiple goroutines after [Builder.Build].
type Engine struct {
	config      Config
	hasher      *password.PBKDF2
	issuer      *token.Issuer
	revocations revocation.Store
	directory   UserDirectory
	notifier    NotificationSender
	logger      zerolog.Logger

	// decoy is a credential for a password nobody knows. Authenticate
	// verifies against it when the email is unknown, so the unknown-email
	// and wrong-password paths cost the same.
	decoy string
}

// Close releases the engine's background resources (the revocation janitor).
func (e *Engine) Close() error {
	if e == nil || e.revocations == nil {
		return nil
	}
	return e.revocations.Close()
}

// SweepRevoked triggers an immediate revocation sweep and reports how many
// entries were reclaimed. The background janitor makes calling this
// optional; it exists for hosts that schedule reclamation themselves.
func (e *Engine) SweepRevoked(ctx context.Context) (int, error) {
	return e.revocations.SweepExpired(ctx)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// fallbackTokenID derives a stable revocation key for a token string whose
// claims cannot be decoded. Revocation must not fail open on garbage input.
func fallbackTokenID(tokenString string) string {
	sum := sha256.Sum256([]byte(tokenString))
	return "raw:" + base64.RawURLEncoding.EncodeToString(sum[:])
}
