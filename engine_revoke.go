package authcore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/authcore-go/authcore/token"
)

// Revoke invalidates a bearer token ahead of its natural expiry. Revoking an
// already-revoked or already-expired token succeeds; the operation is
// idempotent. Tokens whose claims cannot be decoded are still recorded under
// a digest key so a revocation request never fails open.
func (e *Engine) Revoke(ctx context.Context, principalID, tokenString string) Result {
	if strings.TrimSpace(principalID) == "" || strings.TrimSpace(tokenString) == "" {
		return failure(KindInvalidInput, "principal id and token are required")
	}

	var (
		tokenID   string
		expiresAt time.Time
	)

	claims, err := e.issuer.Parse(tokenString)
	switch {
	case err == nil:
		tokenID = claims.TokenID()
		expiresAt = claims.ExpiresAt.Time
	case errors.Is(err, token.ErrTokenExpired):
		// Natural expiry already keeps the token out; nothing to store.
		return Result{OK: true, PrincipalID: principalID, Message: "token revoked"}
	default:
		e.logger.Debug().Err(err).Str("op", "revoke").Str("principal_id", principalID).Msg("revoking unparsable token under digest key")
		tokenID = fallbackTokenID(tokenString)
		expiresAt = time.Now().Add(e.config.Revocation.FallbackRetention)
	}

	if err := e.revocations.Revoke(ctx, tokenID, expiresAt); err != nil {
		e.logger.Error().Err(err).Str("op", "revoke").Str("principal_id", principalID).Msg("revocation store write failed")
		return failure(KindDependency, "revocation is temporarily unavailable")
	}

	return Result{OK: true, PrincipalID: principalID, Message: "token revoked"}
}
