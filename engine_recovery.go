package authcore

import (
	"context"
	"errors"
	"strings"

	"github.com/authcore-go/authcore/token"
)

// recoveryMessage is returned whether or not the email maps to an account,
// so recovery requests cannot be used to enumerate registered addresses.
const recoveryMessage = "if the email is registered, a recovery message has been sent"

// RecoverCredential starts a password reset. When the email maps to an
// account, a recovery-scoped short-lived token is generated and handed to the
// notifier; the returned Result reads the same either way and never carries
// the principal id or the token itself.
func (e *Engine) RecoverCredential(ctx context.Context, email string) Result {
	email = normalizeEmail(email)
	if email == "" {
		return failure(KindInvalidInput, "email is required")
	}

	principal, err := e.directory.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			return Result{OK: true, Message: recoveryMessage}
		}
		e.logger.Error().Err(err).Str("op", "recover").Msg("directory lookup failed")
		return failure(KindDependency, "recovery is temporarily unavailable")
	}

	reset, err := e.issuer.IssueScoped(principal.ID, principal.Email, token.ScopeRecovery, e.config.Recovery.TTL)
	if err != nil {
		e.logger.Error().Err(err).Str("op", "recover").Str("principal_id", principal.ID).Msg("reset token issue failed")
		return failure(KindDependency, "recovery is temporarily unavailable")
	}

	notified := true
	if err := e.notifier.SendRecovery(ctx, principal.Email, reset); err != nil {
		notified = false
		e.logger.Warn().Err(err).Str("op", "recover").Str("principal_id", principal.ID).Msg("recovery notification failed")
	}

	return Result{OK: true, Message: recoveryMessage, Notified: notified}
}

// CompleteRecovery consumes a recovery token and installs a new password.
// The token is single-use: its id is revoked before the credential is
// rewritten, so a second attempt with the same token is rejected even if the
// directory update below fails.
func (e *Engine) CompleteRecovery(ctx context.Context, resetToken, newPassword string) Result {
	if strings.TrimSpace(resetToken) == "" || strings.TrimSpace(newPassword) == "" {
		return failure(KindInvalidInput, "reset token and new password are required")
	}

	claims, err := e.issuer.Parse(resetToken)
	if err != nil {
		return failure(KindUnauthorized, "invalid or expired reset token")
	}
	if claims.Scope != token.ScopeRecovery {
		return failure(KindUnauthorized, "invalid or expired reset token")
	}

	revoked, err := e.revocations.IsRevoked(ctx, claims.TokenID())
	if err != nil {
		e.logger.Error().Err(err).Str("op", "complete_recovery").Msg("revocation store read failed")
		return failure(KindDependency, "recovery is temporarily unavailable")
	}
	if revoked {
		return failure(KindUnauthorized, "invalid or expired reset token")
	}

	principal, err := e.directory.GetByID(ctx, claims.PrincipalID())
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			return failure(KindUnauthorized, "invalid or expired reset token")
		}
		e.logger.Error().Err(err).Str("op", "complete_recovery").Msg("directory lookup failed")
		return failure(KindDependency, "recovery is temporarily unavailable")
	}

	if err := e.revocations.Revoke(ctx, claims.TokenID(), claims.ExpiresAt.Time); err != nil {
		e.logger.Error().Err(err).Str("op", "complete_recovery").Str("principal_id", principal.ID).Msg("reset token revocation failed")
		return failure(KindDependency, "recovery is temporarily unavailable")
	}

	credential, err := e.hasher.Hash(newPassword)
	if err != nil {
		e.logger.Error().Err(err).Str("op", "complete_recovery").Str("principal_id", principal.ID).Msg("password hashing failed")
		return failure(KindDependency, "recovery is temporarily unavailable")
	}

	principal.Credential = credential
	if err := e.directory.Update(ctx, principal); err != nil {
		e.logger.Error().Err(err).Str("op", "complete_recovery").Str("principal_id", principal.ID).Msg("credential update failed")
		return failure(KindDependency, "recovery is temporarily unavailable")
	}

	return Result{OK: true, PrincipalID: principal.ID, Message: "password updated"}
}
