package authcore

import (
	"context"
	"errors"
	"strings"
	"time"
)

const invalidCredentialsMessage = "invalid email or password"

// Authenticate verifies an email/password pair and issues a bearer token.
// The unknown-email and wrong-password paths return byte-identical results
// so callers cannot probe for account existence; the unknown-email path
// still performs a full verification against a decoy credential to keep the
// two paths' cost alike.
func (e *Engine) Authenticate(ctx context.Context, email, plaintext string) Result {
	email = normalizeEmail(email)
	if email == "" || strings.TrimSpace(plaintext) == "" {
		return failure(KindInvalidInput, "email and password are required")
	}

	principal, err := e.directory.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrPrincipalNotFound) {
			e.logger.Error().Err(err).Str("op", "authenticate").Msg("directory lookup failed")
			return failure(KindDependency, "authentication is temporarily unavailable")
		}
		_, _ = e.hasher.Verify(plaintext, e.decoy)
		return failure(KindInvalidCredentials, invalidCredentialsMessage)
	}

	ok, err := e.hasher.Verify(plaintext, principal.Credential)
	if err != nil {
		// A malformed stored credential is a data problem, not the
		// caller's; it must not read differently from a wrong password.
		e.logger.Error().Err(err).Str("op", "authenticate").Str("principal_id", principal.ID).Msg("credential verification failed")
		return failure(KindInvalidCredentials, invalidCredentialsMessage)
	}
	if !ok {
		return failure(KindInvalidCredentials, invalidCredentialsMessage)
	}

	principal.LastAuthenticatedAt = time.Now().UTC()
	if err := e.directory.Update(ctx, principal); err != nil {
		e.logger.Warn().Err(err).Str("op", "authenticate").Str("principal_id", principal.ID).Msg("last-authenticated update failed")
	}

	bearer, err := e.issuer.Issue(principal.ID, principal.Email)
	if err != nil {
		e.logger.Error().Err(err).Str("op", "authenticate").Str("principal_id", principal.ID).Msg("token issue failed")
		return failure(KindDependency, "authentication is temporarily unavailable")
	}

	return Result{
		OK:          true,
		PrincipalID: principal.ID,
		Token:       bearer,
		Message:     "authentication successful",
	}
}
