package authcore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Register creates a Principal for a new account, persists it through the
// directory, and issues a bearer token. The welcome notification is a
// best-effort post-commit step: a dispatch failure is logged and reported
// through Result.Notified but never fails the registration.
func (e *Engine) Register(ctx context.Context, input RegisterInput) Result {
	email := normalizeEmail(input.Email)
	if email == "" || strings.TrimSpace(input.Password) == "" {
		return failure(KindInvalidInput, "email and password are required")
	}

	_, err := e.directory.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return failure(KindConflict, "an account with this email already exists")
	case errors.Is(err, ErrPrincipalNotFound):
		// proceed
	default:
		e.logger.Error().Err(err).Str("op", "register").Msg("directory lookup failed")
		return failure(KindDependency, "registration is temporarily unavailable")
	}

	credential, err := e.hasher.Hash(input.Password)
	if err != nil {
		e.logger.Error().Err(err).Str("op", "register").Msg("password hashing failed")
		return failure(KindDependency, "registration is temporarily unavailable")
	}

	principal := Principal{
		ID:         uuid.NewString(),
		FirstName:  strings.TrimSpace(input.FirstName),
		LastName:   strings.TrimSpace(input.LastName),
		Email:      email,
		Credential: credential,
		CreatedAt:  time.Now().UTC(),
	}

	created, err := e.directory.Add(ctx, principal)
	if err != nil {
		// The pre-check above is not atomic; the directory's uniqueness
		// constraint closes the race.
		if errors.Is(err, ErrDuplicateEmail) {
			return failure(KindConflict, "an account with this email already exists")
		}
		e.logger.Error().Err(err).Str("op", "register").Msg("directory add failed")
		return failure(KindDependency, "registration is temporarily unavailable")
	}

	bearer, err := e.issuer.Issue(created.ID, created.Email)
	if err != nil {
		e.logger.Error().Err(err).Str("op", "register").Str("principal_id", created.ID).Msg("token issue failed")
		return failure(KindDependency, "registration is temporarily unavailable")
	}

	notified := true
	if err := e.notifier.SendWelcome(ctx, created.Email, created.DisplayName()); err != nil {
		notified = false
		e.logger.Warn().Err(err).Str("op", "register").Str("principal_id", created.ID).Msg("welcome notification failed")
	}

	return Result{
		OK:          true,
		PrincipalID: created.ID,
		Token:       bearer,
		Message:     "registration successful",
		Notified:    notified,
	}
}
