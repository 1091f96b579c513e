package authcore

import (
	"context"
	"strings"
	"time"
)

// Principal is the stored identity being authenticated. The identifier is
// immutable for the principal's lifetime; the credential is replaced on
// password reset. Email lookups are case-insensitive — the engine normalizes
// before calling the directory.
type Principal struct {
	ID                  string
	FirstName           string
	LastName            string
	Email               string
	Credential          string
	CreatedAt           time.Time
	LastAuthenticatedAt time.Time
}

// DisplayName returns the principal's name for notification templates.
func (p Principal) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.Email
	}
	return name
}

// UserDirectory is the persistence collaborator that exclusively owns
// Principal storage. Implementations must provide email-uniqueness
// semantics: the engine's duplicate check before Add is not atomic, and a
// concurrent double-registration is only closed by the directory enforcing
// a uniqueness constraint (returning [ErrDuplicateEmail]).
//
// Absent lookups return [ErrPrincipalNotFound].
type UserDirectory interface {
	GetByEmail(ctx context.Context, email string) (Principal, error)
	GetByID(ctx context.Context, id string) (Principal, error)
	Add(ctx context.Context, principal Principal) (Principal, error)
	Update(ctx context.Context, principal Principal) error
	Delete(ctx context.Context, id string) error
}

// NotificationSender delivers best-effort user notifications. Failures are
// logged by the engine and never fail the triggering operation.
type NotificationSender interface {
	SendWelcome(ctx context.Context, email, name string) error
	SendRecovery(ctx context.Context, email, resetReference string) error
}

// RegisterInput carries the registration command fields.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}
