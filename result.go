package authcore

// Kind classifies a failed operation. It replaces exception matching with an
// enumeration callers can handle exhaustively.
type Kind uint8

const (
	// KindNone marks a successful result.
	KindNone Kind = iota
	// KindInvalidInput marks malformed or missing caller data.
	KindInvalidInput
	// KindConflict marks a duplicate-registration attempt.
	KindConflict
	// KindInvalidCredentials marks an authentication failure. The shape and
	// message are identical for unknown email and wrong password.
	KindInvalidCredentials
	// KindUnauthorized marks a revoked, expired, or malformed token.
	KindUnauthorized
	// KindDependency marks a collaborator failure (directory, store, notifier).
	KindDependency
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInvalidInput:
		return "invalid_input"
	case KindConflict:
		return "conflict"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindUnauthorized:
		return "unauthorized"
	case KindDependency:
		return "dependency"
	default:
		return "unknown"
	}
}

// Result is the uniform shape returned by every engine operation. Raw
// collaborator errors never appear here; they are logged and collapsed into
// a Kind plus a human-readable message.
//
// Notified reports the outcome of the best-effort notification step where
// one applies. Hosts must not echo it to unauthenticated callers on the
// recovery path, where it would reveal whether the email exists.
type Result struct {
	OK          bool
	Kind        Kind
	PrincipalID string
	Token       string
	Message     string
	Notified    bool
}

// Err maps the result's kind to its sentinel error, or nil on success.
func (r Result) Err() error {
	switch r.Kind {
	case KindNone:
		return nil
	case KindInvalidInput:
		return ErrInvalidInput
	case KindConflict:
		return ErrConflict
	case KindInvalidCredentials:
		return ErrInvalidCredentials
	case KindUnauthorized:
		return ErrUnauthorized
	default:
		return ErrDependencyFailure
	}
}

func failure(kind Kind, message string) Result {
	return Result{Kind: kind, Message: message}
}
