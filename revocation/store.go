// Package revocation records revoked token ids until their natural expiry.
//
// Issued tokens are self-contained and remain cryptographically valid until
// they expire, so logout needs an out-of-band veto: a revoked token id is
// held here for exactly as long as the token itself could still be replayed,
// then reclaimed. Reads happen on every authenticated request; writes on
// every logout. Implementations must support both concurrently without a
// global lock and without torn reads.
package revocation

import (
	"context"
	"errors"
	"time"
)

// ErrRevocationUnavailable wraps backend failures (connectivity, protocol)
// so callers can distinguish "store down" from "not revoked".
var ErrRevocationUnavailable = errors.New("revocation store unavailable")

// Store is the revocation contract consumed by the engine. Implementations
// can back it with any concurrent associative structure; swapping one for
// another never changes engine behavior.
//
// An entry whose expiry has passed is logically absent even if physically
// still stored: IsRevoked must treat it as gone regardless of whether a
// sweep has run.
type Store interface {
	// Revoke records tokenID as revoked until expiresAt, the token's own
	// natural expiry. Revoking an already-revoked token is a no-op success.
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error

	// IsRevoked reports whether tokenID has an unexpired revocation entry.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)

	// SweepExpired reclaims entries whose expiry has passed and reports how
	// many were removed. Purely storage reclamation: it has no observable
	// effect on IsRevoked.
	SweepExpired(ctx context.Context) (int, error)

	// Close releases background resources held by the store.
	Close() error
}
