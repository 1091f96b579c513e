package authcore

import (
	"context"
	"fmt"

	"github.com/authcore-go/authcore/token"
)

// ValidateToken checks a bearer token's signature, expiry, and revocation
// status and returns its claims. Recovery-scoped tokens never authorize
// regular requests. All rejection paths return [ErrUnauthorized]; the logged
// detail stays server-side.
func (e *Engine) ValidateToken(ctx context.Context, tokenString string) (*token.Claims, error) {
	claims, err := e.issuer.Parse(tokenString)
	if err != nil {
		e.logger.Debug().Err(err).Str("op", "validate").Msg("token rejected")
		return nil, ErrUnauthorized
	}
	if claims.Scope != "" {
		return nil, ErrUnauthorized
	}

	revoked, err := e.revocations.IsRevoked(ctx, claims.TokenID())
	if err != nil {
		e.logger.Error().Err(err).Str("op", "validate").Msg("revocation store read failed")
		return nil, fmt.Errorf("%w: revocation check: %v", ErrDependencyFailure, err)
	}
	if revoked {
		return nil, ErrUnauthorized
	}

	return claims, nil
}
