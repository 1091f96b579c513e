package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ScopeRecovery marks a token issued as a credential-recovery reference.
// Tokens carrying a scope are never accepted as bearer credentials.
const ScopeRecovery = "recovery"

var (
	// ErrTokenMalformed is returned when a token's structure cannot be decoded.
	ErrTokenMalformed = errors.New("malformed token")
	// ErrTokenExpired is returned when a token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenSignature is returned when a token's signature does not verify.
	ErrTokenSignature = errors.New("invalid token signature")
)

// Config holds the signing parameters shared by all tokens the issuer
// mints. Secret, Issuer, and Audience must be set; TTL must be positive.
type Config struct {
	Secret   []byte
	Issuer   string
	Audience string
	TTL      time.Duration
	Leeway   time.Duration
}

// Claims is the payload carried by issued tokens: subject (principal
// identifier), email, a unique token id (jti) used for revocation tracking,
// issued-at, and expiry. Scope is set only on recovery references.
type Claims struct {
	Email string `json:"email,omitempty"`
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// PrincipalID returns the subject claim.
func (c *Claims) PrincipalID() string { return c.Subject }

// TokenID returns the unique token id (jti) claim.
func (c *Claims) TokenID() string { return c.ID }

// Issuer mints and parses signed, time-bounded bearer tokens. Signing is
// HMAC-SHA256 over the standard compact form (three dot-separated base64url
// segments). Issuers are immutable after construction and safe for
// concurrent use; no operation touches shared state.
type Issuer struct {
	config Config
}

// NewIssuer validates cfg and returns an issuer. Missing secret, issuer, or
// audience and non-positive TTLs are configuration errors, fatal at
// construction rather than surfaced per request.
func NewIssuer(cfg Config) (*Issuer, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token signing secret is not configured")
	}
	if cfg.Issuer == "" {
		return nil, errors.New("token issuer is not configured")
	}
	if cfg.Audience == "" {
		return nil, errors.New("token audience is not configured")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("token TTL must be positive")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("token leeway out of range")
	}

	return &Issuer{config: cfg}, nil
}

// Issue mints a bearer token for the given principal with the configured TTL.
func (i *Issuer) Issue(principalID, email string) (string, error) {
	return i.IssueScoped(principalID, email, "", i.config.TTL)
}

// IssueScoped mints a token with an explicit scope and TTL. Recovery
// references use this with [ScopeRecovery] and a short validity window.
func (i *Issuer) IssueScoped(principalID, email, scope string, ttl time.Duration) (string, error) {
	if principalID == "" {
		return "", errors.New("principal id must not be empty")
	}
	if ttl <= 0 {
		return "", errors.New("token TTL must be positive")
	}

	now := time.Now()
	claims := Claims{
		Email: email,
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principalID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    i.config.Issuer,
			Audience:  jwt.ClaimStrings{i.config.Audience},
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.config.Secret)
}

// Parse verifies the signature, expiry, issuer, and audience of a token and
// returns its claims. It does not consult revocation state; that is the
// caller's responsibility, keeping signature verification and revocation
// orthogonal.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.config.Issuer),
		jwt.WithAudience(i.config.Audience),
		jwt.WithExpirationRequired(),
	}
	if i.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(i.config.Leeway))
	}

	parser := jwt.NewParser(options...)
	parsed, err := parser.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return i.config.Secret, nil
	})
	if err != nil {
		return nil, triageParseError(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenMalformed
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

// triageParseError collapses golang-jwt's error surface into the three
// validity outcomes callers can act on.
func triageParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenInvalidAudience):
		return ErrTokenSignature
	default:
		return ErrTokenMalformed
	}
}
