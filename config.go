package authcore

import (
	"errors"
	"time"
)

// Config groups the construction-time parameters for the engine. There is no
// ambient or process-global configuration: everything the engine needs is
// passed here once and treated as immutable afterwards.
type Config struct {
	Token      TokenConfig
	Password   PasswordConfig
	Revocation RevocationConfig
	Recovery   RecoveryConfig
}

// TokenConfig holds the bearer-token signing parameters. Secret, Issuer, and
// Audience are required; Build fails without them.
type TokenConfig struct {
	Secret   []byte
	Issuer   string
	Audience string
	TTL      time.Duration
	Leeway   time.Duration
}

// PasswordConfig holds the PBKDF2 work parameters. Zero values fall back to
// the password package defaults (10k iterations, 16-byte salt, 32-byte key).
type PasswordConfig struct {
	Iterations int
	SaltLength int
	KeyLength  int
}

// RevocationConfig tunes the revocation store wiring.
type RevocationConfig struct {
	// RedisPrefix namespaces revocation keys when the Redis store is used.
	RedisPrefix string
	// SweepInterval is the in-memory janitor period. Zero disables the
	// background sweep; expired entries still read as absent.
	SweepInterval time.Duration
	// FallbackRetention bounds how long an unparsable token string stays
	// revoked, since its natural expiry cannot be read.
	FallbackRetention time.Duration
}

// RecoveryConfig tunes the credential-recovery flow.
type RecoveryConfig struct {
	// TTL is the reset reference validity window stated in the recovery
	// notification and enforced on CompleteRecovery.
	TTL time.Duration
}

// DefaultConfig returns a config with production-leaning defaults. The token
// signing secret has no default and must be supplied.
func DefaultConfig() Config {
	return Config{
		Token: TokenConfig{
			TTL: time.Hour,
		},
		Revocation: RevocationConfig{
			SweepInterval:     5 * time.Minute,
			FallbackRetention: 24 * time.Hour,
		},
		Recovery: RecoveryConfig{
			TTL: 15 * time.Minute,
		},
	}
}

// Validate checks the parts of the config the root package owns. Token and
// password parameters get their full validation in their own constructors
// during Build.
func (c Config) Validate() error {
	if c.Revocation.SweepInterval < 0 {
		return errors.New("revocation sweep interval must not be negative")
	}
	if c.Revocation.FallbackRetention <= 0 {
		return errors.New("revocation fallback retention must be positive")
	}
	if c.Recovery.TTL <= 0 {
		return errors.New("recovery TTL must be positive")
	}
	return nil
}
