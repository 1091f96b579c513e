package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultIterations is the PBKDF2 work factor applied when Config.Iterations is zero.
	DefaultIterations = 10000
	// DefaultSaltLength is the per-call random salt size in bytes.
	DefaultSaltLength = 16
	// DefaultKeyLength is the derived key size in bytes.
	DefaultKeyLength = 32

	minIterations = 1000
	minSaltLength = 16
	minKeyLength  = 16

	credentialFields = 3
)

var (
	// ErrEmptyPassword is returned when a hash or verify call receives an empty plaintext.
	ErrEmptyPassword = errors.New("password must not be empty")
	// ErrMalformedCredential is returned when a stored credential cannot be decoded.
	ErrMalformedCredential = errors.New("malformed credential encoding")
)

// Config holds the PBKDF2 work parameters. Zero fields fall back to the
// package defaults; values below the documented minimums are rejected by [New].
type Config struct {
	Iterations int
	SaltLength int
	KeyLength  int
}

// PBKDF2 derives and verifies one-way password credentials using
// PBKDF2-HMAC-SHA256. Instances are immutable after construction and safe
// for concurrent use.
type PBKDF2 struct {
	config Config
}

// DefaultConfig returns the package default work parameters.
func DefaultConfig() Config {
	return Config{
		Iterations: DefaultIterations,
		SaltLength: DefaultSaltLength,
		KeyLength:  DefaultKeyLength,
	}
}

// New validates cfg and returns a hasher. Zero-valued fields are filled
// from [DefaultConfig].
func New(cfg Config) (*PBKDF2, error) {
	if cfg.Iterations == 0 {
		cfg.Iterations = DefaultIterations
	}
	if cfg.SaltLength == 0 {
		cfg.SaltLength = DefaultSaltLength
	}
	if cfg.KeyLength == 0 {
		cfg.KeyLength = DefaultKeyLength
	}

	if cfg.Iterations < minIterations {
		return nil, fmt.Errorf("password iterations must be >= %d", minIterations)
	}
	if cfg.SaltLength < minSaltLength {
		return nil, fmt.Errorf("password salt length must be >= %d", minSaltLength)
	}
	if cfg.KeyLength < minKeyLength {
		return nil, fmt.Errorf("password key length must be >= %d", minKeyLength)
	}

	return &PBKDF2{config: cfg}, nil
}

// Hash derives a credential from plaintext using a fresh random salt.
// The result is self-describing: iteration count, salt, and derived key are
// all recoverable from the encoded string, so two hashes of the same
// plaintext never compare equal.
func (p *PBKDF2) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, p.config.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	key := pbkdf2.Key([]byte(plaintext), salt, p.config.Iterations, p.config.KeyLength, sha256.New)

	return fmt.Sprintf(
		"%d:%s:%s",
		p.config.Iterations,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify recomputes the derived key using the parameters embedded in the
// stored credential and compares it in constant time. The comparison cost
// does not depend on where the first mismatching byte occurs.
func (p *PBKDF2) Verify(plaintext, credential string) (bool, error) {
	if plaintext == "" {
		return false, ErrEmptyPassword
	}

	iterations, salt, key, err := parseCredential(credential)
	if err != nil {
		return false, err
	}

	computed := pbkdf2.Key([]byte(plaintext), salt, iterations, len(key), sha256.New)

	return subtle.ConstantTimeCompare(computed, key) == 1, nil
}

func parseCredential(credential string) (int, []byte, []byte, error) {
	parts := strings.Split(credential, ":")
	if len(parts) != credentialFields {
		return 0, nil, nil, ErrMalformedCredential
	}

	iterations, err := strconv.Atoi(parts[0])
	if err != nil || iterations < minIterations {
		return 0, nil, nil, ErrMalformedCredential
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil || len(salt) < minSaltLength {
		return 0, nil, nil, ErrMalformedCredential
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil || len(key) < minKeyLength {
		return 0, nil, nil, ErrMalformedCredential
	}

	return iterations, salt, key, nil
}
