package authcore

import (
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/authcore-go/authcore/internal"
	"github.com/authcore-go/authcore/notify"
	"github.com/authcore-go/authcore/password"
	"github.com/authcore-go/authcore/revocation"
	"github.com/authcore-go/authcore/token"
)

// Builder assembles an [Engine]. Construction is allocation-only until
// Build, which validates configuration and wires the collaborators. A
// builder is single-use.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	directory UserDirectory
	notifier  NotificationSender
	store     revocation.Store
	logger    zerolog.Logger

	built bool
}

// New returns a builder preloaded with [DefaultConfig] and a no-op logger.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
		logger: zerolog.Nop(),
	}
}

// WithConfig replaces the builder's config.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithDirectory sets the user directory collaborator. Required.
func (b *Builder) WithDirectory(directory UserDirectory) *Builder {
	b.directory = directory
	return b
}

// WithNotifier sets the notification collaborator. Defaults to a log-only
// sender when unset.
func (b *Builder) WithNotifier(notifier NotificationSender) *Builder {
	b.notifier = notifier
	return b
}

// WithRevocationStore sets an explicit revocation store, overriding both the
// in-memory default and WithRedis.
func (b *Builder) WithRevocationStore(store revocation.Store) *Builder {
	b.store = store
	return b
}

// WithRedis backs revocation with Redis instead of the in-memory store, for
// hosts running multiple processes against the same token population.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithLogger sets the engine logger. Collaborator failures are logged here
// with context and never surfaced raw to callers.
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = logger
	return b
}

// Build validates the configuration and returns a ready engine.
// Configuration problems (missing signing secret, issuer, audience, weak
// hashing parameters) fail here, at startup, never per request.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.directory == nil {
		return nil, errors.New("user directory required")
	}
	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	hasher, err := password.New(password.Config{
		Iterations: b.config.Password.Iterations,
		SaltLength: b.config.Password.SaltLength,
		KeyLength:  b.config.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	issuer, err := token.NewIssuer(token.Config{
		Secret:   b.config.Token.Secret,
		Issuer:   b.config.Token.Issuer,
		Audience: b.config.Token.Audience,
		TTL:      b.config.Token.TTL,
		Leeway:   b.config.Token.Leeway,
	})
	if err != nil {
		return nil, err
	}

	store := b.store
	if store == nil {
		if b.redis != nil {
			store = revocation.NewRedis(b.redis, b.config.Revocation.RedisPrefix)
		} else {
			store = revocation.NewMemory(b.config.Revocation.SweepInterval)
		}
	}

	notifier := b.notifier
	if notifier == nil {
		notifier = notify.NewLogSender(b.logger)
	}

	decoyPassword, err := internal.NewPassword(24)
	if err != nil {
		return nil, err
	}
	decoy, err := hasher.Hash(decoyPassword)
	if err != nil {
		return nil, err
	}

	b.built = true

	return &Engine{
		config:      b.config,
		hasher:      hasher,
		issuer:      issuer,
		revocations: store,
		directory:   b.directory,
		notifier:    notifier,
		logger:      b.logger,
		decoy:       decoy,
	}, nil
}
