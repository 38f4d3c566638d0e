package core

import (
	"errors"
)

// Option is a function that configures the Core.
// Options return errors to enable validation during construction.
type Option func(*Core) error

// New creates a new Core instance with the provided options.
//
// WithKeyResolver and WithTokenVerifier are required.
//
// Example:
//
//	c, err := core.New(
//	    core.WithKeyResolver(resolver),
//	    core.WithTokenVerifier(v),
//	    core.WithLogger(logger),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
func New(opts ...Option) (*Core, error) {
	c := &Core{}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Sentinel errors for configuration validation.
var (
	ErrKeyResolverNil   = errors.New("key resolver is required but not set (use WithKeyResolver)")
	ErrTokenVerifierNil = errors.New("token verifier is required but not set (use WithTokenVerifier)")
)

func (c *Core) validate() error {
	if c.resolver == nil {
		return ErrKeyResolverNil
	}
	if c.verifier == nil {
		return ErrTokenVerifierNil
	}
	return nil
}

// WithKeyResolver sets the resolver used to find verification keys.
func WithKeyResolver(r KeyResolver) Option {
	return func(c *Core) error {
		if r == nil {
			return errors.New("key resolver cannot be nil")
		}
		c.resolver = r
		return nil
	}
}

// WithTokenVerifier sets the verifier for signature and claims.
func WithTokenVerifier(v TokenVerifier) Option {
	return func(c *Core) error {
		if v == nil {
			return errors.New("token verifier cannot be nil")
		}
		c.verifier = v
		return nil
	}
}

// WithLogger sets an optional logger for the Core.
//
// When configured, the Core logs the internal cause of every failure;
// callers only ever see the AuthError description.
func WithLogger(logger Logger) Option {
	return func(c *Core) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		c.logger = logger
		return nil
	}
}
