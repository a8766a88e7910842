package jwtverifier

import (
	"errors"
	"net/http"
	"time"

	"github.com/apigate/apigate/parser"
)

type config struct {
	sources    map[string]string
	httpClient *http.Client
	timeout    time.Duration
	clockSkew  time.Duration
	issuer     string
	audience   string
	logger     parser.Logger
}

func defaultConfig() *config {
	return &config{
		sources:    make(map[string]string),
		httpClient: &http.Client{},
		timeout:    5 * time.Second,
		logger:     parser.NopLogger{},
	}
}

// Option configures a Verifier.
type Option func(*config) error

// WithKeySource registers a key location for kid: either a JWKS URL
// (http:// or https://) or a path to a local PEM certificate/public key.
func WithKeySource(kid, locator string) Option {
	return func(c *config) error {
		if kid == "" {
			return errors.New("jwtverifier: kid must not be empty")
		}
		if locator == "" {
			return errors.New("jwtverifier: locator must not be empty")
		}
		c.sources[kid] = locator
		return nil
	}
}

// WithKeySources merges sources (kid -> path-or-JWKS-url) in one call,
// mirroring the `jwt.certificate` configuration map of spec.md §6.
func WithKeySources(sources map[string]string) Option {
	return func(c *config) error {
		for kid, locator := range sources {
			if kid == "" || locator == "" {
				return errors.New("jwtverifier: key sources must have non-empty kid and locator")
			}
			c.sources[kid] = locator
		}
		return nil
	}
}

// WithClockSkew sets the leeway applied to exp/nbf comparisons, per
// spec.md §6's `jwt.clockSkewInSeconds`.
func WithClockSkew(d time.Duration) Option {
	return func(c *config) error {
		c.clockSkew = d
		return nil
	}
}

// WithIssuer requires the verified token's iss claim to equal iss.
func WithIssuer(iss string) Option {
	return func(c *config) error {
		c.issuer = iss
		return nil
	}
}

// WithAudience requires the verified token's aud claim to contain aud.
func WithAudience(aud string) Option {
	return func(c *config) error {
		c.audience = aud
		return nil
	}
}

// WithHTTPClient overrides the client used for JWKS fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) error {
		if client == nil {
			return errors.New("jwtverifier: http client must not be nil")
		}
		c.httpClient = client
		return nil
	}
}

// WithTimeout bounds a JWKS fetch; spec.md §5 defaults this to 5s and
// requires a fetch that exceeds it to fail as "invalid auth token".
func WithTimeout(d time.Duration) Option {
	return func(c *config) error {
		if d <= 0 {
			return errors.New("jwtverifier: timeout must be positive")
		}
		c.timeout = d
		return nil
	}
}

// WithLogger sets the structured logger used for key-cache diagnostics.
// Defaults to parser.NopLogger.
func WithLogger(logger parser.Logger) Option {
	return func(c *config) error {
		if logger == nil {
			return errors.New("jwtverifier: logger must not be nil")
		}
		c.logger = logger
		return nil
	}
}
