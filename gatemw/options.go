package gatemw

import (
	"github.com/apigate/apigate/jwtverifier"
	"github.com/apigate/apigate/parser"
	"github.com/apigate/apigate/requestvalidator"
	"github.com/apigate/apigate/responsevalidator"
	"github.com/apigate/apigate/specindex"
)

// defaultScopeTokenHeader is the header carrying a secondary scope token,
// per spec.md §4.8 step 4b.
const defaultScopeTokenHeader = "X-Scope-Token"

type config struct {
	enableVerifyJwt         bool
	enableVerifyScope       bool
	enableExtractScopeToken bool
	scopeTokenHeader        string

	enableRequestValidation  bool
	skipRequestBodyOnMissing bool

	enableResponseValidation bool

	logError bool
	logger   parser.Logger
}

func defaultConfig() *config {
	return &config{
		enableVerifyJwt:          true,
		enableVerifyScope:        true,
		enableExtractScopeToken:  true,
		scopeTokenHeader:         defaultScopeTokenHeader,
		enableRequestValidation:  true,
		enableResponseValidation: true,
		logger:                   parser.NopLogger{},
	}
}

// Option configures a Chain built with New.
type Option func(*config)

// WithVerifyJwt toggles the JWT+Scope stage's primary token verification.
// Disabling it also disables scope verification, since there is no
// primary token to check scopes against.
func WithVerifyJwt(enabled bool) Option {
	return func(c *config) { c.enableVerifyJwt = enabled }
}

// WithVerifyScope toggles the scope-check portion of the JWT+Scope stage.
func WithVerifyScope(enabled bool) Option {
	return func(c *config) { c.enableVerifyScope = enabled }
}

// WithExtractScopeToken toggles recognition of the secondary scope token
// header.
func WithExtractScopeToken(enabled bool) Option {
	return func(c *config) { c.enableExtractScopeToken = enabled }
}

// WithScopeTokenHeader overrides the header name carrying a secondary
// scope token. Defaults to "X-Scope-Token".
func WithScopeTokenHeader(name string) Option {
	return func(c *config) {
		if name != "" {
			c.scopeTokenHeader = name
		}
	}
}

// WithRequestValidation toggles the request-validate stage.
func WithRequestValidation(enabled bool) Option {
	return func(c *config) { c.enableRequestValidation = enabled }
}

// WithSkipBodyValidation sets the default applied to an Exchange whose
// SkipBodyValidation field was left at its zero value.
func WithSkipBodyValidation(skip bool) Option {
	return func(c *config) { c.skipRequestBodyOnMissing = skip }
}

// WithResponseValidation toggles the response-validate stage.
func WithResponseValidation(enabled bool) Option {
	return func(c *config) { c.enableResponseValidation = enabled }
}

// WithLogError toggles whether the request-validate and response-validate
// stages emit a failing validation status to the logger at error level,
// per spec.md §6's `logError` validator config key.
func WithLogError(enabled bool) Option {
	return func(c *config) { c.logError = enabled }
}

// WithLogger sets the logger used by the chain and the validators it
// builds. Defaults to parser.NopLogger{}.
func WithLogger(logger parser.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds the standard Chain: spec-match, JWT+Scope, request-validate,
// then (wrapping the business handler) response-validate.
func New(index *specindex.Index, verifier *jwtverifier.Verifier, opts ...Option) *Chain {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	chain := NewChain()
	chain.Register(&specMatchStage{index: index})
	chain.Register(&jwtScopeStage{
		index:                   index,
		verifier:                verifier,
		enableVerifyJwt:         cfg.enableVerifyJwt,
		enableVerifyScope:       cfg.enableVerifyScope,
		enableExtractScopeToken: cfg.enableExtractScopeToken,
		scopeTokenHeader:        cfg.scopeTokenHeader,
	})
	chain.Register(&requestValidateStage{
		validator:          requestvalidator.New(requestvalidator.WithLogger(cfg.logger)),
		enabled:            cfg.enableRequestValidation,
		skipBodyValidation: cfg.skipRequestBodyOnMissing,
		logError:           cfg.logError,
		logger:             cfg.logger,
	})
	chain.Register(&responseValidateStage{
		validator: responsevalidator.New(),
		enabled:   cfg.enableResponseValidation,
		logError:  cfg.logError,
		logger:    cfg.logger,
	})
	return chain
}
