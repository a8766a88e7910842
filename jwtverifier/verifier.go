// Package jwtverifier verifies bearer JSON Web Tokens against a key cache
// populated from JWKS endpoints or local certificates, selected by kid.
package jwtverifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind classifies why a token failed verification, per spec.md §4.7's
// three failure kinds.
type Kind int

const (
	// KindMalformed covers tokens that don't parse, carry an unsupported
	// claims shape, fail iss/aud/nbf checks, or whose key could not be
	// resolved (including a JWKS fetch timeout).
	KindMalformed Kind = iota
	// KindSignatureInvalid covers tokens that parse but whose signature
	// does not verify against the resolved key.
	KindSignatureInvalid
	// KindExpired covers tokens whose exp claim, adjusted for clock
	// skew, is in the past.
	KindExpired
)

// VerifyError reports why VerifyToken rejected a token.
type VerifyError struct {
	Kind Kind
	Err  error
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("jwtverifier: %v", e.Err)
}

func (e *VerifyError) Unwrap() error { return e.Err }

// Verifier verifies bearer tokens against a configured key cache.
type Verifier struct {
	keys      *keyCache
	timeout   time.Duration
	clockSkew time.Duration
	issuer    string
	audience  string
}

// New builds a Verifier from opts.
func New(opts ...Option) (*Verifier, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return &Verifier{
		keys:      newKeyCache(cfg.sources, cfg.httpClient, cfg.logger),
		timeout:   cfg.timeout,
		clockSkew: cfg.clockSkew,
		issuer:    cfg.issuer,
		audience:  cfg.audience,
	}, nil
}

// Rotate replaces the verifier's configured key sources, discarding any
// cached keys so the next verification re-fetches. Safe for concurrent
// use with VerifyToken.
func (v *Verifier) Rotate(sources map[string]string) {
	v.keys.Rotate(sources)
}

// ExtractBearerToken extracts the token from an `Authorization: Bearer
// <token>` header value. Any other shape yields ok=false, per spec.md
// §4.7.
func ExtractBearerToken(authHeader string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(authHeader, prefix) {
		return "", false
	}
	token := strings.TrimSpace(authHeader[len(prefix):])
	if token == "" {
		return "", false
	}
	return token, true
}

// VerifyToken decodes tokenString's header, selects a key from the key
// cache by kid (or the sole configured key if kid is absent), verifies
// the signature, then checks exp and nbf (both skipped when
// ignoreExpiry is set), iss, and aud against configuration.
func (v *Verifier) VerifyToken(ctx context.Context, tokenString string, ignoreExpiry bool) (*Claims, *VerifyError) {
	token, err := jwt.Parse(tokenString, v.keyfunc(ctx), jwt.WithoutClaimsValidation())
	if err != nil {
		kind := KindMalformed
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			kind = KindSignatureInvalid
		}
		return nil, &VerifyError{Kind: kind, Err: err}
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, &VerifyError{Kind: KindMalformed, Err: errors.New("unexpected claims shape")}
	}

	now := time.Now()
	if !ignoreExpiry {
		if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
			if now.After(exp.Add(v.clockSkew)) {
				return nil, &VerifyError{Kind: KindExpired, Err: errors.New("token expired")}
			}
		}
		if nbf, err := mapClaims.GetNotBefore(); err == nil && nbf != nil {
			if now.Before(nbf.Add(-v.clockSkew)) {
				return nil, &VerifyError{Kind: KindMalformed, Err: errors.New("token not yet valid")}
			}
		}
	}

	if v.issuer != "" {
		iss, _ := mapClaims.GetIssuer()
		if iss != v.issuer {
			return nil, &VerifyError{Kind: KindMalformed, Err: fmt.Errorf("unexpected issuer %q", iss)}
		}
	}
	if v.audience != "" {
		aud, _ := mapClaims.GetAudience()
		if !containsString(aud, v.audience) {
			return nil, &VerifyError{Kind: KindMalformed, Err: errors.New("unexpected audience")}
		}
	}

	return claimsFromMapClaims(mapClaims), nil
}

// keyfunc resolves the signing key for token, bounding any JWKS fetch it
// triggers by v.timeout and folding a timeout into KindMalformed per
// spec.md §5's "fail with invalid auth token on timeout".
func (v *Verifier) keyfunc(ctx context.Context) jwt.Keyfunc {
	return func(token *jwt.Token) (any, error) {
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			sole, ok := v.keys.onlyKid()
			if !ok {
				return nil, errors.New("jwtverifier: token has no kid and no single configured key to fall back on")
			}
			kid = sole
		}

		fetchCtx, cancel := context.WithTimeout(ctx, v.timeout)
		defer cancel()
		return v.keys.resolve(fetchCtx, kid)
	}
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
