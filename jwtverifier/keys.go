package jwtverifier

import (
	"bytes"
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/apigate/apigate/parser"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

// keyCache resolves a kid to a verification key, fetching lazily from a
// JWKS endpoint or a local certificate file and memoising the result.
// Reads take the read lock; a cache miss triggers a fetch collapsed
// across concurrent callers by group, then a single write under the
// write lock. Rotate replaces the whole key set at once (copy-on-write)
// so readers never observe a partially updated map.
type keyCache struct {
	mu      sync.RWMutex
	sources map[string]string // kid -> path or JWKS URL
	keys    map[string]any    // kid -> resolved key, lazily populated

	httpClient *http.Client
	group      singleflight.Group
	logger     parser.Logger
}

func newKeyCache(sources map[string]string, httpClient *http.Client, logger parser.Logger) *keyCache {
	copied := make(map[string]string, len(sources))
	for k, v := range sources {
		copied[k] = v
	}
	return &keyCache{
		sources:    copied,
		keys:       make(map[string]any),
		httpClient: httpClient,
		logger:     logger,
	}
}

// Rotate replaces the configured key sources and discards cached keys so
// the next lookup re-fetches. The single-writer discipline spec.md §5
// calls for is satisfied by building the replacement maps before taking
// the lock, then swapping both atomically.
func (c *keyCache) Rotate(sources map[string]string) {
	copied := make(map[string]string, len(sources))
	for k, v := range sources {
		copied[k] = v
	}
	freshKeys := make(map[string]any)

	c.mu.Lock()
	c.sources = copied
	c.keys = freshKeys
	c.mu.Unlock()
}

// onlyKid returns the sole configured kid when exactly one key source is
// configured, for tokens that omit the kid header.
func (c *keyCache) onlyKid() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.sources) != 1 {
		return "", false
	}
	for kid := range c.sources {
		return kid, true
	}
	return "", false
}

func (c *keyCache) resolve(ctx context.Context, kid string) (any, error) {
	c.mu.RLock()
	if key, ok := c.keys[kid]; ok {
		c.mu.RUnlock()
		return key, nil
	}
	locator, ok := c.sources[kid]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("jwtverifier: no key configured for kid %q", kid)
	}

	v, err, _ := c.group.Do(kid, func() (any, error) {
		key, err := c.fetch(ctx, locator, kid)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.keys[kid] = key
		c.mu.Unlock()
		return key, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (c *keyCache) fetch(ctx context.Context, locator, kid string) (any, error) {
	if isURL(locator) {
		return c.fetchFromJWKS(ctx, locator, kid)
	}
	return loadLocalKey(locator)
}

func isURL(locator string) bool {
	return strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://")
}

func (c *keyCache) fetchFromJWKS(ctx context.Context, url, kid string) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("jwtverifier: building JWKS request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("jwks fetch failed", "kid", kid, "url", url, "error", err)
		}
		return nil, fmt.Errorf("jwtverifier: fetching JWKS from %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jwtverifier: JWKS endpoint %s returned status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("jwtverifier: reading JWKS response: %w", err)
	}

	var set jwkSet
	if err := json.Unmarshal(body, &set); err != nil {
		return nil, fmt.Errorf("jwtverifier: parsing JWKS response: %w", err)
	}

	for _, k := range set.Keys {
		if k.Kid == kid {
			return k.publicKey()
		}
	}
	return nil, fmt.Errorf("jwtverifier: kid %q not found in JWKS at %s", kid, url)
}

// jwkSet is a minimal JSON Web Key Set, enough to extract an RSA or
// HMAC-oct key by kid.
type jwkSet struct {
	Keys []jwkKey `json:"keys"`
}

type jwkKey struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
	K   string `json:"k"`
}

func (k jwkKey) publicKey() (any, error) {
	switch k.Kty {
	case "RSA":
		nb, err := base64.RawURLEncoding.DecodeString(k.N)
		if err != nil {
			return nil, fmt.Errorf("jwtverifier: decoding RSA modulus for kid %q: %w", k.Kid, err)
		}
		eb, err := base64.RawURLEncoding.DecodeString(k.E)
		if err != nil {
			return nil, fmt.Errorf("jwtverifier: decoding RSA exponent for kid %q: %w", k.Kid, err)
		}
		e := 0
		for _, b := range eb {
			e = e<<8 | int(b)
		}
		return &rsa.PublicKey{N: new(big.Int).SetBytes(nb), E: e}, nil
	case "oct":
		secret, err := base64.RawURLEncoding.DecodeString(k.K)
		if err != nil {
			return nil, fmt.Errorf("jwtverifier: decoding HMAC secret for kid %q: %w", k.Kid, err)
		}
		return secret, nil
	default:
		return nil, fmt.Errorf("jwtverifier: unsupported key type %q for kid %q", k.Kty, k.Kid)
	}
}

// loadLocalKey reads path as a PEM-encoded RSA or EC public key or
// certificate; any file that doesn't parse as one of those is treated as
// a raw HMAC shared secret.
func loadLocalKey(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("jwtverifier: reading key file %s: %w", path, err)
	}

	if key, err := jwt.ParseRSAPublicKeyFromPEM(data); err == nil {
		return key, nil
	}
	if key, err := jwt.ParseECPublicKeyFromPEM(data); err == nil {
		return key, nil
	}
	if block, _ := pem.Decode(data); block != nil {
		if cert, err := x509.ParseCertificate(block.Bytes); err == nil {
			return cert.PublicKey, nil
		}
	}
	return bytes.TrimSpace(data), nil
}
