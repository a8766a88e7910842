package jwtverifier

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of a verified token's claims the middleware chain
// and downstream handlers need. Raw holds the full claim set for callers
// that need a field this type doesn't surface.
type Claims struct {
	Subject  string
	ClientID string
	Issuer   string
	Audience []string
	Scopes   []string
	Raw      map[string]any
}

// HasScope reports whether name is among c.Scopes.
func (c *Claims) HasScope(name string) bool {
	for _, s := range c.Scopes {
		if s == name {
			return true
		}
	}
	return false
}

// claimsFromMapClaims builds a Claims from a verified token's MapClaims.
// The scope claim is accepted as either a space-separated string or a
// list of strings; any other shape yields no scopes.
func claimsFromMapClaims(mc jwt.MapClaims) *Claims {
	c := &Claims{Raw: map[string]any(mc)}

	if sub, err := mc.GetSubject(); err == nil {
		c.Subject = sub
	}
	if iss, err := mc.GetIssuer(); err == nil {
		c.Issuer = iss
	}
	if aud, err := mc.GetAudience(); err == nil {
		c.Audience = aud
	}

	switch {
	case isNonEmptyString(mc["client_id"]):
		c.ClientID = mc["client_id"].(string)
	case isNonEmptyString(mc["azp"]):
		c.ClientID = mc["azp"].(string)
	default:
		c.ClientID = c.Subject
	}

	c.Scopes = parseScopeClaim(mc["scope"])
	return c
}

func isNonEmptyString(v any) bool {
	s, ok := v.(string)
	return ok && s != ""
}

func parseScopeClaim(v any) []string {
	switch val := v.(type) {
	case string:
		return strings.Fields(val)
	case []string:
		return val
	case []any:
		scopes := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				scopes = append(scopes, s)
			}
		}
		return scopes
	default:
		return nil
	}
}
