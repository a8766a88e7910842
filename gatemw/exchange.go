// Package gatemw implements the Middleware Chain: spec-match, JWT+Scope
// verification, request validation, the business handler, and response
// validation, composed as an ordered sequence of stages that each read
// and write a per-request Audit Context.
package gatemw

import (
	"context"
	"net/http"
	"net/url"

	"github.com/apigate/apigate/jwtverifier"
	"github.com/apigate/apigate/specindex"
)

// AuditContext is the per-request mapping the chain's stages read from
// and write to, per spec.md §3's recognised keys.
type AuditContext struct {
	Endpoint      string
	Operation     *specindex.Operation
	ClientID      string
	UserID        string
	SubjectClaims *jwtverifier.Claims
	ScopeClientID string
	AccessClaims  *jwtverifier.Claims
}

// Exchange is one request/response cycle as it flows through the chain.
// Callers populate Method/RawPath/Header/QueryValues/Body before calling
// Chain.Serve; PathValues and Audit are filled in by the chain itself.
type Exchange struct {
	// Context carries the underlying request's cancellation and deadline
	// so a blocking stage (the JWT+Scope stage's JWKS fetch) can be
	// abandoned when the exchange is cancelled, per spec.md §5. Callers
	// that don't set it get context.Background(), which never cancels.
	Context context.Context

	Method      string
	RawPath     string
	Header      http.Header
	QueryValues url.Values
	PathValues  map[string]string

	// Body is the already-parsed request body, placed here by upstream
	// body-parser middleware (an external collaborator per spec.md §6).
	Body               any
	SkipBodyValidation bool

	// ResponseStatusCode/ResponseBody/ResponseMediaType are set by the
	// business handler before the response-validate stage runs.
	ResponseStatusCode int
	ResponseBody       any
	ResponseMediaType  string

	Audit AuditContext
}
