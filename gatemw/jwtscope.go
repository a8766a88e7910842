package gatemw

import (
	"context"

	"github.com/apigate/apigate/gateerrors"
	"github.com/apigate/apigate/jwtverifier"
	"github.com/apigate/apigate/specindex"
)

// jwtScopeStage implements spec.md §4.8's JWT+Scope middleware sequence:
// extract and verify the bearer token, then, for OAS3 documents with
// scope verification on, check the operation's required scopes against
// either a secondary scope token or the primary token's own scopes.
type jwtScopeStage struct {
	index                   *specindex.Index
	verifier                *jwtverifier.Verifier
	enableVerifyJwt         bool
	enableVerifyScope       bool
	enableExtractScopeToken bool
	scopeTokenHeader        string
}

func (s *jwtScopeStage) IsEnabled() bool { return s.enableVerifyJwt }

func (s *jwtScopeStage) Handle(ex *Exchange, next Handler) *gateerrors.WireError {
	ctx := ex.Context
	if ctx == nil {
		ctx = context.Background()
	}

	// Step 1: extract bearer token.
	raw := ex.Header.Get("Authorization")
	token, ok := jwtverifier.ExtractBearerToken(raw)
	if !ok {
		return gateerrors.New(gateerrors.CodeMissingAuthToken, "")
	}

	// Step 2: verify it.
	claims, verr := s.verifier.VerifyToken(ctx, token, false)
	if verr != nil {
		if verr.Kind == jwtverifier.KindExpired {
			return gateerrors.New(gateerrors.CodeAuthTokenExpired, "")
		}
		return gateerrors.New(gateerrors.CodeInvalidAuthToken, "")
	}

	// Step 3: record clientId/userId/subjectClaims.
	ex.Audit.ClientID = claims.ClientID
	ex.Audit.UserID = claims.Subject
	ex.Audit.SubjectClaims = claims

	// Step 4: scope check, OAS3 documents only.
	if s.index.IsOAS3() && s.enableVerifyScope {
		if werr := s.checkScope(ctx, ex, claims); werr != nil {
			return werr
		}
	}

	// Step 5: forward.
	return next(ex)
}

func (s *jwtScopeStage) checkScope(ctx context.Context, ex *Exchange, claims *jwtverifier.Claims) *gateerrors.WireError {
	// 4a: ensure an Operation Handle is present.
	if werr := resolveOperation(s.index, ex); werr != nil {
		return werr
	}

	// 4b: a secondary X-Scope-Token, if present, is itself a JWT.
	if s.enableExtractScopeToken {
		if raw := ex.Header.Get(s.scopeTokenHeader); raw != "" {
			scopeToken, ok := jwtverifier.ExtractBearerToken(raw)
			if !ok {
				return gateerrors.New(gateerrors.CodeInvalidScopeToken, "")
			}
			scopeClaims, verr := s.verifier.VerifyToken(ctx, scopeToken, false)
			if verr != nil {
				if verr.Kind == jwtverifier.KindExpired {
					return gateerrors.New(gateerrors.CodeScopeTokenExpired, "")
				}
				return gateerrors.New(gateerrors.CodeInvalidScopeToken, "")
			}
			ex.Audit.ScopeClientID = scopeClaims.ClientID
			ex.Audit.AccessClaims = scopeClaims
		}
	}

	// 4c: the first security requirement referencing an oauth2 scheme.
	specScopes, _ := ex.Audit.Operation.RequiredScopes(s.index)

	// 4d: a scope token, if presented, takes priority over the primary
	// token's own scopes.
	if ex.Audit.AccessClaims != nil {
		if !scopeSubset(specScopes, ex.Audit.AccessClaims.Scopes) {
			return gateerrors.New(gateerrors.CodeScopeTokenScopeMismatch, "")
		}
		return nil
	}
	if !scopeSubset(specScopes, claims.Scopes) {
		return gateerrors.New(gateerrors.CodeAuthTokenScopeMismatch, "")
	}
	return nil
}

// scopeSubset implements the any-of scope test: if specScopes is empty,
// accept unconditionally; otherwise at least one of specScopes must
// appear in presented.
func scopeSubset(specScopes, presented []string) bool {
	if len(specScopes) == 0 {
		return true
	}
	for _, want := range specScopes {
		for _, have := range presented {
			if want == have {
				return true
			}
		}
	}
	return false
}
