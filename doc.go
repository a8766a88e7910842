// Package apigate is an API contract enforcement pipeline for HTTP services
// described by an OpenAPI/Swagger specification: it resolves a request to a
// spec operation, verifies a bearer JWT and its scopes, validates request
// and response payloads against the operation's schemas, and maps every
// failure onto a stable wire error taxonomy.
//
// See the subpackages: specindex, pathrouter, normpath, schemavalidator,
// paramvalidator, requestvalidator, responsevalidator, jwtverifier,
// gatemw, and gateerrors.
package apigate

import "fmt"

// version is set via ldflags during build.
var version = "dev"

// Version returns the compiled version, or "dev" for source builds.
func Version() string {
	return version
}

// UserAgent returns the User-Agent string used for outbound JWKS fetches
// and any other HTTP calls this module makes.
func UserAgent() string {
	return fmt.Sprintf("apigate/%s", version)
}
