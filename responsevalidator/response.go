// Package responsevalidator validates an outgoing response body against
// the OpenAPI schema declared for its status code.
package responsevalidator

import (
	"encoding/json"
	"fmt"
	"mime"
	"strconv"
	"strings"

	"github.com/apigate/apigate/gateerrors"
	"github.com/apigate/apigate/parser"
	"github.com/apigate/apigate/schemavalidator"
)

// Validator validates response content.
type Validator struct {
	schema *schemavalidator.Validator
}

// New creates a Validator.
func New() *Validator {
	return &Validator{schema: schemavalidator.New()}
}

// Validate checks body against the schema declared for statusCode/
// mediaType on op's Responses. statusCode is never optional at a real
// call site (the middleware chain always knows the response's actual
// status); a caller that passes 0 gets the "200" fallback this package's
// low-level entry point has always had, for parity with direct callers
// that validate a response before it is actually sent.
func (v *Validator) Validate(body any, op *parser.Operation, statusCode int, mediaType string) *gateerrors.WireError {
	if op == nil || op.Responses == nil {
		return nil
	}
	if statusCode == 0 {
		statusCode = 200
	}

	body = preparseStringBody(body)

	def, hasDef := responseDefinition(op.Responses, statusCode)
	if !hasDef {
		if body != nil {
			return gateerrors.New(gateerrors.CodeResponseContentUnexpected, "")
		}
		return nil
	}

	schema := responseSchema(def, mediaType)
	if schema == nil {
		// A response is declared for this status but carries no schema:
		// any body shape is acceptable.
		return nil
	}

	if body == nil {
		// Status-code response declared, schema declared, but no body:
		// treated as unexpected absence per the "exactly one of
		// body/schema present" rule.
		return gateerrors.New(gateerrors.CodeResponseContentUnexpected, "")
	}

	if iss := v.schema.Validate(body, schema, "$", schemavalidator.Config{TypeLoose: false}); iss != nil {
		return gateerrors.New(gateerrors.CodeResponseContentUnexpected, iss.Message)
	}
	return nil
}

// preparseStringBody promotes a captured raw response body (a string) to
// structured data before schema validation: trimmed, '{'-prefixed
// decoded as an object tree, '['-prefixed decoded as an array, anything
// else treated as absent. Values that didn't arrive as a Go string (the
// body-parser already produced a tree) pass through unchanged.
func preparseStringBody(body any) any {
	s, ok := body.(string)
	if !ok {
		return body
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	if trimmed[0] != '{' && trimmed[0] != '[' {
		return nil
	}
	var data any
	if err := json.Unmarshal([]byte(trimmed), &data); err != nil {
		return nil
	}
	return data
}

// responseDefinition finds the Response for statusCode: exact match
// first, then OAS wildcard tiers ("2XX", "2xx"), then "default".
func responseDefinition(responses *parser.Responses, statusCode int) (*parser.Response, bool) {
	key := strconv.Itoa(statusCode)
	if resp, ok := responses.Codes[key]; ok && resp != nil {
		return resp, true
	}

	tier := statusCode / 100
	for _, wildcard := range []string{fmt.Sprintf("%dXX", tier), fmt.Sprintf("%dxx", tier)} {
		if resp, ok := responses.Codes[wildcard]; ok && resp != nil {
			return resp, true
		}
	}

	if responses.Default != nil {
		return responses.Default, true
	}
	return nil, false
}

// responseSchema selects def's schema for mediaType: OAS2's flat Schema
// field, or OAS3's content-type-keyed map with wildcard fallback.
func responseSchema(def *parser.Response, mediaType string) *parser.Schema {
	if def.Schema != nil {
		return def.Schema
	}
	if len(def.Content) == 0 {
		return nil
	}

	parsed, _, err := mime.ParseMediaType(mediaType)
	if err != nil || parsed == "" {
		parsed = "application/json"
	}

	if mt, ok := def.Content[parsed]; ok && mt != nil {
		return mt.Schema
	}
	for candidate, mt := range def.Content {
		if mt == nil {
			continue
		}
		if matchMediaType(candidate, parsed) {
			return mt.Schema
		}
	}
	return nil
}

func matchMediaType(pattern, actual string) bool {
	if pattern == actual || pattern == "*/*" {
		return true
	}
	patternType, patternSub, ok1 := strings.Cut(pattern, "/")
	actualType, actualSub, ok2 := strings.Cut(actual, "/")
	if !ok1 || !ok2 {
		return false
	}
	if patternType != actualType {
		return false
	}
	return patternSub == "*" || patternSub == actualSub
}
