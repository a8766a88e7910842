// Package requestvalidator orchestrates validation of an incoming
// request's path, query, header, and body parameters against a matched
// operation, short-circuiting on the first failure found.
package requestvalidator

import (
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/apigate/apigate/gateerrors"
	"github.com/apigate/apigate/internal/paramschema"
	"github.com/apigate/apigate/parser"
	"github.com/apigate/apigate/paramvalidator"
	"github.com/apigate/apigate/schemavalidator"
)

// Exchange is the minimal view of an HTTP request this package needs.
// Callers adapt their own request/exchange type to this shape.
type Exchange struct {
	Method      string
	QueryValues url.Values
	Header      http.Header
	PathValues  map[string]string

	// Body, if non-nil, is the already-parsed request body (a JSON object
	// tree, form map, or raw string), placed here by upstream body-parser
	// middleware before this validator runs. Nil means no body was
	// attached to the exchange.
	Body any

	// SkipBodyValidation mirrors the global validator config flag: when
	// true and Body is nil, body validation is skipped outright rather
	// than treated as a missing-required-body failure.
	SkipBodyValidation bool
}

// Validator validates requests against operations.
type Validator struct {
	params *paramvalidator.Validator
	body   *schemavalidator.Validator
	logger parser.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger used for non-fatal diagnostics, such as the
// path-parameter decode fallback. Defaults to parser.NopLogger{}.
func WithLogger(logger parser.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// New creates a Validator.
func New(opts ...Option) *Validator {
	v := &Validator{
		params: paramvalidator.New(schemavalidator.New()),
		body:   schemavalidator.New(),
		logger: parser.NopLogger{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Operation is the subset of a matched operation this package needs:
// its own parameters plus the path-level parameters it inherits.
type Operation struct {
	PathParameters []*parser.Parameter
	Parameters     []*parser.Parameter
	RequestBody    *parser.RequestBody
}

// Validate checks ex against op, validating path, then query, then
// header, then body parameters, stopping at the first failure.
func (v *Validator) Validate(ex Exchange, op Operation) *gateerrors.WireError {
	all := mergeParameters(op.PathParameters, op.Parameters)

	if err := v.validatePath(ex, all); err != nil {
		return err
	}
	if err := v.validateQuery(ex, all); err != nil {
		return err
	}
	if err := v.validateHeader(ex, all); err != nil {
		return err
	}
	return v.validateBody(ex, op)
}

// mergeParameters combines path-item-level and operation-level
// parameters, with operation-level parameters of the same name+location
// taking precedence.
func mergeParameters(pathLevel, opLevel []*parser.Parameter) []*parser.Parameter {
	seen := make(map[string]bool, len(opLevel))
	merged := make([]*parser.Parameter, 0, len(pathLevel)+len(opLevel))
	for _, p := range opLevel {
		merged = append(merged, p)
		seen[p.In+":"+p.Name] = true
	}
	for _, p := range pathLevel {
		if !seen[p.In+":"+p.Name] {
			merged = append(merged, p)
		}
	}
	return merged
}

func (v *Validator) validatePath(ex Exchange, params []*parser.Parameter) *gateerrors.WireError {
	for _, p := range params {
		if p.In != "path" {
			continue
		}
		raw, present := lookupCaseInsensitive(ex.PathValues, p.Name)
		value := raw
		if present {
			if decoded, err := url.PathUnescape(raw); err == nil {
				value = decoded
			} else {
				v.logger.Info("path parameter decode failed, using raw value", "name", p.Name, "error", err)
			}
		}
		if err := v.params.Validate(p.Name, value, present, true, paramschema.FromParameter(p)); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) validateQuery(ex Exchange, params []*parser.Parameter) *gateerrors.WireError {
	for _, p := range params {
		if p.In != "query" {
			continue
		}
		values, present := lookupQueryCaseInsensitive(ex.QueryValues, p.Name)
		schema := paramschema.FromParameter(p)

		switch len(values) {
		case 0:
			if err := v.params.Validate(p.Name, "", present, p.Required, schema); err != nil {
				return err
			}
		case 1:
			if err := v.params.Validate(p.Name, values[0], true, p.Required, schema); err != nil {
				return err
			}
		default:
			collection := make([]any, len(values))
			for i, val := range values {
				collection[i] = val
			}
			if err := v.params.ValidateObjectValue(p.Name, collection, schema); err != nil {
				return err
			}
		}
	}
	return nil
}

func (v *Validator) validateHeader(ex Exchange, params []*parser.Parameter) *gateerrors.WireError {
	for _, p := range params {
		if p.In != "header" {
			continue
		}
		raw := ex.Header.Get(p.Name)
		present := raw != "" || hasHeader(ex.Header, p.Name)
		if !present && p.Required {
			return gateerrors.New(gateerrors.CodeHeaderParamMissing, "header parameter missing: "+p.Name)
		}
		if !present {
			continue
		}
		if err := v.params.Validate(p.Name, raw, true, p.Required, paramschema.FromParameter(p)); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) validateBody(ex Exchange, op Operation) *gateerrors.WireError {
	if op.RequestBody == nil {
		if ex.Body != nil {
			return gateerrors.New(gateerrors.CodeRequestBodyUnexpected, "")
		}
		return nil
	}

	if ex.Body == nil {
		if ex.SkipBodyValidation {
			return nil
		}
		if op.RequestBody.Required {
			return gateerrors.New(gateerrors.CodeRequestBodyMissing, "")
		}
		return nil
	}

	schema := requestBodySchema(op.RequestBody, ex.Header.Get("Content-Type"))
	if schema == nil {
		return nil
	}

	if iss := v.body.Validate(ex.Body, schema, "$", schemavalidator.Config{TypeLoose: false}); iss != nil {
		return gateerrors.New(gateerrors.CodeRequestParamInvalidFormat, iss.Message)
	}
	return nil
}

// requestBodySchema selects the schema for contentType (application/json
// when contentType is empty or unparseable) from body's content map: the
// exact media type first, then a wildcard entry (application/*, */*) that
// matches it. It returns nil when no entry matches.
func requestBodySchema(body *parser.RequestBody, contentType string) *parser.Schema {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType == "" {
		mediaType = "application/json"
	}

	if mt, ok := body.Content[mediaType]; ok && mt != nil {
		return mt.Schema
	}
	for candidate, mt := range body.Content {
		if mt == nil {
			continue
		}
		if matchMediaType(candidate, mediaType) {
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

func lookupCaseInsensitive(m map[string]string, name string) (string, bool) {
	if v, ok := m[name]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

func lookupQueryCaseInsensitive(values url.Values, name string) ([]string, bool) {
	if v, ok := values[name]; ok {
		return v, true
	}
	for k, v := range values {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

func hasHeader(h http.Header, name string) bool {
	_, ok := h[http.CanonicalHeaderKey(name)]
	return ok
}
