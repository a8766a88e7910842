// Package gateerrors provides the stable wire error taxonomy emitted by the
// request/response validation pipeline, plus the Go sentinel and typed
// errors used internally to build it.
//
// Every failure path in the pipeline produces at most one *WireError, which
// serializes to {statusCode, code, message, description} and carries one of
// the stable ERR1xxxx codes. Callers that need to branch on error category
// programmatically use errors.Is/errors.As against the sentinel and typed
// errors in this package; callers that need to write an HTTP response use
// WireError directly.
package gateerrors

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrToken indicates a bearer-token failure (missing, malformed, expired).
	ErrToken = errors.New("token error")

	// ErrScope indicates a scope-matching failure.
	ErrScope = errors.New("scope error")

	// ErrRouting indicates the request path or method could not be matched
	// to a spec operation.
	ErrRouting = errors.New("routing error")

	// ErrRequestShape indicates a request parameter or body failed schema
	// validation.
	ErrRequestShape = errors.New("request shape error")

	// ErrResponseShape indicates a response body failed schema validation.
	ErrResponseShape = errors.New("response shape error")

	// ErrInternal indicates a failure not attributable to the caller (spec
	// load failure, key-fetch timeout, panic recovery).
	ErrInternal = errors.New("internal error")
)

// Code is one of the stable wire identifiers from the error code table.
type Code string

// Stable wire error codes. Values and meanings come from the external
// interface contract; never renumber an existing code.
const (
	CodeInvalidAuthToken      Code = "ERR10000"
	CodeAuthTokenExpired      Code = "ERR10001"
	CodeMissingAuthToken      Code = "ERR10002"
	CodeInvalidScopeToken     Code = "ERR10003"
	CodeScopeTokenExpired     Code = "ERR10004"
	CodeAuthTokenScopeMismatch  Code = "ERR10005"
	CodeScopeTokenScopeMismatch Code = "ERR10006"
	CodeInvalidRequestPath    Code = "ERR10007"
	CodeMethodNotAllowed      Code = "ERR10008"

	CodeQueryParamMissing      Code = "ERR11000"
	CodeRequestParamMissing    Code = "ERR11001"
	CodeRequestParamInvalidFormat Code = "ERR11010"
	CodeRequestParamBelowMin   Code = "ERR11011"
	CodeRequestParamAboveMax   Code = "ERR11012"
	CodeRequestBodyUnexpected  Code = "ERR11013"
	CodeRequestBodyMissing     Code = "ERR11014"
	CodeHeaderParamMissing     Code = "ERR11017"
	CodeResponseContentUnexpected Code = "ERR11018"

	// CodeInternal is not part of the external contract's named table; it
	// is the generic 500 code internal errors surface as, per §7.
	CodeInternal Code = "ERR10500"
)

// codeDescriptions gives each code its stable, human-oriented description.
// This is the "description" field of the wire body, distinct from the
// per-call "message" which may carry request-specific detail.
var codeDescriptions = map[Code]string{
	CodeInvalidAuthToken:          "invalid auth token",
	CodeAuthTokenExpired:          "auth token expired",
	CodeMissingAuthToken:          "missing auth token",
	CodeInvalidScopeToken:         "invalid scope token",
	CodeScopeTokenExpired:         "scope token expired",
	CodeAuthTokenScopeMismatch:    "auth token scope mismatch",
	CodeScopeTokenScopeMismatch:   "scope token scope mismatch",
	CodeInvalidRequestPath:        "invalid request path",
	CodeMethodNotAllowed:          "method not allowed",
	CodeQueryParamMissing:         "query parameter missing",
	CodeRequestParamMissing:       "request parameter missing",
	CodeRequestParamInvalidFormat: "request parameter invalid format",
	CodeRequestParamBelowMin:      "request parameter below min",
	CodeRequestParamAboveMax:      "request parameter above max",
	CodeRequestBodyUnexpected:     "request body unexpected",
	CodeRequestBodyMissing:        "request body missing",
	CodeHeaderParamMissing:        "header parameter missing",
	CodeResponseContentUnexpected: "response content unexpected",
	CodeInternal:                  "internal error",
}

// codeStatus maps each code to its accompanying HTTP status, per §6:
// 401 for ERR1000x (except ERR10007/ERR10008), 404 for ERR10007, 405 for
// ERR10008, 400 for the 110xx range, 500 for internal.
var codeStatus = map[Code]int{
	CodeInvalidAuthToken:          401,
	CodeAuthTokenExpired:          401,
	CodeMissingAuthToken:          401,
	CodeInvalidScopeToken:         401,
	CodeScopeTokenExpired:         401,
	CodeAuthTokenScopeMismatch:    401,
	CodeScopeTokenScopeMismatch:   401,
	CodeInvalidRequestPath:        404,
	CodeMethodNotAllowed:          405,
	CodeQueryParamMissing:         400,
	CodeRequestParamMissing:       400,
	CodeRequestParamInvalidFormat: 400,
	CodeRequestParamBelowMin:      400,
	CodeRequestParamAboveMax:      400,
	CodeRequestBodyUnexpected:     400,
	CodeRequestBodyMissing:        400,
	CodeHeaderParamMissing:        400,
	CodeResponseContentUnexpected: 400,
	CodeInternal:                  500,
}

// WireError is the JSON status object written to the response body on any
// validation failure: {statusCode, code, message, description}.
type WireError struct {
	StatusCode  int    `json:"statusCode"`
	Code        Code   `json:"code"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

// Error implements error so a *WireError can flow through normal Go error
// handling as well as be written directly as a response body.
func (e *WireError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// Unwrap maps a WireError onto the broad sentinel category its code belongs
// to, so callers can use errors.Is(err, gateerrors.ErrToken) etc. without
// knowing the specific code.
func (e *WireError) Unwrap() error {
	switch {
	case e.Code == CodeInvalidRequestPath || e.Code == CodeMethodNotAllowed:
		return ErrRouting
	case e.Code == CodeAuthTokenScopeMismatch || e.Code == CodeScopeTokenScopeMismatch:
		return ErrScope
	case e.Code == CodeInternal:
		return ErrInternal
	case e.Code[:4] == "ERR1" && len(e.Code) == 8 && e.Code[4] == '0' && e.Code < "ERR11000":
		return ErrToken
	case e.Code == CodeResponseContentUnexpected:
		return ErrResponseShape
	default:
		return ErrRequestShape
	}
}

// MarshalJSON is explicit (rather than relying on struct tags alone) so
// that New's zero-value Message never serializes as null.
func (e *WireError) MarshalJSON() ([]byte, error) {
	type alias WireError
	return json.Marshal((*alias)(e))
}

// New builds a *WireError for code, using message as the request-specific
// detail and the code's stable description. message may be empty, in which
// case the description is reused as the message too.
func New(code Code, message string) *WireError {
	if message == "" {
		message = codeDescriptions[code]
	}
	return &WireError{
		StatusCode:  codeStatus[code],
		Code:        code,
		Message:     message,
		Description: codeDescriptions[code],
	}
}
