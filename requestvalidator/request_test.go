package requestvalidator

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/apigate/apigate/gateerrors"
	"github.com/apigate/apigate/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_PathParam(t *testing.T) {
	v := New()
	op := Operation{
		Parameters: []*parser.Parameter{
			{Name: "petId", In: "path", Required: true, Schema: &parser.Schema{Type: "integer"}},
		},
	}
	ex := Exchange{Method: "GET", PathValues: map[string]string{"petId": "42"}, Header: http.Header{}}

	assert.Nil(t, v.Validate(ex, op))

	ex.PathValues["petId"] = "abc"
	err := v.Validate(ex, op)
	require.NotNil(t, err)
	assert.Equal(t, gateerrors.CodeRequestParamInvalidFormat, err.Code)
}

func TestValidate_QueryRequiredMissing(t *testing.T) {
	v := New()
	op := Operation{
		Parameters: []*parser.Parameter{
			{Name: "q", In: "query", Required: true, Schema: &parser.Schema{Type: "string"}},
		},
	}
	ex := Exchange{Method: "GET", QueryValues: url.Values{}, Header: http.Header{}}

	err := v.Validate(ex, op)
	require.NotNil(t, err)
	assert.Equal(t, gateerrors.CodeRequestParamMissing, err.Code)
}

func TestValidate_HeaderMissing(t *testing.T) {
	v := New()
	op := Operation{
		Parameters: []*parser.Parameter{
			{Name: "X-Request-Id", In: "header", Required: true, Schema: &parser.Schema{Type: "string"}},
		},
	}
	ex := Exchange{Method: "GET", Header: http.Header{}}

	err := v.Validate(ex, op)
	require.NotNil(t, err)
	assert.Equal(t, gateerrors.CodeHeaderParamMissing, err.Code)
}

func TestValidate_BodyUnexpected(t *testing.T) {
	v := New()
	op := Operation{}
	ex := Exchange{Method: "POST", Header: http.Header{}, Body: map[string]any{"id": "x"}}

	err := v.Validate(ex, op)
	require.NotNil(t, err)
	assert.Equal(t, gateerrors.CodeRequestBodyUnexpected, err.Code)
}

func TestValidate_BodyMissingRequired(t *testing.T) {
	v := New()
	op := Operation{
		RequestBody: &parser.RequestBody{
			Required: true,
			Content: map[string]*parser.MediaType{
				"application/json": {Schema: &parser.Schema{Type: "object"}},
			},
		},
	}
	ex := Exchange{Method: "POST", Header: http.Header{}}

	err := v.Validate(ex, op)
	require.NotNil(t, err)
	assert.Equal(t, gateerrors.CodeRequestBodyMissing, err.Code)
}

func TestValidate_BodySchemaMismatch(t *testing.T) {
	v := New()
	op := Operation{
		RequestBody: &parser.RequestBody{
			Required: true,
			Content: map[string]*parser.MediaType{
				"application/json": {Schema: &parser.Schema{
					Type:       "object",
					Properties: map[string]*parser.Schema{"id": {Type: "integer"}},
				}},
			},
		},
	}
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	ex := Exchange{Method: "POST", Header: header, Body: map[string]any{"id": "abc"}}

	err := v.Validate(ex, op)
	require.NotNil(t, err)
}

func TestValidate_ShortCircuitsOnFirstFailure(t *testing.T) {
	v := New()
	op := Operation{
		Parameters: []*parser.Parameter{
			{Name: "petId", In: "path", Required: true, Schema: &parser.Schema{Type: "integer"}},
			{Name: "q", In: "query", Required: true, Schema: &parser.Schema{Type: "string"}},
		},
	}
	// Both path and query are invalid/missing; only the path failure
	// (validated first) should be reported.
	ex := Exchange{
		Method:      "GET",
		PathValues:  map[string]string{"petId": "abc"},
		QueryValues: url.Values{},
		Header:      http.Header{},
	}

	err := v.Validate(ex, op)
	require.NotNil(t, err)
	assert.Equal(t, gateerrors.CodeRequestParamInvalidFormat, err.Code)
}
