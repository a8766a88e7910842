package responsevalidator

import (
	"testing"

	"github.com/apigate/apigate/gateerrors"
	"github.com/apigate/apigate/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func opWithResponses(responses *parser.Responses) *parser.Operation {
	return &parser.Operation{Responses: responses}
}

func TestValidate_ExactStatusCodeMatch(t *testing.T) {
	v := New()
	op := opWithResponses(&parser.Responses{
		Codes: map[string]*parser.Response{
			"200": {Content: map[string]*parser.MediaType{
				"application/json": {Schema: &parser.Schema{Type: "object", Required: []string{"id"}}},
			}},
		},
	})

	err := v.Validate(map[string]any{"id": float64(1)}, op, 200, "application/json")
	assert.Nil(t, err)

	err = v.Validate(map[string]any{}, op, 200, "application/json")
	require.NotNil(t, err)
	assert.Equal(t, gateerrors.CodeResponseContentUnexpected, err.Code)
}

func TestValidate_WildcardTier(t *testing.T) {
	v := New()
	op := opWithResponses(&parser.Responses{
		Codes: map[string]*parser.Response{
			"4XX": {Content: map[string]*parser.MediaType{
				"application/json": {Schema: &parser.Schema{Type: "object"}},
			}},
		},
	})

	err := v.Validate(map[string]any{}, op, 404, "application/json")
	assert.Nil(t, err)
}

func TestValidate_DefaultFallback(t *testing.T) {
	v := New()
	op := opWithResponses(&parser.Responses{
		Default: &parser.Response{Content: map[string]*parser.MediaType{
			"application/json": {Schema: &parser.Schema{Type: "object", Required: []string{"code"}}},
		}},
	})

	err := v.Validate(map[string]any{"code": float64(1)}, op, 201, "application/json")
	assert.Nil(t, err)

	err = v.Validate(map[string]any{}, op, 201, "application/json")
	require.NotNil(t, err)
}

func TestValidate_NoDefinitionAtAllWithBodyIsUnexpected(t *testing.T) {
	v := New()
	op := opWithResponses(&parser.Responses{})

	err := v.Validate(map[string]any{"x": 1}, op, 204, "application/json")
	require.NotNil(t, err)
	assert.Equal(t, gateerrors.CodeResponseContentUnexpected, err.Code)
}

func TestValidate_DefinitionWithoutSchemaPasses(t *testing.T) {
	v := New()
	op := opWithResponses(&parser.Responses{
		Codes: map[string]*parser.Response{"204": {}},
	})

	err := v.Validate(nil, op, 204, "")
	assert.Nil(t, err)
}

func TestValidate_DefaultsToStatus200WhenOmitted(t *testing.T) {
	v := New()
	op := opWithResponses(&parser.Responses{
		Codes: map[string]*parser.Response{
			"200": {Content: map[string]*parser.MediaType{
				"application/json": {Schema: &parser.Schema{Type: "object", Required: []string{"id"}}},
			}},
		},
	})

	err := v.Validate(map[string]any{}, op, 0, "application/json")
	require.NotNil(t, err)
}

func TestValidate_StringBodyDecodedAsObject(t *testing.T) {
	v := New()
	op := opWithResponses(&parser.Responses{
		Codes: map[string]*parser.Response{
			"200": {Content: map[string]*parser.MediaType{
				"application/json": {Schema: &parser.Schema{Type: "object", Required: []string{"id"}}},
			}},
		},
	})

	err := v.Validate(`  {"id": 1}  `, op, 200, "application/json")
	assert.Nil(t, err)

	err = v.Validate(`{}`, op, 200, "application/json")
	require.NotNil(t, err)
}

func TestValidate_StringBodyDecodedAsArray(t *testing.T) {
	v := New()
	op := opWithResponses(&parser.Responses{
		Codes: map[string]*parser.Response{
			"200": {Content: map[string]*parser.MediaType{
				"application/json": {Schema: &parser.Schema{Type: "array"}},
			}},
		},
	})

	err := v.Validate(`[1,2,3]`, op, 200, "application/json")
	assert.Nil(t, err)
}

func TestValidate_NonJSONStringBodyTreatedAsAbsent(t *testing.T) {
	v := New()
	op := opWithResponses(&parser.Responses{
		Codes: map[string]*parser.Response{
			"200": {Content: map[string]*parser.MediaType{
				"application/json": {Schema: &parser.Schema{Type: "object"}},
			}},
		},
	})

	err := v.Validate("not json", op, 200, "application/json")
	require.NotNil(t, err)
}
