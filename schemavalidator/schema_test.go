package schemavalidator

import (
	"testing"

	"github.com/apigate/apigate/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int          { return &i }
func floatPtr(f float64) *float64 { return &f }

func TestValidate_NilSchemaPasses(t *testing.T) {
	v := New()
	assert.Nil(t, v.Validate("anything", nil, "$", Config{}))
}

func TestValidate_NullRejectedUnlessNullable(t *testing.T) {
	v := New()
	schema := &parser.Schema{Type: "string"}

	iss := v.Validate(nil, schema, "$", Config{})
	require.NotNil(t, iss)

	schema.Nullable = true
	assert.Nil(t, v.Validate(nil, schema, "$", Config{}))
}

func TestValidate_ReturnsFirstFailureOnly(t *testing.T) {
	v := New()
	schema := &parser.Schema{
		Type:      "string",
		MinLength: intPtr(10),
		Pattern:   `^\d+$`,
	}
	// Too short AND fails pattern: only one issue should come back.
	iss := v.Validate("ab", schema, "$", Config{})
	require.NotNil(t, iss)
	assert.Contains(t, iss.Message, "minimum")
}

func TestValidate_NumberRange(t *testing.T) {
	v := New()
	schema := &parser.Schema{Type: "integer", Minimum: floatPtr(1), Maximum: floatPtr(3)}

	assert.Nil(t, v.Validate(float64(2), schema, "$", Config{}))

	iss := v.Validate(float64(0), schema, "$", Config{})
	require.NotNil(t, iss)
	assert.Contains(t, iss.Message, "less than minimum")

	iss = v.Validate(float64(4), schema, "$", Config{})
	require.NotNil(t, iss)
	assert.Contains(t, iss.Message, "exceeds maximum")
}

func TestValidate_TypeLooseCoercesStrings(t *testing.T) {
	v := New()
	schema := &parser.Schema{Type: "integer", Minimum: floatPtr(1), Maximum: floatPtr(3)}

	assert.Nil(t, v.Validate("2", schema, "$", Config{TypeLoose: true}))

	iss := v.Validate("2", schema, "$", Config{TypeLoose: false})
	require.NotNil(t, iss)
	assert.Contains(t, iss.Message, "expected type")
}

func TestValidate_RequiredObjectProperty(t *testing.T) {
	v := New()
	schema := &parser.Schema{
		Type:     "object",
		Required: []string{"id"},
		Properties: map[string]*parser.Schema{
			"id": {Type: "integer"},
		},
	}

	iss := v.Validate(map[string]any{}, schema, "$", Config{})
	require.NotNil(t, iss)
	assert.Contains(t, iss.Message, "required property")

	assert.Nil(t, v.Validate(map[string]any{"id": float64(1)}, schema, "$", Config{}))
}

func TestValidate_Enum(t *testing.T) {
	v := New()
	schema := &parser.Schema{Type: "string", Enum: []any{"a", "b"}}

	assert.Nil(t, v.Validate("a", schema, "$", Config{}))
	iss := v.Validate("z", schema, "$", Config{})
	require.NotNil(t, iss)
}

func TestValidate_FormatEmailIsWarning(t *testing.T) {
	v := New()
	schema := &parser.Schema{Type: "string", Format: "email"}

	iss := v.Validate("not-an-email", schema, "$", Config{})
	require.NotNil(t, iss)
	assert.Equal(t, "warning", iss.Severity.String())
}

func TestValidate_AnyOf(t *testing.T) {
	v := New()
	schema := &parser.Schema{
		AnyOf: []*parser.Schema{
			{Type: "string"},
			{Type: "integer"},
		},
	}

	assert.Nil(t, v.Validate("x", schema, "$", Config{}))
	assert.Nil(t, v.Validate(float64(1), schema, "$", Config{}))
	assert.NotNil(t, v.Validate(true, schema, "$", Config{}))
}

func TestRedacting_OmitsValueFromMessage(t *testing.T) {
	v := NewRedacting()
	schema := &parser.Schema{Type: "string", Enum: []any{"a"}}

	iss := v.Validate("secret", schema, "$", Config{})
	require.NotNil(t, iss)
	assert.NotContains(t, iss.Message, "secret")
}
