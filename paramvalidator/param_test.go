package paramvalidator

import (
	"testing"

	"github.com/apigate/apigate/gateerrors"
	"github.com/apigate/apigate/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }

func TestValidate_AbsentNotRequiredAccepts(t *testing.T) {
	v := New(nil)
	err := v.Validate("petId", "", false, false, &parser.Schema{Type: "integer"})
	assert.Nil(t, err)
}

func TestValidate_AbsentRequiredFails(t *testing.T) {
	v := New(nil)
	err := v.Validate("petId", "", false, true, &parser.Schema{Type: "integer"})
	require.NotNil(t, err)
	assert.Equal(t, gateerrors.CodeRequestParamMissing, err.Code)
}

func TestValidate_IntegerUnparseable(t *testing.T) {
	v := New(nil)
	err := v.Validate("petId", "123a", true, true, &parser.Schema{Type: "integer"})
	require.NotNil(t, err)
	assert.Equal(t, gateerrors.CodeRequestParamInvalidFormat, err.Code)
}

func TestValidate_IntegerFractional(t *testing.T) {
	v := New(nil)
	err := v.Validate("petId", "123.1", true, true, &parser.Schema{Type: "integer"})
	require.NotNil(t, err)
	assert.Equal(t, gateerrors.CodeRequestParamInvalidFormat, err.Code)
}

func TestValidate_IntegerRangeBoundaries(t *testing.T) {
	v := New(nil)
	schema := &parser.Schema{Type: "integer", Minimum: floatPtr(1), Maximum: floatPtr(3)}

	assert.Nil(t, v.Validate("n", "1", true, true, schema))
	assert.Nil(t, v.Validate("n", "2", true, true, schema))
	assert.Nil(t, v.Validate("n", "3", true, true, schema))

	err := v.Validate("n", "0", true, true, schema)
	require.NotNil(t, err)
	assert.Equal(t, gateerrors.CodeRequestParamBelowMin, err.Code)

	err = v.Validate("n", "4", true, true, schema)
	require.NotNil(t, err)
	assert.Equal(t, gateerrors.CodeRequestParamAboveMax, err.Code)
}

func TestValidate_IntegerRangeExclusiveBoundaries(t *testing.T) {
	v := New(nil)
	schema := &parser.Schema{
		Type:             "integer",
		Minimum:          floatPtr(1),
		Maximum:          floatPtr(3),
		ExclusiveMinimum: true,
		ExclusiveMaximum: true,
	}

	assert.Nil(t, v.Validate("n", "2", true, true, schema))

	err := v.Validate("n", "1", true, true, schema)
	require.NotNil(t, err)
	assert.Equal(t, gateerrors.CodeRequestParamBelowMin, err.Code)

	err = v.Validate("n", "3", true, true, schema)
	require.NotNil(t, err)
	assert.Equal(t, gateerrors.CodeRequestParamAboveMax, err.Code)
}

func TestValidate_BooleanCaseInsensitive(t *testing.T) {
	v := New(nil)
	schema := &parser.Schema{Type: "boolean"}

	assert.Nil(t, v.Validate("b", "TRUE", true, true, schema))
	assert.Nil(t, v.Validate("b", "false", true, true, schema))

	err := v.Validate("b", "yes", true, true, schema)
	require.NotNil(t, err)
	assert.Equal(t, gateerrors.CodeRequestParamInvalidFormat, err.Code)
}

func TestValidate_StringEnum(t *testing.T) {
	v := New(nil)
	schema := &parser.Schema{Type: "string", Enum: []any{"asc", "desc"}}

	assert.Nil(t, v.Validate("sort", "asc", true, true, schema))

	err := v.Validate("sort", "sideways", true, true, schema)
	require.NotNil(t, err)
	assert.Equal(t, gateerrors.CodeRequestParamInvalidFormat, err.Code)
}
