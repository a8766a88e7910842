package normpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_StripsBasePath(t *testing.T) {
	p, err := New("/v1/pets", "/v1")
	require.NoError(t, err)
	assert.Equal(t, "/pets", p.Normalised())
	assert.Equal(t, "/v1/pets", p.Original())
}

func TestNew_NoBasePath(t *testing.T) {
	p, err := New("/pets", "")
	require.NoError(t, err)
	assert.Equal(t, "/pets", p.Normalised())
}

func TestNew_AddsLeadingSlash(t *testing.T) {
	p, err := New("pets", "")
	require.NoError(t, err)
	assert.Equal(t, "/pets", p.Normalised())
}

func TestNew_RejectsEmpty(t *testing.T) {
	_, err := New("", "")
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestNew_Idempotent(t *testing.T) {
	p1, err := New("/v1/pets/{petId}", "/v1")
	require.NoError(t, err)

	p2, err := New(p1.Normalised(), "/v1")
	require.NoError(t, err)

	assert.Equal(t, p1.Normalised(), p2.Normalised())
}

func TestPath_Parts(t *testing.T) {
	p, err := New("/pets/{petId}/toys", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"pets", "{petId}", "toys"}, p.Parts())
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, "pets", p.Part(0))
	assert.Equal(t, "", p.Part(99))
}

func TestPath_IsParam(t *testing.T) {
	p, err := New("/pets/{petId}/toys", "")
	require.NoError(t, err)

	assert.False(t, p.IsParam(0))
	assert.True(t, p.IsParam(1))
	assert.Equal(t, "petId", p.ParamName(1))
	assert.Equal(t, "", p.ParamName(0))
}

func TestPath_RootPath(t *testing.T) {
	p, err := New("/", "")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Len())
	assert.Nil(t, p.Parts())
}

func TestExtractParams(t *testing.T) {
	tmpl, err := New("/pets/{petId}/toys/{toyId}", "")
	require.NoError(t, err)
	req, err := New("/pets/42/toys/7", "")
	require.NoError(t, err)

	params := ExtractParams(tmpl, req)
	assert.Equal(t, map[string]string{"petId": "42", "toyId": "7"}, params)
}

func TestExtractParams_NoParams(t *testing.T) {
	tmpl, err := New("/pets", "")
	require.NoError(t, err)
	req, err := New("/pets", "")
	require.NoError(t, err)

	assert.Empty(t, ExtractParams(tmpl, req))
}
