package specindex

import (
	"testing"

	"github.com/apigate/apigate/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDoc() *parser.OAS3Document {
	getPets := &parser.Operation{
		OperationID: "listPets",
		Responses:   &parser.Responses{},
		Security: []parser.SecurityRequirement{
			{"oauth2": []string{"read:pets"}},
		},
	}
	getPet := &parser.Operation{
		OperationID: "getPet",
		Responses:   &parser.Responses{},
	}
	postPets := &parser.Operation{
		OperationID: "createPet",
		Responses:   &parser.Responses{},
	}

	return &parser.OAS3Document{
		OpenAPI: "3.0.3",
		Servers: []*parser.Server{{URL: "https://api.example.com/v1"}},
		Paths: parser.Paths{
			"/pets": &parser.PathItem{
				Get:  getPets,
				Post: postPets,
			},
			"/pets/{petId}": &parser.PathItem{
				Get: getPet,
			},
		},
		Components: &parser.Components{
			SecuritySchemes: map[string]*parser.SecurityScheme{
				"oauth2": {Type: "oauth2"},
				"apiKey": {Type: "apiKey"},
			},
		},
	}
}

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	result := &parser.ParseResult{Document: sampleDoc()}
	idx, err := New(result)
	require.NoError(t, err)
	return idx
}

func TestNew_ExtractsBasePath(t *testing.T) {
	idx := newTestIndex(t)
	assert.Equal(t, "/v1", idx.BasePath())
}

func TestNew_RoutesByMethod(t *testing.T) {
	idx := newTestIndex(t)

	path, err := idx.NewPath("/v1/pets")
	require.NoError(t, err)

	op, ok := idx.FindMatchingAPIPath("GET", path)
	require.True(t, ok)
	assert.Equal(t, "listPets", op.Op.OperationID)

	op, ok = idx.FindMatchingAPIPath("POST", path)
	require.True(t, ok)
	assert.Equal(t, "createPet", op.Op.OperationID)

	_, ok = idx.FindMatchingAPIPath("DELETE", path)
	assert.False(t, ok)
}

func TestNew_PathParamMatch(t *testing.T) {
	idx := newTestIndex(t)

	path, err := idx.NewPath("/v1/pets/42")
	require.NoError(t, err)

	op, ok := idx.FindMatchingAPIPath("GET", path)
	require.True(t, ok)
	assert.Equal(t, "getPet", op.Op.OperationID)
}

func TestMethodAllowed_DistinguishesFromUnknownPath(t *testing.T) {
	idx := newTestIndex(t)

	path, err := idx.NewPath("/v1/pets")
	require.NoError(t, err)
	methods := idx.MethodAllowed(path)
	assert.ElementsMatch(t, []string{"get", "post"}, methods)

	unknown, err := idx.NewPath("/v1/nope")
	require.NoError(t, err)
	assert.Empty(t, idx.MethodAllowed(unknown))
}

func TestRequiredScopes_OAuth2FirstRequirementWins(t *testing.T) {
	idx := newTestIndex(t)

	path, err := idx.NewPath("/v1/pets")
	require.NoError(t, err)
	op, ok := idx.FindMatchingAPIPath("GET", path)
	require.True(t, ok)

	scopes, found := op.RequiredScopes(idx)
	require.True(t, found)
	assert.Equal(t, []string{"read:pets"}, scopes)
}

func TestRequiredScopes_AbsentWhenNoSecurity(t *testing.T) {
	idx := newTestIndex(t)

	path, err := idx.NewPath("/v1/pets/42")
	require.NoError(t, err)
	op, ok := idx.FindMatchingAPIPath("GET", path)
	require.True(t, ok)

	_, found := op.RequiredScopes(idx)
	assert.False(t, found)
}

func TestWithBasePath_Override(t *testing.T) {
	result := &parser.ParseResult{Document: sampleDoc()}
	idx, err := New(result, WithBasePath("/custom"))
	require.NoError(t, err)
	assert.Equal(t, "/custom", idx.BasePath())
}
