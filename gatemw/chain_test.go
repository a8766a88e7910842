package gatemw

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/apigate/apigate/gateerrors"
	"github.com/apigate/apigate/jwtverifier"
	"github.com/apigate/apigate/parser"
	"github.com/apigate/apigate/specindex"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKid = "test-key-1"

func writeSecretFile(t *testing.T, secret string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hmac.secret")
	require.NoError(t, os.WriteFile(path, []byte(secret), 0o600))
	return path
}

func signToken(t *testing.T, secret, kid string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func testDoc() *parser.OAS3Document {
	getPets := &parser.Operation{
		OperationID: "listPets",
		Responses: &parser.Responses{
			Codes: map[string]*parser.Response{
				"200": {
					Content: map[string]*parser.MediaType{
						"application/json": {Schema: &parser.Schema{Type: "array"}},
					},
				},
			},
		},
		Security: []parser.SecurityRequirement{
			{"oauth2": []string{"read:pets"}},
		},
	}
	return &parser.OAS3Document{
		OpenAPI: "3.0.3",
		Servers: []*parser.Server{{URL: "https://api.example.com/v1"}},
		Paths: parser.Paths{
			"/pets": &parser.PathItem{Get: getPets},
		},
		Components: &parser.Components{
			SecuritySchemes: map[string]*parser.SecurityScheme{
				"oauth2": {Type: "oauth2"},
			},
		},
	}
}

func testIndex(t *testing.T) *specindex.Index {
	t.Helper()
	result := &parser.ParseResult{Document: testDoc(), OASVersion: parser.OASVersion300}
	idx, err := specindex.New(result)
	require.NoError(t, err)
	return idx
}

func testVerifier(t *testing.T, secret string) *jwtverifier.Verifier {
	t.Helper()
	path := writeSecretFile(t, secret)
	v, err := jwtverifier.New(jwtverifier.WithKeySource(testKid, path))
	require.NoError(t, err)
	return v
}

func newExchange(method, path string, header http.Header) *Exchange {
	if header == nil {
		header = http.Header{}
	}
	return &Exchange{
		Method:      method,
		RawPath:     path,
		Header:      header,
		QueryValues: url.Values{},
	}
}

func TestChain_AdmitsValidRequest(t *testing.T) {
	const secret = "super-secret"
	idx := testIndex(t)
	verifier := testVerifier(t, secret)
	chain := New(idx, verifier)

	token := signToken(t, secret, testKid, jwt.MapClaims{
		"sub":   "user-1",
		"scope": "read:pets",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	ex := newExchange("GET", "/v1/pets", http.Header{
		"Authorization": []string{"Bearer " + token},
	})

	werr := chain.Serve(ex, func(ex *Exchange) {
		ex.ResponseStatusCode = 200
		ex.ResponseMediaType = "application/json"
		ex.ResponseBody = []any{}
	})

	require.Nil(t, werr)
	assert.Equal(t, "user-1", ex.Audit.UserID)
	assert.NotNil(t, ex.Audit.Operation)
	assert.Equal(t, "listPets", ex.Audit.Operation.Op.OperationID)
}

func TestChain_MissingAuthToken(t *testing.T) {
	idx := testIndex(t)
	verifier := testVerifier(t, "super-secret")
	chain := New(idx, verifier)

	ex := newExchange("GET", "/v1/pets", nil)

	werr := chain.Serve(ex, func(ex *Exchange) {
		t.Fatal("business handler must not run")
	})

	require.NotNil(t, werr)
	assert.Equal(t, gateerrors.CodeMissingAuthToken, werr.Code)
}

func TestChain_ScopeMismatch(t *testing.T) {
	const secret = "super-secret"
	idx := testIndex(t)
	verifier := testVerifier(t, secret)
	chain := New(idx, verifier)

	token := signToken(t, secret, testKid, jwt.MapClaims{
		"sub":   "user-1",
		"scope": "write:pets",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	ex := newExchange("GET", "/v1/pets", http.Header{
		"Authorization": []string{"Bearer " + token},
	})

	werr := chain.Serve(ex, func(ex *Exchange) {
		t.Fatal("business handler must not run")
	})

	require.NotNil(t, werr)
	assert.Equal(t, gateerrors.CodeAuthTokenScopeMismatch, werr.Code)
}

func TestChain_UnknownPath(t *testing.T) {
	idx := testIndex(t)
	verifier := testVerifier(t, "super-secret")
	chain := New(idx, verifier, WithVerifyJwt(false))

	ex := newExchange("GET", "/v1/nope", nil)

	werr := chain.Serve(ex, func(ex *Exchange) {
		t.Fatal("business handler must not run")
	})

	require.NotNil(t, werr)
	assert.Equal(t, gateerrors.CodeInvalidRequestPath, werr.Code)
}

func TestChain_ScopeTokenTakesPriority(t *testing.T) {
	const secret = "super-secret"
	idx := testIndex(t)
	verifier := testVerifier(t, secret)
	chain := New(idx, verifier)

	primary := signToken(t, secret, testKid, jwt.MapClaims{
		"sub":   "user-1",
		"scope": "write:pets",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	scopeToken := signToken(t, secret, testKid, jwt.MapClaims{
		"sub":   "client-1",
		"scope": "read:pets",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	ex := newExchange("GET", "/v1/pets", http.Header{
		"Authorization": []string{"Bearer " + primary},
		"X-Scope-Token": []string{"Bearer " + scopeToken},
	})

	werr := chain.Serve(ex, func(ex *Exchange) {
		ex.ResponseStatusCode = 200
		ex.ResponseMediaType = "application/json"
		ex.ResponseBody = []any{}
	})

	require.Nil(t, werr)
	assert.Equal(t, "client-1", ex.Audit.ScopeClientID)
}
