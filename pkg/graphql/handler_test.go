package graphql

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoSchema(t *testing.T) graphql.Schema {
	t.Helper()
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"echo": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"msg": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Args["msg"], nil
				},
			},
		},
	})
	schema, err := NewSchema(query, nil)
	require.NoError(t, err)
	return schema
}

type gqlResult struct {
	Data   map[string]interface{}   `json:"data"`
	Errors []map[string]interface{} `json:"errors"`
}

func TestHandler_Post(t *testing.T) {
	h := Handler(echoSchema(t))
	body := `{"query":"query($m: String!){ echo(msg: $m) }","variables":{"m":"oi"}}`

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var res gqlResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "oi", res.Data["echo"])
	assert.Empty(t, res.Errors)
}

func TestHandler_Get(t *testing.T) {
	h := Handler(echoSchema(t))

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/graphql?query="+url.QueryEscape(`{ echo(msg: "ola") }`), nil))

	var res gqlResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "ola", res.Data["echo"])
}

func TestHandler_BadRequests(t *testing.T) {
	h := Handler(echoSchema(t))

	for name, req := range map[string]*http.Request{
		"malformed json": httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{`)),
		"empty query":    httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{}`)),
		"bad variables":  httptest.NewRequest(http.MethodGet, "/graphql?query=x&variables=nope", nil),
	} {
		rec := httptest.NewRecorder()
		h(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
}

func TestHandler_ValidationErrorsAre200(t *testing.T) {
	h := Handler(echoSchema(t))

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ missing }"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	var res gqlResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.NotEmpty(t, res.Errors)
}
