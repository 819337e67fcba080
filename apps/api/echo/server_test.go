package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_server_home(t *testing.T) {
	env := setup(t)

	req, rec := newRequest(http.MethodGet, "/")
	env.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "Daftari", body["app"])

	endpoints, ok := body["endpoints"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "/api/students", endpoints["students"])
	assert.Equal(t, "/api/grades", endpoints["grades"])
}

func Test_server_trailingSlash(t *testing.T) {
	env := setup(t)

	req, rec := newRequest(http.MethodGet, "/api/students/")
	env.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func Test_server_unknownRoute(t *testing.T) {
	env := setup(t)

	httpTest{
		name: "not found", path: "/api/lol", wantCode: http.StatusNotFound,
		wantData: marchallObj(t, httpErr{Error: "Not Found"}),
	}.run(t, env.app)
}
