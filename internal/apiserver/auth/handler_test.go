package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueJWT(t *testing.T) {
	mux := http.NewServeMux()
	NewHandler(testCfg).RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodPost, "/jwt", strings.NewReader(`{"email":"a@school.edu","class":7}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp tokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	claims, err := ParseToken(testCfg, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@school.edu", claims.Email)
	assert.EqualValues(t, 7, claims.Payload["class"])
}

func TestIssueJWT_EmptyBody(t *testing.T) {
	h := NewHandler(testCfg)

	req := httptest.NewRequest(http.MethodPost, "/jwt", strings.NewReader(""))
	rec := httptest.NewRecorder()
	h.IssueJWT(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp tokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	claims, err := ParseToken(testCfg, resp.Token)
	require.NoError(t, err)
	assert.Empty(t, claims.Email)
	assert.Contains(t, claims.Payload, "exp")
}

func TestIssueJWT_BadBody(t *testing.T) {
	h := NewHandler(testCfg)

	for _, body := range []string{"not json", `["a"]`} {
		req := httptest.NewRequest(http.MethodPost, "/jwt", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.IssueJWT(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body=%q", body)
	}
}

func TestIssueJWT_NoSecret(t *testing.T) {
	h := NewHandler(Config{})

	req := httptest.NewRequest(http.MethodPost, "/jwt", strings.NewReader(`{"email":"a@school.edu"}`))
	rec := httptest.NewRecorder()
	h.IssueJWT(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
