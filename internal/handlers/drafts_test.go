package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftHandlers(t *testing.T) {
	env := setupTestHandler(t, true)
	r := setupTestRouter(env.h)

	t.Run("Save Load Clear", func(t *testing.T) {
		w := doRequest(r, http.MethodPut, "/api/drafts/Romeo", `{"name":"Romeo","tagline":"draft"}`, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = doRequest(r, http.MethodGet, "/api/drafts/romeo", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"name":"Romeo","tagline":"draft"}`, w.Body.String())

		w = doRequest(r, http.MethodDelete, "/api/drafts/romeo", nil, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doRequest(r, http.MethodGet, "/api/drafts/romeo", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Rejects Non Object", func(t *testing.T) {
		w := doRequest(r, http.MethodPut, "/api/drafts/romeo", `[1,2,3]`, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Create Clears Draft", func(t *testing.T) {
		require.Equal(t, http.StatusNoContent, doRequest(r, http.MethodPut, "/api/drafts/juliet", `{"name":"J"}`, nil).Code)
		createProfile(t, r, map[string]interface{}{"username": "juliet", "name": "Juliet"})

		assert.Equal(t, http.StatusNotFound, doRequest(r, http.MethodGet, "/api/drafts/juliet", nil, nil).Code)
	})
}

func TestDraftHandlers_Disabled(t *testing.T) {
	env := setupTestHandler(t, false)
	r := setupTestRouter(env.h)

	w := doRequest(r, http.MethodPut, "/api/drafts/romeo", `{"name":"Romeo"}`, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doRequest(r, http.MethodGet, "/api/drafts/romeo", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
