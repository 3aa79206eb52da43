package handlers

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileQRCodeHandler(t *testing.T) {
	env := setupTestHandler(t, false)
	r := setupTestRouter(env.h)

	var avatar bytes.Buffer
	require.NoError(t, png.Encode(&avatar, image.NewRGBA(image.Rect(0, 0, 16, 16))))
	created := createProfile(t, r, map[string]interface{}{
		"username":     "romeo",
		"name":         "Romeo",
		"primaryColor": "#FF0080",
		"avatarUrl":    "data:image/png;base64," + base64.StdEncoding.EncodeToString(avatar.Bytes()),
	})

	t.Run("Unpublished", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/api/profiles/romeo/qr", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	publish(t, r, created["id"].(string))

	t.Run("PNG", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/api/profiles/romeo/qr?size=300&logo=avatar", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

		img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, 300, img.Bounds().Dx())
	})

	t.Run("Size Clamped", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/api/profiles/romeo/qr?size=5000", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, maxQRSize, img.Bounds().Dx())
	})

	t.Run("Bad Size", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/api/profiles/romeo/qr?size=big", nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("SVG Uses Primary Color", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/api/profiles/romeo/qr?format=svg", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), `fill="#ff0080"`)
	})
}

func TestProfileQRCodeHandler_OversizedAvatar(t *testing.T) {
	env := setupTestHandler(t, false)
	r := setupTestRouter(env.h)

	var avatar bytes.Buffer
	require.NoError(t, png.Encode(&avatar, image.NewGray(image.Rect(0, 0, 4000, 4000))))
	created := createProfile(t, r, map[string]interface{}{
		"username":  "huge",
		"name":      "Huge",
		"avatarUrl": "data:image/png;base64," + base64.StdEncoding.EncodeToString(avatar.Bytes()),
	})
	publish(t, r, created["id"].(string))

	w := doRequest(r, http.MethodGet, "/api/profiles/huge/qr?logo=avatar", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
}

func TestShareURL(t *testing.T) {
	env := setupTestHandler(t, false)
	assert.Equal(t, "https://bio.example.com/share/romeo-abc123", env.h.shareURL("romeo-abc123"))
}
