package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/api/profiles/:username", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, name := range []string{"alice", "bob"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/profiles/"+name, nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	matched := requestTotal.With(prometheus.Labels{"method": "GET", "path": "/api/profiles/:username", "status": "200"})
	assert.Equal(t, float64(2), testutil.ToFloat64(matched))

	unmatched := requestTotal.With(prometheus.Labels{"method": "GET", "path": "unmatched", "status": "404"})
	assert.Equal(t, float64(1), testutil.ToFloat64(unmatched))
	assert.Equal(t, float64(0), testutil.ToFloat64(requestsInFlight))
}
