package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"biolink/internal/config"
	"biolink/internal/models"
	"biolink/internal/repository"
	"biolink/internal/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	h     *Handler
	db    *gorm.DB
	mr    *miniredis.Miniredis
	rdb   *redis.Client
	audit *services.AuditService
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, repository.AutoMigrate(db))
	return db
}

// setupTestHandler wires the handler against in-memory sqlite and miniredis.
// Pass withRedis=false to exercise the degraded, cache-less mode.
func setupTestHandler(t *testing.T, withRedis bool) *testEnv {
	db := setupTestDB(t)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	cfg := config.Config{
		SessionSecret: "test-secret-12345678901234567890123456789012",
		PublicBaseURL: "https://bio.example.com/",
	}

	env := &testEnv{db: db}
	if withRedis {
		env.mr = miniredis.RunT(t)
		env.rdb = redis.NewClient(&redis.Options{Addr: env.mr.Addr()})
		t.Cleanup(func() { env.rdb.Close() })
	}

	env.audit = services.NewAuditService(db, logger)
	geoIP := services.NewGeoIPService("", logger)
	stats := services.NewStatsService(db, logger, geoIP)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go env.audit.Start(ctx)
	go stats.Start(ctx)

	profiles := services.NewProfileService(db, env.audit, logger)
	cache := services.NewProfileCache(env.rdb, logger)
	drafts := services.NewDraftCache(env.rdb, logger, time.Hour)
	profiles.AddInvalidator(cache)
	profiles.AddInvalidator(drafts)

	env.h = NewHandler(cfg, logger, db, env.rdb, Services{
		Profiles: profiles,
		Cache:    cache,
		Drafts:   drafts,
		Media:    services.NewMediaEncoder(1 << 20),
		Stats:    stats,
		QR:       services.NewQRService(),
		Audit:    env.audit,
	})
	return env
}

func (e *testEnv) auditCount(profileID string) int64 {
	var n int64
	e.db.Model(&models.AuditLog{}).Where("profile_id = ?", profileID).Count(&n)
	return n
}

func setupTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return h.SetupRouter(nil)
}

func doRequest(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewBuffer(data)
	}

	req, _ := http.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func createProfile(t *testing.T, r http.Handler, body map[string]interface{}) map[string]interface{} {
	w := doRequest(r, http.MethodPost, "/api/profiles", body, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody(t, w)
}
