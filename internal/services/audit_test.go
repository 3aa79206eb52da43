package services

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"biolink/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestAuditService(t *testing.T) {
	db := setupTestDB()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	service := NewAuditService(db, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go service.Start(ctx)

	t.Run("Log Action", func(t *testing.T) {
		userID := "user-1"
		service.LogAction(&userID, "TEST_ACTION", "profile-1", map[string]interface{}{"foo": "bar"}, "127.0.0.1")

		assert.Eventually(t, func() bool {
			var count int64
			db.Model(&models.AuditLog{}).Where("action = ?", "TEST_ACTION").Count(&count)
			return count == 1
		}, time.Second, 10*time.Millisecond)

		var log models.AuditLog
		err := db.Where("action = ?", "TEST_ACTION").First(&log).Error
		assert.NoError(t, err)
		assert.Equal(t, "profile-1", log.ProfileID)
		assert.Equal(t, "user-1", *log.UserID)
		assert.Equal(t, "bar", log.Details["foo"])
	})

	t.Run("History", func(t *testing.T) {
		service.LogAction(nil, ActionProfileCreate, "profile-2", nil, "")
		service.LogAction(nil, ActionProfilePublish, "profile-2", map[string]interface{}{"share_slug": "abc"}, "")

		var entries []models.AuditLog
		assert.Eventually(t, func() bool {
			var err error
			entries, err = service.History(context.Background(), "profile-2", 10)
			return err == nil && len(entries) == 2
		}, time.Second, 10*time.Millisecond)

		actions := []string{entries[0].Action, entries[1].Action}
		assert.ElementsMatch(t, []string{ActionProfileCreate, ActionProfilePublish}, actions)

		limited, err := service.History(context.Background(), "profile-2", 1)
		assert.NoError(t, err)
		assert.Len(t, limited, 1)
	})

	t.Run("Channel Full", func(t *testing.T) {
		service := NewAuditService(db, logger)
		// Fill channel
		for i := 0; i < 100; i++ {
			service.LogAction(nil, "ACTION", "ID", nil, "IP")
		}
		// Should drop
		service.LogAction(nil, "DROP", "ID", nil, "IP")
		assert.Len(t, service.entries, 100)
	})

	t.Run("Nil Service", func(t *testing.T) {
		var nilService *AuditService
		assert.NotPanics(t, func() {
			nilService.LogAction(nil, "ACTION", "ID", nil, "IP")
		})
	})

	t.Run("DB Error", func(t *testing.T) {
		dbErr := setupTestDB()
		dbErr.Migrator().DropTable(&models.AuditLog{})
		serviceErr := NewAuditService(dbErr, logger)

		ctxErr, cancelErr := context.WithCancel(context.Background())
		go serviceErr.Start(ctxErr)

		serviceErr.LogAction(nil, "ERROR", "ID", nil, "IP")
		time.Sleep(100 * time.Millisecond)
		cancelErr()
	})
}

func TestAuditService_FlushesOnShutdown(t *testing.T) {
	db := setupTestDB()
	service := NewAuditService(db, slog.Default())
	for i := 0; i < 5; i++ {
		service.LogAction(nil, "QUEUED", "profile-q", nil, "")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	service.Start(ctx)

	var count int64
	db.Model(&models.AuditLog{}).Where("action = ?", "QUEUED").Count(&count)
	assert.Equal(t, int64(5), count)
	assert.Empty(t, service.entries)
}
