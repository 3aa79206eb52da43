package services

import (
	"context"
	"log/slog"
	"time"

	"biolink/internal/models"

	"gorm.io/gorm"
)

const (
	ActionProfileCreate  = "PROFILE_CREATE"
	ActionProfileUpdate  = "PROFILE_UPDATE"
	ActionProfileRename  = "PROFILE_RENAME"
	ActionProfilePublish = "PROFILE_PUBLISH"
)

// drainTimeout bounds the shutdown flush of a background writer.
const drainTimeout = 5 * time.Second

type AuditService struct {
	db      *gorm.DB
	logger  *slog.Logger
	entries chan models.AuditLog
}

func NewAuditService(db *gorm.DB, logger *slog.Logger) *AuditService {
	return &AuditService{
		db:      db,
		logger:  logger,
		entries: make(chan models.AuditLog, 100),
	}
}

// Start writes queued entries until ctx is cancelled, then flushes whatever
// is still queued before returning.
func (s *AuditService) Start(ctx context.Context) {
	s.logger.Info("Audit worker starting")
	// A write already dequeued finishes even if cancellation races it.
	writeCtx := context.WithoutCancel(ctx)
	for {
		select {
		case entry := <-s.entries:
			s.write(writeCtx, entry)
		case <-ctx.Done():
			s.drain()
			s.logger.Info("Audit worker stopping")
			return
		}
	}
}

func (s *AuditService) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	for n := 0; ; n++ {
		select {
		case entry := <-s.entries:
			s.write(ctx, entry)
		default:
			if n > 0 {
				s.logger.Info("Flushed pending audit entries", "count", n)
			}
			return
		}
	}
}

func (s *AuditService) write(ctx context.Context, entry models.AuditLog) {
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		s.logger.Error("Failed to write audit log", "action", entry.Action, "error", err)
	}
}

// LogAction queues an entry without blocking; it is dropped when the queue is full.
func (s *AuditService) LogAction(userID *string, action, profileID string, details map[string]interface{}, ip string) {
	if s == nil {
		return
	}

	entry := models.AuditLog{
		ProfileID: profileID,
		UserID:    userID,
		Action:    action,
		Details:   details,
		IPAddress: ip,
	}

	select {
	case s.entries <- entry:
	default:
		s.logger.Warn("Audit channel full, dropping log", "action", action)
	}
}

// History returns the newest entries for a profile, at most limit of them.
func (s *AuditService) History(ctx context.Context, profileID string, limit int) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := s.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
