package handlers

import (
	"log/slog"

	"biolink/internal/config"
	"biolink/internal/services"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Handler struct {
	cfg            config.Config
	logger         *slog.Logger
	db             *gorm.DB
	rdb            *redis.Client
	profileService *services.ProfileService
	profileCache   *services.ProfileCache
	draftCache     *services.DraftCache
	mediaEncoder   *services.MediaEncoder
	statsService   *services.StatsService
	qrService      *services.QRService
	auditService   *services.AuditService
}

// Services groups the collaborators a Handler serves requests with.
type Services struct {
	Profiles *services.ProfileService
	Cache    *services.ProfileCache
	Drafts   *services.DraftCache
	Media    *services.MediaEncoder
	Stats    *services.StatsService
	QR       *services.QRService
	Audit    *services.AuditService
}

func NewHandler(cfg config.Config, logger *slog.Logger, db *gorm.DB, rdb *redis.Client, svc Services) *Handler {
	return &Handler{
		cfg:            cfg,
		logger:         logger,
		db:             db,
		rdb:            rdb,
		profileService: svc.Profiles,
		profileCache:   svc.Cache,
		draftCache:     svc.Drafts,
		mediaEncoder:   svc.Media,
		statsService:   svc.Stats,
		qrService:      svc.QR,
		auditService:   svc.Audit,
	}
}
