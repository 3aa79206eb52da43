package services

import (
	"context"
	"log/slog"
	"net"
	"net/url"
	"strings"

	"biolink/internal/models"

	"github.com/mssola/user_agent"
	"gorm.io/gorm"
)

type StatsService struct {
	db           *gorm.DB
	logger       *slog.Logger
	viewChannel  chan models.ProfileView
	geoIPService *GeoIPService
}

// CountEntry is one bucket of an aggregated view breakdown.
type CountEntry struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

type ViewStats struct {
	TotalViews int64        `json:"totalViews"`
	Countries  []CountEntry `json:"countries"`
	Browsers   []CountEntry `json:"browsers"`
	OS         []CountEntry `json:"os"`
	Devices    []CountEntry `json:"devices"`
	Referrers  []CountEntry `json:"referrers"`
}

func NewStatsService(db *gorm.DB, logger *slog.Logger, geoIPService *GeoIPService) *StatsService {
	return &StatsService{
		db:           db,
		logger:       logger,
		viewChannel:  make(chan models.ProfileView, 1000),
		geoIPService: geoIPService,
	}
}

// Start records queued views until ctx is cancelled, then flushes whatever
// is still queued before returning.
func (s *StatsService) Start(ctx context.Context) {
	s.logger.Info("Stats worker starting")
	// A write already dequeued finishes even if cancellation races it.
	writeCtx := context.WithoutCancel(ctx)
	for {
		select {
		case view := <-s.viewChannel:
			s.record(writeCtx, view)
		case <-ctx.Done():
			s.drain()
			s.logger.Info("Stats worker stopping")
			return
		}
	}
}

func (s *StatsService) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	for n := 0; ; n++ {
		select {
		case view := <-s.viewChannel:
			s.record(ctx, view)
		default:
			if n > 0 {
				s.logger.Info("Flushed pending profile views", "count", n)
			}
			return
		}
	}
}

func (s *StatsService) record(ctx context.Context, view models.ProfileView) {
	s.enrichViewData(&view)
	if err := s.db.WithContext(ctx).Create(&view).Error; err != nil {
		s.logger.Error("Failed to record profile view", "profile_id", view.ProfileID, "error", err)
	}
}

func (s *StatsService) RecordViewAsync(view models.ProfileView) {
	select {
	case s.viewChannel <- view:
	default:
		s.logger.Warn("Stats channel full, dropping view event", "profile_id", view.ProfileID)
	}
}

// Summary aggregates the recorded views of one profile.
func (s *StatsService) Summary(ctx context.Context, profileID string) (*ViewStats, error) {
	db := s.db.WithContext(ctx).
		Model(&models.ProfileView{}).
		Where("profile_id = ?", profileID).
		Session(&gorm.Session{})

	stats := &ViewStats{}
	if err := db.Count(&stats.TotalViews).Error; err != nil {
		return nil, err
	}

	breakdowns := []struct {
		column string
		dst    *[]CountEntry
	}{
		{"country", &stats.Countries},
		{"browser", &stats.Browsers},
		{"os", &stats.OS},
		{"device_type", &stats.Devices},
		{"referrer", &stats.Referrers},
	}
	for _, b := range breakdowns {
		entries := []CountEntry{}
		err := db.
			Select(b.column + " AS label, COUNT(*) AS count").
			Group(b.column).
			Order("count DESC").
			Order(b.column).
			Scan(&entries).Error
		if err != nil {
			return nil, err
		}
		*b.dst = entries
	}
	return stats, nil
}

func (s *StatsService) enrichViewData(view *models.ProfileView) {
	ua := user_agent.New(view.UserAgent)
	browserName, browserVer := ua.Browser()
	view.Browser = browserName + " " + browserVer
	view.OS = ua.OS()

	if ua.Mobile() {
		view.DeviceType = "Mobile"
	} else if ua.Bot() {
		view.DeviceType = "Bot"
	} else {
		view.DeviceType = "Desktop"
	}

	view.Referrer = referrerHost(view.Referrer)

	loc := s.geoIPService.GetLocation(view.IPAddress)
	view.Country = loc.Country
	view.Region = loc.Region
	view.City = loc.City

	// Only the masked address is persisted.
	view.IPAddress = maskIP(view.IPAddress)
}

// referrerHost reduces a Referer header to its host so stats group by site.
func referrerHost(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "Direct"
	}
	u, err := url.Parse(ref)
	if err != nil || u.Host == "" {
		return ref
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

func maskIP(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ip
	}
	if v4 := parsed.To4(); v4 != nil {
		return net.IPv4(v4[0], v4[1], v4[2], 0).String()
	}
	return parsed.Mask(net.CIDRMask(48, 128)).String()
}
