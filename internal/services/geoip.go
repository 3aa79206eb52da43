package services

import (
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/oschwald/geoip2-golang"
)

type geoIPReader interface {
	City(ip net.IP) (*geoip2.City, error)
	Close() error
}

// GeoIPService resolves view locations from a local GeoLite2 City database.
// Without a database every lookup reports "Unknown".
type GeoIPService struct {
	dbPath    string
	logger    *slog.Logger
	geoReader geoIPReader
	geoLock   sync.RWMutex
}

func NewGeoIPService(dbPath string, logger *slog.Logger) *GeoIPService {
	return &GeoIPService{
		dbPath: dbPath,
		logger: logger,
	}
}

func (s *GeoIPService) Init() {
	if s.dbPath == "" {
		s.logger.Warn("GeoIP: no database path configured, lookups disabled")
		return
	}
	if _, err := os.Stat(s.dbPath); err != nil {
		s.logger.Warn("GeoIP: database not found, lookups disabled", "path", s.dbPath)
		return
	}

	reader, err := geoip2.Open(s.dbPath)
	if err != nil {
		s.logger.Error("GeoIP: Failed to open database", "path", s.dbPath, "error", err)
		return
	}
	s.setReader(reader)
	s.logger.Info("GeoIP: Loaded database", "path", s.dbPath, "epoch", reader.Metadata().BuildEpoch)
}

func (s *GeoIPService) setReader(reader geoIPReader) {
	s.geoLock.Lock()
	defer s.geoLock.Unlock()

	if s.geoReader != nil {
		s.geoReader.Close()
	}
	s.geoReader = reader
}

func (s *GeoIPService) Close() {
	s.setReader(nil)
}

// Location is where a visitor's address resolved to. Country is never empty.
type Location struct {
	Country string
	Region  string
	City    string
}

var (
	locationUnknown = Location{Country: "Unknown"}
	locationLocal   = Location{Country: "Localhost", Region: "Local", City: "Local"}
	locationPrivate = Location{Country: "Private Network"}
)

func (s *GeoIPService) GetLocation(ipStr string) Location {
	ip := net.ParseIP(ipStr)
	switch {
	case ip == nil:
		return Location{Country: "Invalid IP"}
	case ip.IsLoopback():
		return locationLocal
	case ip.IsPrivate(), ip.IsLinkLocalUnicast():
		return locationPrivate
	}

	s.geoLock.RLock()
	reader := s.geoReader
	s.geoLock.RUnlock()
	if reader == nil {
		return locationUnknown
	}

	record, err := reader.City(ip)
	if err != nil {
		s.logger.Error("GeoIP: Lookup error", "error", err)
		return Location{Country: "Error"}
	}

	loc := Location{
		Country: englishName(record.Country.Names, record.Country.IsoCode),
		City:    englishName(record.City.Names, ""),
	}
	if len(record.Subdivisions) > 0 {
		sub := record.Subdivisions[0]
		loc.Region = englishName(sub.Names, sub.IsoCode)
	}
	if loc.Country == "" {
		loc.Country = locationUnknown.Country
	}
	return loc
}

func englishName(names map[string]string, fallback string) string {
	if name, ok := names["en"]; ok && name != "" {
		return name
	}
	return fallback
}
