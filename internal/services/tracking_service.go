package services

import (
	"context"
	"log"
	"net/url"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront-service/internal/config"
	"storefront-service/internal/models"
	"storefront-service/pkg/common"
)

type TrackingService struct {
	DB    *gorm.DB
	Links *LinkService
	Cfg   config.AffiliateConfig
	Now   func() time.Time
}

func NewTrackingService(db *gorm.DB, links *LinkService, cfg config.AffiliateConfig) *TrackingService {
	return &TrackingService{DB: db, Links: links, Cfg: cfg, Now: time.Now}
}

type TrackVisitDTO struct {
	Slug        string
	Destination string
	UserAgent   string
	ClientIP    string
	Referrer    string
}

type TrackResult struct {
	RedirectTo string
	Token      *AttributionToken
	// Recorded is true when a new click row was written.
	Recorded bool
}

// TrackVisit resolves a referral slug, records a deduplicated click and returns
// where to send the visitor. It never fails: broken or disabled links fall back
// to the default destination.
func (s *TrackingService) TrackVisit(ctx context.Context, data TrackVisitDTO) TrackResult {
	fallback := s.Cfg.DefaultDestination
	slug := strings.TrimSpace(data.Slug)
	if slug == "" {
		return TrackResult{RedirectTo: fallback}
	}

	link, err := s.Links.ResolveSlug(ctx, NormalizeSlug(slug))
	if err != nil {
		log.Printf("[tracking] resolve slug %q: %v", slug, err)
		return TrackResult{RedirectTo: fallback}
	}
	if link == nil || !link.Active {
		return TrackResult{RedirectTo: fallback}
	}

	recorded, err := s.recordClick(ctx, *link, data)
	if err != nil {
		log.Printf("[tracking] record click for link %s: %v", link.ID, err)
	}

	token := NewAttributionToken(*link, s.Cfg.CookieTTL, s.Now())
	return TrackResult{
		RedirectTo: SafeDestination(data.Destination, fallback),
		Token:      &token,
		Recorded:   recorded,
	}
}

func (s *TrackingService) recordClick(ctx context.Context, link models.AffiliateLink, data TrackVisitDTO) (bool, error) {
	click := models.AffiliateClick{
		AffiliateID: link.AffiliateID,
		LinkID:      link.ID,
		Campaign:    link.Campaign,
		Referrer:    truncate(strings.TrimSpace(data.Referrer), 1024),
		UAHash:      common.HashFingerprint(data.UserAgent),
		IPHash:      common.HashFingerprint(data.ClientIP),
	}

	res := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "affiliate_id"}, {Name: "ua_hash"}, {Name: "ip_hash"}},
		DoNothing: true,
	}).Create(&click)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SafeDestination accepts only same-site absolute paths so the tracker cannot
// be used as an open redirect.
func SafeDestination(dest, fallback string) string {
	dest = strings.TrimSpace(dest)
	if dest == "" || !strings.HasPrefix(dest, "/") || strings.HasPrefix(dest, "//") || strings.HasPrefix(dest, "/\\") {
		return fallback
	}
	u, err := url.Parse(dest)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return dest
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
