package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"storefront-service/internal/models"
	"storefront-service/pkg/common"
)

const MaxSlugLength = 64

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\-\s]`)
	slugWhitespace   = regexp.MustCompile(`\s+`)
	slugHyphens      = regexp.MustCompile(`-+`)
)

// NormalizeSlug lower-cases raw, keeps [a-z0-9-] and whitespace, turns whitespace
// runs into single hyphens, collapses repeated hyphens, truncates to 64 characters
// and trims hyphens from both ends.
func NormalizeSlug(raw string) string {
	s := strings.ToLower(raw)
	s = slugInvalidChars.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	if len(s) > MaxSlugLength {
		s = s[:MaxSlugLength]
	}
	return strings.Trim(s, "-")
}

type LinkService struct {
	DB    *gorm.DB
	Cache LinkCache
}

func NewLinkService(db *gorm.DB, cache LinkCache) *LinkService {
	return &LinkService{DB: db, Cache: cache}
}

type CreateLinkDTO struct {
	Campaign string `json:"campaign" validate:"max=255"`
	Slug     string `json:"url_slug"`
	Active   *bool  `json:"active"`
}

type UpdateLinkDTO struct {
	Campaign *string `json:"campaign" validate:"omitempty,max=255"`
	Slug     *string `json:"url_slug"`
	Active   *bool   `json:"active"`
}

type LinkWithStats struct {
	models.AffiliateLink
	Clicks int64 `json:"clicks"`
}

func (s *LinkService) CreateLink(ctx context.Context, affiliateID string, data CreateLinkDTO) (*models.AffiliateLink, error) {
	if _, err := loadActiveAffiliate(ctx, s.DB, affiliateID); err != nil {
		return nil, err
	}
	if err := validate.Struct(data); err != nil {
		return nil, validationError(err)
	}

	slug, err := validSlug(data.Slug)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlugAvailable(ctx, slug, ""); err != nil {
		return nil, err
	}

	link := models.AffiliateLink{
		AffiliateID: affiliateID,
		Campaign:    strings.TrimSpace(data.Campaign),
		URLSlug:     slug,
		Active:      true,
	}
	if data.Active != nil {
		link.Active = *data.Active
	}

	if err := s.DB.WithContext(ctx).Create(&link).Error; err != nil {
		return nil, writeError("Slug is already in use", "Failed to create link", err)
	}
	return &link, nil
}

func (s *LinkService) UpdateLink(ctx context.Context, linkID, affiliateID string, data UpdateLinkDTO) (*models.AffiliateLink, error) {
	if _, err := loadActiveAffiliate(ctx, s.DB, affiliateID); err != nil {
		return nil, err
	}
	if err := validate.Struct(data); err != nil {
		return nil, validationError(err)
	}

	link, err := s.findOwned(ctx, linkID, affiliateID)
	if err != nil {
		return nil, err
	}
	previousSlug := link.URLSlug

	updates := map[string]interface{}{}
	if data.Slug != nil {
		slug, err := validSlug(*data.Slug)
		if err != nil {
			return nil, err
		}
		if slug != link.URLSlug {
			if err := s.ensureSlugAvailable(ctx, slug, link.ID); err != nil {
				return nil, err
			}
		}
		updates["url_slug"] = slug
	}
	if data.Campaign != nil {
		updates["campaign"] = strings.TrimSpace(*data.Campaign)
	}
	if data.Active != nil {
		updates["active"] = *data.Active
	}
	if len(updates) == 0 {
		return link, nil
	}

	if err := s.DB.WithContext(ctx).Model(&models.AffiliateLink{}).
		Where("id = ? AND affiliate_id = ?", linkID, affiliateID).
		Updates(updates).Error; err != nil {
		return nil, writeError("Slug is already in use", "Failed to update link", err)
	}

	updated, err := s.findOwned(ctx, linkID, affiliateID)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, previousSlug, updated.URLSlug)
	return updated, nil
}

func (s *LinkService) DeleteLink(ctx context.Context, linkID, affiliateID string) error {
	if _, err := loadActiveAffiliate(ctx, s.DB, affiliateID); err != nil {
		return err
	}

	link, err := s.findOwned(ctx, linkID, affiliateID)
	if err != nil {
		return err
	}

	res := s.DB.WithContext(ctx).
		Where("id = ? AND affiliate_id = ?", linkID, affiliateID).
		Delete(&models.AffiliateLink{})
	if res.Error != nil {
		return common.ErrDependency("Failed to delete link", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound("Link not found")
	}
	s.invalidate(ctx, link.URLSlug)
	return nil
}

// ListLinks returns the affiliate's links, newest first, with deduplicated click counts.
func (s *LinkService) ListLinks(ctx context.Context, affiliateID string) ([]LinkWithStats, error) {
	var links []models.AffiliateLink
	if err := s.DB.WithContext(ctx).Where("affiliate_id = ?", affiliateID).
		Order("created_at DESC").Find(&links).Error; err != nil {
		return nil, common.ErrDependency("Failed to list links", err)
	}

	var counts []struct {
		LinkID string
		Clicks int64
	}
	if err := s.DB.WithContext(ctx).Model(&models.AffiliateClick{}).
		Select("link_id, COUNT(*) AS clicks").
		Where("affiliate_id = ?", affiliateID).
		Group("link_id").
		Scan(&counts).Error; err != nil {
		return nil, common.ErrDependency("Failed to count clicks", err)
	}
	byLink := make(map[string]int64, len(counts))
	for _, c := range counts {
		byLink[c.LinkID] = c.Clicks
	}

	out := make([]LinkWithStats, 0, len(links))
	for _, l := range links {
		out = append(out, LinkWithStats{AffiliateLink: l, Clicks: byLink[l.ID]})
	}
	return out, nil
}

// ResolveSlug returns the link for slug, or nil when none exists.
func (s *LinkService) ResolveSlug(ctx context.Context, slug string) (*models.AffiliateLink, error) {
	if s.Cache != nil {
		if link, ok := s.Cache.Get(ctx, slug); ok {
			return link, nil
		}
	}

	var link models.AffiliateLink
	err := s.DB.WithContext(ctx).Where("url_slug = ?", slug).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		s.Cache.Set(ctx, link)
	}
	return &link, nil
}

func (s *LinkService) findOwned(ctx context.Context, linkID, affiliateID string) (*models.AffiliateLink, error) {
	var link models.AffiliateLink
	if err := s.DB.WithContext(ctx).
		Where("id = ? AND affiliate_id = ?", linkID, affiliateID).
		First(&link).Error; err != nil {
		return nil, lookupError("Link not found", err)
	}
	return &link, nil
}

func (s *LinkService) ensureSlugAvailable(ctx context.Context, slug, excludeID string) error {
	query := s.DB.WithContext(ctx).Model(&models.AffiliateLink{}).Where("url_slug = ?", slug)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return common.ErrDependency("Failed to check slug availability", err)
	}
	if count > 0 {
		return common.ErrConflict("Slug is already in use")
	}
	return nil
}

func (s *LinkService) invalidate(ctx context.Context, slugs ...string) {
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, slugs...)
	}
}

func validSlug(raw string) (string, error) {
	slug := NormalizeSlug(raw)
	if slug == "" {
		return "", common.ErrValidation("Slug must contain letters, digits or hyphens")
	}
	return slug, nil
}
