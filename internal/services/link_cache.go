package services

import (
	"context"

	"storefront-service/internal/models"
)

// LinkCache caches slug lookups for the tracking redirect.
type LinkCache interface {
	Get(ctx context.Context, slug string) (*models.AffiliateLink, bool)
	Set(ctx context.Context, link models.AffiliateLink)
	Invalidate(ctx context.Context, slugs ...string)
}
