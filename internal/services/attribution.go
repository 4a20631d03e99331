package services

import (
	"time"

	"storefront-service/internal/models"
)

// AttributionToken carries the affiliate a visitor arrived through.
// It is issued by the click tracker and handed explicitly to order creation.
type AttributionToken struct {
	AffiliateID string
	LinkID      string
	ExpiresAt   time.Time
}

func NewAttributionToken(link models.AffiliateLink, ttl time.Duration, now time.Time) AttributionToken {
	return AttributionToken{
		AffiliateID: link.AffiliateID,
		LinkID:      link.ID,
		ExpiresAt:   now.Add(ttl),
	}
}

// Valid reports whether the token names an affiliate and has not expired.
// A zero ExpiresAt means the expiry is enforced elsewhere (e.g. by the cookie Max-Age).
func (t AttributionToken) Valid(now time.Time) bool {
	if t.AffiliateID == "" {
		return false
	}
	return t.ExpiresAt.IsZero() || now.Before(t.ExpiresAt)
}
