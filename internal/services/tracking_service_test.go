package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/models"
)

func countClicks(t *testing.T, svc *TrackingService) int64 {
	t.Helper()
	var n int64
	require.NoError(t, svc.DB.Model(&models.AffiliateClick{}).Count(&n).Error)
	return n
}

func TestTrackVisitDeduplicatesClicks(t *testing.T) {
	db := newTestDB(t)
	links := NewLinkService(db, nil)
	svc := NewTrackingService(db, links, testAffiliateConfig())
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return fixed }
	ctx := context.Background()

	owner := seedAffiliate(t, db, nil)
	link, err := links.CreateLink(ctx, owner.ID, CreateLinkDTO{Campaign: "launch", Slug: "promo"})
	require.NoError(t, err)

	visit := TrackVisitDTO{Slug: "promo", Destination: "/products/susu-1l", UserAgent: "Mozilla/5.0", ClientIP: "203.0.113.7", Referrer: "https://instagram.com"}

	first := svc.TrackVisit(ctx, visit)
	assert.True(t, first.Recorded)
	assert.Equal(t, "/products/susu-1l", first.RedirectTo)
	require.NotNil(t, first.Token)
	assert.Equal(t, owner.ID, first.Token.AffiliateID)
	assert.Equal(t, link.ID, first.Token.LinkID)
	assert.Equal(t, fixed.Add(30*24*time.Hour), first.Token.ExpiresAt)

	second := svc.TrackVisit(ctx, visit)
	assert.False(t, second.Recorded)
	require.NotNil(t, second.Token, "repeat visitors are still attributed")
	assert.Equal(t, int64(1), countClicks(t, svc))

	visit.UserAgent = "curl/8.0"
	third := svc.TrackVisit(ctx, visit)
	assert.True(t, third.Recorded)
	assert.Equal(t, int64(2), countClicks(t, svc))

	var click models.AffiliateClick
	require.NoError(t, db.Where("link_id = ?", link.ID).Order("created_at").First(&click).Error)
	assert.Equal(t, "launch", click.Campaign)
	assert.Len(t, click.UAHash, 64)
	assert.NotEqual(t, "Mozilla/5.0", click.UAHash)
}

func TestTrackVisitFallsBack(t *testing.T) {
	db := newTestDB(t)
	links := NewLinkService(db, nil)
	svc := NewTrackingService(db, links, testAffiliateConfig())
	ctx := context.Background()

	owner := seedAffiliate(t, db, nil)
	off := false
	_, err := links.CreateLink(ctx, owner.ID, CreateLinkDTO{Slug: "paused", Active: &off})
	require.NoError(t, err)

	tests := []struct {
		name string
		slug string
	}{
		{name: "empty slug", slug: "  "},
		{name: "unknown slug", slug: "nope"},
		{name: "inactive link", slug: "paused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := svc.TrackVisit(ctx, TrackVisitDTO{Slug: tt.slug, Destination: "/cart", UserAgent: "ua", ClientIP: "1.1.1.1"})
			assert.Equal(t, "/products", res.RedirectTo)
			assert.Nil(t, res.Token)
			assert.False(t, res.Recorded)
		})
	}
	assert.Equal(t, int64(0), countClicks(t, svc))
}

func TestTrackVisitRejectsExternalDestination(t *testing.T) {
	db := newTestDB(t)
	links := NewLinkService(db, nil)
	svc := NewTrackingService(db, links, testAffiliateConfig())
	ctx := context.Background()

	owner := seedAffiliate(t, db, nil)
	_, err := links.CreateLink(ctx, owner.ID, CreateLinkDTO{Slug: "promo"})
	require.NoError(t, err)

	res := svc.TrackVisit(ctx, TrackVisitDTO{Slug: "PROMO", Destination: "https://evil.example", UserAgent: "ua", ClientIP: "ip"})
	assert.Equal(t, "/products", res.RedirectTo)
	assert.NotNil(t, res.Token)
}

func TestSafeDestination(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: "/products"},
		{in: "/checkout", want: "/checkout"},
		{in: "/products?cat=milk", want: "/products?cat=milk"},
		{in: "//evil.example/path", want: "/products"},
		{in: "/\\evil.example", want: "/products"},
		{in: "https://evil.example", want: "/products"},
		{in: "javascript:alert(1)", want: "/products"},
		{in: "products", want: "/products"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeDestination(tt.in, "/products"))
		})
	}
}

func TestAttributionTokenValid(t *testing.T) {
	now := time.Now()
	link := models.AffiliateLink{ID: "link-1", AffiliateID: "aff-1"}

	token := NewAttributionToken(link, time.Hour, now)
	assert.True(t, token.Valid(now))
	assert.False(t, token.Valid(now.Add(2*time.Hour)))
	assert.True(t, AttributionToken{AffiliateID: "aff-1"}.Valid(now))
	assert.False(t, AttributionToken{}.Valid(now))
}
