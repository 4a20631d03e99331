package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/models"
	"storefront-service/pkg/common"
)

func TestCreateAffiliate(t *testing.T) {
	db := newTestDB(t)
	svc := NewAffiliateService(db)
	ctx := context.Background()

	customer := seedUser(t, db, "ayu@example.com", models.RoleCustomer)
	admin := seedUser(t, db, "boss@example.com", models.RoleAdmin)

	affiliate, err := svc.CreateAffiliate(ctx, CreateAffiliateDTO{Email: " AYU@example.com ", CommissionRate: 12000})
	require.NoError(t, err)
	assert.Equal(t, customer.ID, affiliate.UserID)
	assert.Equal(t, customer.FullName, affiliate.Name)
	assert.Equal(t, models.AffiliateStatusActive, affiliate.Status)
	assert.Equal(t, models.VisibilityBasic, affiliate.VisibilityLevel)
	assert.Len(t, affiliate.ReferralCode, 8)
	assert.Equal(t, 12000.0, affiliate.CommissionRate)

	var promoted models.User
	require.NoError(t, db.First(&promoted, "id = ?", customer.ID).Error)
	assert.Equal(t, models.RoleAffiliate, promoted.Role)

	_, err = svc.CreateAffiliate(ctx, CreateAffiliateDTO{Email: "ayu@example.com"})
	assert.True(t, common.IsKind(err, common.KindConflict), "got %v", err)

	_, err = svc.CreateAffiliate(ctx, CreateAffiliateDTO{Email: "ghost@example.com"})
	assert.True(t, common.IsKind(err, common.KindNotFound), "got %v", err)

	_, err = svc.CreateAffiliate(ctx, CreateAffiliateDTO{Email: "not-an-email"})
	assert.True(t, common.IsKind(err, common.KindValidation), "got %v", err)

	_, err = svc.CreateAffiliate(ctx, CreateAffiliateDTO{Email: "boss@example.com", VisibilityLevel: models.VisibilityEnhanced})
	require.NoError(t, err)
	var stillAdmin models.User
	require.NoError(t, db.First(&stillAdmin, "id = ?", admin.ID).Error)
	assert.Equal(t, models.RoleAdmin, stillAdmin.Role)
}

func TestUpdateAffiliate(t *testing.T) {
	db := newTestDB(t)
	svc := NewAffiliateService(db)
	ctx := context.Background()

	affiliate := seedAffiliate(t, db, nil)

	status := models.AffiliateStatusInactive
	rate := 9500.0
	updated, err := svc.UpdateAffiliate(ctx, affiliate.ID, UpdateAffiliateDTO{Status: &status, CommissionRate: &rate})
	require.NoError(t, err)
	assert.Equal(t, models.AffiliateStatusInactive, updated.Status)
	assert.Equal(t, 9500.0, updated.CommissionRate)

	bogus := "suspended"
	_, err = svc.UpdateAffiliate(ctx, affiliate.ID, UpdateAffiliateDTO{Status: &bogus})
	assert.True(t, common.IsKind(err, common.KindValidation), "got %v", err)

	_, err = svc.UpdateAffiliate(ctx, "missing", UpdateAffiliateDTO{Status: &status})
	assert.True(t, common.IsKind(err, common.KindNotFound), "got %v", err)
}

func TestListAffiliates(t *testing.T) {
	db := newTestDB(t)
	svc := NewAffiliateService(db)
	ctx := context.Background()

	seedAffiliate(t, db, func(a *models.Affiliate) { a.Name = "Rina Dairy" })
	seedAffiliate(t, db, func(a *models.Affiliate) { a.Name = "Budi Farm" })
	seedAffiliate(t, db, func(a *models.Affiliate) {
		a.Name = "Rina Snacks"
		a.Status = models.AffiliateStatusInactive
	})

	all, err := svc.ListAffiliates(ctx, ListAffiliatesDTO{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Count)

	rina, err := svc.ListAffiliates(ctx, ListAffiliatesDTO{Search: "rina"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), rina.Count)

	activeRina, err := svc.ListAffiliates(ctx, ListAffiliatesDTO{Search: "rina", Status: models.AffiliateStatusActive})
	require.NoError(t, err)
	assert.Equal(t, int64(1), activeRina.Count)
}
