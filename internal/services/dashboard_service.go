package services

import (
	"context"

	"gorm.io/gorm"

	"storefront-service/internal/models"
	"storefront-service/pkg/common"
)

type DashboardService struct {
	DB *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{DB: db}
}

type AffiliateDashboard struct {
	Affiliate        models.Affiliate `json:"affiliate"`
	Links            int64            `json:"links"`
	ActiveLinks      int64            `json:"active_links"`
	Clicks           int64            `json:"clicks"`
	AttributedOrders int64            `json:"attributed_orders"`
	Balance          AffiliateBalance `json:"balance"`
	RecentOrders     []models.Order   `json:"recent_orders,omitempty"`
}

const recentOrdersLimit = 10

// AffiliateDashboard summarises an affiliate's links, clicks, orders and balance.
// Recent orders are only included at enhanced visibility.
func (s *DashboardService) AffiliateDashboard(ctx context.Context, affiliateID string) (*AffiliateDashboard, error) {
	var affiliate models.Affiliate
	if err := s.DB.WithContext(ctx).Where("id = ?", affiliateID).First(&affiliate).Error; err != nil {
		return nil, lookupError("Affiliate not found", err)
	}

	out := &AffiliateDashboard{Affiliate: affiliate}
	db := s.DB.WithContext(ctx)

	if err := db.Model(&models.AffiliateLink{}).Where("affiliate_id = ?", affiliateID).Count(&out.Links).Error; err != nil {
		return nil, common.ErrDependency("Failed to count links", err)
	}
	if err := db.Model(&models.AffiliateLink{}).Where("affiliate_id = ? AND active = ?", affiliateID, true).Count(&out.ActiveLinks).Error; err != nil {
		return nil, common.ErrDependency("Failed to count links", err)
	}
	if err := db.Model(&models.AffiliateClick{}).Where("affiliate_id = ?", affiliateID).Count(&out.Clicks).Error; err != nil {
		return nil, common.ErrDependency("Failed to count clicks", err)
	}
	if err := db.Model(&models.Order{}).Where("affiliate_id = ?", affiliateID).Count(&out.AttributedOrders).Error; err != nil {
		return nil, common.ErrDependency("Failed to count orders", err)
	}

	balance, err := computeBalance(ctx, s.DB, affiliate)
	if err != nil {
		return nil, err
	}
	out.Balance = *balance

	if affiliate.VisibilityLevel == models.VisibilityEnhanced {
		if err := db.Preload("Items").Where("affiliate_id = ?", affiliateID).
			Order("created_at DESC").Limit(recentOrdersLimit).
			Find(&out.RecentOrders).Error; err != nil {
			return nil, common.ErrDependency("Failed to load recent orders", err)
		}
	}
	return out, nil
}
