package services

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront-service/internal/config"
	"storefront-service/internal/models"
	"storefront-service/pkg/common"
)

const (
	SkipStatusNotEligible = "status_not_eligible"
	SkipAlreadyCalculated = "already_calculated"
)

type CommissionService struct {
	DB          *gorm.DB
	DefaultRate float64
	Now         func() time.Time
}

func NewCommissionService(db *gorm.DB, cfg config.AffiliateConfig) *CommissionService {
	return &CommissionService{DB: db, DefaultRate: cfg.DefaultCommissionRate, Now: time.Now}
}

type CommissionResult struct {
	OrderID          string  `json:"order_id"`
	Skipped          bool    `json:"skipped"`
	Reason           string  `json:"reason,omitempty"`
	CommissionRate   float64 `json:"commission_rate"`
	CommissionAmount float64 `json:"commission_amount"`
	TotalUnits       int     `json:"total_units"`
}

// CommissionAmount returns rate * units rounded half-up to 2 decimal places.
func CommissionAmount(rate float64, units int) float64 {
	return decimal.NewFromFloat(rate).Mul(decimal.NewFromInt(int64(units))).Round(2).InexactFloat64()
}

// CalculateCommission stamps the order's commission exactly once.
// Ineligible or already stamped orders are reported as skipped, not as errors.
func (s *CommissionService) CalculateCommission(ctx context.Context, orderID string) (*CommissionResult, error) {
	var order models.Order
	if err := s.DB.WithContext(ctx).Preload("Items").Where("id = ?", orderID).First(&order).Error; err != nil {
		return nil, lookupError("Order not found", err)
	}

	if !contains(models.CommissionEligibleStatuses, order.Status) {
		return &CommissionResult{OrderID: order.ID, Skipped: true, Reason: SkipStatusNotEligible}, nil
	}
	if order.CommissionCalculatedAt != nil {
		return &CommissionResult{
			OrderID:          order.ID,
			Skipped:          true,
			Reason:           SkipAlreadyCalculated,
			CommissionRate:   order.CommissionRate,
			CommissionAmount: order.CommissionAmount,
		}, nil
	}

	units := 0
	for _, item := range order.Items {
		units += item.Quantity
	}

	rate := 0.0
	if order.AffiliateID != nil && *order.AffiliateID != "" {
		var affiliate models.Affiliate
		if err := s.DB.WithContext(ctx).Where("id = ?", *order.AffiliateID).First(&affiliate).Error; err != nil {
			return nil, lookupError("Affiliate not found", err)
		}
		rate = affiliate.CommissionRate
		if rate <= 0 {
			rate = s.DefaultRate
		}
	}
	amount := CommissionAmount(rate, units)

	res := s.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND commission_calculated_at IS NULL", order.ID).
		Updates(map[string]interface{}{
			"commission_rate":          rate,
			"commission_amount":        amount,
			"commission_calculated_at": s.Now(),
		})
	if res.Error != nil {
		log.Printf("[commission] order %s: failed to persist commission %.2f: %v", order.ID, amount, res.Error)
		return nil, common.ErrDependency("Failed to save commission", res.Error)
	}
	if res.RowsAffected == 0 {
		// another caller stamped it between the read and the update
		return &CommissionResult{OrderID: order.ID, Skipped: true, Reason: SkipAlreadyCalculated}, nil
	}

	return &CommissionResult{
		OrderID:          order.ID,
		CommissionRate:   rate,
		CommissionAmount: amount,
		TotalUnits:       units,
	}, nil
}
