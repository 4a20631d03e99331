package models

import (
	"time"
)

const (
	AffiliateStatusActive   = "active"
	AffiliateStatusInactive = "inactive"

	VisibilityBasic    = "basic"
	VisibilityEnhanced = "enhanced"
)

type Affiliate struct {
	ID                  string    `gorm:"primaryKey;size:36" json:"id"`
	UserID              string    `gorm:"column:user_id;size:36;not null;uniqueIndex" json:"user_id"`
	ReferralCode        string    `gorm:"column:referral_code;size:32;not null;uniqueIndex" json:"referral_code"`
	Name                string    `gorm:"column:name;size:255;not null" json:"name"`
	Email               string    `gorm:"column:email;size:255;not null" json:"email"`
	Status              string    `gorm:"column:status;size:20;not null;default:active;index" json:"status"`
	VisibilityLevel     string    `gorm:"column:visibility_level;size:20;not null;default:basic" json:"visibility_level"`
	CommissionRate      float64   `gorm:"column:commission_rate;type:decimal(20,2);default:0.00" json:"commission_rate"` // nominal amount per carton
	TotalPaidCommission float64   `gorm:"column:total_paid_commission;type:decimal(20,2);default:0.00" json:"total_paid_commission"`
	MinimumWithdrawal   float64   `gorm:"column:minimum_withdrawal;type:decimal(20,2);default:0.00" json:"minimum_withdrawal"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Affiliate) TableName() string {
	return "affiliates"
}

func (a Affiliate) IsActive() bool {
	return a.Status == AffiliateStatusActive
}
