package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"storefront-service/internal/models"
	"storefront-service/pkg/common"
)

type AffiliateService struct {
	DB *gorm.DB
}

func NewAffiliateService(db *gorm.DB) *AffiliateService {
	return &AffiliateService{DB: db}
}

type CreateAffiliateDTO struct {
	Email             string  `json:"email" validate:"required,email"`
	Name              string  `json:"name" validate:"max=255"`
	VisibilityLevel   string  `json:"visibility_level" validate:"omitempty,oneof=basic enhanced"`
	CommissionRate    float64 `json:"commission_rate" validate:"gte=0"`
	MinimumWithdrawal float64 `json:"minimum_withdrawal" validate:"gte=0"`
}

type UpdateAffiliateDTO struct {
	Name              *string  `json:"name" validate:"omitempty,max=255"`
	Status            *string  `json:"status" validate:"omitempty,oneof=active inactive"`
	VisibilityLevel   *string  `json:"visibility_level" validate:"omitempty,oneof=basic enhanced"`
	CommissionRate    *float64 `json:"commission_rate" validate:"omitempty,gte=0"`
	MinimumWithdrawal *float64 `json:"minimum_withdrawal" validate:"omitempty,gte=0"`
}

type ListAffiliatesDTO struct {
	Status string
	Search string
	Page   int
	Limit  int
}

const maxReferralCodeAttempts = 5

// CreateAffiliate enrols an existing user as an affiliate and promotes their
// role, leaving admins as admins.
func (s *AffiliateService) CreateAffiliate(ctx context.Context, data CreateAffiliateDTO) (*models.Affiliate, error) {
	data.Email = strings.ToLower(strings.TrimSpace(data.Email))
	if err := validate.Struct(data); err != nil {
		return nil, validationError(err)
	}

	var affiliate models.Affiliate
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("LOWER(email) = ?", data.Email).First(&user).Error; err != nil {
			return lookupError("No user with that email", err)
		}

		var existing int64
		if err := tx.Model(&models.Affiliate{}).Where("user_id = ?", user.ID).Count(&existing).Error; err != nil {
			return common.ErrDependency("Failed to check affiliate", err)
		}
		if existing > 0 {
			return common.ErrConflict("User is already an affiliate")
		}

		code, err := uniqueReferralCode(tx)
		if err != nil {
			return err
		}

		name := strings.TrimSpace(data.Name)
		if name == "" {
			name = user.FullName
		}
		visibility := data.VisibilityLevel
		if visibility == "" {
			visibility = models.VisibilityBasic
		}

		affiliate = models.Affiliate{
			UserID:            user.ID,
			ReferralCode:      code,
			Name:              name,
			Email:             user.Email,
			Status:            models.AffiliateStatusActive,
			VisibilityLevel:   visibility,
			CommissionRate:    roundMoney(data.CommissionRate),
			MinimumWithdrawal: roundMoney(data.MinimumWithdrawal),
		}
		if err := tx.Create(&affiliate).Error; err != nil {
			return writeError("User is already an affiliate", "Failed to create affiliate", err)
		}

		if user.Role != models.RoleAdmin {
			if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
				Update("role", models.RoleAffiliate).Error; err != nil {
				return common.ErrDependency("Failed to update user role", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &affiliate, nil
}

func uniqueReferralCode(tx *gorm.DB) (string, error) {
	for i := 0; i < maxReferralCodeAttempts; i++ {
		code := common.GenerateReferralCode()
		var count int64
		if err := tx.Model(&models.Affiliate{}).Where("referral_code = ?", code).Count(&count).Error; err != nil {
			return "", common.ErrDependency("Failed to check referral code", err)
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", common.ErrDependency("Failed to generate a unique referral code", errors.New("too many collisions"))
}

func (s *AffiliateService) UpdateAffiliate(ctx context.Context, affiliateID string, data UpdateAffiliateDTO) (*models.Affiliate, error) {
	if err := validate.Struct(data); err != nil {
		return nil, validationError(err)
	}

	updates := map[string]interface{}{}
	if data.Name != nil {
		updates["name"] = strings.TrimSpace(*data.Name)
	}
	if data.Status != nil {
		updates["status"] = *data.Status
	}
	if data.VisibilityLevel != nil {
		updates["visibility_level"] = *data.VisibilityLevel
	}
	if data.CommissionRate != nil {
		updates["commission_rate"] = roundMoney(*data.CommissionRate)
	}
	if data.MinimumWithdrawal != nil {
		updates["minimum_withdrawal"] = roundMoney(*data.MinimumWithdrawal)
	}

	var affiliate models.Affiliate
	if err := s.DB.WithContext(ctx).Where("id = ?", affiliateID).First(&affiliate).Error; err != nil {
		return nil, lookupError("Affiliate not found", err)
	}
	if len(updates) == 0 {
		return &affiliate, nil
	}

	if err := s.DB.WithContext(ctx).Model(&affiliate).Updates(updates).Error; err != nil {
		return nil, common.ErrDependency("Failed to update affiliate", err)
	}
	if err := s.DB.WithContext(ctx).Where("id = ?", affiliateID).First(&affiliate).Error; err != nil {
		return nil, lookupError("Affiliate not found", err)
	}
	return &affiliate, nil
}

func (s *AffiliateService) ListAffiliates(ctx context.Context, data ListAffiliatesDTO) (common.PaginationResult, error) {
	page, limit, offset := common.NormalizePage(data.Page, data.Limit, 20)

	query := s.DB.WithContext(ctx).Model(&models.Affiliate{})
	if data.Status != "" {
		query = query.Where("status = ?", data.Status)
	}
	if search := strings.TrimSpace(data.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(referral_code) LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return common.PaginationResult{}, common.ErrDependency("Failed to count affiliates", err)
	}

	var affiliates []models.Affiliate
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&affiliates).Error; err != nil {
		return common.PaginationResult{}, common.ErrDependency("Failed to list affiliates", err)
	}
	return common.PaginateResponse(affiliates, total, page, limit, ""), nil
}
