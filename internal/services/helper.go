package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront-service/internal/models"
	"storefront-service/pkg/common"
)

var validate = validator.New()

// Actor is the authenticated caller, resolved once per request.
type Actor struct {
	UserID          string
	Email           string
	Role            string
	AffiliateID     string
	AffiliateStatus string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

func (a Actor) IsActiveAffiliate() bool {
	return a.AffiliateID != "" && a.AffiliateStatus == models.AffiliateStatusActive
}

// validationError flattens validator output into a single readable message.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return common.ErrValidation(err.Error())
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
		}
	}
	return common.ErrValidation(strings.Join(parts, "; "))
}

// lookupError maps a failed single-row read to NotFound or DependencyFailure.
func lookupError(notFoundMessage string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.ErrNotFound(notFoundMessage)
	}
	return common.ErrDependency("Database request failed", err)
}

// writeError maps a failed write to Conflict on unique violations, DependencyFailure otherwise.
func writeError(conflictMessage, failureMessage string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return common.ErrConflict(conflictMessage)
	}
	return common.ErrDependency(failureMessage, err)
}

// loadActiveAffiliate returns the affiliate or Forbidden when it is missing or inactive.
func loadActiveAffiliate(ctx context.Context, db *gorm.DB, affiliateID string) (*models.Affiliate, error) {
	if strings.TrimSpace(affiliateID) == "" {
		return nil, common.ErrForbidden("An active affiliate account is required")
	}
	var affiliate models.Affiliate
	if err := db.WithContext(ctx).Where("id = ?", affiliateID).First(&affiliate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrForbidden("An active affiliate account is required")
		}
		return nil, common.ErrDependency("Failed to load affiliate", err)
	}
	if !affiliate.IsActive() {
		return nil, common.ErrForbidden("Affiliate account is not active")
	}
	return &affiliate, nil
}

// roundMoney rounds half away from zero to 2 decimal places.
func roundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
