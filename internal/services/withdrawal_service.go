package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront-service/internal/config"
	"storefront-service/internal/models"
	"storefront-service/pkg/common"
)

type WithdrawalService struct {
	DB             *gorm.DB
	DefaultMinimum float64
	Now            func() time.Time
}

func NewWithdrawalService(db *gorm.DB, cfg config.AffiliateConfig) *WithdrawalService {
	return &WithdrawalService{DB: db, DefaultMinimum: cfg.DefaultMinimumWithdrawal, Now: time.Now}
}

type RequestWithdrawalDTO struct {
	Amount            float64 `json:"amount"`
	BankName          string  `json:"bank_name" validate:"required,max=150"`
	AccountNumber     string  `json:"account_number" validate:"required,max=64"`
	AccountHolderName string  `json:"account_holder_name" validate:"required,max=150"`
	Notes             string  `json:"notes" validate:"max=2000"`
}

type UpdateWithdrawalStatusDTO struct {
	Status            string `json:"status"`
	AdminID           string `json:"-"`
	Notes             string `json:"admin_notes"`
	TransferReference string `json:"transfer_reference"`
}

type ListWithdrawalsDTO struct {
	AffiliateID string
	Status      string
	Page        int
	Limit       int
}

// AffiliateBalance is derived from orders and withdrawals; it is never stored.
type AffiliateBalance struct {
	TotalCommission float64 `json:"total_commission"`
	TotalPaid       float64 `json:"total_paid"`
	InFlight        float64 `json:"in_flight"`
	Available       float64 `json:"available"`
}

func (s *WithdrawalService) RequestWithdrawal(ctx context.Context, affiliateID string, data RequestWithdrawalDTO) (*models.AffiliateWithdrawal, error) {
	data.BankName = strings.TrimSpace(data.BankName)
	data.AccountNumber = strings.TrimSpace(data.AccountNumber)
	data.AccountHolderName = strings.TrimSpace(data.AccountHolderName)

	var withdrawal models.AffiliateWithdrawal
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// row lock serialises concurrent requests from the same affiliate
		affiliate, err := loadActiveAffiliate(ctx, tx.Clauses(clause.Locking{Strength: "UPDATE"}), affiliateID)
		if err != nil {
			return err
		}

		amount := data.Amount
		if amount <= 0 {
			return common.ErrValidation("Amount must be greater than zero")
		}
		if decimal.NewFromFloat(amount).Exponent() < -2 {
			return common.ErrValidation("Amount must have at most 2 decimal places")
		}
		if err := validate.Struct(data); err != nil {
			return validationError(err)
		}

		minimum := affiliate.MinimumWithdrawal
		if minimum <= 0 {
			minimum = s.DefaultMinimum
		}
		if amount < minimum {
			return common.ErrValidation(fmt.Sprintf("Minimum withdrawal amount is %.2f", minimum))
		}

		balance, err := computeBalance(ctx, tx, *affiliate)
		if err != nil {
			return err
		}
		if decimal.NewFromFloat(amount).GreaterThan(decimal.NewFromFloat(balance.Available)) {
			return common.ErrValidation(fmt.Sprintf("Amount exceeds available commission of %.2f", balance.Available))
		}

		withdrawal = models.AffiliateWithdrawal{
			AffiliateID:       affiliate.ID,
			Amount:            amount,
			BankName:          data.BankName,
			AccountNumber:     data.AccountNumber,
			AccountHolderName: data.AccountHolderName,
			RequestNotes:      strings.TrimSpace(data.Notes),
			Status:            models.WithdrawalPending,
		}
		if err := tx.Create(&withdrawal).Error; err != nil {
			return common.ErrDependency("Failed to create withdrawal request", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

// UpdateWithdrawalStatus applies an admin decision. The first transition into
// completed credits the affiliate's total_paid_commission in the same transaction.
func (s *WithdrawalService) UpdateWithdrawalStatus(ctx context.Context, withdrawalID string, data UpdateWithdrawalStatusDTO) (*models.AffiliateWithdrawal, error) {
	status := strings.ToLower(strings.TrimSpace(data.Status))
	if !contains(models.WithdrawalStatuses, status) {
		return nil, common.ErrValidation("Status must be one of " + strings.Join(models.WithdrawalStatuses, ", "))
	}

	var updated models.AffiliateWithdrawal
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.AffiliateWithdrawal
		if err := tx.Where("id = ?", withdrawalID).First(&current).Error; err != nil {
			return lookupError("Withdrawal not found", err)
		}
		if current.IsTerminal() && current.Status != status {
			return common.ErrConflict(fmt.Sprintf("Withdrawal is already %s", current.Status))
		}

		updates := map[string]interface{}{
			"status":       status,
			"processed_at": s.Now(),
		}
		if data.AdminID != "" {
			updates["processed_by"] = data.AdminID
		}
		if notes := strings.TrimSpace(data.Notes); notes != "" {
			updates["admin_notes"] = notes
		}
		if ref := strings.TrimSpace(data.TransferReference); ref != "" {
			updates["transfer_reference"] = ref
		}

		res := tx.Model(&models.AffiliateWithdrawal{}).
			Where("id = ? AND status = ?", current.ID, current.Status).
			Updates(updates)
		if res.Error != nil {
			return common.ErrDependency("Failed to update withdrawal", res.Error)
		}
		if res.RowsAffected == 0 {
			return common.ErrConflict("Withdrawal was changed by another request, reload and retry")
		}

		if status == models.WithdrawalCompleted && current.Status != models.WithdrawalCompleted {
			credit := tx.Model(&models.Affiliate{}).
				Where("id = ?", current.AffiliateID).
				UpdateColumn("total_paid_commission", gorm.Expr("total_paid_commission + ?", current.Amount))
			if credit.Error != nil {
				return common.ErrDependency("Failed to credit paid commission", credit.Error)
			}
			if credit.RowsAffected == 0 {
				return common.ErrNotFound("Affiliate not found")
			}
		}

		return tx.Where("id = ?", current.ID).First(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ListWithdrawals pages withdrawals newest first. An empty AffiliateID lists all affiliates.
func (s *WithdrawalService) ListWithdrawals(ctx context.Context, data ListWithdrawalsDTO) (common.PaginationResult, error) {
	page, limit, offset := common.NormalizePage(data.Page, data.Limit, 20)

	query := s.DB.WithContext(ctx).Model(&models.AffiliateWithdrawal{})
	if data.AffiliateID != "" {
		query = query.Where("affiliate_id = ?", data.AffiliateID)
	}
	if data.Status != "" {
		if !contains(models.WithdrawalStatuses, data.Status) {
			return common.PaginationResult{}, common.ErrValidation("Unknown withdrawal status " + data.Status)
		}
		query = query.Where("status = ?", data.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return common.PaginationResult{}, common.ErrDependency("Failed to count withdrawals", err)
	}

	var withdrawals []models.AffiliateWithdrawal
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&withdrawals).Error; err != nil {
		return common.PaginationResult{}, common.ErrDependency("Failed to list withdrawals", err)
	}
	return common.PaginateResponse(withdrawals, total, page, limit, ""), nil
}

func (s *WithdrawalService) GetBalance(ctx context.Context, affiliateID string) (*AffiliateBalance, error) {
	var affiliate models.Affiliate
	if err := s.DB.WithContext(ctx).Where("id = ?", affiliateID).First(&affiliate).Error; err != nil {
		return nil, lookupError("Affiliate not found", err)
	}
	return computeBalance(ctx, s.DB, affiliate)
}

func computeBalance(ctx context.Context, db *gorm.DB, affiliate models.Affiliate) (*AffiliateBalance, error) {
	var earned float64
	if err := db.WithContext(ctx).Model(&models.Order{}).
		Select("COALESCE(SUM(commission_amount), 0)").
		Where("affiliate_id = ? AND commission_calculated_at IS NOT NULL AND status <> ?", affiliate.ID, models.OrderCancelled).
		Scan(&earned).Error; err != nil {
		return nil, common.ErrDependency("Failed to sum commission", err)
	}

	var inFlight float64
	if err := db.WithContext(ctx).Model(&models.AffiliateWithdrawal{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("affiliate_id = ? AND status IN ?", affiliate.ID, models.InFlightWithdrawalStatuses).
		Scan(&inFlight).Error; err != nil {
		return nil, common.ErrDependency("Failed to sum pending withdrawals", err)
	}

	available := decimal.NewFromFloat(earned).
		Sub(decimal.NewFromFloat(affiliate.TotalPaidCommission)).
		Sub(decimal.NewFromFloat(inFlight))
	if available.IsNegative() {
		available = decimal.Zero
	}

	return &AffiliateBalance{
		TotalCommission: roundMoney(earned),
		TotalPaid:       roundMoney(affiliate.TotalPaidCommission),
		InFlight:        roundMoney(inFlight),
		Available:       available.Round(2).InexactFloat64(),
	}, nil
}
