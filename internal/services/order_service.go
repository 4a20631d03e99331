package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront-service/internal/models"
	"storefront-service/pkg/common"
)

type OrderService struct {
	DB         *gorm.DB
	Commission *CommissionService
	Notifier   Notifier
	Now        func() time.Time
}

func NewOrderService(db *gorm.DB, commission *CommissionService, notifier Notifier) *OrderService {
	return &OrderService{DB: db, Commission: commission, Notifier: notifier, Now: time.Now}
}

type CreateOrderItemDTO struct {
	ProductID   string  `json:"product_id" validate:"max=36"`
	ProductName string  `json:"product_name" validate:"required,max=255"`
	Quantity    int     `json:"quantity" validate:"gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
}

type CreateOrderDTO struct {
	Items           []CreateOrderItemDTO `json:"items" validate:"required,min=1,dive"`
	PaymentProofURL string               `json:"payment_proof_url" validate:"omitempty,url,max=1024"`
	Notes           string               `json:"notes" validate:"max=2000"`
}

type StatusUpdateResult struct {
	Order      *models.Order     `json:"order"`
	Commission *CommissionResult `json:"commission,omitempty"`
}

// CreateOrder places a pending order for the customer. A valid attribution token
// links the order to its affiliate unless the affiliate is inactive or is the
// customer themself.
func (s *OrderService) CreateOrder(ctx context.Context, customer Actor, data CreateOrderDTO, token *AttributionToken) (*models.Order, error) {
	if customer.UserID == "" {
		return nil, common.ErrUnauthorized("Authentication required")
	}
	if err := validate.Struct(data); err != nil {
		return nil, validationError(err)
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(data.Items))
	for _, item := range data.Items {
		price := decimal.NewFromFloat(item.UnitPrice)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		items = append(items, models.OrderItem{
			ProductID:   item.ProductID,
			ProductName: strings.TrimSpace(item.ProductName),
			Quantity:    item.Quantity,
			UnitPrice:   price.Round(2).InexactFloat64(),
		})
	}

	order := models.Order{
		OrderNumber:     s.orderNumber(),
		CustomerID:      customer.UserID,
		Status:          models.OrderPending,
		TotalAmount:     total.Round(2).InexactFloat64(),
		PaymentProofURL: strings.TrimSpace(data.PaymentProofURL),
		Notes:           strings.TrimSpace(data.Notes),
		Items:           items,
	}
	s.attribute(ctx, &order, customer, token)

	if err := s.DB.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, writeError("Order number collision, retry", "Failed to create order", err)
	}
	return &order, nil
}

func (s *OrderService) attribute(ctx context.Context, order *models.Order, customer Actor, token *AttributionToken) {
	if token == nil || !token.Valid(s.Now()) {
		return
	}

	var affiliate models.Affiliate
	if err := s.DB.WithContext(ctx).Where("id = ?", token.AffiliateID).First(&affiliate).Error; err != nil {
		return
	}
	if !affiliate.IsActive() || affiliate.UserID == customer.UserID {
		return
	}
	order.AffiliateID = &affiliate.ID

	if token.LinkID == "" {
		return
	}
	var count int64
	s.DB.WithContext(ctx).Model(&models.AffiliateLink{}).
		Where("id = ? AND affiliate_id = ?", token.LinkID, affiliate.ID).
		Count(&count)
	if count > 0 {
		linkID := token.LinkID
		order.AffiliateLinkID = &linkID
	}
}

func (s *OrderService) orderNumber() string {
	return fmt.Sprintf("SB-%s-%s", s.Now().Format("20060102"), common.GenerateTrxNo())
}

// GetOrder returns the order if the actor may see it: admins see all, customers
// their own, affiliates the orders attributed to them.
func (s *OrderService) GetOrder(ctx context.Context, orderID string, actor Actor) (*models.Order, error) {
	var order models.Order
	if err := s.DB.WithContext(ctx).Preload("Items").Where("id = ?", orderID).First(&order).Error; err != nil {
		return nil, lookupError("Order not found", err)
	}

	switch {
	case actor.IsAdmin():
	case order.CustomerID == actor.UserID:
	case actor.AffiliateID != "" && order.AffiliateID != nil && *order.AffiliateID == actor.AffiliateID:
	default:
		return nil, common.ErrNotFound("Order not found")
	}
	return &order, nil
}

// CanTransition reports whether an order may move from one status to another.
// Orders only move forward (skipping is allowed) and may be cancelled until they are completed.
func CanTransition(from, to string) bool {
	if from == to || from == models.OrderCompleted || from == models.OrderCancelled {
		return false
	}
	if to == models.OrderCancelled {
		return true
	}
	fromIdx, toIdx := -1, -1
	for i, status := range models.OrderLifecycle {
		if status == from {
			fromIdx = i
		}
		if status == to {
			toIdx = i
		}
	}
	return fromIdx >= 0 && toIdx > fromIdx
}

// UpdateStatus moves the order along its lifecycle. Reaching a commission eligible
// status triggers the calculator; its failure is logged and left to the
// reconciliation sweep rather than undoing the status change.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status, adminID string) (*StatusUpdateResult, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != models.OrderCancelled && !contains(models.OrderLifecycle, status) {
		return nil, common.ErrValidation("Unknown order status " + status)
	}

	var order models.Order
	if err := s.DB.WithContext(ctx).Where("id = ?", orderID).First(&order).Error; err != nil {
		return nil, lookupError("Order not found", err)
	}
	previous := order.Status
	if !CanTransition(previous, status) {
		return nil, common.ErrConflict(fmt.Sprintf("Order cannot move from %s to %s", previous, status))
	}

	res := s.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, previous).
		Update("status", status)
	if res.Error != nil {
		return nil, common.ErrDependency("Failed to update order status", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, common.ErrConflict("Order was changed by another request, reload and retry")
	}

	result := &StatusUpdateResult{}
	if contains(models.CommissionEligibleStatuses, status) && s.Commission != nil {
		commission, err := s.Commission.CalculateCommission(ctx, order.ID)
		if err != nil {
			log.Printf("[orders] commission for order %s failed, left for reconciliation: %v", order.ID, err)
		} else {
			result.Commission = commission
		}
	}

	if s.Notifier != nil {
		event := OrderStatusEvent{
			OrderID:        order.ID,
			OrderNumber:    order.OrderNumber,
			CustomerID:     order.CustomerID,
			PreviousStatus: previous,
			Status:         status,
			ChangedBy:      adminID,
			ChangedAt:      s.Now(),
		}
		if err := s.Notifier.NotifyOrderStatus(ctx, event); err != nil {
			log.Printf("[orders] notification for order %s not dispatched: %v", order.ID, err)
		}
	}

	if err := s.DB.WithContext(ctx).Preload("Items").Where("id = ?", order.ID).First(&order).Error; err != nil {
		return nil, common.ErrDependency("Failed to reload order", err)
	}
	result.Order = &order
	return result, nil
}
