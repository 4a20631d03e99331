package consumers

import (
	"context"
	"log"
	"time"

	"storefront-service/internal/services"
)

type AffiliateProcessor struct {
	Commission    *services.CommissionService
	Notifications *services.NotificationService
}

func NewAffiliateProcessor(commission *services.CommissionService, notifications *services.NotificationService) *AffiliateProcessor {
	return &AffiliateProcessor{
		Commission:    commission,
		Notifications: notifications,
	}
}

// --- DTOs ---

type CommissionJobDTO struct {
	OrderID string `json:"order_id"`
}

type OrderStatusJobDTO struct {
	OrderID        string    `json:"order_id"`
	OrderNumber    string    `json:"order_number"`
	CustomerID     string    `json:"customer_id"`
	PreviousStatus string    `json:"previous_status"`
	Status         string    `json:"status"`
	ChangedBy      string    `json:"changed_by"`
	ChangedAt      time.Time `json:"changed_at"`
}

func OrderStatusJobFromEvent(event services.OrderStatusEvent) OrderStatusJobDTO {
	return OrderStatusJobDTO(event)
}

// ProcessCommission runs the calculator for one order. Skipped results are
// success; only infrastructure failures are returned so the job is retried.
func (p *AffiliateProcessor) ProcessCommission(ctx context.Context, data CommissionJobDTO) error {
	log.Printf("Processing Commission: %s", data.OrderID)

	res, err := p.Commission.CalculateCommission(ctx, data.OrderID)
	if err != nil {
		return err
	}
	if res.Skipped {
		log.Printf("Commission for order %s skipped: %s", data.OrderID, res.Reason)
		return nil
	}
	log.Printf("Commission for order %s: %.2f (%d units at %.2f)", data.OrderID, res.CommissionAmount, res.TotalUnits, res.CommissionRate)
	return nil
}

func (p *AffiliateProcessor) ProcessOrderStatus(ctx context.Context, data OrderStatusJobDTO) error {
	log.Printf("Processing Order Status Notification: %s %s -> %s", data.OrderNumber, data.PreviousStatus, data.Status)
	return p.Notifications.DeliverOrderStatus(ctx, services.OrderStatusEvent(data))
}
