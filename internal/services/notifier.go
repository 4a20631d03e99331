package services

import (
	"context"
	"time"
)

// OrderStatusEvent is published after an order changes status.
type OrderStatusEvent struct {
	OrderID        string    `json:"order_id"`
	OrderNumber    string    `json:"order_number"`
	CustomerID     string    `json:"customer_id"`
	PreviousStatus string    `json:"previous_status"`
	Status         string    `json:"status"`
	ChangedBy      string    `json:"changed_by"`
	ChangedAt      time.Time `json:"changed_at"`
}

// Notifier dispatches order status events. Delivery is best-effort.
type Notifier interface {
	NotifyOrderStatus(ctx context.Context, event OrderStatusEvent) error
}

// CommissionEnqueuer schedules an asynchronous commission calculation.
type CommissionEnqueuer interface {
	EnqueueCommission(ctx context.Context, orderID string) error
}
