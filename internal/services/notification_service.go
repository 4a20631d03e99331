package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"gorm.io/gorm"

	"storefront-service/internal/models"
	"storefront-service/pkg/common"
)

const (
	notificationFailed    = 0
	notificationDelivered = 1
	notificationSkipped   = 2
)

// NotificationService delivers order events to the notification webhook and
// keeps a log of every attempt.
type NotificationService struct {
	DB         *gorm.DB
	WebhookURL string
}

func NewNotificationService(db *gorm.DB, webhookURL string) *NotificationService {
	return &NotificationService{DB: db, WebhookURL: webhookURL}
}

// DeliverOrderStatus posts the event. The returned error lets the worker retry.
func (s *NotificationService) DeliverOrderStatus(ctx context.Context, event OrderStatusEvent) error {
	payload := map[string]interface{}{
		"event":           "order.status_changed",
		"order_id":        event.OrderID,
		"order_number":    event.OrderNumber,
		"customer_id":     event.CustomerID,
		"previous_status": event.PreviousStatus,
		"status":          event.Status,
		"changed_at":      event.ChangedAt.Unix(),
	}
	request, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode order %s notification: %w", event.OrderID, err)
	}

	entry := models.NotificationLog{
		Channel:   "webhook",
		Event:     "order.status_changed",
		Reference: event.OrderID,
		Request:   string(request),
	}

	if s.WebhookURL == "" {
		entry.Status = notificationSkipped
		entry.Response = "webhook not configured"
		s.record(ctx, entry)
		return nil
	}

	response, status, err := common.Post(ctx, s.WebhookURL, payload, nil)
	if raw, mErr := json.Marshal(response); mErr == nil {
		entry.Response = string(raw)
	}
	if err != nil {
		entry.Status = notificationFailed
		s.record(ctx, entry)
		return fmt.Errorf("notify order %s (http %d): %w", event.OrderID, status, err)
	}

	entry.Status = notificationDelivered
	s.record(ctx, entry)
	return nil
}

func (s *NotificationService) record(ctx context.Context, entry models.NotificationLog) {
	if err := s.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		log.Printf("[notifications] failed to save log for %s: %v", entry.Reference, err)
	}
}
