package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"storefront-service/internal/models"
)

// ReconcileService finds eligible orders whose commission was never stamped,
// typically because the synchronous calculation failed, and retries them.
type ReconcileService struct {
	DB         *gorm.DB
	Enqueuer   CommissionEnqueuer
	Commission *CommissionService
	BatchSize  int
}

func NewReconcileService(db *gorm.DB, enqueuer CommissionEnqueuer, commission *CommissionService) *ReconcileService {
	return &ReconcileService{DB: db, Enqueuer: enqueuer, Commission: commission, BatchSize: 500}
}

func (s *ReconcileService) PendingCommissionOrderIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.DB.WithContext(ctx).Model(&models.Order{}).
		Where("status IN ? AND commission_calculated_at IS NULL", models.CommissionEligibleStatuses).
		Order("created_at ASC").
		Limit(s.BatchSize).
		Pluck("id", &ids).Error
	return ids, err
}

// ReconcileCommissions hands every pending order to the queue, or calculates
// inline when no queue is configured. It returns how many orders were handled.
func (s *ReconcileService) ReconcileCommissions(ctx context.Context) (int, error) {
	ids, err := s.PendingCommissionOrderIDs(ctx)
	if err != nil {
		log.Printf("[reconcile] error finding orders without commission: %v", err)
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	log.Printf("[reconcile] found %d orders without commission", len(ids))
	handled := 0
	for _, id := range ids {
		if s.Enqueuer != nil {
			err = s.Enqueuer.EnqueueCommission(ctx, id)
		} else {
			_, err = s.Commission.CalculateCommission(ctx, id)
		}
		if err != nil {
			log.Printf("[reconcile] order %s: %v", id, err)
			continue
		}
		handled++
	}
	return handled, nil
}

// StartScheduler runs the sweep on the given cron schedule.
func (s *ReconcileService) StartScheduler(spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := s.ReconcileCommissions(ctx); err != nil {
			log.Printf("[reconcile] sweep failed: %v", err)
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	log.Printf("Commission reconcile scheduler started (%s)", spec)
	return c, nil
}
