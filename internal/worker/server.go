package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"storefront-service/internal/consumers"
	"storefront-service/pkg/common"
)

type Worker struct {
	Processor *consumers.AffiliateProcessor
}

func NewWorker(processor *consumers.AffiliateProcessor) *Worker {
	return &Worker{
		Processor: processor,
	}
}

func (w *Worker) HandleCommissionCalculate(ctx context.Context, t *asynq.Task) error {
	var p consumers.CommissionJobDTO
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	if p.OrderID == "" {
		return fmt.Errorf("commission task without order id: %w", asynq.SkipRetry)
	}

	err := w.Processor.ProcessCommission(ctx, p)
	if common.IsKind(err, common.KindNotFound) {
		// the order or its affiliate is gone, retrying will not help
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	return err
}

func (w *Worker) HandleOrderStatusNotification(ctx context.Context, t *asynq.Task) error {
	var p consumers.OrderStatusJobDTO
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	return w.Processor.ProcessOrderStatus(ctx, p)
}

func NewServeMux(processor *consumers.AffiliateProcessor) *asynq.ServeMux {
	worker := NewWorker(processor)
	mux := asynq.NewServeMux()

	mux.HandleFunc(TypeCommissionCalculate, worker.HandleCommissionCalculate)
	mux.HandleFunc(TypeOrderStatusNotification, worker.HandleOrderStatusNotification)
	return mux
}

func StartWorker(redisOpt asynq.RedisConnOpt, processor *consumers.AffiliateProcessor) {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	if err := srv.Run(NewServeMux(processor)); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
