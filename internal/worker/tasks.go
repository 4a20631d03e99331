package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"storefront-service/internal/consumers"
	"storefront-service/internal/services"
)

// Task Types
const (
	TypeOrderStatusNotification = "order:status-notification"
	TypeCommissionCalculate     = "commission:calculate"
)

// Task Creators

func NewOrderStatusNotificationTask(payload consumers.OrderStatusJobDTO) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeOrderStatusNotification, data, asynq.MaxRetry(5), asynq.Queue("low")), nil
}

// NewCommissionCalculateTask uses the order id as task id so a sweep that runs
// while an earlier task is still queued does not duplicate it.
func NewCommissionCalculateTask(payload consumers.CommissionJobDTO) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCommissionCalculate, data,
		asynq.TaskID(commissionTaskID(payload.OrderID)),
		asynq.MaxRetry(10),
		asynq.Queue(commissionQueue),
		asynq.Retention(time.Hour),
	), nil
}

const commissionQueue = "critical"

func commissionTaskID(orderID string) string {
	return "commission:" + orderID
}

// RedisOpt accepts either a redis:// URI or a bare host:port.
func RedisOpt(redisURL string) (asynq.RedisConnOpt, error) {
	if redisURL == "" {
		return asynq.RedisClientOpt{Addr: "localhost:6379"}, nil
	}
	if strings.Contains(redisURL, "://") {
		return asynq.ParseRedisURI(redisURL)
	}
	return asynq.RedisClientOpt{Addr: redisURL}, nil
}

// TaskClient is the subset of *asynq.Client the enqueuer uses.
type TaskClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// TaskInspector is the subset of *asynq.Inspector the enqueuer uses.
type TaskInspector interface {
	GetTaskInfo(queue, id string) (*asynq.TaskInfo, error)
	DeleteTask(queue, id string) error
	Close() error
}

// Enqueuer publishes service events onto the task queue.
type Enqueuer struct {
	Client    TaskClient
	Inspector TaskInspector
}

func NewEnqueuer(opt asynq.RedisConnOpt) *Enqueuer {
	return &Enqueuer{
		Client:    asynq.NewClient(opt),
		Inspector: asynq.NewInspector(opt),
	}
}

func (e *Enqueuer) Close() error {
	if e.Inspector != nil {
		if err := e.Inspector.Close(); err != nil {
			log.Printf("[worker] close inspector: %v", err)
		}
	}
	return e.Client.Close()
}

func (e *Enqueuer) NotifyOrderStatus(ctx context.Context, event services.OrderStatusEvent) error {
	task, err := NewOrderStatusNotificationTask(consumers.OrderStatusJobFromEvent(event))
	if err != nil {
		return err
	}
	_, err = e.Client.EnqueueContext(ctx, task)
	return err
}

// EnqueueCommission queues a calculation for the order. A task that is still
// pending, scheduled, retrying or running keeps its id and the call is a no-op.
// An archived or completed task is removed so the order can be queued again.
func (e *Enqueuer) EnqueueCommission(ctx context.Context, orderID string) error {
	task, err := NewCommissionCalculateTask(consumers.CommissionJobDTO{OrderID: orderID})
	if err != nil {
		return err
	}
	_, err = e.Client.EnqueueContext(ctx, task)
	if !errors.Is(err, asynq.ErrTaskIDConflict) {
		return err
	}
	if e.Inspector == nil {
		return nil
	}

	id := commissionTaskID(orderID)
	info, err := e.Inspector.GetTaskInfo(commissionQueue, id)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskNotFound) {
			// released between the conflict and the lookup
			_, err = e.Client.EnqueueContext(ctx, task)
			return ignoreConflict(err)
		}
		return fmt.Errorf("inspect commission task %s: %w", id, err)
	}
	if info.State != asynq.TaskStateArchived && info.State != asynq.TaskStateCompleted {
		return nil
	}

	if err := e.Inspector.DeleteTask(commissionQueue, id); err != nil && !errors.Is(err, asynq.ErrTaskNotFound) {
		return fmt.Errorf("delete stale commission task %s: %w", id, err)
	}
	log.Printf("[worker] requeueing %s commission task for order %s", info.State, orderID)
	_, err = e.Client.EnqueueContext(ctx, task)
	return ignoreConflict(err)
}

func ignoreConflict(err error) error {
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}
