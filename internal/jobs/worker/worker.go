package worker

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/morgancollado/mocingbird-task-manager/internal/pkg/logger"
	"github.com/morgancollado/mocingbird-task-manager/internal/types"
)

// Notification is one deliver-later message about a task event.
type Notification struct {
	Event   string
	OwnerID uuid.UUID
	Task    *types.Task
}

// Delivery is the outbound channel a notification is handed to. Failures are
// logged and dropped; nothing upstream ever waits on or rolls back for them.
type Delivery interface {
	Deliver(ctx context.Context, n Notification) error
}

// LogDelivery writes notifications to the structured log. It is the default
// sink when no external delivery channel is configured.
type LogDelivery struct {
	Log *logger.Logger
}

func (d *LogDelivery) Deliver(_ context.Context, n Notification) error {
	if d == nil || d.Log == nil {
		return fmt.Errorf("log delivery not initialized")
	}
	d.Log.Info("Task notification",
		"event", n.Event,
		"owner_id", n.OwnerID,
		"task_id", taskID(n.Task),
	)
	return nil
}

// Worker drains a bounded queue of notifications on background goroutines.
type Worker struct {
	log         *logger.Logger
	queue       chan Notification
	delivery    Delivery
	concurrency int
}

func New(baseLog *logger.Logger, delivery Delivery, queueSize, concurrency int) *Worker {
	if queueSize < 1 {
		queueSize = 64
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Worker{
		log:         baseLog.With("component", "NotificationWorker"),
		queue:       make(chan Notification, queueSize),
		delivery:    delivery,
		concurrency: concurrency,
	}
}

func (w *Worker) Start(ctx context.Context) {
	w.log.Info("Starting notification worker pool", "concurrency", w.concurrency)
	for i := 0; i < w.concurrency; i++ {
		workerID := i + 1
		go w.runLoop(ctx, workerID)
	}
}

// Enqueue hands a notification to the pool without blocking. A full queue
// drops the message; delivery is best effort by contract.
func (w *Worker) Enqueue(n Notification) bool {
	if w == nil {
		return false
	}
	select {
	case w.queue <- n:
		return true
	default:
		w.log.Warn("Notification queue full, dropping",
			"event", n.Event,
			"owner_id", n.OwnerID,
			"task_id", taskID(n.Task),
		)
		return false
	}
}

func (w *Worker) runLoop(ctx context.Context, workerID int) {
	for {
		select {
		case <-ctx.Done():
			w.log.Info("Worker loop stopped", "worker_id", workerID)
			return
		case n := <-w.queue:
			w.deliverOne(ctx, workerID, n)
		}
	}
}

func (w *Worker) deliverOne(ctx context.Context, workerID int, n Notification) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("Notification delivery panic",
				"worker_id", workerID,
				"event", n.Event,
				"panic", r,
			)
		}
	}()
	if w.delivery == nil {
		return
	}
	if err := w.delivery.Deliver(ctx, n); err != nil {
		w.log.Warn("Notification delivery failed",
			"worker_id", workerID,
			"event", n.Event,
			"owner_id", n.OwnerID,
			"task_id", taskID(n.Task),
			"error", err,
		)
	}
}

func taskID(task *types.Task) string {
	if task == nil {
		return ""
	}
	return task.ID.String()
}
