package services

import (
	"github.com/google/uuid"

	"github.com/morgancollado/mocingbird-task-manager/internal/jobs/worker"
	"github.com/morgancollado/mocingbird-task-manager/internal/pkg/logger"
	"github.com/morgancollado/mocingbird-task-manager/internal/types"
)

// TaskNotifier announces task events after they commit. Implementations are
// fire-and-forget: callers never wait on delivery and never see its errors.
type TaskNotifier interface {
	TaskCompleted(ownerID uuid.UUID, task *types.Task)
}

type queueNotifier struct {
	log  *logger.Logger
	pool *worker.Worker
}

func NewTaskNotifier(baseLog *logger.Logger, pool *worker.Worker) TaskNotifier {
	return &queueNotifier{
		log:  baseLog.With("service", "TaskNotifier"),
		pool: pool,
	}
}

func (n *queueNotifier) TaskCompleted(ownerID uuid.UUID, task *types.Task) {
	if n == nil || n.pool == nil || ownerID == uuid.Nil {
		return
	}
	n.pool.Enqueue(worker.Notification{
		Event:   "task_completed",
		OwnerID: ownerID,
		Task:    task,
	})
}
