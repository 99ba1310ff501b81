package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/morgancollado/mocingbird-task-manager/internal/lifecycle"
	"github.com/morgancollado/mocingbird-task-manager/internal/pkg/apperr"
	"github.com/morgancollado/mocingbird-task-manager/internal/pkg/logger"
	"github.com/morgancollado/mocingbird-task-manager/internal/repos"
	"github.com/morgancollado/mocingbird-task-manager/internal/types"
)

// TaskCreateInput is the closed set of fields a client may supply at creation.
// The owner always comes from the authenticated principal.
type TaskCreateInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Status      *string
}

// TaskPatch is the allow-listed partial update. A nil field is untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Status      *string
}

type TaskService interface {
	Create(ctx context.Context, ownerID uuid.UUID, input TaskCreateInput) (*types.Task, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*types.Task, error)
	Get(ctx context.Context, ownerID, taskID uuid.UUID) (*types.Task, error)
	Update(ctx context.Context, actorID, taskID uuid.UUID, patch TaskPatch) (*types.Task, error)
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) error
}

type taskService struct {
	db       *gorm.DB
	log      *logger.Logger
	taskRepo repos.TaskRepo
	notifier TaskNotifier
}

func NewTaskService(db *gorm.DB, baseLog *logger.Logger, taskRepo repos.TaskRepo, notifier TaskNotifier) TaskService {
	serviceLog := baseLog.With("service", "TaskService")
	return &taskService{
		db:       db,
		log:      serviceLog,
		taskRepo: taskRepo,
		notifier: notifier,
	}
}

func (ts *taskService) Create(ctx context.Context, ownerID uuid.UUID, input TaskCreateInput) (*types.Task, error) {
	if input.Status != nil {
		status := types.TaskStatus(*input.Status)
		if !types.ValidTaskStatus(status) {
			return nil, fmt.Errorf("status %q: %w", *input.Status, apperr.ErrUnknownStatus)
		}
		if status != types.TaskPending {
			return nil, apperr.Validation("status must be pending at creation")
		}
	}

	task := &types.Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Status:      types.TaskPending,
	}
	if messages := validateTaskFields(task, time.Now()); len(messages) > 0 {
		return nil, apperr.Validation(messages...)
	}

	created, err := ts.taskRepo.Create(ctx, nil, task)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	ts.log.Debug("Task created", "task_id", created.ID, "owner_id", ownerID)
	return created, nil
}

func (ts *taskService) List(ctx context.Context, ownerID uuid.UUID) ([]*types.Task, error) {
	return ts.taskRepo.ListByOwner(ctx, nil, ownerID)
}

func (ts *taskService) Get(ctx context.Context, ownerID, taskID uuid.UUID) (*types.Task, error) {
	return ts.taskRepo.GetByOwnerAndID(ctx, nil, ownerID, taskID)
}

// Update applies an attribute patch and an optional status transition as one
// all-or-nothing unit. Both run inside a single database transaction: a
// rejected transition rolls back an already-applied attribute patch and vice
// versa. The completion notification fires only after the commit, and never
// delays or fails the request.
func (ts *taskService) Update(ctx context.Context, actorID, taskID uuid.UUID, patch TaskPatch) (*types.Task, error) {
	var updated *types.Task
	var completed bool

	err := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task, err := ts.taskRepo.GetByOwnerAndID(ctx, tx, actorID, taskID)
		if err != nil {
			return err
		}

		if patch.Title != nil {
			task.Title = *patch.Title
		}
		if patch.Description != nil {
			task.Description = *patch.Description
		}
		if patch.DueDate != nil {
			task.DueDate = patch.DueDate
		}
		if messages := validateTaskFields(task, time.Now()); len(messages) > 0 {
			return apperr.Validation(messages...)
		}

		if patch.Status != nil {
			target := types.TaskStatus(*patch.Status)
			event, noop, evErr := lifecycle.EventFor(task.Status, target)
			if evErr != nil {
				return evErr
			}
			if !noop {
				next, trErr := lifecycle.Transition(task.Status, event, actorID, task.OwnerID)
				if trErr != nil {
					return trErr
				}
				task.Status = next
				completed = event == lifecycle.EventComplete
			}
		}

		if err := ts.taskRepo.Update(ctx, tx, task); err != nil {
			return fmt.Errorf("persist task update: %w", err)
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	if completed && ts.notifier != nil {
		ts.notifier.TaskCompleted(updated.OwnerID, updated)
	}
	return updated, nil
}

func (ts *taskService) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	if err := ts.taskRepo.FullDeleteByOwnerAndID(ctx, nil, ownerID, taskID); err != nil {
		return err
	}
	ts.log.Debug("Task deleted", "task_id", taskID, "owner_id", ownerID)
	return nil
}

// validateTaskFields runs the creation-time field checks; every write path
// goes through it so a task can never be persisted in a shape creation would
// have rejected.
func validateTaskFields(task *types.Task, now time.Time) []string {
	var messages []string
	if strings.TrimSpace(task.Title) == "" {
		messages = append(messages, "title can't be blank")
	}
	if task.DueDate != nil && !dateAfterToday(*task.DueDate, now) {
		messages = append(messages, "due date must be in the future or blank")
	}
	return messages
}

// dateAfterToday compares civil dates: a due date of tomorrow passes, today
// or earlier does not.
func dateAfterToday(due, now time.Time) bool {
	dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return dueDay.After(today)
}
