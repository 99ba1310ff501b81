package repos

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/morgancollado/mocingbird-task-manager/internal/pkg/apperr"
	"github.com/morgancollado/mocingbird-task-manager/internal/pkg/logger"
	"github.com/morgancollado/mocingbird-task-manager/internal/types"
)

// TaskRepo is the owner-scoped persistence face for tasks. Every read and
// write carries the owner id; a task owned by someone else is
// indistinguishable from a missing one.
type TaskRepo interface {
	Create(ctx context.Context, tx *gorm.DB, task *types.Task) (*types.Task, error)
	GetByOwnerAndID(ctx context.Context, tx *gorm.DB, ownerID, taskID uuid.UUID) (*types.Task, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Task, error)
	Update(ctx context.Context, tx *gorm.DB, task *types.Task) error
	FullDeleteByOwnerAndID(ctx context.Context, tx *gorm.DB, ownerID, taskID uuid.UUID) error
	FullDeleteByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) error
}

type taskRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskRepo(db *gorm.DB, baseLog *logger.Logger) TaskRepo {
	repoLog := baseLog.With("repo", "TaskRepo")
	return &taskRepo{db: db, log: repoLog}
}

func (tr *taskRepo) Create(ctx context.Context, tx *gorm.DB, task *types.Task) (*types.Task, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if task == nil {
		return nil, fmt.Errorf("no task given")
	}

	if err := transaction.WithContext(ctx).Create(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

func (tr *taskRepo) GetByOwnerAndID(ctx context.Context, tx *gorm.DB, ownerID, taskID uuid.UUID) (*types.Task, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var task types.Task
	err := transaction.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, taskID).
		First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("task %s: %w", taskID, apperr.ErrNotFound)
		}
		return nil, err
	}
	return &task, nil
}

func (tr *taskRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Task, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*types.Task
	if ownerID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *taskRepo) Update(ctx context.Context, tx *gorm.DB, task *types.Task) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if task == nil {
		return nil
	}

	return transaction.WithContext(ctx).Save(task).Error
}

func (tr *taskRepo) FullDeleteByOwnerAndID(ctx context.Context, tx *gorm.DB, ownerID, taskID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	res := transaction.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, taskID).
		Delete(&types.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("task %s: %w", taskID, apperr.ErrNotFound)
	}
	return nil
}

func (tr *taskRepo) FullDeleteByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if ownerID == uuid.Nil {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&types.Task{}).Error
}
