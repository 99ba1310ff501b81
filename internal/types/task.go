package types

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the closed set of lifecycle states a task can be in.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

// ValidTaskStatus reports whether s names one of the four known states.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskCancelled:
		return true
	}
	return false
}

type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     uuid.UUID  `gorm:"type:uuid;index;not null;column:owner_id" json:"owner_id"`
	Title       string     `gorm:"not null;column:title" json:"title"`
	Description string     `gorm:"column:description" json:"description"`
	DueDate     *time.Time `gorm:"column:due_date" json:"due_date"`
	Status      TaskStatus `gorm:"not null;default:'pending';column:status" json:"status"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (Task) TableName() string {
	return "task"
}
