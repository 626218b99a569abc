package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
)

const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
)

// Task is the unit the plan quota counts. Task CRUD itself lives outside the
// billing core; the model exists so quota checks can run a live count.
type Task struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index:idx_tasks_user_status,priority:1" json:"user_id"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Status      string         `gorm:"type:varchar(20);default:'pending';index:idx_tasks_user_status,priority:2" json:"status"`
	Priority    string         `gorm:"type:varchar(10);default:'medium'" json:"priority"`
	DueDate     *time.Time     `gorm:"type:timestamp;default:null;index" json:"due_date"`
	CompletedAt *time.Time     `gorm:"type:timestamp;default:null" json:"completed_at"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
