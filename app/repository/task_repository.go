package repository

import (
	"github.com/taskfox/taskfox/app/models"
	"gorm.io/gorm"
)

// taskRepository implements the TaskRepository interface
type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository instance
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// CountByUserID returns the user's live task count. Quota decisions use this
// count, never a stored counter.
func (r *taskRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// ListByUserID returns a page of the user's tasks, newest first
func (r *taskRepository) ListByUserID(userID uint, offset, limit int) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&tasks).Error
	return tasks, err
}
