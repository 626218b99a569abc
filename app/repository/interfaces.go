package repository

import (
	"github.com/taskfox/taskfox/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByAPITokenHash(hash string) (*models.User, error)
	Update(user *models.User) error
	Count() (int64, error)
}

// TaskRepository defines the interface for task-related database operations
type TaskRepository interface {
	CountByUserID(userID uint) (int64, error)
	ListByUserID(userID uint, offset, limit int) ([]models.Task, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User UserRepository
	Task TaskRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User: NewUserRepository(db),
		Task: NewTaskRepository(db),
	}
}
