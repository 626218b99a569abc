package billing

import (
	"time"

	"github.com/taskfox/taskfox/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides the DB operations used by the billing service. All
// methods return gorm.ErrRecordNotFound for missing rows; the service maps
// that to the domain taxonomy.
type Repository interface {
	GetPlan(id uint) (*models.Plan, error)
	ListPlans() ([]models.Plan, error)
	GetFreePlan() (*models.Plan, error)

	GetUser(id uint) (*models.User, error)
	SaveUser(user *models.User) error
	CountTasksByUser(userID uint) (int64, error)

	CreateOrder(order *models.Order) error
	SaveOrder(order *models.Order) error
	GetOrder(id uint) (*models.Order, error)
	DeleteOrder(order *models.Order) error
	GetUserOrder(userID, orderID uint) (*models.Order, error)
	ListOrdersByUser(userID uint) ([]models.Order, error)
	FindPendingOrder(userID, planID uint) (*models.Order, error)
	ExpirePendingOrdersBefore(cutoff time.Time) (int64, error)

	CreatePayment(payment *models.Payment) error
	SavePayment(payment *models.Payment) error
	GetPaymentByID(id uint) (*models.Payment, error)
	GetPaymentByOrderID(orderID uint) (*models.Payment, error)
	GetPaymentByReferenceKey(key string) (*models.Payment, error)
	// LockPaymentByReferenceKey reads the payment row under a row-level
	// write lock. Only meaningful inside Transaction.
	LockPaymentByReferenceKey(key string) (*models.Payment, error)
	ListPaymentsByUser(userID uint) ([]models.Payment, error)

	CreateInvoice(invoice *models.Invoice) error
	GetInvoiceByOrderID(orderID uint) (*models.Invoice, error)

	// Transaction runs fn against a repository bound to one DB transaction;
	// any error rolls the whole unit back.
	Transaction(fn func(Repository) error) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetPlan(id uint) (*models.Plan, error) {
	var plan models.Plan
	if err := r.db.First(&plan, id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *gormRepository) ListPlans() ([]models.Plan, error) {
	var plans []models.Plan
	err := r.db.Order("price ASC").Find(&plans).Error
	return plans, err
}

func (r *gormRepository) GetFreePlan() (*models.Plan, error) {
	var plan models.Plan
	if err := r.db.Where("price = 0").Order("id ASC").First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *gormRepository) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Plan").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) SaveUser(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *gormRepository) CountTasksByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *gormRepository) CreateOrder(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *gormRepository) SaveOrder(order *models.Order) error {
	return r.db.Save(order).Error
}

func (r *gormRepository) DeleteOrder(order *models.Order) error {
	return r.db.Delete(order).Error
}

func (r *gormRepository) GetOrder(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Plan").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *gormRepository) GetUserOrder(userID, orderID uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Plan").Preload("Payment").Preload("Invoice").
		Where("user_id = ?", userID).
		First(&order, orderID).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *gormRepository) ListOrdersByUser(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Plan").Preload("Payment").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *gormRepository) FindPendingOrder(userID, planID uint) (*models.Order, error) {
	var order models.Order
	err := r.db.
		Where("user_id = ? AND plan_id = ? AND status = ?", userID, planID, models.OrderStatusPending).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *gormRepository) ExpirePendingOrdersBefore(cutoff time.Time) (int64, error) {
	tx := r.db.Model(&models.Order{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", models.OrderStatusPending, cutoff).
		Update("status", models.OrderStatusExpired)
	return tx.RowsAffected, tx.Error
}

func (r *gormRepository) CreatePayment(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

func (r *gormRepository) SavePayment(payment *models.Payment) error {
	return r.db.Save(payment).Error
}

func (r *gormRepository) GetPaymentByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.Preload("Order.Plan").First(&payment, id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *gormRepository) GetPaymentByOrderID(orderID uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.Where("order_id = ?", orderID).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *gormRepository) GetPaymentByReferenceKey(key string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.Where("reference_key = ?", key).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *gormRepository) LockPaymentByReferenceKey(key string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("reference_key = ?", key).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *gormRepository) ListPaymentsByUser(userID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Preload("Order.Plan").
		Joins("JOIN orders ON orders.id = payments.order_id").
		Where("orders.user_id = ?", userID).
		Order("payments.created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *gormRepository) CreateInvoice(invoice *models.Invoice) error {
	return r.db.Create(invoice).Error
}

func (r *gormRepository) GetInvoiceByOrderID(orderID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.Where("order_id = ?", orderID).First(&invoice).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *gormRepository) Transaction(fn func(Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}
