package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
	OrderStatusExpired   = "expired"
)

// OrderExpiryWindow is how long a pending order stays payable before the
// sweeper marks it expired.
const OrderExpiryWindow = 24 * time.Hour

// Order is a user's request to move to a target plan, pending payment.
// Amount is frozen from the plan price at creation; later plan price changes
// do not affect open orders.
type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"not null;index:idx_orders_user_status,priority:1" json:"user_id"`
	PlanID      uint            `gorm:"not null" json:"plan_id"`
	Plan        *Plan           `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	Payment     *Payment        `gorm:"foreignKey:OrderID" json:"payment,omitempty"`
	Invoice     *Invoice        `gorm:"foreignKey:OrderID" json:"invoice,omitempty"`
	Status      string          `gorm:"type:varchar(20);not null;default:'pending';index:idx_orders_user_status,priority:2" json:"status"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	ExpiresAt   *time.Time      `gorm:"type:timestamp;default:null;index" json:"expires_at"`
	CompletedAt *time.Time      `gorm:"type:timestamp;default:null" json:"completed_at"`
	CancelledAt *time.Time      `gorm:"type:timestamp;default:null" json:"cancelled_at"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// IsPending reports whether the order is still open for payment or mutation.
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

// IsTerminal reports whether the order reached a final state. No transition
// ever leaves completed, cancelled or expired.
func (o *Order) IsTerminal() bool {
	switch o.Status {
	case OrderStatusCompleted, OrderStatusCancelled, OrderStatusExpired:
		return true
	}
	return false
}

// CanTransitionTo enforces the one-directional lifecycle:
// pending -> completed | cancelled | expired.
func (o *Order) CanTransitionTo(status string) bool {
	if o.Status != OrderStatusPending {
		return false
	}
	switch status {
	case OrderStatusCompleted, OrderStatusCancelled, OrderStatusExpired:
		return true
	}
	return false
}
