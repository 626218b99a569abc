package models

import "time"

const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusDeny    = "deny"
	PaymentStatusExpire  = "expire"
	PaymentStatusCancel  = "cancel"
)

// Payment is one gateway-mediated transaction attempt tied 1:1 to an Order.
// ReferenceKey is the exact order id sent to the gateway at intent creation;
// callbacks resolve the payment by looking this key up directly.
type Payment struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	OrderID           uint       `gorm:"not null;uniqueIndex" json:"order_id"`
	Order             *Order     `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	ReferenceKey      string     `gorm:"type:varchar(64);uniqueIndex" json:"reference_key"`
	SnapToken         string     `gorm:"type:varchar(255);default:null" json:"snap_token"`
	TransactionStatus string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"transaction_status"`
	PaymentMethod     string     `gorm:"type:varchar(50);default:null" json:"payment_method"`
	TransactionID     string     `gorm:"type:varchar(100);default:null;index" json:"transaction_id"`
	PaidAt            *time.Time `gorm:"type:timestamp;default:null" json:"paid_at"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsTerminal reports whether the payment already reached a final transaction
// status. Callbacks arriving for a terminal payment are at-least-once replays
// and must not re-apply side effects.
func (p *Payment) IsTerminal() bool {
	switch p.TransactionStatus {
	case PaymentStatusSuccess, PaymentStatusDeny, PaymentStatusExpire, PaymentStatusCancel:
		return true
	}
	return false
}
