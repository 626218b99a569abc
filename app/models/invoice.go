package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is written exactly once per order, on successful settlement, and is
// immutable afterwards. PDFURL points at the rendered artifact in the blob
// store.
type Invoice struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderID       uint            `gorm:"not null;uniqueIndex" json:"order_id"`
	InvoiceNumber string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"invoice_number"`
	PDFURL        string          `gorm:"type:varchar(255);not null" json:"pdf_url"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"tax_amount"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
