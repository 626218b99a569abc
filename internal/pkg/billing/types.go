package billing

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/taskfox/taskfox/app/models"
)

// Gateway transaction_status vocabulary. Settlement and capture both mean the
// funds were captured; everything the mapping does not recognize is
// acknowledged and ignored so new gateway states cannot break callbacks.
const (
	GatewayStatusSettlement = "settlement"
	GatewayStatusCapture    = "capture"
	GatewayStatusPending    = "pending"
	GatewayStatusDeny       = "deny"
	GatewayStatusExpire     = "expire"
	GatewayStatusCancel     = "cancel"
)

// CallbackInput is the normalized gateway callback payload. ReferenceKey is
// the order id the gateway echoes back; it was generated and stored at
// payment-intent creation and is looked up directly, never parsed.
type CallbackInput struct {
	ReferenceKey      string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	PaymentType       string `json:"payment_type"`
	TransactionID     string `json:"transaction_id"`
}

// CallbackOutcome describes how a callback was handled. Every outcome is
// acknowledged with HTTP 200 so the gateway stops retrying; only unexpected
// internal failures surface as errors.
type CallbackOutcome string

const (
	OutcomeSettled      CallbackOutcome = "settled"
	OutcomePending      CallbackOutcome = "pending"
	OutcomeCancelled    CallbackOutcome = "cancelled"
	OutcomeReplay       CallbackOutcome = "replay"
	OutcomeIgnored      CallbackOutcome = "ignored"
	OutcomeUnrecognized CallbackOutcome = "unrecognized"
)

// CallbackResult is returned to the callback handler.
type CallbackResult struct {
	Outcome CallbackOutcome
	Message string
}

// QuotaStatus is the read-only quota summary for a user's current plan.
type QuotaStatus struct {
	Used         int64   `json:"used"`
	Limit        int     `json:"limit"`
	Remaining    int64   `json:"remaining"`
	CanCreate    bool    `json:"can_create"`
	UsagePercent float64 `json:"usage_percentage"`
}

// PlanInfo is the subscription summary for the authenticated user.
type PlanInfo struct {
	Plan      *models.Plan `json:"plan"`
	ExpiresAt *time.Time   `json:"expires_at"`
	Quota     *QuotaStatus `json:"quota"`
}

// SnapItem is one item line sent to the gateway; orders always carry exactly
// one line, the target plan.
type SnapItem struct {
	ID       string
	Price    int64
	Quantity int32
	Name     string
	Brand    string
	Category string
}

// SnapRequest is the payment-intent creation request handed to the gateway
// adapter. GrossAmount is in integer minor-currency units.
type SnapRequest struct {
	ReferenceKey  string
	GrossAmount   int64
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Item          SnapItem
	ExpiryMinutes int64
}

// toGrossAmount converts a decimal price to the integer amount the gateway
// expects.
func toGrossAmount(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}
