package billing

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/taskfox/taskfox/app/models"
	"gorm.io/gorm"
)

// ProcessCallback reconciles one gateway status callback against the local
// payment state. The method is idempotent: replays of a terminal payment are
// acknowledged without side effects, and all state changes of a settlement
// (payment, order, user plan, invoice) commit atomically or not at all.
func (s *Service) ProcessCallback(ctx context.Context, in CallbackInput) (*CallbackResult, error) {
	payment, err := s.repo.GetPaymentByReferenceKey(in.ReferenceKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warnf("[Billing] Callback for unknown reference key %s ignored", in.ReferenceKey)
			return &CallbackResult{Outcome: OutcomeIgnored, Message: "unknown reference key"}, nil
		}
		return nil, wrapError(CodeInternal, "failed to load payment", err)
	}

	if payment.IsTerminal() {
		log.Infof("[Billing] Callback replay for %s (status %s), no-op", in.ReferenceKey, payment.TransactionStatus)
		return &CallbackResult{Outcome: OutcomeReplay, Message: "payment already finalized"}, nil
	}

	switch in.TransactionStatus {
	case GatewayStatusSettlement, GatewayStatusCapture:
		return s.settlePayment(ctx, in)
	case GatewayStatusPending:
		return s.recordPendingCallback(ctx, in)
	case GatewayStatusDeny, GatewayStatusExpire, GatewayStatusCancel:
		return s.failPayment(ctx, in)
	default:
		log.Warnf("[Billing] Unrecognized transaction status %q for %s", in.TransactionStatus, in.ReferenceKey)
		return &CallbackResult{Outcome: OutcomeUnrecognized, Message: "unrecognized transaction status"}, nil
	}
}

// settlePayment applies the success side of the lifecycle in one transaction:
// payment to success, order to completed, user moved onto the paid plan with
// a fresh expiry and reset usage, and the invoice generated. The idempotency
// gate is re-checked under a row lock so concurrent duplicate callbacks
// serialize to exactly one settlement.
func (s *Service) settlePayment(ctx context.Context, in CallbackInput) (*CallbackResult, error) {
	result := &CallbackResult{Outcome: OutcomeSettled, Message: "payment settled"}

	err := s.repo.Transaction(func(tx Repository) error {
		payment, err := tx.LockPaymentByReferenceKey(in.ReferenceKey)
		if err != nil {
			return wrapError(CodeInternal, "failed to lock payment", err)
		}
		if payment.IsTerminal() {
			result.Outcome = OutcomeReplay
			result.Message = "payment already finalized"
			return nil
		}

		order, err := tx.GetOrder(payment.OrderID)
		if err != nil {
			return wrapError(CodeInternal, "failed to load order", err)
		}
		plan := order.Plan
		if plan == nil {
			plan, err = tx.GetPlan(order.PlanID)
			if err != nil {
				return wrapError(CodeInternal, "failed to load plan", err)
			}
		}
		user, err := tx.GetUser(order.UserID)
		if err != nil {
			return wrapError(CodeInternal, "failed to load user", err)
		}

		now := time.Now()

		payment.TransactionStatus = models.PaymentStatusSuccess
		payment.PaymentMethod = in.PaymentType
		payment.TransactionID = in.TransactionID
		payment.PaidAt = &now
		if err := tx.SavePayment(payment); err != nil {
			return wrapError(CodeInternal, "failed to update payment", err)
		}

		// Funds were captured; settlement wins even if the sweeper expired
		// the order in the meantime.
		order.Status = models.OrderStatusCompleted
		order.CompletedAt = &now
		if err := tx.SaveOrder(order); err != nil {
			return wrapError(CodeInternal, "failed to complete order", err)
		}

		planExpiry := now.AddDate(0, 1, 0)
		user.PlanID = order.PlanID
		user.Plan = plan
		user.PlanExpiresAt = &planExpiry
		user.TasksUsed = 0
		if err := tx.SaveUser(user); err != nil {
			return wrapError(CodeInternal, "failed to upgrade user plan", err)
		}

		if err := s.generateInvoice(ctx, tx, order, payment, user, plan); err != nil {
			return err
		}

		log.Infof("[Billing] Settled payment %s: user %d moved to plan %s", in.ReferenceKey, user.ID, plan.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// recordPendingCallback stores the intermediate gateway state on the payment
// without touching the order or the user. The terminal gate is re-checked
// under the same row lock the settle and fail paths take, so an out-of-order
// pending notification cannot overwrite a finalized payment.
func (s *Service) recordPendingCallback(ctx context.Context, in CallbackInput) (*CallbackResult, error) {
	_ = ctx
	result := &CallbackResult{Outcome: OutcomePending, Message: "payment pending"}

	err := s.repo.Transaction(func(tx Repository) error {
		payment, err := tx.LockPaymentByReferenceKey(in.ReferenceKey)
		if err != nil {
			return wrapError(CodeInternal, "failed to lock payment", err)
		}
		if payment.IsTerminal() {
			result.Outcome = OutcomeReplay
			result.Message = "payment already finalized"
			return nil
		}

		payment.TransactionStatus = models.PaymentStatusPending
		payment.PaymentMethod = in.PaymentType
		payment.TransactionID = in.TransactionID
		if err := tx.SavePayment(payment); err != nil {
			return wrapError(CodeInternal, "failed to update payment", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// failPayment finalizes the payment with the gateway's failure status and
// cancels the pending order in the same transaction.
func (s *Service) failPayment(ctx context.Context, in CallbackInput) (*CallbackResult, error) {
	_ = ctx
	result := &CallbackResult{Outcome: OutcomeCancelled, Message: "payment failed, order cancelled"}

	err := s.repo.Transaction(func(tx Repository) error {
		payment, err := tx.LockPaymentByReferenceKey(in.ReferenceKey)
		if err != nil {
			return wrapError(CodeInternal, "failed to lock payment", err)
		}
		if payment.IsTerminal() {
			result.Outcome = OutcomeReplay
			result.Message = "payment already finalized"
			return nil
		}

		payment.TransactionStatus = mapFailureStatus(in.TransactionStatus)
		payment.PaymentMethod = in.PaymentType
		payment.TransactionID = in.TransactionID
		if err := tx.SavePayment(payment); err != nil {
			return wrapError(CodeInternal, "failed to update payment", err)
		}

		order, err := tx.GetOrder(payment.OrderID)
		if err != nil {
			return wrapError(CodeInternal, "failed to load order", err)
		}
		if order.CanTransitionTo(models.OrderStatusCancelled) {
			now := time.Now()
			order.Status = models.OrderStatusCancelled
			order.CancelledAt = &now
			if err := tx.SaveOrder(order); err != nil {
				return wrapError(CodeInternal, "failed to cancel order", err)
			}
		}

		log.Infof("[Billing] Payment %s finalized as %s", in.ReferenceKey, payment.TransactionStatus)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func mapFailureStatus(gatewayStatus string) string {
	switch gatewayStatus {
	case GatewayStatusDeny:
		return models.PaymentStatusDeny
	case GatewayStatusExpire:
		return models.PaymentStatusExpire
	default:
		return models.PaymentStatusCancel
	}
}
