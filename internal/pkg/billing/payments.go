package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taskfox/taskfox/app/models"
	"gorm.io/gorm"
)

// paymentIntentExpiryMinutes is the payment window the gateway enforces on a
// Snap transaction.
const paymentIntentExpiryMinutes = 60

// ListPayments returns all payments belonging to the user's orders, newest
// first.
func (s *Service) ListPayments(ctx context.Context, userID uint) ([]models.Payment, error) {
	_ = ctx
	payments, err := s.repo.ListPaymentsByUser(userID)
	if err != nil {
		return nil, wrapError(CodeInternal, "failed to list payments", err)
	}
	return payments, nil
}

// GetPayment loads one payment; Forbidden when the underlying order belongs
// to another user.
func (s *Service) GetPayment(ctx context.Context, user *models.User, paymentID uint) (*models.Payment, error) {
	_ = ctx
	payment, err := s.repo.GetPaymentByID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(CodeNotFound, "payment not found")
		}
		return nil, wrapError(CodeInternal, "failed to load payment", err)
	}
	if payment.Order == nil || payment.Order.UserID != user.ID {
		return nil, newError(CodeForbidden, "payment belongs to another user")
	}
	return payment, nil
}

// CreatePayment opens the payment intent for a pending order: it creates the
// Payment row, assigns the stored reference key the gateway will echo back,
// and requests the Snap token. The whole unit is transactional; a gateway
// failure rolls the Payment row back so no orphan pending payments remain.
func (s *Service) CreatePayment(ctx context.Context, user *models.User, orderID uint) (*models.Payment, error) {
	order, err := s.GetOrder(ctx, user.ID, orderID)
	if err != nil {
		return nil, err
	}

	if !order.IsPending() {
		return nil, newError(CodeInvalidState, "order is not in pending status")
	}

	if _, err := s.repo.GetPaymentByOrderID(order.ID); err == nil {
		return nil, newError(CodeConflict, "payment already exists for this order")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapError(CodeInternal, "failed to check existing payment", err)
	}

	plan := order.Plan
	if plan == nil {
		plan, err = s.repo.GetPlan(order.PlanID)
		if err != nil {
			return nil, wrapError(CodeInternal, "failed to load order plan", err)
		}
	}

	// Quota state may have changed since order creation; re-validate.
	if err := s.checkOrderQuota(user, plan); err != nil {
		return nil, err
	}

	payment := &models.Payment{
		OrderID:           order.ID,
		TransactionStatus: models.PaymentStatusPending,
	}

	err = s.repo.Transaction(func(tx Repository) error {
		if err := tx.CreatePayment(payment); err != nil {
			return wrapError(CodeInternal, "failed to create payment", err)
		}

		// The reference key doubles as the gateway order id. It is stored
		// and looked up directly on callback, never parsed.
		payment.ReferenceKey = fmt.Sprintf("%d-%d", payment.ID, time.Now().Unix())

		token, _, err := s.gateway.CreateTransaction(ctx, SnapRequest{
			ReferenceKey:  payment.ReferenceKey,
			GrossAmount:   toGrossAmount(order.Amount),
			CustomerName:  user.Name,
			CustomerEmail: user.Email,
			CustomerPhone: user.Phone,
			Item: SnapItem{
				ID:       fmt.Sprintf("%d", plan.ID),
				Price:    toGrossAmount(plan.Price),
				Quantity: 1,
				Name:     plan.Name + " Plan",
				Brand:    "TaskFox",
				Category: "Subscription",
			},
			ExpiryMinutes: paymentIntentExpiryMinutes,
		})
		if err != nil {
			var be *Error
			if errors.As(err, &be) {
				return err
			}
			return wrapError(CodeGateway, "payment intent creation failed", err)
		}

		payment.SnapToken = token
		if err := tx.SavePayment(payment); err != nil {
			return wrapError(CodeInternal, "failed to store payment token", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	payment.Order = order
	return payment, nil
}
