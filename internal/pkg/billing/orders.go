package billing

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/taskfox/taskfox/app/models"
	"gorm.io/gorm"
)

// ListOrders returns the user's orders, newest first, with plan and payment
// attached.
func (s *Service) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	_ = ctx
	orders, err := s.repo.ListOrdersByUser(userID)
	if err != nil {
		return nil, wrapError(CodeInternal, "failed to list orders", err)
	}
	return orders, nil
}

// GetOrder loads one order owned by the user.
func (s *Service) GetOrder(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	_ = ctx
	order, err := s.repo.GetUserOrder(userID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(CodeNotFound, "order not found")
		}
		return nil, wrapError(CodeInternal, "failed to load order", err)
	}
	return order, nil
}

// validateOrderPlan runs the shared plan-transition checks for order
// creation and mutation: the target plan must exist, differ from the current
// plan and not be a downgrade. Plan changes are upgrade-only; lateral or
// downgrade changes go through plan expiry instead.
func (s *Service) validateOrderPlan(user *models.User, targetPlanID uint) (*models.Plan, error) {
	target, err := s.repo.GetPlan(targetPlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(CodeNotFound, "plan not found")
		}
		return nil, wrapError(CodeInternal, "failed to load plan", err)
	}

	current, err := s.repo.GetPlan(user.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(CodeNotFound, "current plan not found")
		}
		return nil, wrapError(CodeInternal, "failed to load current plan", err)
	}

	if target.ID == current.ID {
		return nil, newError(CodeConflict, "already subscribed to this plan").
			WithDetail("current_plan", current.Name)
	}

	if target.TasksLimit < current.TasksLimit {
		return nil, newError(CodeForbidden, "downgrade not allowed").
			WithDetail("current_plan", current.Name).
			WithDetail("selected_plan", target.Name)
	}

	return target, nil
}

// CreateOrder validates plan-transition rules and quota, then opens a pending
// order with the amount frozen from the target plan's price and a 24-hour
// payment window.
func (s *Service) CreateOrder(ctx context.Context, user *models.User, targetPlanID uint) (*models.Order, error) {
	_ = ctx

	target, err := s.validateOrderPlan(user, targetPlanID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindPendingOrder(user.ID, target.ID); err == nil {
		return nil, newError(CodeConflict, "a pending order for this plan already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapError(CodeInternal, "failed to check pending orders", err)
	}

	if err := s.checkOrderQuota(user, target); err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(models.OrderExpiryWindow)
	order := &models.Order{
		UserID:    user.ID,
		PlanID:    target.ID,
		Status:    models.OrderStatusPending,
		Amount:    target.Price,
		ExpiresAt: &expiresAt,
	}
	if err := s.repo.CreateOrder(order); err != nil {
		return nil, wrapError(CodeInternal, "failed to create order", err)
	}

	order.Plan = target
	return order, nil
}

// UpdateOrder swaps a pending order to another target plan, re-running the
// full validation chain and re-freezing the amount.
func (s *Service) UpdateOrder(ctx context.Context, user *models.User, orderID, newPlanID uint) (*models.Order, error) {
	order, err := s.GetOrder(ctx, user.ID, orderID)
	if err != nil {
		return nil, err
	}

	if !order.IsPending() {
		return nil, newError(CodeInvalidState, "only pending orders can be updated")
	}

	target, err := s.validateOrderPlan(user, newPlanID)
	if err != nil {
		return nil, err
	}

	// Same duplicate gate as create, minus the order being updated itself.
	if existing, err := s.repo.FindPendingOrder(user.ID, target.ID); err == nil {
		if existing.ID != order.ID {
			return nil, newError(CodeConflict, "a pending order for this plan already exists")
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapError(CodeInternal, "failed to check pending orders", err)
	}

	if err := s.checkOrderQuota(user, target); err != nil {
		return nil, err
	}

	order.PlanID = target.ID
	order.Amount = target.Price
	order.Plan = target
	if err := s.repo.SaveOrder(order); err != nil {
		return nil, wrapError(CodeInternal, "failed to update order", err)
	}
	return order, nil
}

// CancelOrder moves a pending order to cancelled. No refund logic: orders
// are only cancellable before their payment settles.
func (s *Service) CancelOrder(ctx context.Context, user *models.User, orderID uint) (*models.Order, error) {
	order, err := s.GetOrder(ctx, user.ID, orderID)
	if err != nil {
		return nil, err
	}

	if !order.CanTransitionTo(models.OrderStatusCancelled) {
		return nil, newError(CodeInvalidState, "only pending orders can be cancelled")
	}

	now := time.Now()
	order.Status = models.OrderStatusCancelled
	order.CancelledAt = &now
	if err := s.repo.SaveOrder(order); err != nil {
		return nil, wrapError(CodeInternal, "failed to cancel order", err)
	}
	return order, nil
}

// DeleteOrder soft-deletes an order. Completed orders are immutable history
// and can never be deleted.
func (s *Service) DeleteOrder(ctx context.Context, user *models.User, orderID uint) error {
	order, err := s.GetOrder(ctx, user.ID, orderID)
	if err != nil {
		return err
	}

	if order.Status == models.OrderStatusCompleted {
		return newError(CodeInvalidState, "completed orders cannot be deleted")
	}

	if err := s.repo.DeleteOrder(order); err != nil {
		return wrapError(CodeInternal, "failed to delete order", err)
	}
	return nil
}

// ExpireStaleOrders transitions pending orders whose payment window has
// passed to expired. Invoked periodically by the sweeper.
func (s *Service) ExpireStaleOrders(ctx context.Context) (int64, error) {
	_ = ctx
	count, err := s.repo.ExpirePendingOrdersBefore(time.Now())
	if err != nil {
		return 0, wrapError(CodeInternal, "failed to expire stale orders", err)
	}
	if count > 0 {
		log.Infof("[Billing] Expired %d stale pending orders", count)
	}
	return count, nil
}
