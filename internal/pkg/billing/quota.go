package billing

import (
	"context"
	"errors"

	"github.com/taskfox/taskfox/app/models"
	"gorm.io/gorm"
)

// CheckQuota computes the user's live task count against the currently
// assigned plan. The stored tasks_used counter is never consulted; the live
// count is authoritative.
func (s *Service) CheckQuota(ctx context.Context, user *models.User) (*QuotaStatus, error) {
	_ = ctx

	plan, err := s.repo.GetPlan(user.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(CodeNotFound, "assigned plan not found")
		}
		return nil, wrapError(CodeInternal, "failed to load plan", err)
	}

	used, err := s.repo.CountTasksByUser(user.ID)
	if err != nil {
		return nil, wrapError(CodeInternal, "failed to count tasks", err)
	}

	remaining := int64(plan.TasksLimit) - used
	if remaining < 0 {
		remaining = 0
	}

	status := &QuotaStatus{
		Used:      used,
		Limit:     plan.TasksLimit,
		Remaining: remaining,
		CanCreate: used < int64(plan.TasksLimit),
	}
	if plan.TasksLimit > 0 {
		status.UsagePercent = float64(used) / float64(plan.TasksLimit) * 100
	}
	return status, nil
}

// checkOrderQuota gates order and payment creation: the live task count must
// fit inside the target plan's limit, otherwise the upgrade cannot resolve
// the user's quota state and the attempt fails closed.
func (s *Service) checkOrderQuota(user *models.User, target *models.Plan) error {
	used, err := s.repo.CountTasksByUser(user.ID)
	if err != nil {
		return wrapError(CodeInternal, "failed to count tasks", err)
	}

	if used >= int64(target.TasksLimit) {
		return newError(CodeQuotaExceeded, "task limit reached").
			WithDetail("tasks_used", used).
			WithDetail("tasks_limit", target.TasksLimit).
			WithDetail("plan", target.Name)
	}
	return nil
}
