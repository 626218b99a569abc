package billing

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/taskfox/taskfox/app/models"
	"github.com/taskfox/taskfox/internal/pkg/cache"
	"gorm.io/gorm"
)

const (
	planListCacheKey = "billing:plans:all"
	planCacheTTL     = 10 * time.Minute
)

// ListPlans returns the plan catalog, cheapest first. The catalog changes
// rarely, so it is served from the cache when possible; a cold or unreachable
// cache falls through to the database.
func (s *Service) ListPlans(ctx context.Context) ([]models.Plan, error) {
	_ = ctx

	if cached, err := cache.Get(planListCacheKey); err == nil && cached != "" {
		var plans []models.Plan
		if err := json.Unmarshal([]byte(cached), &plans); err == nil {
			return plans, nil
		}
	}

	plans, err := s.repo.ListPlans()
	if err != nil {
		return nil, wrapError(CodeInternal, "failed to list plans", err)
	}

	if encoded, err := json.Marshal(plans); err == nil {
		if err := cache.Set(planListCacheKey, string(encoded), planCacheTTL); err != nil {
			log.Debugf("[Billing] Plan cache write failed: %v", err)
		}
	}
	return plans, nil
}

// GetPlan loads one plan by id.
func (s *Service) GetPlan(ctx context.Context, planID uint) (*models.Plan, error) {
	_ = ctx
	plan, err := s.repo.GetPlan(planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(CodeNotFound, "plan not found")
		}
		return nil, wrapError(CodeInternal, "failed to load plan", err)
	}
	return plan, nil
}

// CurrentPlanInfo summarizes the user's active subscription: the assigned
// plan, its expiry and the live quota state.
func (s *Service) CurrentPlanInfo(ctx context.Context, user *models.User) (*PlanInfo, error) {
	plan, err := s.GetPlan(ctx, user.PlanID)
	if err != nil {
		return nil, err
	}
	quota, err := s.CheckQuota(ctx, user)
	if err != nil {
		return nil, err
	}
	return &PlanInfo{
		Plan:      plan,
		ExpiresAt: user.PlanExpiresAt,
		Quota:     quota,
	}, nil
}

// EnsurePlanCurrent downgrades a user whose paid plan has lapsed back to the
// free tier and resets their usage counter. Called on authenticated requests
// so lapsed users never act on stale entitlements.
func (s *Service) EnsurePlanCurrent(ctx context.Context, user *models.User) error {
	_ = ctx

	if !user.IsPlanExpired() {
		return nil
	}

	free, err := s.repo.GetFreePlan()
	if err != nil {
		return wrapError(CodeInternal, "failed to load free plan", err)
	}

	user.PlanID = free.ID
	user.Plan = free
	user.PlanExpiresAt = nil
	user.TasksUsed = 0
	if err := s.repo.SaveUser(user); err != nil {
		return wrapError(CodeInternal, "failed to downgrade lapsed plan", err)
	}

	log.Infof("[Billing] User %d plan lapsed, downgraded to %s", user.ID, free.Name)
	return nil
}
