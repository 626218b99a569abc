package billing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsurePlanCurrent(t *testing.T) {
	ctx := context.Background()

	t.Run("lapsed paid plan falls back to free", func(t *testing.T) {
		svc, repo, _, _, _ := newTestService()

		expired := time.Now().Add(-time.Hour)
		user := repo.users[1]
		user.PlanID = 3
		user.PlanExpiresAt = &expired
		user.TasksUsed = 120
		repo.users[1] = user

		u := testUser(repo, 1)
		require.NoError(t, svc.EnsurePlanCurrent(ctx, u))

		assert.Equal(t, uint(1), u.PlanID)
		assert.Nil(t, u.PlanExpiresAt)
		assert.Equal(t, 0, u.TasksUsed)

		// Persisted, not just mutated in memory.
		assert.Equal(t, uint(1), repo.users[1].PlanID)
	})

	t.Run("active paid plan is untouched", func(t *testing.T) {
		svc, repo, _, _, _ := newTestService()

		future := time.Now().Add(24 * time.Hour)
		user := repo.users[1]
		user.PlanID = 2
		user.PlanExpiresAt = &future
		repo.users[1] = user

		u := testUser(repo, 1)
		require.NoError(t, svc.EnsurePlanCurrent(ctx, u))
		assert.Equal(t, uint(2), u.PlanID)
		assert.NotNil(t, u.PlanExpiresAt)
	})

	t.Run("free plan without expiry is untouched", func(t *testing.T) {
		svc, repo, _, _, _ := newTestService()
		u := testUser(repo, 1)
		require.NoError(t, svc.EnsurePlanCurrent(ctx, u))
		assert.Equal(t, uint(1), u.PlanID)
	})
}

func TestCurrentPlanInfo(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, _, _ := newTestService()
	repo.taskCount[1] = 2

	info, err := svc.CurrentPlanInfo(ctx, testUser(repo, 1))
	require.NoError(t, err)

	assert.Equal(t, "Free", info.Plan.Name)
	assert.Nil(t, info.ExpiresAt)
	require.NotNil(t, info.Quota)
	assert.EqualValues(t, 2, info.Quota.Used)
	assert.Equal(t, 5, info.Quota.Limit)
}

func TestGetPlan(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _, _ := newTestService()

	plan, err := svc.GetPlan(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Basic", plan.Name)

	_, err = svc.GetPlan(ctx, 99)
	assert.Equal(t, CodeNotFound, CodeOf(err))
}
