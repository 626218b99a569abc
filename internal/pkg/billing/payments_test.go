package billing

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskfox/taskfox/app/models"
)

func TestCreatePayment(t *testing.T) {
	ctx := context.Background()

	t.Run("creates payment with stored reference key and token", func(t *testing.T) {
		svc, repo, gateway, _, _ := newTestService()
		user := testUser(repo, 1)

		order, err := svc.CreateOrder(ctx, user, 2)
		require.NoError(t, err)

		payment, err := svc.CreatePayment(ctx, user, order.ID)
		require.NoError(t, err)

		assert.Equal(t, models.PaymentStatusPending, payment.TransactionStatus)
		assert.Equal(t, "snap-test-token", payment.SnapToken)
		assert.Regexp(t, regexp.MustCompile(fmt.Sprintf(`^%d-\d+$`, payment.ID)), payment.ReferenceKey)

		// The gateway got the same reference key and the frozen gross amount.
		require.Len(t, gateway.requests, 1)
		assert.Equal(t, payment.ReferenceKey, gateway.requests[0].ReferenceKey)
		assert.EqualValues(t, 29000, gateway.requests[0].GrossAmount)
		assert.Equal(t, "budi@example.com", gateway.requests[0].CustomerEmail)
	})

	t.Run("second payment for the same order conflicts", func(t *testing.T) {
		svc, repo, _, _, _ := newTestService()
		user := testUser(repo, 1)

		order, err := svc.CreateOrder(ctx, user, 2)
		require.NoError(t, err)

		_, err = svc.CreatePayment(ctx, user, order.ID)
		require.NoError(t, err)

		_, err = svc.CreatePayment(ctx, user, order.ID)
		assert.Equal(t, CodeConflict, CodeOf(err))
	})

	t.Run("non-pending order is invalid state", func(t *testing.T) {
		svc, repo, _, _, _ := newTestService()
		user := testUser(repo, 1)

		order, err := svc.CreateOrder(ctx, user, 2)
		require.NoError(t, err)
		_, err = svc.CancelOrder(ctx, user, order.ID)
		require.NoError(t, err)

		_, err = svc.CreatePayment(ctx, user, order.ID)
		assert.Equal(t, CodeInvalidState, CodeOf(err))
	})

	t.Run("quota regression since order creation fails closed", func(t *testing.T) {
		svc, repo, _, _, _ := newTestService()
		user := testUser(repo, 1)

		order, err := svc.CreateOrder(ctx, user, 2)
		require.NoError(t, err)

		// Usage grew past the target limit while the order sat pending.
		repo.taskCount[1] = 50

		_, err = svc.CreatePayment(ctx, user, order.ID)
		assert.Equal(t, CodeQuotaExceeded, CodeOf(err))
	})

	t.Run("gateway failure rolls the payment row back", func(t *testing.T) {
		svc, repo, gateway, _, _ := newTestService()
		user := testUser(repo, 1)
		gateway.err = errors.New("midtrans: 500")

		order, err := svc.CreateOrder(ctx, user, 2)
		require.NoError(t, err)

		_, err = svc.CreatePayment(ctx, user, order.ID)
		assert.Equal(t, CodeGateway, CodeOf(err))

		// No orphan pending payment row may remain.
		assert.Empty(t, repo.payments)

		// And a later retry must succeed.
		gateway.err = nil
		_, err = svc.CreatePayment(ctx, user, order.ID)
		require.NoError(t, err)
	})
}

func TestGetPayment(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, _, _ := newTestService()
	user := testUser(repo, 1)

	order, err := svc.CreateOrder(ctx, user, 2)
	require.NoError(t, err)
	payment, err := svc.CreatePayment(ctx, user, order.ID)
	require.NoError(t, err)

	got, err := svc.GetPayment(ctx, user, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.ID, got.ID)

	// A different user is rejected even though the payment exists.
	stranger := &models.User{ID: 42}
	_, err = svc.GetPayment(ctx, stranger, payment.ID)
	assert.Equal(t, CodeForbidden, CodeOf(err))

	_, err = svc.GetPayment(ctx, user, 999)
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestListPayments(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, _, _ := newTestService()
	user := testUser(repo, 1)

	order, err := svc.CreateOrder(ctx, user, 2)
	require.NoError(t, err)
	_, err = svc.CreatePayment(ctx, user, order.ID)
	require.NoError(t, err)

	payments, err := svc.ListPayments(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 1)

	payments, err = svc.ListPayments(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, payments)
}
