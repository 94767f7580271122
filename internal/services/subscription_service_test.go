package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"jobportal_backend/internal/config"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Razorpay.KeyID = "rzp_test_key"
	cfg.Subscription.Plans = []config.PlanConfig{
		{ID: "trial", Name: "Free Trial", Amount: 0, Currency: "INR", DurationDays: 7, Trial: true},
		{ID: "monthly", Name: "Monthly", Amount: 49900, Currency: "INR", DurationDays: 30},
	}
	return cfg
}

type subscriptionFixture struct {
	service  *SubscriptionService
	users    *stubUserRepo
	payments *stubPaymentRepo
	notifs   *stubNotificationRepo
	gateway  *stubGateway
	user     *models.User
}

func newSubscriptionFixture() *subscriptionFixture {
	user := &models.User{
		BaseModel: models.BaseModel{ID: "inst-1"},
		Email:     "school@example.com",
		Role:      models.UserRoleInstitute,
	}
	users := newStubUserRepo(user)
	payments := newStubPaymentRepo()
	notifs := &stubNotificationRepo{}
	gateway := &stubGateway{orderID: "gw_order_1", verifyResult: true}

	return &subscriptionFixture{
		service:  NewSubscriptionService(users, payments, notifs, gateway, testConfig()),
		users:    users,
		payments: payments,
		notifs:   notifs,
		gateway:  gateway,
		user:     user,
	}
}

func TestEvaluateAccessStates(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)
	past := time.Now().Add(-24 * time.Hour)

	cases := []struct {
		name  string
		setup func(u *models.User)
		want  dto.AccessState
	}{
		{
			name:  "fresh account",
			setup: func(u *models.User) {},
			want:  dto.AccessInactive,
		},
		{
			name: "active with future expiry",
			setup: func(u *models.User) {
				u.SubscriptionActive = true
				u.SubscriptionPlan = "monthly"
				u.SubscriptionExpiry = &future
			},
			want: dto.AccessActive,
		},
		{
			name: "active with past expiry",
			setup: func(u *models.User) {
				u.SubscriptionActive = true
				u.SubscriptionPlan = "monthly"
				u.SubscriptionExpiry = &past
			},
			want: dto.AccessExpired,
		},
		{
			name: "active flag but no expiry denies access",
			setup: func(u *models.User) {
				u.SubscriptionActive = true
				u.SubscriptionPlan = "monthly"
			},
			want: dto.AccessInactive,
		},
		{
			name: "paid before but inactive",
			setup: func(u *models.User) {
				u.HasPaid = true
				u.SubscriptionPlan = "monthly"
			},
			want: dto.AccessExpired,
		},
		{
			name: "checkout started but never completed",
			setup: func(u *models.User) {
				u.SubscriptionPlan = "monthly"
				u.PaymentStatus = models.PaymentStatusPending
			},
			want: dto.AccessPaymentPending,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newSubscriptionFixture()
			tc.setup(f.user)

			access, err := f.service.Evaluate(context.Background(), nil, "inst-1")
			require.NoError(t, err)
			assert.Equal(t, tc.want, access.State)
		})
	}
}

func TestEvaluateLazyExpiryPersists(t *testing.T) {
	f := newSubscriptionFixture()
	past := time.Now().Add(-time.Hour)
	f.user.SubscriptionActive = true
	f.user.SubscriptionPlan = "monthly"
	f.user.SubscriptionExpiry = &past

	access, err := f.service.Evaluate(context.Background(), nil, "inst-1")
	require.NoError(t, err)
	assert.Equal(t, dto.AccessExpired, access.State)

	// The downgrade was written back.
	assert.False(t, f.user.SubscriptionActive)
	assert.Equal(t, models.SubscriptionStatusExpired, f.user.SubscriptionStatus)
}

func TestEvaluateLazyExpiryWriteFailureStillExpires(t *testing.T) {
	f := newSubscriptionFixture()
	past := time.Now().Add(-time.Hour)
	f.user.SubscriptionActive = true
	f.user.SubscriptionExpiry = &past
	f.users.failUpdates = true

	access, err := f.service.Evaluate(context.Background(), nil, "inst-1")
	require.NoError(t, err)
	assert.Equal(t, dto.AccessExpired, access.State)
}

func TestRequireActive(t *testing.T) {
	f := newSubscriptionFixture()

	err := f.service.RequireActive(context.Background(), nil, "inst-1")
	assert.ErrorIs(t, err, apperrors.ErrPaymentRequired)

	future := time.Now().Add(24 * time.Hour)
	f.user.SubscriptionActive = true
	f.user.SubscriptionExpiry = &future
	assert.NoError(t, f.service.RequireActive(context.Background(), nil, "inst-1"))
}

func TestStartTrial(t *testing.T) {
	f := newSubscriptionFixture()

	access, err := f.service.StartTrial(context.Background(), nil, "inst-1", "trial")
	require.NoError(t, err)
	assert.Equal(t, dto.AccessActive, access.State)
	assert.True(t, f.user.SubscriptionActive)
	require.NotNil(t, f.user.SubscriptionExpiry)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 7), *f.user.SubscriptionExpiry, time.Minute)

	// Second trial is rejected.
	_, err = f.service.StartTrial(context.Background(), nil, "inst-1", "trial")
	assert.Error(t, err)
}

func TestStartTrialRejectsPaidPlan(t *testing.T) {
	f := newSubscriptionFixture()

	_, err := f.service.StartTrial(context.Background(), nil, "inst-1", "monthly")
	assert.Error(t, err)
	assert.False(t, f.user.SubscriptionActive)
}

func TestCreateOrder(t *testing.T) {
	f := newSubscriptionFixture()

	resp, err := f.service.CreateOrder(context.Background(), nil, "inst-1", &dto.CreateOrderRequest{PlanID: "monthly"})
	require.NoError(t, err)
	assert.Equal(t, "gw_order_1", resp.OrderID)
	assert.Equal(t, int64(49900), resp.Amount)
	assert.Equal(t, "rzp_test_key", resp.KeyID)

	order, err := f.payments.FindByGatewayOrderID(nil, "gw_order_1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, order.Status)
	assert.Equal(t, "monthly", order.PlanID)

	// The abandoned checkout is visible on the user record.
	assert.Equal(t, "monthly", f.user.SubscriptionPlan)
	assert.Equal(t, models.PaymentStatusPending, f.user.PaymentStatus)
}

func TestCreateOrderRejectsUnknownAndTrialPlans(t *testing.T) {
	f := newSubscriptionFixture()

	_, err := f.service.CreateOrder(context.Background(), nil, "inst-1", &dto.CreateOrderRequest{PlanID: "lifetime"})
	assert.Error(t, err)

	_, err = f.service.CreateOrder(context.Background(), nil, "inst-1", &dto.CreateOrderRequest{PlanID: "trial"})
	assert.Error(t, err)
}

func TestCreateOrderGatewayFailure(t *testing.T) {
	f := newSubscriptionFixture()
	f.gateway.createErr = fmt.Errorf("connection refused")

	_, err := f.service.CreateOrder(context.Background(), nil, "inst-1", &dto.CreateOrderRequest{PlanID: "monthly"})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeExternalServiceError, appErr.Code)
	assert.Empty(t, f.payments.orders)
}

func TestVerifyPayment(t *testing.T) {
	f := newSubscriptionFixture()
	_, err := f.service.CreateOrder(context.Background(), nil, "inst-1", &dto.CreateOrderRequest{PlanID: "monthly"})
	require.NoError(t, err)

	resp, err := f.service.VerifyPayment(context.Background(), nil, "inst-1", &dto.VerifyPaymentRequest{
		OrderID:   "gw_order_1",
		PaymentID: "gw_pay_1",
		Signature: "valid-signature",
		PlanID:    "monthly",
	})
	require.NoError(t, err)
	assert.True(t, resp.Verified)
	require.NotNil(t, resp.Expiry)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), *resp.Expiry, time.Minute)

	assert.True(t, f.user.HasPaid)
	assert.True(t, f.user.SubscriptionActive)
	assert.Equal(t, models.SubscriptionStatusActive, f.user.SubscriptionStatus)
	assert.Equal(t, models.PaymentStatusCompleted, f.user.PaymentStatus)

	order, err := f.payments.FindByGatewayOrderID(nil, "gw_order_1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, order.Status)
	assert.Equal(t, "gw_pay_1", order.GatewayPaymentID)
	assert.NotNil(t, order.PaidAt)

	require.Len(t, f.notifs.created, 1)
}

func TestVerifyPaymentTamperedSignature(t *testing.T) {
	f := newSubscriptionFixture()
	_, err := f.service.CreateOrder(context.Background(), nil, "inst-1", &dto.CreateOrderRequest{PlanID: "monthly"})
	require.NoError(t, err)
	f.gateway.verifyResult = false

	_, err = f.service.VerifyPayment(context.Background(), nil, "inst-1", &dto.VerifyPaymentRequest{
		OrderID:   "gw_order_1",
		PaymentID: "gw_pay_1",
		Signature: "tampered",
		PlanID:    "monthly",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidSignature)

	// A rejected signature mutates nothing: the order stays pending and
	// retryable, and the account is not activated.
	assert.False(t, f.user.HasPaid)
	assert.False(t, f.user.SubscriptionActive)
	order, findErr := f.payments.FindByGatewayOrderID(nil, "gw_order_1")
	require.NoError(t, findErr)
	assert.Equal(t, models.PaymentStatusPending, order.Status)
	assert.Empty(t, f.notifs.created)
}

func TestVerifyPaymentIdempotent(t *testing.T) {
	f := newSubscriptionFixture()
	_, err := f.service.CreateOrder(context.Background(), nil, "inst-1", &dto.CreateOrderRequest{PlanID: "monthly"})
	require.NoError(t, err)

	req := &dto.VerifyPaymentRequest{
		OrderID:   "gw_order_1",
		PaymentID: "gw_pay_1",
		Signature: "valid-signature",
		PlanID:    "monthly",
	}
	_, err = f.service.VerifyPayment(context.Background(), nil, "inst-1", req)
	require.NoError(t, err)

	resp, err := f.service.VerifyPayment(context.Background(), nil, "inst-1", req)
	require.NoError(t, err)
	assert.True(t, resp.Verified)

	// No second activation or notification.
	assert.Len(t, f.notifs.created, 1)
}

func TestVerifyPaymentWrongUser(t *testing.T) {
	f := newSubscriptionFixture()
	_, err := f.service.CreateOrder(context.Background(), nil, "inst-1", &dto.CreateOrderRequest{PlanID: "monthly"})
	require.NoError(t, err)

	other := &models.User{BaseModel: models.BaseModel{ID: "inst-2"}, Email: "other@example.com"}
	f.users.users["inst-2"] = other

	_, err = f.service.VerifyPayment(context.Background(), nil, "inst-2", &dto.VerifyPaymentRequest{
		OrderID:   "gw_order_1",
		PaymentID: "gw_pay_1",
		Signature: "valid-signature",
		PlanID:    "monthly",
	})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
}

func TestVerifyPaymentPlanMismatch(t *testing.T) {
	f := newSubscriptionFixture()
	_, err := f.service.CreateOrder(context.Background(), nil, "inst-1", &dto.CreateOrderRequest{PlanID: "monthly"})
	require.NoError(t, err)

	_, err = f.service.VerifyPayment(context.Background(), nil, "inst-1", &dto.VerifyPaymentRequest{
		OrderID:   "gw_order_1",
		PaymentID: "gw_pay_1",
		Signature: "valid-signature",
		PlanID:    "trial",
	})
	assert.Error(t, err)
	assert.False(t, f.user.HasPaid)
}
