package services

import (
	"context"
	"fmt"
	"time"

	"jobportal_backend/internal/config"
	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// PaymentGateway is the slice of the payment provider the subscription
// flow needs. Signature verification must be local and side-effect free.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (string, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

type SubscriptionService struct {
	userRepo         repositories.UserRepository
	paymentRepo      repositories.PaymentRepository
	notificationRepo repositories.NotificationRepository
	gateway          PaymentGateway
	cfg              *config.Config
}

func NewSubscriptionService(
	userRepo repositories.UserRepository,
	paymentRepo repositories.PaymentRepository,
	notificationRepo repositories.NotificationRepository,
	gateway PaymentGateway,
	cfg *config.Config,
) *SubscriptionService {
	return &SubscriptionService{
		userRepo:         userRepo,
		paymentRepo:      paymentRepo,
		notificationRepo: notificationRepo,
		gateway:          gateway,
		cfg:              cfg,
	}
}

// Evaluate computes the current access state for a user. Expiry is
// enforced lazily here: an active subscription whose expiry has passed is
// downgraded on read, so no background job is needed. A subscription
// flagged active but carrying no expiry denies access rather than
// granting it forever.
func (s *SubscriptionService) Evaluate(ctx context.Context, db *gorm.DB, userID string) (*dto.AccessResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	now := time.Now()

	if user.SubscriptionActive {
		if user.SubscriptionExpiry == nil {
			return &dto.AccessResponse{State: dto.AccessInactive}, nil
		}
		if user.SubscriptionExpiry.After(now) {
			return &dto.AccessResponse{
				State:  dto.AccessActive,
				Plan:   user.SubscriptionPlan,
				Expiry: user.SubscriptionExpiry,
			}, nil
		}

		// Lazy downgrade. The verdict stands even if the write fails; the
		// next read retries it.
		if err := s.userRepo.Updates(db, userID, map[string]interface{}{
			"subscription_active": false,
			"subscription_status": models.SubscriptionStatusExpired,
		}); err != nil {
			logger.CtxWithError(ctx, "failed to persist subscription expiry", err, "user_id", userID)
		}
		return &dto.AccessResponse{
			State:  dto.AccessExpired,
			Plan:   user.SubscriptionPlan,
			Expiry: user.SubscriptionExpiry,
		}, nil
	}

	if user.SubscriptionStatus == models.SubscriptionStatusExpired || user.HasPaid {
		return &dto.AccessResponse{
			State:  dto.AccessExpired,
			Plan:   user.SubscriptionPlan,
			Expiry: user.SubscriptionExpiry,
		}, nil
	}

	// A plan was selected at checkout but the payment never completed.
	if user.SubscriptionPlan != "" && user.PaymentStatus == models.PaymentStatusPending {
		return &dto.AccessResponse{State: dto.AccessPaymentPending, Plan: user.SubscriptionPlan}, nil
	}

	return &dto.AccessResponse{State: dto.AccessInactive}, nil
}

// RequireActive is the gate in front of paid operations.
func (s *SubscriptionService) RequireActive(ctx context.Context, db *gorm.DB, userID string) error {
	access, err := s.Evaluate(ctx, db, userID)
	if err != nil {
		return err
	}
	if access.State != dto.AccessActive {
		return apperrors.ErrPaymentRequired
	}
	return nil
}

func (s *SubscriptionService) ListPlans() []dto.PlanResponse {
	plans := make([]dto.PlanResponse, 0, len(s.cfg.Subscription.Plans))
	for _, p := range s.cfg.Subscription.Plans {
		plans = append(plans, dto.PlanResponse{
			ID:           p.ID,
			Name:         p.Name,
			Amount:       p.Amount,
			Currency:     p.Currency,
			DurationDays: p.DurationDays,
			Trial:        p.Trial,
		})
	}
	return plans
}

// StartTrial activates a trial plan without going through the gateway.
// One trial per account: any prior plan selection disqualifies.
func (s *SubscriptionService) StartTrial(ctx context.Context, db *gorm.DB, userID, planID string) (*dto.AccessResponse, error) {
	plan := s.cfg.PlanByID(planID)
	if plan == nil || !plan.Trial {
		return nil, apperrors.NewBadRequestError("Unknown trial plan")
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if user.HasPaid || user.SubscriptionPlan != "" {
		return nil, apperrors.NewBadRequestError("Trial is not available for this account")
	}

	expiry := time.Now().AddDate(0, 0, plan.DurationDays)
	if err := s.userRepo.Updates(db, userID, map[string]interface{}{
		"subscription_active": true,
		"subscription_plan":   plan.ID,
		"subscription_status": models.SubscriptionStatusActive,
		"subscription_expiry": expiry,
	}); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "trial started", "user_id", userID, "plan", plan.ID)
	return &dto.AccessResponse{State: dto.AccessActive, Plan: plan.ID, Expiry: &expiry}, nil
}

// CreateOrder registers a checkout with the gateway and records the
// pending order locally. The client launches the hosted checkout with the
// returned order ID and key.
func (s *SubscriptionService) CreateOrder(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	plan := s.cfg.PlanByID(req.PlanID)
	if plan == nil {
		return nil, apperrors.NewBadRequestError("Unknown plan")
	}
	if plan.Trial {
		return nil, apperrors.NewBadRequestError("Trial plans are not purchasable")
	}

	if _, err := s.userRepo.FindByID(db, userID); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	gatewayOrderID, err := s.gateway.CreateOrder(ctx, plan.Amount, plan.Currency,
		fmt.Sprintf("sub_%s", userID),
		map[string]string{"user_id": userID, "plan_id": plan.ID})
	if err != nil {
		logger.CtxWithError(ctx, "gateway order creation failed", err, "user_id", userID, "plan", plan.ID)
		return nil, apperrors.ExternalServiceError(err)
	}

	order := &models.PaymentOrder{
		UserID:         userID,
		PlanID:         plan.ID,
		Amount:         plan.Amount,
		Currency:       plan.Currency,
		GatewayOrderID: gatewayOrderID,
		Status:         models.PaymentStatusPending,
	}
	if err := s.paymentRepo.Create(db, order); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Remember the selected plan so an abandoned checkout surfaces as
	// payment_pending.
	if err := s.userRepo.Updates(db, userID, map[string]interface{}{
		"subscription_plan": plan.ID,
		"payment_status":    models.PaymentStatusPending,
	}); err != nil {
		logger.CtxWithError(ctx, "failed to record pending checkout", err, "user_id", userID)
	}

	return &dto.CreateOrderResponse{
		OrderID:  gatewayOrderID,
		Amount:   plan.Amount,
		Currency: plan.Currency,
		KeyID:    s.cfg.Razorpay.KeyID,
	}, nil
}

// VerifyPayment checks the gateway signature and, only when it passes,
// completes the order and activates the subscription. A failed check
// mutates nothing, so the order stays retryable with a correct signature.
// Re-verifying an already completed order is a no-op success.
func (s *SubscriptionService) VerifyPayment(ctx context.Context, db *gorm.DB, userID string, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error) {
	order, err := s.paymentRepo.FindByGatewayOrderID(db, req.OrderID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrOrderNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if order.UserID != userID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if req.PlanID != order.PlanID {
		return nil, apperrors.NewBadRequestError("Plan does not match the order")
	}

	plan := s.cfg.PlanByID(order.PlanID)
	if plan == nil {
		return nil, apperrors.NewBadRequestError("Unknown plan")
	}

	if order.Status == models.PaymentStatusCompleted {
		user, err := s.userRepo.FindByID(db, userID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		return &dto.VerifyPaymentResponse{
			Verified: true,
			Plan:     user.SubscriptionPlan,
			Expiry:   user.SubscriptionExpiry,
		}, nil
	}

	if !s.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		logger.CtxWarn(ctx, "payment signature rejected",
			"user_id", userID, "order_id", req.OrderID, "security", true)
		return nil, apperrors.ErrInvalidSignature
	}

	if err := s.paymentRepo.MarkCompleted(db, order.ID, req.PaymentID, req.Signature); err != nil {
		return nil, apperrors.InternalError(err)
	}

	expiry := time.Now().AddDate(0, 0, plan.DurationDays)
	if err := s.userRepo.Updates(db, userID, map[string]interface{}{
		"has_paid":            true,
		"subscription_active": true,
		"subscription_plan":   plan.ID,
		"subscription_status": models.SubscriptionStatusActive,
		"subscription_expiry": expiry,
		"payment_status":      models.PaymentStatusCompleted,
	}); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.notificationRepo.CreatePaymentCompletedNotification(db, userID, plan.Name); err != nil {
		logger.CtxWithError(ctx, "failed to create payment notification", err, "user_id", userID)
	}

	logger.CtxInfo(ctx, "subscription activated", "user_id", userID, "plan", plan.ID, "order_id", order.ID)
	return &dto.VerifyPaymentResponse{Verified: true, Plan: plan.ID, Expiry: &expiry}, nil
}

// PaymentHistory lists the user's checkout attempts, newest first.
func (s *SubscriptionService) PaymentHistory(db *gorm.DB, userID string) ([]models.PaymentOrder, error) {
	orders, err := s.paymentRepo.FindByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return orders, nil
}
