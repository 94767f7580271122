package dto

import "time"

// AccessState is the subscription gate decision for a user.
type AccessState string

const (
	AccessActive         AccessState = "active"
	AccessExpired        AccessState = "expired"
	AccessPaymentPending AccessState = "payment_pending"
	AccessInactive       AccessState = "inactive"
)

type AccessResponse struct {
	State  AccessState `json:"state"`
	Plan   string      `json:"plan,omitempty"`
	Expiry *time.Time  `json:"expiry,omitempty"`
}

type PlanResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	DurationDays int    `json:"duration_days"`
	Trial        bool   `json:"trial"`
}

type CreateOrderRequest struct {
	PlanID string `json:"plan_id" validate:"required"`
}

type CreateOrderResponse struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id" validate:"required"`
	PaymentID string `json:"payment_id" validate:"required"`
	Signature string `json:"signature" validate:"required"`
	PlanID    string `json:"plan_id" validate:"required"`
}

type VerifyPaymentResponse struct {
	Verified bool       `json:"verified"`
	Plan     string     `json:"plan,omitempty"`
	Expiry   *time.Time `json:"expiry,omitempty"`
}
