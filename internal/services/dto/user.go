package dto

import (
	"time"

	"jobportal_backend/internal/models"
)

type UserResponse struct {
	ID                 string                    `json:"id"`
	Email              string                    `json:"email"`
	Role               models.UserRole           `json:"role"`
	Name               string                    `json:"name"`
	Phone              string                    `json:"phone,omitempty"`
	Location           string                    `json:"location,omitempty"`
	Education          string                    `json:"education,omitempty"`
	Experience         string                    `json:"experience,omitempty"`
	Skills             []string                  `json:"skills,omitempty"`
	Bio                string                    `json:"bio,omitempty"`
	Website            string                    `json:"website,omitempty"`
	HasPaid            bool                      `json:"has_paid"`
	SubscriptionActive bool                      `json:"subscription_active"`
	SubscriptionPlan   string                    `json:"subscription_plan,omitempty"`
	SubscriptionExpiry *time.Time                `json:"subscription_expiry,omitempty"`
	PaymentStatus      models.PaymentStatus      `json:"payment_status"`
	ResumeURL          string                    `json:"resume_url,omitempty"`
	CreatedAt          time.Time                 `json:"created_at"`
}

type UpdateProfileRequest struct {
	Name       *string   `json:"name,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	Location   *string   `json:"location,omitempty"`
	Education  *string   `json:"education,omitempty"`
	Experience *string   `json:"experience,omitempty"`
	Skills     []string  `json:"skills,omitempty"`
	Bio        *string   `json:"bio,omitempty"`
	Website    *string   `json:"website,omitempty" validate:"omitempty,url"`
}
