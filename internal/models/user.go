package models

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	BaseModel
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Role         UserRole   `gorm:"type:varchar(20);not null" json:"role"`
	Status       UserStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	Name         string     `json:"name"`

	// Profile fields
	Phone     string         `json:"phone"`
	Location  string         `json:"location"`
	Education string         `json:"education"`
	Experience string        `json:"experience"`
	Skills    datatypes.JSON `gorm:"type:jsonb" json:"skills"`
	Bio       string         `json:"bio"`
	Website   string         `json:"website"`

	// Subscription / payment gating fields. Absence of an expiry while the
	// other flags are set still denies access (conservative default).
	HasPaid            bool               `gorm:"default:false" json:"has_paid"`
	SubscriptionActive bool               `gorm:"default:false" json:"subscription_active"`
	SubscriptionPlan   string             `json:"subscription_plan"`
	SubscriptionStatus SubscriptionStatus `gorm:"type:varchar(20)" json:"subscription_status"`
	SubscriptionExpiry *time.Time         `json:"subscription_expiry"`
	PaymentStatus      PaymentStatus      `gorm:"type:varchar(20);default:'pending'" json:"payment_status"`

	// Counters maintained best-effort, never authoritative.
	JobsPosted int `gorm:"default:0" json:"jobs_posted"`

	IsVerified        bool   `gorm:"default:false" json:"is_verified"`
	VerificationToken string `json:"-"`
	ResetToken        string `json:"-"`
	ResetTokenExp     *time.Time `json:"-"`

	// Relations
	Resume        *Resume        `gorm:"foreignKey:UserID" json:"resume,omitempty"`
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}
