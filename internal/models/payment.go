package models

import "time"

// PaymentOrder tracks one checkout attempt against the gateway. It is
// created when checkout starts and flipped to completed exactly once
// after signature verification; it is never deleted in the normal flow.
type PaymentOrder struct {
	BaseModel
	UserID   string `gorm:"not null;index"`
	PlanID   string `gorm:"not null"`
	Amount   int64  `gorm:"not null"` // minor units
	Currency string `gorm:"not null"`

	GatewayOrderID   string `gorm:"uniqueIndex"`
	GatewayPaymentID string
	Signature        string

	Status PaymentStatus `gorm:"type:varchar(20);default:'pending'"`
	PaidAt *time.Time
}
