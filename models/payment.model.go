package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentMethod defines how a purchase was captured
type PaymentMethod string

const (
	PaymentMethodSandbox PaymentMethod = "sandbox"
	PaymentMethodCard    PaymentMethod = "card"
)

// PaymentStatus defines the status of a purchase attempt
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// Payment records one purchase attempt for a course. A COMPLETED payment
// gates enrollment creation.
type Payment struct {
	gorm.Model
	UserID   uint          `json:"user_id" gorm:"index;not null"`
	CourseID uint          `json:"course_id" gorm:"index;not null"`
	Amount   float64       `json:"amount" gorm:"not null"`
	Currency string        `json:"currency" gorm:"type:varchar(10);default:'usd'"`
	Method   PaymentMethod `json:"method" gorm:"type:varchar(20);default:'sandbox'"`
	Status   PaymentStatus `json:"status" gorm:"type:varchar(20);default:'PENDING'"`

	// Gateway correlation (card payments only)
	GatewaySessionID string `json:"gateway_session_id" gorm:"type:varchar(100);index"`
	GatewayPaymentID string `json:"gateway_payment_id" gorm:"type:varchar(100)"`

	TransactionID string    `json:"transaction_id" gorm:"type:varchar(100);unique"`
	ReceiptURL    string    `json:"receipt_url"`
	PaymentDate   time.Time `json:"payment_date"`
	IsDeleted     bool      `gorm:"default:false"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
