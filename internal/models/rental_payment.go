package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentStatus represents the status of a monthly rental payment
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusOverdue PaymentStatus = "OVERDUE"
	PaymentStatusWaived  PaymentStatus = "WAIVED"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// RentalPayment represents one monthly payment obligation of a rental.
// A rental has exactly one payment per scheduled month; the due date is
// always the 1st of the calendar month.
type RentalPayment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	RentalID uint `gorm:"index:idx_rental_payment_month,unique,where:deleted_at IS NULL" json:"rental_id"`
	RiderID  uint `gorm:"index" json:"rider_id"`

	PaymentMonth string    `gorm:"type:varchar(7);index:idx_rental_payment_month,unique,where:deleted_at IS NULL" json:"payment_month"` // "YYYY-MM"
	DueDate      time.Time `gorm:"index" json:"due_date"`

	Amount     float64 `gorm:"type:decimal(12,2)" json:"amount"`
	PaidAmount float64 `gorm:"type:decimal(12,2);default:0" json:"paid_amount"`
	LateFee    float64 `gorm:"type:decimal(12,2);default:0" json:"late_fee"`

	// DaysOverdue is snapshotted when the late fee is applied, for audit.
	// It is not re-derived on later sweeps.
	DaysOverdue int `gorm:"default:0" json:"days_overdue"`

	Status               PaymentStatus `gorm:"type:varchar(20);default:'PENDING';index" json:"status"`
	PaidDate             *time.Time    `json:"paid_date"`
	DeductedFromEarnings bool          `gorm:"default:false" json:"deducted_from_earnings"`
	TransactionID        string        `gorm:"type:varchar(100)" json:"transaction_id"`
	Notes                string        `gorm:"type:text" json:"notes"`

	// Relationships
	Rental Rental `gorm:"foreignKey:RentalID" json:"rental,omitempty"`
	Rider  Rider  `gorm:"foreignKey:RiderID" json:"rider,omitempty"`
}

// OutstandingAmount is what is still owed on this payment including any late fee.
func (p RentalPayment) OutstandingAmount() float64 {
	return p.Amount + p.LateFee - p.PaidAmount
}
