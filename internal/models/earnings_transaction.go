package models

import (
	"time"

	"gorm.io/gorm"
)

// TransactionType classifies an earnings ledger entry
type TransactionType string

const (
	TransactionTypeEarning         TransactionType = "EARNING"
	TransactionTypeRentalDeduction TransactionType = "RENTAL_DEDUCTION"
	TransactionTypeAdjustment      TransactionType = "ADJUSTMENT"
	TransactionTypePayout          TransactionType = "PAYOUT"
)

// EarningsTransaction is one signed entry in a rider's earnings ledger.
// Credits (earnings, adjustments in the rider's favour) are positive,
// debits (rental deductions, payouts) are negative. A rider's balance
// is the sum of their entries.
type EarningsTransaction struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	RiderID         uint            `gorm:"index" json:"rider_id"`
	Amount          float64         `gorm:"type:decimal(12,2)" json:"amount"`
	Type            TransactionType `gorm:"type:varchar(30);index" json:"type"`
	Reference       string          `gorm:"type:varchar(100);uniqueIndex" json:"reference"`
	Description     string          `gorm:"type:text" json:"description"`
	RentalPaymentID *uint           `gorm:"index" json:"rental_payment_id,omitempty"`

	// Relationships
	Rider         Rider          `gorm:"foreignKey:RiderID" json:"rider,omitempty"`
	RentalPayment *RentalPayment `gorm:"foreignKey:RentalPaymentID" json:"rental_payment,omitempty"`
}
