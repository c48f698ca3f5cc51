package models

import (
	"time"

	"gorm.io/gorm"
)

// RiderStatus represents the onboarding/operational status of a rider
type RiderStatus string

const (
	RiderStatusActive    RiderStatus = "ACTIVE"
	RiderStatusSuspended RiderStatus = "SUSPENDED"
	RiderStatusInactive  RiderStatus = "INACTIVE"
)

// Rider represents a delivery rider in the system
type Rider struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name   string      `gorm:"type:varchar(255)" json:"name"`
	Phone  string      `gorm:"type:varchar(50);uniqueIndex" json:"phone"`
	Email  string      `gorm:"type:varchar(255)" json:"email"`
	Status RiderStatus `gorm:"type:varchar(20);default:'ACTIVE'" json:"status"`

	// Relationships
	Rentals      []Rental              `gorm:"foreignKey:RiderID" json:"rentals,omitempty"`
	Payments     []RentalPayment       `gorm:"foreignKey:RiderID" json:"payments,omitempty"`
	Transactions []EarningsTransaction `gorm:"foreignKey:RiderID" json:"transactions,omitempty"`
}
