package models

import (
	"time"

	"gorm.io/gorm"
)

// RentalStatus represents the lifecycle status of a vehicle rental
type RentalStatus string

const (
	RentalStatusActive     RentalStatus = "ACTIVE"
	RentalStatusSuspended  RentalStatus = "SUSPENDED"
	RentalStatusTerminated RentalStatus = "TERMINATED"
	RentalStatusCompleted  RentalStatus = "COMPLETED"
	RentalStatusCancelled  RentalStatus = "CANCELLED"
)

// Rental represents an agreement assigning a vehicle to a rider for a monthly fee
type Rental struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	RiderID        uint   `gorm:"index" json:"rider_id"`
	VehicleID      string `gorm:"type:varchar(100);index" json:"vehicle_id"`
	VehicleModelID string `gorm:"type:varchar(100)" json:"vehicle_model_id"`

	MonthlyRentalCost float64      `gorm:"type:decimal(12,2)" json:"monthly_rental_cost"`
	SecurityDeposit   float64      `gorm:"type:decimal(12,2)" json:"security_deposit"`
	StartDate         time.Time    `json:"start_date"`
	EndDate           time.Time    `json:"end_date"`
	Status            RentalStatus `gorm:"type:varchar(20);default:'ACTIVE';index" json:"status"`
	Notes             string       `gorm:"type:text" json:"notes"`

	// Relationships
	Rider    Rider           `gorm:"foreignKey:RiderID" json:"rider,omitempty"`
	Payments []RentalPayment `gorm:"foreignKey:RentalID" json:"payments,omitempty"`
}
