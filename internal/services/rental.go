package services

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/sanjay-reddyy/ev91-production-sub010/internal/models"
)

// AssignVehicleInput is the request to put a rider on a vehicle.
type AssignVehicleInput struct {
	RiderID        uint      `json:"rider_id"`
	VehicleID      string    `json:"vehicle_id"`
	VehicleModelID string    `json:"vehicle_model_id"`
	StartDate      time.Time `json:"start_date"`
	DurationMonths int       `json:"duration_months"`
}

// RentalService manages the rental lifecycle. Creating a rental also
// creates its full payment schedule; the two always commit together.
type RentalService struct {
	db      *gorm.DB
	catalog *VehicleCatalogService
}

func NewRentalService(db *gorm.DB, catalog *VehicleCatalogService) *RentalService {
	return &RentalService{db: db, catalog: catalog}
}

// AssignVehicle creates an ACTIVE rental for a rider with
// depreciation-adjusted pricing from the vehicle catalog, plus the
// monthly payment schedule, in one transaction.
func (s *RentalService) AssignVehicle(ctx context.Context, in AssignVehicleInput) (*models.Rental, error) {
	if in.RiderID == 0 {
		return nil, NewError(ErrCodeValidation, "rider id is required")
	}
	if in.VehicleID == "" || in.VehicleModelID == "" {
		return nil, NewError(ErrCodeValidation, "vehicle id and vehicle model id are required")
	}
	if in.StartDate.IsZero() {
		in.StartDate = time.Now()
	}
	if in.DurationMonths == 0 {
		in.DurationMonths = DefaultScheduleMonths
	}
	if in.DurationMonths < 1 || in.DurationMonths > MaxScheduleMonths {
		return nil, NewError(ErrCodeValidation, "duration out of range")
	}

	var rider models.Rider
	if err := s.db.WithContext(ctx).First(&rider, in.RiderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(ErrCodeNotFound, "rider not found")
		}
		return nil, err
	}

	var activeCount int64
	err := s.db.WithContext(ctx).Model(&models.Rental{}).
		Where("rider_id = ? AND status IN ?", in.RiderID,
			[]models.RentalStatus{models.RentalStatusActive, models.RentalStatusSuspended}).
		Count(&activeCount).Error
	if err != nil {
		return nil, err
	}
	if activeCount > 0 {
		return nil, NewError(ErrCodeAlreadyActiveRental, "rider already has an active rental")
	}

	model, err := s.catalog.GetVehicleModel(ctx, in.VehicleModelID)
	if err != nil {
		return nil, err
	}
	if !model.Available {
		return nil, NewError(ErrCodeValidation, "vehicle model is not available for rent")
	}

	monthlyCost, err := ActualMonthlyCost(model.BaseRentalRate, model.AgeMonths)
	if err != nil {
		return nil, err
	}

	rental := &models.Rental{
		RiderID:           in.RiderID,
		VehicleID:         in.VehicleID,
		VehicleModelID:    in.VehicleModelID,
		MonthlyRentalCost: monthlyCost,
		SecurityDeposit:   SecurityDeposit(monthlyCost),
		StartDate:         in.StartDate,
		EndDate:           in.StartDate.AddDate(0, in.DurationMonths, 0),
		Status:            models.RentalStatusActive,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rental).Error; err != nil {
			return err
		}
		payments, err := BuildSchedule(ScheduleConfig{
			RentalID:          rental.ID,
			RiderID:           rental.RiderID,
			MonthlyRentalCost: rental.MonthlyRentalCost,
			StartDate:         rental.StartDate,
			NumberOfMonths:    in.DurationMonths,
		})
		if err != nil {
			return err
		}
		return tx.Create(&payments).Error
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"rental_id":    rental.ID,
		"rider_id":     rental.RiderID,
		"vehicle_id":   rental.VehicleID,
		"monthly_cost": rental.MonthlyRentalCost,
	}).Info("vehicle assigned")

	return rental, nil
}

// GetRental fetches a rental with its payments.
func (s *RentalService) GetRental(ctx context.Context, rentalID uint) (*models.Rental, error) {
	var rental models.Rental
	err := s.db.WithContext(ctx).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("due_date asc") }).
		First(&rental, rentalID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(ErrCodeNotFound, "rental not found")
		}
		return nil, err
	}
	return &rental, nil
}

// TerminateRental ends an ACTIVE or SUSPENDED rental now.
func (s *RentalService) TerminateRental(ctx context.Context, rentalID uint, notes string) (*models.Rental, error) {
	return s.transition(ctx, rentalID, models.RentalStatusTerminated, notes, map[string]interface{}{"end_date": time.Now()},
		models.RentalStatusActive, models.RentalStatusSuspended)
}

// SuspendRental pauses an ACTIVE rental.
func (s *RentalService) SuspendRental(ctx context.Context, rentalID uint, notes string) (*models.Rental, error) {
	return s.transition(ctx, rentalID, models.RentalStatusSuspended, notes, nil, models.RentalStatusActive)
}

// ResumeRental reactivates a SUSPENDED rental.
func (s *RentalService) ResumeRental(ctx context.Context, rentalID uint, notes string) (*models.Rental, error) {
	return s.transition(ctx, rentalID, models.RentalStatusActive, notes, nil, models.RentalStatusSuspended)
}

// CancelRental cancels a rental that has seen no payment activity and
// deletes its pending schedule. A rental with any settled payment must
// be terminated instead.
func (s *RentalService) CancelRental(ctx context.Context, rentalID uint) (*models.Rental, error) {
	rental, err := s.GetRental(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	var settled int64
	err = s.db.WithContext(ctx).Model(&models.RentalPayment{}).
		Where("rental_id = ? AND (status != ? OR paid_date IS NOT NULL)", rentalID, models.PaymentStatusPending).
		Count(&settled).Error
	if err != nil {
		return nil, err
	}
	if settled > 0 {
		return nil, NewError(ErrCodeInvalidStatus, "rental has payment activity and cannot be cancelled")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("rental_id = ? AND status = ? AND paid_date IS NULL",
			rentalID, models.PaymentStatusPending).
			Delete(&models.RentalPayment{}).Error; err != nil {
			return err
		}
		return tx.Model(rental).Update("status", models.RentalStatusCancelled).Error
	})
	if err != nil {
		return nil, err
	}

	log.WithField("rental_id", rentalID).Info("rental cancelled")
	return rental, nil
}

// ListEndingRentals returns ACTIVE rentals whose end date falls within
// the window. Used by the rental-ending notice job.
func (s *RentalService) ListEndingRentals(ctx context.Context, within time.Duration) ([]models.Rental, error) {
	var rentals []models.Rental
	now := time.Now()
	err := s.db.WithContext(ctx).
		Preload("Rider").
		Where("status = ? AND end_date BETWEEN ? AND ?", models.RentalStatusActive, now, now.Add(within)).
		Find(&rentals).Error
	return rentals, err
}

func (s *RentalService) transition(ctx context.Context, rentalID uint, to models.RentalStatus, notes string, extra map[string]interface{}, from ...models.RentalStatus) (*models.Rental, error) {
	var rental models.Rental
	if err := s.db.WithContext(ctx).First(&rental, rentalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(ErrCodeNotFound, "rental not found")
		}
		return nil, err
	}

	allowed := false
	for _, status := range from {
		if rental.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, NewError(ErrCodeInvalidStatus, "rental is "+string(rental.Status))
	}

	updates := map[string]interface{}{"status": to}
	if notes != "" {
		updates["notes"] = notes
	}
	for k, v := range extra {
		updates[k] = v
	}
	if err := s.db.WithContext(ctx).Model(&rental).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &rental, nil
}
