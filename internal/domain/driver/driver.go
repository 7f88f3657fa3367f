package driver

import (
	"fmt"

	"github.com/gocomet/ride-ledger/pkg/validation"
)

// Status represents driver availability status
type Status string

const (
	StatusWorking Status = "working"
	StatusWaiting Status = "waiting"
	StatusPending Status = "pending"
)

// DefaultRating is assigned on registration
const DefaultRating = 5.0

// Car describes the vehicle a driver operates
type Car struct {
	Model  string `json:"car_model"`
	Number string `json:"car_number"`
}

// Driver represents a driver entity
type Driver struct {
	ID       int64   `json:"id"`
	FullName string  `json:"full_name"`
	Phone    string  `json:"phone"`
	Email    *string `json:"email"`
	Rating   float64 `json:"rating"`
	Balance  float64 `json:"balance"`
	Status   Status  `json:"status"`
	Car      Car     `json:"car"`
}

// New builds a waiting driver with the default rating and an empty balance
func New(fullName, phone string, email *string, car Car) *Driver {
	return &Driver{
		FullName: fullName,
		Phone:    phone,
		Email:    email,
		Rating:   DefaultRating,
		Status:   StatusWaiting,
		Car:      car,
	}
}

// IsValid validates the driver entity
func (d *Driver) IsValid() error {
	if err := validation.ValidateStringNotEmpty(d.FullName, "full_name"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDriverName, err)
	}
	if err := validation.ValidatePhone(d.Phone); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDriverPhone, err)
	}
	if err := validation.ValidateOptionalEmail(d.Email); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDriverEmail, err)
	}
	if err := validation.ValidateRating(d.Rating); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDriverRating, err)
	}
	if !d.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidDriverStatus, d.Status)
	}
	return nil
}

// IsValid validates the status
func (s Status) IsValid() bool {
	switch s {
	case StatusWorking, StatusWaiting, StatusPending:
		return true
	}
	return false
}

// CanAcceptRides returns true if driver is idle and waiting for an order
func (d *Driver) CanAcceptRides() bool {
	return d.Status == StatusWaiting
}

// SetStatus updates the driver's status
func (d *Driver) SetStatus(status Status) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidDriverStatus, status)
	}
	d.Status = status
	return nil
}
