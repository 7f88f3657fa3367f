package ride

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gocomet/ride-ledger/pkg/validation"
)

// Status represents ride status
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusActive     Status = "active"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Ride represents a single trip linking one passenger and one driver
type Ride struct {
	ID          int64      `json:"id"`
	PassengerID int64      `json:"passenger_id"`
	DriverID    int64      `json:"driver_id"`
	SupportID   *int64     `json:"support_id"`
	StartPoint  string     `json:"start_point"`
	EndPoint    string     `json:"end_point"`
	Price       float64    `json:"price"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// Detail is a ride together with the names of its passenger and driver
type Detail struct {
	Ride
	PassengerName sql.NullString `json:"-"`
	DriverName    sql.NullString `json:"-"`
}

// JoinedRow is one row of rides LEFT JOIN passengers, drivers and support tickets.
// Column order matches the export query and the CSV header.
type JoinedRow struct {
	RideID          int64
	PassengerID     sql.NullInt64
	PassengerName   sql.NullString
	PassengerPhone  sql.NullString
	PassengerEmail  sql.NullString
	PassengerRating sql.NullFloat64
	DriverID        sql.NullInt64
	DriverName      sql.NullString
	DriverPhone     sql.NullString
	DriverEmail     sql.NullString
	DriverRating    sql.NullFloat64
	DriverBalance   sql.NullFloat64
	CarModel        sql.NullString
	CarNumber       sql.NullString
	SupportID       sql.NullInt64
	Ticket          sql.NullString
	SupportName     sql.NullString
	SupportPhone    sql.NullString
	SupportEmail    sql.NullString
	SupportStatus   sql.NullString
	SupportBalance  sql.NullFloat64
	StartPoint      string
	EndPoint        string
	Price           float64
	CreatedAt       time.Time
	CompletedAt     sql.NullTime
	Status          string
}

// Repository interface
type Repository interface {
	Create(ctx context.Context, ride *Ride) error
	GetByID(ctx context.Context, id int64) (*Ride, error)
	GetDetail(ctx context.Context, id int64) (*Detail, error)
	List(ctx context.Context) ([]*Detail, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	AttachSupport(ctx context.Context, id, supportID int64) error
	Delete(ctx context.Context, id int64) error
	ListJoined(ctx context.Context) ([]JoinedRow, error)
}

// Errors
var (
	ErrRideNotFound   = errors.New("ride not found")
	ErrInvalidStatus  = errors.New("invalid ride status")
	ErrInvalidPrice   = errors.New("invalid ride price")
	ErrInvalidRoute   = errors.New("invalid ride route")
	ErrInvalidParties = errors.New("invalid ride passenger or driver")
)

// New builds a pending ride
func New(passengerID, driverID int64, startPoint, endPoint string, price float64) *Ride {
	return &Ride{
		PassengerID: passengerID,
		DriverID:    driverID,
		StartPoint:  startPoint,
		EndPoint:    endPoint,
		Price:       price,
		Status:      StatusPending,
	}
}

// IsValid validates the ride before it is persisted
func (r *Ride) IsValid() error {
	if err := validation.ValidatePositiveID(r.PassengerID, "passenger_id"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParties, err)
	}
	if err := validation.ValidatePositiveID(r.DriverID, "driver_id"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParties, err)
	}
	if err := validation.ValidateStringNotEmpty(r.StartPoint, "start_point"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRoute, err)
	}
	if err := validation.ValidateStringNotEmpty(r.EndPoint, "end_point"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRoute, err)
	}
	if err := validation.ValidateNonNegativeFloat(r.Price, "price"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPrice, err)
	}
	if !r.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, r.Status)
	}
	return nil
}

// IsValid validates the status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsFinal reports whether no further transitions are expected
func (s Status) IsFinal() bool {
	return s == StatusCompleted || s == StatusCancelled
}
