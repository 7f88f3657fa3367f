package support

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocomet/ride-ledger/pkg/validation"
)

// Status of a support ticket
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusClosed     Status = "closed"
)

// Priority of a support ticket
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Category of a support ticket
type Category string

const (
	CategoryComplaint  Category = "complaint"
	CategoryQuestion   Category = "question"
	CategorySuggestion Category = "suggestion"
	CategoryTechnical  Category = "technical"
	CategoryPayment    Category = "payment"
	CategoryOther      Category = "other"
)

// Contact is the person the support desk talks to about the ticket
type Contact struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
}

// Ticket is a support request, optionally tied to a passenger, a driver and a ride
type Ticket struct {
	ID          int64      `json:"id"`
	PassengerID *int64     `json:"passenger_id"`
	DriverID    *int64     `json:"driver_id"`
	RideID      *int64     `json:"ride_id"`
	Category    Category   `json:"category"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	Contact     Contact    `json:"contact"`
	Balance     *float64   `json:"balance"`
	Response    *string    `json:"response"`
	CreatedAt   time.Time  `json:"created_at"`
	ResolvedAt  *time.Time `json:"resolved_at"`
}

var (
	ErrTicketNotFound     = errors.New("support ticket not found")
	ErrInvalidCategory    = errors.New("invalid ticket category")
	ErrInvalidStatus      = errors.New("invalid ticket status")
	ErrInvalidPriority    = errors.New("invalid ticket priority")
	ErrInvalidDescription = errors.New("invalid ticket description")
	ErrInvalidContact     = errors.New("invalid ticket contact")
	ErrInvalidReference   = errors.New("invalid ticket reference")
	ErrEmptyResponse      = errors.New("empty ticket response")
)

// New builds an open ticket with normal priority
func New(category Category, description string) *Ticket {
	return &Ticket{
		Category:    category,
		Description: description,
		Status:      StatusOpen,
		Priority:    PriorityNormal,
	}
}

// IsValid validates the ticket before it is persisted
func (t *Ticket) IsValid() error {
	if !t.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, t.Category)
	}
	if err := validation.ValidateStringNotEmpty(t.Description, "description"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDescription, err)
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	for name, id := range map[string]*int64{"passenger_id": t.PassengerID, "driver_id": t.DriverID, "ride_id": t.RideID} {
		if id == nil {
			continue
		}
		if err := validation.ValidatePositiveID(*id, name); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidReference, err)
		}
	}
	if t.Contact.Phone != nil {
		if err := validation.ValidatePhone(*t.Contact.Phone); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidContact, err)
		}
	}
	if err := validation.ValidateOptionalEmail(t.Contact.Email); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidContact, err)
	}
	return nil
}

func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusClosed:
		return true
	}
	return false
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return true
	}
	return false
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryComplaint, CategoryQuestion, CategorySuggestion,
		CategoryTechnical, CategoryPayment, CategoryOther:
		return true
	}
	return false
}

// NormalizeStatus maps the legacy working/waiting/pending ticket states onto
// the canonical open/in_progress/closed set.
func NormalizeStatus(raw string) (Status, error) {
	switch raw {
	case "waiting", "pending":
		return StatusOpen, nil
	case "working":
		return StatusInProgress, nil
	}
	s := Status(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// Stats summarises the ticket queue
type Stats struct {
	Total      int64           `json:"total"`
	Open       int64           `json:"open"`
	InProgress int64           `json:"in_progress"`
	Closed     int64           `json:"closed"`
	ByCategory []CategoryCount `json:"by_category"`
}

// CategoryCount is the number of tickets in one category
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int64    `json:"count"`
}

// Repository defines the interface for support ticket data access
type Repository interface {
	Create(ctx context.Context, t *Ticket) error
	GetByID(ctx context.Context, id int64) (*Ticket, error)
	// List returns tickets newest first; a nil status returns every ticket
	List(ctx context.Context, status *Status) ([]*Ticket, error)
	Respond(ctx context.Context, id int64, response string) error
	Close(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}
