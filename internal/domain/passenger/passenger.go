package passenger

import (
	"context"
	"errors"
	"fmt"

	"github.com/gocomet/ride-ledger/pkg/validation"
)

const (
	// DefaultRating is assigned on registration
	DefaultRating = 5.0
	// VIPRating is the rating from which a passenger counts as VIP
	VIPRating = 4.8
)

var (
	ErrPassengerNotFound = errors.New("passenger not found")
	ErrInvalidName       = errors.New("invalid passenger name")
	ErrInvalidPhone      = errors.New("invalid passenger phone")
	ErrInvalidEmail      = errors.New("invalid passenger email")
	ErrInvalidRating     = errors.New("invalid passenger rating")
)

// Passenger represents a registered rider of the ledger
type Passenger struct {
	ID       int64   `json:"id"`
	FullName string  `json:"full_name"`
	Phone    string  `json:"phone"`
	Email    *string `json:"email"`
	Rating   float64 `json:"rating"`
}

// New builds a passenger with the default rating
func New(fullName, phone string, email *string) *Passenger {
	return &Passenger{
		FullName: fullName,
		Phone:    phone,
		Email:    email,
		Rating:   DefaultRating,
	}
}

// IsValid validates the passenger entity
func (p *Passenger) IsValid() error {
	if err := validation.ValidateStringNotEmpty(p.FullName, "full_name"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidName, err)
	}
	if err := validation.ValidatePhone(p.Phone); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPhone, err)
	}
	if err := validation.ValidateOptionalEmail(p.Email); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEmail, err)
	}
	if err := validation.ValidateRating(p.Rating); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRating, err)
	}
	return nil
}

// IsVIP reports whether the passenger's rating qualifies for VIP treatment
func (p *Passenger) IsVIP() bool {
	return p.Rating >= VIPRating
}

// MaskedPhone hides the middle digits: "+79001231239" becomes "+790***31239"
func (p *Passenger) MaskedPhone() string {
	r := []rune(p.Phone)
	head := r
	if len(head) > 4 {
		head = r[:4]
	}
	var tail []rune
	if len(r) > 7 {
		tail = r[7:]
	}
	return string(head) + "***" + string(tail)
}

// Repository defines the interface for passenger data access
type Repository interface {
	Create(ctx context.Context, p *Passenger) error
	GetByID(ctx context.Context, id int64) (*Passenger, error)
	List(ctx context.Context) ([]*Passenger, error)
	Update(ctx context.Context, p *Passenger) error
	Delete(ctx context.Context, id int64) error
}
