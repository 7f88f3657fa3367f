package driver

import (
	"context"
)

// Repository defines the interface for driver data access
type Repository interface {
	// Create inserts a driver and sets its ID
	Create(ctx context.Context, driver *Driver) error

	// GetByID retrieves a driver by ID
	GetByID(ctx context.Context, id int64) (*Driver, error)

	// List retrieves all drivers ordered by ID
	List(ctx context.Context) ([]*Driver, error)

	// Update overwrites a driver's profile, rating, balance and car
	Update(ctx context.Context, driver *Driver) error

	// UpdateStatus updates driver status
	UpdateStatus(ctx context.Context, id int64, status Status) error

	// Delete deletes a driver together with its rides and tickets
	Delete(ctx context.Context, id int64) error
}
