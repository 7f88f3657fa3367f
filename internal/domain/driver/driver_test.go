package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDriver() *Driver {
	email := "pavel@mail.ru"
	return New("Pavel Orlov", "+79101234567", &email, Car{Model: "Kia Rio", Number: "A123BC77"})
}

func TestNew_Defaults(t *testing.T) {
	d := validDriver()

	assert.Equal(t, DefaultRating, d.Rating)
	assert.Equal(t, StatusWaiting, d.Status)
	assert.Zero(t, d.Balance)
	assert.NoError(t, d.IsValid())
}

// TestDriverStatus_Availability tests which statuses may take a new order
func TestDriverStatus_Availability(t *testing.T) {
	tests := []struct {
		name           string
		status         Status
		valid          bool
		canAcceptRides bool
	}{
		{name: "Waiting driver", status: StatusWaiting, valid: true, canAcceptRides: true},
		{name: "Working driver", status: StatusWorking, valid: true, canAcceptRides: false},
		{name: "Pending driver", status: StatusPending, valid: true, canAcceptRides: false},
		{name: "Unknown status", status: "offline", valid: false, canAcceptRides: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Driver{Status: tt.status}
			assert.Equal(t, tt.valid, tt.status.IsValid())
			assert.Equal(t, tt.canAcceptRides, d.CanAcceptRides())
		})
	}
}

func TestSetStatus(t *testing.T) {
	d := validDriver()

	require.NoError(t, d.SetStatus(StatusWorking))
	assert.Equal(t, StatusWorking, d.Status)

	err := d.SetStatus("busy")
	assert.ErrorIs(t, err, ErrInvalidDriverStatus)
	assert.Equal(t, StatusWorking, d.Status, "rejected status must not be applied")
}

func TestIsValid_Rejections(t *testing.T) {
	bad := "not-an-email"
	tests := []struct {
		name   string
		mutate func(d *Driver)
		want   error
	}{
		{name: "blank name", mutate: func(d *Driver) { d.FullName = "  " }, want: ErrInvalidDriverName},
		{name: "bad phone", mutate: func(d *Driver) { d.Phone = "12" }, want: ErrInvalidDriverPhone},
		{name: "bad email", mutate: func(d *Driver) { d.Email = &bad }, want: ErrInvalidDriverEmail},
		{name: "rating above five", mutate: func(d *Driver) { d.Rating = 5.1 }, want: ErrInvalidDriverRating},
		{name: "negative rating", mutate: func(d *Driver) { d.Rating = -1 }, want: ErrInvalidDriverRating},
		{name: "unknown status", mutate: func(d *Driver) { d.Status = "idle" }, want: ErrInvalidDriverStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDriver()
			tt.mutate(d)
			assert.ErrorIs(t, d.IsValid(), tt.want)
		})
	}
}

func TestIsValid_NoEmail(t *testing.T) {
	d := validDriver()
	d.Email = nil
	assert.NoError(t, d.IsValid())
}
