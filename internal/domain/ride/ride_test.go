package ride

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Pending(t *testing.T) {
	r := New(1, 2, "Lenina 1", "Pushkina 10", 350)

	assert.Equal(t, StatusPending, r.Status)
	assert.Nil(t, r.SupportID)
	assert.Nil(t, r.CompletedAt)
	assert.NoError(t, r.IsValid())
}

func TestIsValid_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Ride)
		want   error
	}{
		{name: "missing passenger", mutate: func(r *Ride) { r.PassengerID = 0 }, want: ErrInvalidParties},
		{name: "negative driver", mutate: func(r *Ride) { r.DriverID = -4 }, want: ErrInvalidParties},
		{name: "blank start", mutate: func(r *Ride) { r.StartPoint = " " }, want: ErrInvalidRoute},
		{name: "blank end", mutate: func(r *Ride) { r.EndPoint = "" }, want: ErrInvalidRoute},
		{name: "negative price", mutate: func(r *Ride) { r.Price = -0.01 }, want: ErrInvalidPrice},
		{name: "unknown status", mutate: func(r *Ride) { r.Status = "lost" }, want: ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(1, 2, "Lenina 1", "Pushkina 10", 350)
			tt.mutate(r)
			assert.ErrorIs(t, r.IsValid(), tt.want)
		})
	}
}

func TestIsValid_FreeRide(t *testing.T) {
	r := New(1, 2, "Lenina 1", "Pushkina 10", 0)
	assert.NoError(t, r.IsValid())
}

func TestStatus_IsFinal(t *testing.T) {
	tests := []struct {
		status Status
		valid  bool
		final  bool
	}{
		{status: StatusPending, valid: true, final: false},
		{status: StatusInProgress, valid: true, final: false},
		{status: StatusActive, valid: true, final: false},
		{status: StatusCompleted, valid: true, final: true},
		{status: StatusCancelled, valid: true, final: true},
		{status: "done", valid: false, final: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.status.IsValid())
			assert.Equal(t, tt.final, tt.status.IsFinal())
		})
	}
}
