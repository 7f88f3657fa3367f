package ledger

import (
	"context"
	"testing"

	"github.com/gocomet/ride-ledger/internal/domain/ride"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, &SeedResult{Passengers: 3, Drivers: 2, Rides: 5}, res)

	rides, err := f.svc.ListRides(ctx)
	require.NoError(t, err)
	require.Len(t, rides, 5)

	var completed []float64
	for _, r := range rides {
		if r.Status == ride.StatusCompleted {
			completed = append(completed, r.Price)
		}
	}
	assert.Equal(t, []float64{320.12}, completed)

	drivers, err := f.svc.ListDrivers(ctx)
	require.NoError(t, err)
	require.Len(t, drivers, 2)
	assert.Equal(t, 524.0, drivers[1].Balance)
	assert.Equal(t, "BMW M5", drivers[1].Car.Model)
}

func TestSeed_SkipsPopulatedLedger(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Seed(ctx)
	require.NoError(t, err)

	res, err := f.svc.Seed(ctx)
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	passengers, err := f.svc.ListPassengers(ctx)
	require.NoError(t, err)
	assert.Len(t, passengers, 3)
}
