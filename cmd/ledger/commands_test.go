package main

import (
	"bytes"
	"testing"

	"github.com/gocomet/ride-ledger/internal/domain/support"
	"github.com/gocomet/ride-ledger/internal/service/pricing"
	"github.com/gocomet/ride-ledger/internal/service/reporting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintSummary(t *testing.T) {
	lo, hi := 320.12, 6969.0
	sum := &reporting.Summary{
		Rides:          5,
		CompletedRides: 1,
		TotalRevenue:   320.12,
		AverageFare:    2082.624,
		Prices:         reporting.Extremes{Min: &lo, Max: &hi},
		SpendPerPassenger: []reporting.PassengerSpend{
			{PassengerID: 1, Name: "Иван Иванов", TotalSpent: 6969},
			{PassengerID: 4, Name: "Новый Пассажир", TotalSpent: 0},
		},
		HighSpenderThreshold: 1000,
		HighSpenders:         []reporting.PassengerSpend{{PassengerID: 1, Name: "Иван Иванов", TotalSpent: 6969}},
		FareTiers:            []reporting.RideTier{{RideID: 2, Price: 320.12, Tier: pricing.TierEconomy}},
		Tickets: support.Stats{
			Total:      1,
			Open:       1,
			ByCategory: []support.CategoryCount{{Category: support.CategoryComplaint, Count: 1}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, printSummary(&buf, sum))
	out := buf.String()

	assert.Contains(t, out, "Total revenue")
	assert.Contains(t, out, "320.12")
	assert.Contains(t, out, "2082.62")
	assert.Contains(t, out, "6969")
	assert.Contains(t, out, "High spenders (over 1000)")
	assert.Contains(t, out, "Economy")
	assert.Contains(t, out, "complaint")
}

func TestPrintSummary_EmptyLedger(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printSummary(&buf, &reporting.Summary{HighSpenderThreshold: 1000}))
	out := buf.String()

	assert.Contains(t, out, "Cheapest ride")
	assert.Contains(t, out, "-")
	assert.Contains(t, out, "none")
}

func TestRun_Usage(t *testing.T) {
	assert.Equal(t, 2, run(nil))
	assert.Equal(t, 2, run([]string{"-bogus"}))
	assert.Equal(t, 2, run([]string{"vacuum"}))
}
