package ledger

import (
	"context"

	"github.com/gocomet/ride-ledger/internal/domain/driver"
	"github.com/gocomet/ride-ledger/internal/domain/passenger"
	"github.com/gocomet/ride-ledger/internal/domain/ride"
	"github.com/gocomet/ride-ledger/pkg/logger"
)

// SeedResult reports what Seed inserted
type SeedResult struct {
	Skipped    bool
	Passengers int
	Drivers    int
	Rides      int
}

type seedDriver struct {
	name, phone, email string
	balance            float64
	car                driver.Car
}

// seedRide references passengers and drivers by their position in the seed lists
type seedRide struct {
	passenger, driver int
	start, end        string
	price             float64
	status            ride.Status
}

var (
	seedPassengers = []struct{ name, phone, email string }{
		{"Иван Иванов", "+79001231239", "ivan2007@gmail.com"},
		{"Пётр Петров", "+79321102401", "petrushka@gmail.com"},
		{"Матвей Смирнов", "+78992101333", "smirnov2005@mail.ru"},
	}

	seedDrivers = []seedDriver{
		{"Андрей Аллахов", "+78005343123", "io123@mail.ru", 0, driver.Car{Model: "Lada Granta", Number: "A666УЕ152"}},
		{"Алексей Лаков", "+78499999000", "fioqwepwqr@outlook.com", 524, driver.Car{Model: "BMW M5", Number: "В004КО777"}},
	}

	seedRides = []seedRide{
		{0, 0, "Кащенко 5", "Проспект Ленина 68", 6969, ride.StatusPending},
		{1, 0, "Казанское Шоссе 12к6", "Фантастика", 320.12, ride.StatusCompleted},
		{1, 1, "Минина 24к1", "CyberX", 490, ride.StatusCancelled},
		{2, 0, "Парк Культуры", "Улица Белинского", 2310, ride.StatusPending},
		{2, 1, "КиберPride", "Метро Горьковская", 324, ride.StatusInProgress},
	}
)

// Seed loads the demo ledger. It does nothing when passengers already exist.
func (s *Service) Seed(ctx context.Context) (*SeedResult, error) {
	existing, err := s.passengers.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		s.logger.Info("Ledger already populated, skipping seed", logger.Int("passengers", len(existing)))
		return &SeedResult{Skipped: true}, nil
	}

	res := &SeedResult{}

	passengerIDs := make([]int64, 0, len(seedPassengers))
	for _, sp := range seedPassengers {
		email := sp.email
		p := passenger.New(sp.name, sp.phone, &email)
		if err := s.RegisterPassenger(ctx, p); err != nil {
			return nil, err
		}
		passengerIDs = append(passengerIDs, p.ID)
		res.Passengers++
	}

	driverIDs := make([]int64, 0, len(seedDrivers))
	for _, sd := range seedDrivers {
		email := sd.email
		d := driver.New(sd.name, sd.phone, &email, sd.car)
		d.Balance = sd.balance
		if err := s.RegisterDriver(ctx, d); err != nil {
			return nil, err
		}
		driverIDs = append(driverIDs, d.ID)
		res.Drivers++
	}

	for _, sr := range seedRides {
		r := ride.New(passengerIDs[sr.passenger], driverIDs[sr.driver], sr.start, sr.end, sr.price)
		r.Status = sr.status
		if err := s.BookRide(ctx, r); err != nil {
			return nil, err
		}
		res.Rides++
	}

	s.logger.Info("Ledger seeded",
		logger.Int("passengers", res.Passengers),
		logger.Int("drivers", res.Drivers),
		logger.Int("rides", res.Rides),
	)
	return res, nil
}
