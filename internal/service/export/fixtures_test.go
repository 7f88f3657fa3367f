package export

import (
	"context"
	"database/sql"
	"time"

	"github.com/gocomet/ride-ledger/internal/domain/ride"
)

func ns(s string) sql.NullString   { return sql.NullString{String: s, Valid: true} }
func ni(v int64) sql.NullInt64     { return sql.NullInt64{Int64: v, Valid: true} }
func nf(f float64) sql.NullFloat64 { return sql.NullFloat64{Float64: f, Valid: true} }
func nt(t time.Time) sql.NullTime  { return sql.NullTime{Time: t, Valid: true} }

var created = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

// ledgerRows mirrors the demo ledger: a completed ride with a ticket, a ride
// without a ticket, and a ride whose driver is missing.
func ledgerRows() []ride.JoinedRow {
	return []ride.JoinedRow{
		{
			RideID:          2,
			PassengerID:     ni(2),
			PassengerName:   ns("Пётр Петров"),
			PassengerPhone:  ns("+79321102401"),
			PassengerEmail:  ns("petrushka@gmail.com"),
			PassengerRating: nf(5),
			DriverID:        ni(1),
			DriverName:      ns("Андрей Аллахов"),
			DriverPhone:     ns("+78005343123"),
			DriverEmail:     ns("io123@mail.ru"),
			DriverRating:    nf(5),
			DriverBalance:   nf(0),
			CarModel:        ns("Lada Granta"),
			CarNumber:       ns("A666УЕ152"),
			SupportID:       ni(1),
			Ticket:          ns("Водитель опоздал <на 10 минут>"),
			SupportName:     ns("Пётр Петров"),
			SupportPhone:    ns("+79321102401"),
			SupportEmail:    ns("petrushka@gmail.com"),
			SupportStatus:   ns("open"),
			SupportBalance:  nf(0),
			StartPoint:      "Казанское Шоссе 12к6",
			EndPoint:        "Фантастика",
			Price:           320.12,
			CreatedAt:       created,
			CompletedAt:     nt(created.Add(25 * time.Minute)),
			Status:          "completed",
		},
		{
			RideID:          3,
			PassengerID:     ni(2),
			PassengerName:   ns("Пётр Петров"),
			PassengerPhone:  ns("+79321102401"),
			PassengerEmail:  ns("petrushka@gmail.com"),
			PassengerRating: nf(5),
			DriverID:        ni(2),
			DriverName:      ns("Алексей Лаков"),
			DriverPhone:     ns("+78499999000"),
			DriverRating:    nf(4.9),
			DriverBalance:   nf(524),
			CarModel:        ns("BMW M5"),
			CarNumber:       ns("В004КО777"),
			StartPoint:      "Минина 24к1",
			EndPoint:        "CyberX",
			Price:           490,
			CreatedAt:       created.Add(time.Hour),
			Status:          "cancelled",
		},
		{
			RideID:          5,
			PassengerID:     ni(3),
			PassengerName:   ns("Матвей Смирнов"),
			PassengerPhone:  ns("+78992101333"),
			PassengerEmail:  ns("smirnov2005@mail.ru"),
			PassengerRating: nf(4.7),
			StartPoint:      "КиберPride",
			EndPoint:        "Метро Горьковская",
			Price:           324,
			CreatedAt:       created.Add(2 * time.Hour),
			Status:          "in_progress",
		},
	}
}

type fakeSource struct {
	rows  []ride.JoinedRow
	err   error
	calls int
}

func (f *fakeSource) ListJoined(ctx context.Context) ([]ride.JoinedRow, error) {
	f.calls++
	return f.rows, f.err
}

type recordedExport struct {
	runID   string
	rides   int
	formats []string
}

type fakeMetrics struct {
	runs []recordedExport
}

func (m *fakeMetrics) RecordExport(runID string, rides int, formats []string, elapsed time.Duration) {
	m.runs = append(m.runs, recordedExport{runID: runID, rides: rides, formats: formats})
}
