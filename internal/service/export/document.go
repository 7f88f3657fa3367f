package export

import (
	"database/sql"

	"github.com/gocomet/ride-ledger/internal/domain/ride"
)

// TimeLayout renders ride timestamps in every export format
const TimeLayout = "2006-01-02 15:04:05"

// Document is the denormalised, format-independent view of one ride.
// Field order is the key order of the JSON and YAML outputs.
type Document struct {
	Passenger *PassengerBlock `json:"passenger" yaml:"passenger"`
	Driver    *DriverBlock    `json:"driver" yaml:"driver"`
	Support   *SupportBlock   `json:"support" yaml:"support"`
	Route     Route           `json:"route" yaml:"route"`
	Price     float64         `json:"price" yaml:"price"`
	Time      Times           `json:"time" yaml:"time"`
	Status    string          `json:"status" yaml:"status"`
}

type PassengerBlock struct {
	ID       int64    `json:"id" yaml:"id"`
	FullName *string  `json:"full_name" yaml:"full_name"`
	Phone    *string  `json:"phone" yaml:"phone"`
	Email    *string  `json:"email" yaml:"email"`
	Rating   *float64 `json:"rating" yaml:"rating"`
}

type DriverBlock struct {
	ID       int64    `json:"id" yaml:"id"`
	FullName *string  `json:"full_name" yaml:"full_name"`
	Phone    *string  `json:"phone" yaml:"phone"`
	Email    *string  `json:"email" yaml:"email"`
	Rating   *float64 `json:"rating" yaml:"rating"`
	Balance  *float64 `json:"balance" yaml:"balance"`
	Car      Car      `json:"car" yaml:"car"`
}

type Car struct {
	Model  *string `json:"car_model" yaml:"car_model"`
	Number *string `json:"car_number" yaml:"car_number"`
}

// SupportBlock carries the ride's support context. ID is null when the block
// is present only because the ride has both a passenger and a driver.
type SupportBlock struct {
	ID       *int64    `json:"id" yaml:"id"`
	Ticket   TicketRef `json:"ticket" yaml:"ticket"`
	FullName *string   `json:"full_name" yaml:"full_name"`
	Phone    *string   `json:"phone" yaml:"phone"`
	Email    *string   `json:"email" yaml:"email"`
	Status   *string   `json:"status" yaml:"status"`
	Balance  *float64  `json:"balance" yaml:"balance"`
}

type TicketRef struct {
	PassengerID *int64 `json:"passenger_id" yaml:"passenger_id"`
	DriverID    *int64 `json:"driver_id" yaml:"driver_id"`
}

type Route struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

type Times struct {
	CreatedAt   string  `json:"created_at" yaml:"created_at"`
	CompletedAt *string `json:"completed_at" yaml:"completed_at"`
}

// present reports whether an id column holds a usable reference. Zero counts as absent.
func present(id sql.NullInt64) bool {
	return id.Valid && id.Int64 != 0
}

// HasPassenger reports whether the passenger block is emitted
func HasPassenger(row ride.JoinedRow) bool {
	return present(row.PassengerID)
}

// HasDriver reports whether the driver block is emitted
func HasDriver(row ride.JoinedRow) bool {
	return present(row.DriverID)
}

// HasSupport reports whether the support block is emitted: an explicit ticket
// reference, or a ride that links both a passenger and a driver.
// XML applies the same rule so that every format emits the same blocks,
// even though legacy XML exports keyed the block on support_id alone.
func HasSupport(row ride.JoinedRow) bool {
	return present(row.SupportID) || (present(row.PassengerID) && present(row.DriverID))
}

// Shape builds the document for one joined row
func Shape(row ride.JoinedRow) Document {
	doc := Document{
		Route: Route{
			Start: row.StartPoint,
			End:   row.EndPoint,
		},
		Price: row.Price,
		Time: Times{
			CreatedAt:   formatTime(row.CreatedAt),
			CompletedAt: formatNullTime(row.CompletedAt),
		},
		Status: row.Status,
	}

	if HasPassenger(row) {
		doc.Passenger = &PassengerBlock{
			ID:       row.PassengerID.Int64,
			FullName: strPtr(row.PassengerName),
			Phone:    strPtr(row.PassengerPhone),
			Email:    strPtr(row.PassengerEmail),
			Rating:   floatPtr(row.PassengerRating),
		}
	}

	if HasDriver(row) {
		doc.Driver = &DriverBlock{
			ID:       row.DriverID.Int64,
			FullName: strPtr(row.DriverName),
			Phone:    strPtr(row.DriverPhone),
			Email:    strPtr(row.DriverEmail),
			Rating:   floatPtr(row.DriverRating),
			Balance:  floatPtr(row.DriverBalance),
			Car: Car{
				Model:  strPtr(row.CarModel),
				Number: strPtr(row.CarNumber),
			},
		}
	}

	if HasSupport(row) {
		doc.Support = &SupportBlock{
			ID: intPtr(row.SupportID),
			Ticket: TicketRef{
				PassengerID: intPtr(row.PassengerID),
				DriverID:    intPtr(row.DriverID),
			},
			FullName: strPtr(row.SupportName),
			Phone:    strPtr(row.SupportPhone),
			Email:    strPtr(row.SupportEmail),
			Status:   strPtr(row.SupportStatus),
			Balance:  floatPtr(row.SupportBalance),
		}
	}

	return doc
}

// ShapeAll builds one document per row, keeping row order
func ShapeAll(rows []ride.JoinedRow) []Document {
	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, Shape(row))
	}
	return docs
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func floatPtr(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}

func intPtr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64
	return &v
}
