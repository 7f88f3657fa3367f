package export

import (
	"encoding/xml"
	"io"
	"strconv"

	"github.com/gocomet/ride-ledger/internal/domain/ride"
)

// XMLWriter writes a <rides> document with one <ride> element per row.
// NULL values become empty elements, and completed_at is left out when unset.
type XMLWriter struct{}

func (XMLWriter) Format() string   { return "xml" }
func (XMLWriter) Filename() string { return "data.xml" }

type xmlRides struct {
	XMLName xml.Name  `xml:"rides"`
	Rides   []xmlRide `xml:"ride"`
}

type xmlRide struct {
	RideID      int64         `xml:"ride_id"`
	Passenger   *xmlPassenger `xml:"passenger"`
	Driver      *xmlDriver    `xml:"driver"`
	Support     *xmlSupport   `xml:"support"`
	Route       xmlRoute      `xml:"route"`
	Price       string        `xml:"price"`
	CreatedAt   string        `xml:"created_at"`
	CompletedAt *string       `xml:"completed_at"`
	Status      string        `xml:"status"`
}

type xmlPassenger struct {
	PassengerID string `xml:"passenger_id"`
	FullName    string `xml:"full_name"`
	Phone       string `xml:"phone"`
	Email       string `xml:"email"`
	Rating      string `xml:"rating"`
}

type xmlDriver struct {
	DriverID  string `xml:"driver_id"`
	FullName  string `xml:"full_name"`
	Phone     string `xml:"phone"`
	Email     string `xml:"email"`
	Rating    string `xml:"rating"`
	Balance   string `xml:"balance"`
	CarModel  string `xml:"car_model"`
	CarNumber string `xml:"car_number"`
}

type xmlSupport struct {
	SupportID   string `xml:"support_id"`
	Ticket      string `xml:"ticket"`
	PassengerID string `xml:"passenger_id"`
	DriverID    string `xml:"driver_id"`
	FullName    string `xml:"full_name"`
	Phone       string `xml:"phone"`
	Email       string `xml:"email"`
	Status      string `xml:"status"`
	Balance     string `xml:"balance"`
}

type xmlRoute struct {
	StartPoint string `xml:"start_point"`
	EndPoint   string `xml:"end_point"`
}

func (XMLWriter) Write(w io.Writer, rows []ride.JoinedRow) error {
	doc := xmlRides{Rides: make([]xmlRide, 0, len(rows))}
	for _, row := range rows {
		doc.Rides = append(doc.Rides, xmlRecord(row))
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func xmlRecord(row ride.JoinedRow) xmlRide {
	rec := xmlRide{
		RideID: row.RideID,
		Route: xmlRoute{
			StartPoint: row.StartPoint,
			EndPoint:   row.EndPoint,
		},
		Price:       formatFloat(row.Price),
		CreatedAt:   formatTime(row.CreatedAt),
		CompletedAt: formatNullTime(row.CompletedAt),
		Status:      row.Status,
	}

	if HasPassenger(row) {
		rec.Passenger = &xmlPassenger{
			PassengerID: strconv.FormatInt(row.PassengerID.Int64, 10),
			FullName:    textString(row.PassengerName),
			Phone:       textString(row.PassengerPhone),
			Email:       textString(row.PassengerEmail),
			Rating:      textFloat(row.PassengerRating),
		}
	}

	if HasDriver(row) {
		rec.Driver = &xmlDriver{
			DriverID:  strconv.FormatInt(row.DriverID.Int64, 10),
			FullName:  textString(row.DriverName),
			Phone:     textString(row.DriverPhone),
			Email:     textString(row.DriverEmail),
			Rating:    textFloat(row.DriverRating),
			Balance:   textFloat(row.DriverBalance),
			CarModel:  textString(row.CarModel),
			CarNumber: textString(row.CarNumber),
		}
	}

	if HasSupport(row) {
		rec.Support = &xmlSupport{
			SupportID:   textInt(row.SupportID),
			Ticket:      textString(row.Ticket),
			PassengerID: textInt(row.PassengerID),
			DriverID:    textInt(row.DriverID),
			FullName:    textString(row.SupportName),
			Phone:       textString(row.SupportPhone),
			Email:       textString(row.SupportEmail),
			Status:      textString(row.SupportStatus),
			Balance:     textFloat(row.SupportBalance),
		}
	}

	return rec
}
