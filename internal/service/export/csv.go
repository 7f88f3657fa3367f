package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/gocomet/ride-ledger/internal/domain/ride"
)

// CSVHeader is the flat column order of the CSV export
var CSVHeader = []string{
	"ride_id",
	"passenger_id", "passenger_name", "passenger_phone", "passenger_email", "passenger_rating",
	"driver_id", "driver_name", "driver_phone", "driver_email", "driver_rating", "driver_balance",
	"car_model", "car_number",
	"support_id", "ticket", "support_name", "support_phone", "support_email", "support_status", "support_balance",
	"start_point", "end_point", "price", "created_at", "completed_at", "ride_status",
}

// CSVWriter writes one header line plus one line per ride. NULL cells are empty.
type CSVWriter struct{}

func (CSVWriter) Format() string   { return "csv" }
func (CSVWriter) Filename() string { return "data.csv" }

func (CSVWriter) Write(w io.Writer, rows []ride.JoinedRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(csvRecord(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRecord(row ride.JoinedRow) []string {
	return []string{
		strconv.FormatInt(row.RideID, 10),
		textInt(row.PassengerID),
		textString(row.PassengerName),
		textString(row.PassengerPhone),
		textString(row.PassengerEmail),
		textFloat(row.PassengerRating),
		textInt(row.DriverID),
		textString(row.DriverName),
		textString(row.DriverPhone),
		textString(row.DriverEmail),
		textFloat(row.DriverRating),
		textFloat(row.DriverBalance),
		textString(row.CarModel),
		textString(row.CarNumber),
		textInt(row.SupportID),
		textString(row.Ticket),
		textString(row.SupportName),
		textString(row.SupportPhone),
		textString(row.SupportEmail),
		textString(row.SupportStatus),
		textFloat(row.SupportBalance),
		row.StartPoint,
		row.EndPoint,
		formatFloat(row.Price),
		formatTime(row.CreatedAt),
		textTime(row.CompletedAt),
		row.Status,
	}
}
