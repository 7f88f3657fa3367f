package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gocomet/ride-ledger/internal/domain/ride"
	"github.com/gocomet/ride-ledger/pkg/database"
	apperrors "github.com/gocomet/ride-ledger/pkg/errors"
)

// RideRepository stores rides and serves the export join
type RideRepository struct {
	db *sql.DB
}

// NewRideRepository creates a new ride repository
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{db: db}
}

var _ ride.Repository = (*RideRepository)(nil)

const rideColumns = `r.ride_id, r.passenger_id, r.driver_id, r.support_id, r.start_point, r.end_point,
	r.price, r.status, r.created_at, r.completed_at`

// joinedRideQuery is the denormalisation join. Column order is the CSV column order.
const joinedRideQuery = `
	SELECT
		r.ride_id,
		r.passenger_id,
		p.full_name AS passenger_name,
		p.phone AS passenger_phone,
		p.email AS passenger_email,
		p.rating AS passenger_rating,
		r.driver_id,
		d.full_name AS driver_name,
		d.phone AS driver_phone,
		d.email AS driver_email,
		d.rating AS driver_rating,
		d.balance AS driver_balance,
		d.car_model,
		d.car_number,
		r.support_id,
		s.description AS ticket,
		s.full_name AS support_name,
		s.phone AS support_phone,
		s.email AS support_email,
		s.status AS support_status,
		s.balance AS support_balance,
		r.start_point,
		r.end_point,
		r.price,
		r.created_at,
		r.completed_at,
		r.status AS ride_status
	FROM rides r
	LEFT JOIN passengers p ON r.passenger_id = p.passenger_id
	LEFT JOIN drivers d ON r.driver_id = d.driver_id
	LEFT JOIN support_tickets s ON r.support_id = s.support_id
	ORDER BY r.ride_id
`

func (r *RideRepository) Create(ctx context.Context, rd *ride.Ride) error {
	const op = "ride.create"
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO rides (passenger_id, driver_id, support_id, start_point, end_point, price, status, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ride_id, created_at
	`, rd.PassengerID, rd.DriverID, nullInt64(rd.SupportID), rd.StartPoint, rd.EndPoint,
		rd.Price, string(rd.Status), nullTime(rd.CompletedAt)).Scan(&rd.ID, &rd.CreatedAt)
	return database.Translate(op, err)
}

func (r *RideRepository) GetByID(ctx context.Context, id int64) (*ride.Ride, error) {
	const op = "ride.get"
	row := r.db.QueryRowContext(ctx, `SELECT `+rideColumns+` FROM rides r WHERE r.ride_id = $1`, id)
	rd, err := scanRide(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.WithOp(apperrors.ErrRideNotFound, op)
	}
	if err != nil {
		return nil, database.Translate(op, err)
	}
	return rd, nil
}

const rideDetailQuery = `
	SELECT ` + rideColumns + `,
		p.full_name AS passenger_name,
		d.full_name AS driver_name
	FROM rides r
	LEFT JOIN passengers p ON r.passenger_id = p.passenger_id
	LEFT JOIN drivers d ON r.driver_id = d.driver_id
`

// GetDetail returns a ride with its passenger and driver names
func (r *RideRepository) GetDetail(ctx context.Context, id int64) (*ride.Detail, error) {
	const op = "ride.get_detail"
	row := r.db.QueryRowContext(ctx, rideDetailQuery+` WHERE r.ride_id = $1`, id)
	d, err := scanRideDetail(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.WithOp(apperrors.ErrRideNotFound, op)
	}
	if err != nil {
		return nil, database.Translate(op, err)
	}
	return d, nil
}

func (r *RideRepository) List(ctx context.Context) ([]*ride.Detail, error) {
	const op = "ride.list"
	rows, err := r.db.QueryContext(ctx, rideDetailQuery+` ORDER BY r.ride_id`)
	if err != nil {
		return nil, database.Translate(op, err)
	}
	defer rows.Close()

	var out []*ride.Detail
	for rows.Next() {
		d, err := scanRideDetail(rows)
		if err != nil {
			return nil, database.Translate(op, err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Translate(op, err)
	}
	return out, nil
}

// UpdateStatus changes the ride status. Completing a ride stamps completed_at once.
func (r *RideRepository) UpdateStatus(ctx context.Context, id int64, status ride.Status) error {
	const op = "ride.update_status"
	res, err := r.db.ExecContext(ctx, `
		UPDATE rides
		SET status = $2::text,
		    completed_at = CASE
		        WHEN $2::text = 'completed' THEN COALESCE(completed_at, LOCALTIMESTAMP(0))
		        ELSE completed_at
		    END
		WHERE ride_id = $1
	`, id, string(status))
	if err != nil {
		return database.Translate(op, err)
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return database.Translate(op, err)
	}
	if !ok {
		return apperrors.WithOp(apperrors.ErrRideNotFound, op)
	}
	return nil
}

// AttachSupport links a support ticket to the ride
func (r *RideRepository) AttachSupport(ctx context.Context, id, supportID int64) error {
	const op = "ride.attach_support"
	res, err := r.db.ExecContext(ctx, `UPDATE rides SET support_id = $2 WHERE ride_id = $1`, id, supportID)
	if err != nil {
		return database.Translate(op, err)
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return database.Translate(op, err)
	}
	if !ok {
		return apperrors.WithOp(apperrors.ErrRideNotFound, op)
	}
	return nil
}

func (r *RideRepository) Delete(ctx context.Context, id int64) error {
	const op = "ride.delete"
	res, err := r.db.ExecContext(ctx, `DELETE FROM rides WHERE ride_id = $1`, id)
	if err != nil {
		return database.Translate(op, err)
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return database.Translate(op, err)
	}
	if !ok {
		return apperrors.WithOp(apperrors.ErrRideNotFound, op)
	}
	return nil
}

// ListJoined returns every ride joined with its passenger, driver and support ticket,
// ordered by ride id
func (r *RideRepository) ListJoined(ctx context.Context) ([]ride.JoinedRow, error) {
	const op = "ride.list_joined"
	rows, err := r.db.QueryContext(ctx, joinedRideQuery)
	if err != nil {
		return nil, database.Translate(op, err)
	}
	defer rows.Close()

	var out []ride.JoinedRow
	for rows.Next() {
		var j ride.JoinedRow
		if err := rows.Scan(
			&j.RideID,
			&j.PassengerID, &j.PassengerName, &j.PassengerPhone, &j.PassengerEmail, &j.PassengerRating,
			&j.DriverID, &j.DriverName, &j.DriverPhone, &j.DriverEmail, &j.DriverRating, &j.DriverBalance,
			&j.CarModel, &j.CarNumber,
			&j.SupportID, &j.Ticket, &j.SupportName, &j.SupportPhone, &j.SupportEmail, &j.SupportStatus, &j.SupportBalance,
			&j.StartPoint, &j.EndPoint, &j.Price, &j.CreatedAt, &j.CompletedAt, &j.Status,
		); err != nil {
			return nil, database.Translate(op, err)
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Translate(op, err)
	}
	return out, nil
}

func scanRide(row rowScanner) (*ride.Ride, error) {
	var (
		rd          ride.Ride
		supportID   sql.NullInt64
		status      string
		completedAt sql.NullTime
	)
	if err := row.Scan(&rd.ID, &rd.PassengerID, &rd.DriverID, &supportID, &rd.StartPoint, &rd.EndPoint,
		&rd.Price, &status, &rd.CreatedAt, &completedAt); err != nil {
		return nil, err
	}
	rd.SupportID = int64Ptr(supportID)
	rd.Status = ride.Status(status)
	rd.CompletedAt = timePtr(completedAt)
	return &rd, nil
}

func scanRideDetail(row rowScanner) (*ride.Detail, error) {
	var (
		d           ride.Detail
		supportID   sql.NullInt64
		status      string
		completedAt sql.NullTime
	)
	if err := row.Scan(&d.ID, &d.PassengerID, &d.DriverID, &supportID, &d.StartPoint, &d.EndPoint,
		&d.Price, &status, &d.CreatedAt, &completedAt, &d.PassengerName, &d.DriverName); err != nil {
		return nil, err
	}
	d.SupportID = int64Ptr(supportID)
	d.Status = ride.Status(status)
	d.CompletedAt = timePtr(completedAt)
	return &d, nil
}
