package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gocomet/ride-ledger/internal/domain/driver"
	"github.com/gocomet/ride-ledger/pkg/database"
	apperrors "github.com/gocomet/ride-ledger/pkg/errors"
)

// DriverRepository stores drivers
type DriverRepository struct {
	db *sql.DB
}

// NewDriverRepository creates a new driver repository
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{db: db}
}

var _ driver.Repository = (*DriverRepository)(nil)

const driverColumns = `driver_id, full_name, phone, email, rating, balance, status, car_model, car_number`

func (r *DriverRepository) Create(ctx context.Context, d *driver.Driver) error {
	const op = "driver.create"
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO drivers (full_name, phone, email, rating, balance, status, car_model, car_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING driver_id
	`, d.FullName, d.Phone, nullString(d.Email), d.Rating, d.Balance, string(d.Status),
		d.Car.Model, d.Car.Number).Scan(&d.ID)
	return database.Translate(op, err)
}

func (r *DriverRepository) GetByID(ctx context.Context, id int64) (*driver.Driver, error) {
	const op = "driver.get"
	row := r.db.QueryRowContext(ctx, `SELECT `+driverColumns+` FROM drivers WHERE driver_id = $1`, id)
	d, err := scanDriver(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.WithOp(apperrors.ErrDriverNotFound, op)
	}
	if err != nil {
		return nil, database.Translate(op, err)
	}
	return d, nil
}

func (r *DriverRepository) List(ctx context.Context) ([]*driver.Driver, error) {
	const op = "driver.list"
	rows, err := r.db.QueryContext(ctx, `SELECT `+driverColumns+` FROM drivers ORDER BY driver_id`)
	if err != nil {
		return nil, database.Translate(op, err)
	}
	defer rows.Close()

	var out []*driver.Driver
	for rows.Next() {
		d, err := scanDriver(rows)
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

func (r *DriverRepository) Update(ctx context.Context, d *driver.Driver) error {
	const op = "driver.update"
	res, err := r.db.ExecContext(ctx, `
		UPDATE drivers
		SET full_name = $2, phone = $3, email = $4, rating = $5, balance = $6,
		    status = $7, car_model = $8, car_number = $9
		WHERE driver_id = $1
	`, d.ID, d.FullName, d.Phone, nullString(d.Email), d.Rating, d.Balance,
		string(d.Status), d.Car.Model, d.Car.Number)
	return r.checkAffected(op, res, err)
}

func (r *DriverRepository) UpdateStatus(ctx context.Context, id int64, status driver.Status) error {
	const op = "driver.update_status"
	res, err := r.db.ExecContext(ctx, `UPDATE drivers SET status = $2 WHERE driver_id = $1`, id, string(status))
	return r.checkAffected(op, res, err)
}

// Delete removes a driver; rides and tickets referencing it cascade
func (r *DriverRepository) Delete(ctx context.Context, id int64) error {
	const op = "driver.delete"
	res, err := r.db.ExecContext(ctx, `DELETE FROM drivers WHERE driver_id = $1`, id)
	return r.checkAffected(op, res, err)
}

func (r *DriverRepository) checkAffected(op string, res sql.Result, err error) error {
	if err != nil {
		return database.Translate(op, err)
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return database.Translate(op, err)
	}
	if !ok {
		return apperrors.WithOp(apperrors.ErrDriverNotFound, op)
	}
	return nil
}

func scanDriver(row rowScanner) (*driver.Driver, error) {
	var (
		d                 driver.Driver
		email             sql.NullString
		status            string
		carModel, carNumb sql.NullString
	)
	if err := row.Scan(&d.ID, &d.FullName, &d.Phone, &email, &d.Rating, &d.Balance,
		&status, &carModel, &carNumb); err != nil {
		return nil, err
	}
	d.Email = stringPtr(email)
	d.Status = driver.Status(status)
	d.Car = driver.Car{Model: carModel.String, Number: carNumb.String}
	return &d, nil
}
