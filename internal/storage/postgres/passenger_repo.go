package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gocomet/ride-ledger/internal/domain/passenger"
	"github.com/gocomet/ride-ledger/pkg/database"
	apperrors "github.com/gocomet/ride-ledger/pkg/errors"
)

// PassengerRepository stores passengers
type PassengerRepository struct {
	db *sql.DB
}

// NewPassengerRepository creates a new passenger repository
func NewPassengerRepository(db *sql.DB) *PassengerRepository {
	return &PassengerRepository{db: db}
}

var _ passenger.Repository = (*PassengerRepository)(nil)

const passengerColumns = `passenger_id, full_name, phone, email, rating`

func (r *PassengerRepository) Create(ctx context.Context, p *passenger.Passenger) error {
	const op = "passenger.create"
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO passengers (full_name, phone, email, rating)
		VALUES ($1, $2, $3, $4)
		RETURNING passenger_id
	`, p.FullName, p.Phone, nullString(p.Email), p.Rating).Scan(&p.ID)
	return database.Translate(op, err)
}

func (r *PassengerRepository) GetByID(ctx context.Context, id int64) (*passenger.Passenger, error) {
	const op = "passenger.get"
	row := r.db.QueryRowContext(ctx, `SELECT `+passengerColumns+` FROM passengers WHERE passenger_id = $1`, id)
	p, err := scanPassenger(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.WithOp(apperrors.ErrPassengerNotFound, op)
	}
	if err != nil {
		return nil, database.Translate(op, err)
	}
	return p, nil
}

func (r *PassengerRepository) List(ctx context.Context) ([]*passenger.Passenger, error) {
	const op = "passenger.list"
	rows, err := r.db.QueryContext(ctx, `SELECT `+passengerColumns+` FROM passengers ORDER BY passenger_id`)
	if err != nil {
		return nil, database.Translate(op, err)
	}
	defer rows.Close()

	var out []*passenger.Passenger
	for rows.Next() {
		p, err := scanPassenger(rows)
		if err != nil {
			return nil, database.Translate(op, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Translate(op, err)
	}
	return out, nil
}

func (r *PassengerRepository) Update(ctx context.Context, p *passenger.Passenger) error {
	const op = "passenger.update"
	res, err := r.db.ExecContext(ctx, `
		UPDATE passengers
		SET full_name = $2, phone = $3, email = $4, rating = $5
		WHERE passenger_id = $1
	`, p.ID, p.FullName, p.Phone, nullString(p.Email), p.Rating)
	if err != nil {
		return database.Translate(op, err)
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return database.Translate(op, err)
	}
	if !ok {
		return apperrors.WithOp(apperrors.ErrPassengerNotFound, op)
	}
	return nil
}

// Delete removes a passenger; rides and tickets referencing it cascade
func (r *PassengerRepository) Delete(ctx context.Context, id int64) error {
	const op = "passenger.delete"
	res, err := r.db.ExecContext(ctx, `DELETE FROM passengers WHERE passenger_id = $1`, id)
	if err != nil {
		return database.Translate(op, err)
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return database.Translate(op, err)
	}
	if !ok {
		return apperrors.WithOp(apperrors.ErrPassengerNotFound, op)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPassenger(row rowScanner) (*passenger.Passenger, error) {
	var (
		p     passenger.Passenger
		email sql.NullString
	)
	if err := row.Scan(&p.ID, &p.FullName, &p.Phone, &email, &p.Rating); err != nil {
		return nil, err
	}
	p.Email = stringPtr(email)
	return &p, nil
}
