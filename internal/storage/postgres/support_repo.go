package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gocomet/ride-ledger/internal/domain/support"
	"github.com/gocomet/ride-ledger/pkg/database"
	apperrors "github.com/gocomet/ride-ledger/pkg/errors"
)

// SupportRepository stores support tickets
type SupportRepository struct {
	db *sql.DB
}

// NewSupportRepository creates a new support ticket repository
func NewSupportRepository(db *sql.DB) *SupportRepository {
	return &SupportRepository{db: db}
}

var _ support.Repository = (*SupportRepository)(nil)

const ticketColumns = `support_id, passenger_id, driver_id, ride_id, category, description, status, priority,
	full_name, phone, email, balance, response, created_at, resolved_at`

func (r *SupportRepository) Create(ctx context.Context, t *support.Ticket) error {
	const op = "support.create"
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO support_tickets (
			passenger_id, driver_id, ride_id, category, description, status, priority,
			full_name, phone, email, balance
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING support_id, created_at
	`, nullInt64(t.PassengerID), nullInt64(t.DriverID), nullInt64(t.RideID),
		string(t.Category), t.Description, string(t.Status), string(t.Priority),
		nullString(t.Contact.FullName), nullString(t.Contact.Phone), nullString(t.Contact.Email),
		nullFloat64(t.Balance)).Scan(&t.ID, &t.CreatedAt)
	return database.Translate(op, err)
}

func (r *SupportRepository) GetByID(ctx context.Context, id int64) (*support.Ticket, error) {
	const op = "support.get"
	row := r.db.QueryRowContext(ctx, `SELECT `+ticketColumns+` FROM support_tickets WHERE support_id = $1`, id)
	t, err := scanTicket(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.WithOp(apperrors.ErrTicketNotFound, op)
	}
	if err != nil {
		return nil, database.Translate(op, err)
	}
	return t, nil
}

func (r *SupportRepository) List(ctx context.Context, status *support.Status) ([]*support.Ticket, error) {
	const op = "support.list"

	var filter sql.NullString
	if status != nil {
		filter = sql.NullString{String: string(*status), Valid: true}
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+ticketColumns+`
		FROM support_tickets
		WHERE $1::text IS NULL OR status = $1::text
		ORDER BY support_id DESC
	`, filter)
	if err != nil {
		return nil, database.Translate(op, err)
	}
	defer rows.Close()

	var out []*support.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, database.Translate(op, err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Translate(op, err)
	}
	return out, nil
}

// Respond records the support desk's answer and moves the ticket to in_progress
func (r *SupportRepository) Respond(ctx context.Context, id int64, response string) error {
	const op = "support.respond"
	res, err := r.db.ExecContext(ctx, `
		UPDATE support_tickets
		SET response = $2, status = 'in_progress'
		WHERE support_id = $1
	`, id, response)
	return r.checkAffected(op, res, err)
}

// Close marks the ticket closed and stamps resolved_at
func (r *SupportRepository) Close(ctx context.Context, id int64) error {
	const op = "support.close"
	res, err := r.db.ExecContext(ctx, `
		UPDATE support_tickets
		SET status = 'closed', resolved_at = LOCALTIMESTAMP(0)
		WHERE support_id = $1
	`, id)
	return r.checkAffected(op, res, err)
}

func (r *SupportRepository) Delete(ctx context.Context, id int64) error {
	const op = "support.delete"
	res, err := r.db.ExecContext(ctx, `DELETE FROM support_tickets WHERE support_id = $1`, id)
	return r.checkAffected(op, res, err)
}

func (r *SupportRepository) checkAffected(op string, res sql.Result, err error) error {
	if err != nil {
		return database.Translate(op, err)
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return database.Translate(op, err)
	}
	if !ok {
		return apperrors.WithOp(apperrors.ErrTicketNotFound, op)
	}
	return nil
}

func scanTicket(row rowScanner) (*support.Ticket, error) {
	var (
		t                      support.Ticket
		passengerID, driverID  sql.NullInt64
		rideID                 sql.NullInt64
		category, status, prio string
		fullName, phone, email sql.NullString
		response               sql.NullString
		balance                sql.NullFloat64
		resolvedAt             sql.NullTime
	)
	if err := row.Scan(&t.ID, &passengerID, &driverID, &rideID, &category, &t.Description, &status, &prio,
		&fullName, &phone, &email, &balance, &response, &t.CreatedAt, &resolvedAt); err != nil {
		return nil, err
	}
	t.PassengerID = int64Ptr(passengerID)
	t.DriverID = int64Ptr(driverID)
	t.RideID = int64Ptr(rideID)
	t.Category = support.Category(category)
	t.Status = support.Status(status)
	t.Priority = support.Priority(prio)
	t.Contact = support.Contact{
		FullName: stringPtr(fullName),
		Phone:    stringPtr(phone),
		Email:    stringPtr(email),
	}
	t.Balance = float64Ptr(balance)
	t.Response = stringPtr(response)
	t.ResolvedAt = timePtr(resolvedAt)
	return &t, nil
}
