package ledger

import (
	"context"

	"github.com/gocomet/ride-ledger/internal/domain/driver"
	"github.com/gocomet/ride-ledger/internal/domain/passenger"
	"github.com/gocomet/ride-ledger/internal/domain/ride"
	"github.com/gocomet/ride-ledger/internal/domain/support"
	apperrors "github.com/gocomet/ride-ledger/pkg/errors"
	"github.com/gocomet/ride-ledger/pkg/logger"
	"github.com/gocomet/ride-ledger/pkg/validation"
)

// Invalidator drops cached reports after the ledger changes
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Metrics receives mutation outcomes
type Metrics interface {
	RecordMutation(op string, err error)
}

// Repositories groups the stores the ledger writes to
type Repositories struct {
	Passengers passenger.Repository
	Drivers    driver.Repository
	Rides      ride.Repository
	Tickets    support.Repository
}

// Service is the record store: it validates entities before they reach the
// repositories and keeps the report cache coherent with every write.
type Service struct {
	passengers passenger.Repository
	drivers    driver.Repository
	rides      ride.Repository
	tickets    support.Repository
	cache      Invalidator
	metrics    Metrics
	logger     *logger.Logger
}

// NewService creates a new ledger service. cache and metrics may be nil.
func NewService(repos Repositories, cache Invalidator, metrics Metrics, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		passengers: repos.Passengers,
		drivers:    repos.Drivers,
		rides:      repos.Rides,
		tickets:    repos.Tickets,
		cache:      cache,
		metrics:    metrics,
		logger:     log.Named("ledger"),
	}
}

func invalid(op, message string, err error) error {
	return apperrors.WithOp(apperrors.Validation(message, err), op)
}

func checkID(op string, id int64, field string) error {
	if err := validation.ValidatePositiveID(id, field); err != nil {
		return invalid(op, "invalid "+field, err)
	}
	return nil
}

// mutated records the outcome of a write and invalidates cached reports on success
func (s *Service) mutated(ctx context.Context, op string, err error, fields ...logger.Field) error {
	if s.metrics != nil {
		s.metrics.RecordMutation(op, err)
	}
	if err != nil {
		appErr := apperrors.GetAppError(err)
		s.logger.Warn("Ledger mutation failed",
			append(fields, logger.Op(op), logger.String("kind", string(appErr.Kind)), logger.Err(err))...)
		return err
	}

	s.logger.Info("Ledger mutation", append(fields, logger.Op(op))...)

	if s.cache != nil {
		if cerr := s.cache.Invalidate(ctx); cerr != nil {
			s.logger.Warn("Report cache invalidation failed", logger.Op(op), logger.Err(cerr))
		}
	}
	return nil
}

// Passengers

// RegisterPassenger validates and stores a new passenger, setting its ID
func (s *Service) RegisterPassenger(ctx context.Context, p *passenger.Passenger) error {
	const op = "passenger.create"
	if err := p.IsValid(); err != nil {
		return invalid(op, "invalid passenger", err)
	}
	err := s.passengers.Create(ctx, p)
	return s.mutated(ctx, op, err, logger.Int64("passenger_id", p.ID))
}

func (s *Service) GetPassenger(ctx context.Context, id int64) (*passenger.Passenger, error) {
	if err := checkID("passenger.get", id, "passenger_id"); err != nil {
		return nil, err
	}
	return s.passengers.GetByID(ctx, id)
}

func (s *Service) ListPassengers(ctx context.Context) ([]*passenger.Passenger, error) {
	return s.passengers.List(ctx)
}

// UpdatePassenger overwrites an existing passenger
func (s *Service) UpdatePassenger(ctx context.Context, p *passenger.Passenger) error {
	const op = "passenger.update"
	if err := checkID(op, p.ID, "passenger_id"); err != nil {
		return err
	}
	if err := p.IsValid(); err != nil {
		return invalid(op, "invalid passenger", err)
	}
	err := s.passengers.Update(ctx, p)
	return s.mutated(ctx, op, err, logger.Int64("passenger_id", p.ID))
}

// DeletePassenger removes a passenger together with their rides and tickets
func (s *Service) DeletePassenger(ctx context.Context, id int64) error {
	const op = "passenger.delete"
	if err := checkID(op, id, "passenger_id"); err != nil {
		return err
	}
	err := s.passengers.Delete(ctx, id)
	return s.mutated(ctx, op, err, logger.Int64("passenger_id", id))
}

// Drivers

// RegisterDriver validates and stores a new driver, setting its ID
func (s *Service) RegisterDriver(ctx context.Context, d *driver.Driver) error {
	const op = "driver.create"
	if err := d.IsValid(); err != nil {
		return invalid(op, "invalid driver", err)
	}
	err := s.drivers.Create(ctx, d)
	return s.mutated(ctx, op, err, logger.Int64("driver_id", d.ID))
}

func (s *Service) GetDriver(ctx context.Context, id int64) (*driver.Driver, error) {
	if err := checkID("driver.get", id, "driver_id"); err != nil {
		return nil, err
	}
	return s.drivers.GetByID(ctx, id)
}

func (s *Service) ListDrivers(ctx context.Context) ([]*driver.Driver, error) {
	return s.drivers.List(ctx)
}

func (s *Service) UpdateDriver(ctx context.Context, d *driver.Driver) error {
	const op = "driver.update"
	if err := checkID(op, d.ID, "driver_id"); err != nil {
		return err
	}
	if err := d.IsValid(); err != nil {
		return invalid(op, "invalid driver", err)
	}
	err := s.drivers.Update(ctx, d)
	return s.mutated(ctx, op, err, logger.Int64("driver_id", d.ID))
}

// SetDriverStatus moves a driver between working, waiting and pending
func (s *Service) SetDriverStatus(ctx context.Context, id int64, status driver.Status) error {
	const op = "driver.update_status"
	if err := checkID(op, id, "driver_id"); err != nil {
		return err
	}
	if !status.IsValid() {
		return invalid(op, "invalid driver status", driver.ErrInvalidDriverStatus)
	}
	err := s.drivers.UpdateStatus(ctx, id, status)
	return s.mutated(ctx, op, err, logger.Int64("driver_id", id), logger.String("status", string(status)))
}

// DeleteDriver removes a driver together with their rides and tickets
func (s *Service) DeleteDriver(ctx context.Context, id int64) error {
	const op = "driver.delete"
	if err := checkID(op, id, "driver_id"); err != nil {
		return err
	}
	err := s.drivers.Delete(ctx, id)
	return s.mutated(ctx, op, err, logger.Int64("driver_id", id))
}

// Rides

// BookRide validates and stores a ride. Unknown passenger or driver ids fail
// with a ConstraintError from the store.
func (s *Service) BookRide(ctx context.Context, r *ride.Ride) error {
	const op = "ride.create"
	if r.Status == "" {
		r.Status = ride.StatusPending
	}
	if err := r.IsValid(); err != nil {
		return invalid(op, "invalid ride", err)
	}
	err := s.rides.Create(ctx, r)
	return s.mutated(ctx, op, err,
		logger.Int64("ride_id", r.ID),
		logger.Int64("passenger_id", r.PassengerID),
		logger.Int64("driver_id", r.DriverID),
	)
}

func (s *Service) GetRide(ctx context.Context, id int64) (*ride.Ride, error) {
	if err := checkID("ride.get", id, "ride_id"); err != nil {
		return nil, err
	}
	return s.rides.GetByID(ctx, id)
}

// GetRideDetail returns a ride with its passenger and driver names
func (s *Service) GetRideDetail(ctx context.Context, id int64) (*ride.Detail, error) {
	if err := checkID("ride.get_detail", id, "ride_id"); err != nil {
		return nil, err
	}
	return s.rides.GetDetail(ctx, id)
}

func (s *Service) ListRides(ctx context.Context) ([]*ride.Detail, error) {
	return s.rides.List(ctx)
}

// UpdateRideStatus changes a ride's status. Completing a ride stamps its completion time.
func (s *Service) UpdateRideStatus(ctx context.Context, id int64, status ride.Status) error {
	const op = "ride.update_status"
	if err := checkID(op, id, "ride_id"); err != nil {
		return err
	}
	if !status.IsValid() {
		return invalid(op, "invalid ride status", ride.ErrInvalidStatus)
	}
	err := s.rides.UpdateStatus(ctx, id, status)
	return s.mutated(ctx, op, err, logger.Int64("ride_id", id), logger.String("status", string(status)))
}

func (s *Service) DeleteRide(ctx context.Context, id int64) error {
	const op = "ride.delete"
	if err := checkID(op, id, "ride_id"); err != nil {
		return err
	}
	err := s.rides.Delete(ctx, id)
	return s.mutated(ctx, op, err, logger.Int64("ride_id", id))
}

// Support tickets

// OpenTicket stores a support ticket. Legacy status values are normalised first,
// and a ticket that references a ride becomes that ride's support ticket.
func (s *Service) OpenTicket(ctx context.Context, t *support.Ticket) error {
	const op = "support.create"
	if t.Status == "" {
		t.Status = support.StatusOpen
	}
	if t.Priority == "" {
		t.Priority = support.PriorityNormal
	}
	status, err := support.NormalizeStatus(string(t.Status))
	if err != nil {
		return invalid(op, "invalid ticket", err)
	}
	t.Status = status
	if err := t.IsValid(); err != nil {
		return invalid(op, "invalid ticket", err)
	}

	if err := s.tickets.Create(ctx, t); err != nil {
		return s.mutated(ctx, op, err)
	}
	if t.RideID != nil {
		if err := s.rides.AttachSupport(ctx, *t.RideID, t.ID); err != nil {
			return s.mutated(ctx, "ride.attach_support", err, logger.Int64("support_id", t.ID))
		}
	}
	return s.mutated(ctx, op, nil, logger.Int64("support_id", t.ID), logger.String("category", string(t.Category)))
}

func (s *Service) GetTicket(ctx context.Context, id int64) (*support.Ticket, error) {
	if err := checkID("support.get", id, "support_id"); err != nil {
		return nil, err
	}
	return s.tickets.GetByID(ctx, id)
}

// ListTickets returns tickets newest first, optionally filtered by status
func (s *Service) ListTickets(ctx context.Context, status *support.Status) ([]*support.Ticket, error) {
	if status != nil {
		normalized, err := support.NormalizeStatus(string(*status))
		if err != nil {
			return nil, invalid("support.list", "invalid ticket status", err)
		}
		status = &normalized
	}
	return s.tickets.List(ctx, status)
}

// RespondTicket records the support desk's answer and moves the ticket to in_progress
func (s *Service) RespondTicket(ctx context.Context, id int64, response string) error {
	const op = "support.respond"
	if err := checkID(op, id, "support_id"); err != nil {
		return err
	}
	if err := validation.ValidateStringNotEmpty(response, "response"); err != nil {
		return invalid(op, "invalid ticket response", support.ErrEmptyResponse)
	}
	err := s.tickets.Respond(ctx, id, response)
	return s.mutated(ctx, op, err, logger.Int64("support_id", id))
}

// CloseTicket closes the ticket and stamps its resolution time
func (s *Service) CloseTicket(ctx context.Context, id int64) error {
	const op = "support.close"
	if err := checkID(op, id, "support_id"); err != nil {
		return err
	}
	err := s.tickets.Close(ctx, id)
	return s.mutated(ctx, op, err, logger.Int64("support_id", id))
}

func (s *Service) DeleteTicket(ctx context.Context, id int64) error {
	const op = "support.delete"
	if err := checkID(op, id, "support_id"); err != nil {
		return err
	}
	err := s.tickets.Delete(ctx, id)
	return s.mutated(ctx, op, err, logger.Int64("support_id", id))
}
