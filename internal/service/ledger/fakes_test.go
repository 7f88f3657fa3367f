package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/gocomet/ride-ledger/internal/domain/driver"
	"github.com/gocomet/ride-ledger/internal/domain/passenger"
	"github.com/gocomet/ride-ledger/internal/domain/ride"
	"github.com/gocomet/ride-ledger/internal/domain/support"
	apperrors "github.com/gocomet/ride-ledger/pkg/errors"
)

// memStore is an in-memory ledger shared by the fake repositories
type memStore struct {
	passengers map[int64]passenger.Passenger
	drivers    map[int64]driver.Driver
	rides      map[int64]ride.Ride
	tickets    map[int64]support.Ticket
	nextID     int64
	calls      int
	failWith   error
}

func newMemStore() *memStore {
	return &memStore{
		passengers: map[int64]passenger.Passenger{},
		drivers:    map[int64]driver.Driver{},
		rides:      map[int64]ride.Ride{},
		tickets:    map[int64]support.Ticket{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) enter() error {
	m.calls++
	return m.failWith
}

func (m *memStore) repos() Repositories {
	return Repositories{
		Passengers: &fakePassengers{m},
		Drivers:    &fakeDrivers{m},
		Rides:      &fakeRides{m},
		Tickets:    &fakeTickets{m},
	}
}

func sortedKeys[V any](in map[int64]V) []int64 {
	keys := make([]int64, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

type fakePassengers struct{ m *memStore }

func (f *fakePassengers) Create(ctx context.Context, p *passenger.Passenger) error {
	if err := f.m.enter(); err != nil {
		return err
	}
	for _, existing := range f.m.passengers {
		if existing.Phone == p.Phone {
			return apperrors.Constraint("passenger.create", "duplicate value violates unique constraint \"passengers_phone_key\"", nil)
		}
	}
	p.ID = f.m.id()
	f.m.passengers[p.ID] = *p
	return nil
}

func (f *fakePassengers) GetByID(ctx context.Context, id int64) (*passenger.Passenger, error) {
	if err := f.m.enter(); err != nil {
		return nil, err
	}
	p, ok := f.m.passengers[id]
	if !ok {
		return nil, apperrors.WithOp(apperrors.ErrPassengerNotFound, "passenger.get")
	}
	return &p, nil
}

func (f *fakePassengers) List(ctx context.Context) ([]*passenger.Passenger, error) {
	if err := f.m.enter(); err != nil {
		return nil, err
	}
	var out []*passenger.Passenger
	for _, id := range sortedKeys(f.m.passengers) {
		p := f.m.passengers[id]
		out = append(out, &p)
	}
	return out, nil
}

func (f *fakePassengers) Update(ctx context.Context, p *passenger.Passenger) error {
	if err := f.m.enter(); err != nil {
		return err
	}
	if _, ok := f.m.passengers[p.ID]; !ok {
		return apperrors.WithOp(apperrors.ErrPassengerNotFound, "passenger.update")
	}
	f.m.passengers[p.ID] = *p
	return nil
}

func (f *fakePassengers) Delete(ctx context.Context, id int64) error {
	if err := f.m.enter(); err != nil {
		return err
	}
	if _, ok := f.m.passengers[id]; !ok {
		return apperrors.WithOp(apperrors.ErrPassengerNotFound, "passenger.delete")
	}
	delete(f.m.passengers, id)
	for rid, r := range f.m.rides {
		if r.PassengerID == id {
			delete(f.m.rides, rid)
		}
	}
	return nil
}

type fakeDrivers struct{ m *memStore }

func (f *fakeDrivers) Create(ctx context.Context, d *driver.Driver) error {
	if err := f.m.enter(); err != nil {
		return err
	}
	d.ID = f.m.id()
	f.m.drivers[d.ID] = *d
	return nil
}

func (f *fakeDrivers) GetByID(ctx context.Context, id int64) (*driver.Driver, error) {
	if err := f.m.enter(); err != nil {
		return nil, err
	}
	d, ok := f.m.drivers[id]
	if !ok {
		return nil, apperrors.WithOp(apperrors.ErrDriverNotFound, "driver.get")
	}
	return &d, nil
}

func (f *fakeDrivers) List(ctx context.Context) ([]*driver.Driver, error) {
	if err := f.m.enter(); err != nil {
		return nil, err
	}
	var out []*driver.Driver
	for _, id := range sortedKeys(f.m.drivers) {
		d := f.m.drivers[id]
		out = append(out, &d)
	}
	return out, nil
}

func (f *fakeDrivers) Update(ctx context.Context, d *driver.Driver) error {
	if err := f.m.enter(); err != nil {
		return err
	}
	if _, ok := f.m.drivers[d.ID]; !ok {
		return apperrors.WithOp(apperrors.ErrDriverNotFound, "driver.update")
	}
	f.m.drivers[d.ID] = *d
	return nil
}

func (f *fakeDrivers) UpdateStatus(ctx context.Context, id int64, status driver.Status) error {
	if err := f.m.enter(); err != nil {
		return err
	}
	d, ok := f.m.drivers[id]
	if !ok {
		return apperrors.WithOp(apperrors.ErrDriverNotFound, "driver.update_status")
	}
	d.Status = status
	f.m.drivers[id] = d
	return nil
}

func (f *fakeDrivers) Delete(ctx context.Context, id int64) error {
	if err := f.m.enter(); err != nil {
		return err
	}
	if _, ok := f.m.drivers[id]; !ok {
		return apperrors.WithOp(apperrors.ErrDriverNotFound, "driver.delete")
	}
	delete(f.m.drivers, id)
	return nil
}

type fakeRides struct{ m *memStore }

func (f *fakeRides) Create(ctx context.Context, r *ride.Ride) error {
	if err := f.m.enter(); err != nil {
		return err
	}
	_, okP := f.m.passengers[r.PassengerID]
	_, okD := f.m.drivers[r.DriverID]
	if !okP || !okD {
		return apperrors.Constraint("ride.create", "referenced row does not exist or is still referenced", nil)
	}
	r.ID = f.m.id()
	r.CreatedAt = time.Now()
	f.m.rides[r.ID] = *r
	return nil
}

func (f *fakeRides) GetByID(ctx context.Context, id int64) (*ride.Ride, error) {
	if err := f.m.enter(); err != nil {
		return nil, err
	}
	r, ok := f.m.rides[id]
	if !ok {
		return nil, apperrors.WithOp(apperrors.ErrRideNotFound, "ride.get")
	}
	return &r, nil
}

func (f *fakeRides) GetDetail(ctx context.Context, id int64) (*ride.Detail, error) {
	r, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ride.Detail{Ride: *r}, nil
}

func (f *fakeRides) List(ctx context.Context) ([]*ride.Detail, error) {
	if err := f.m.enter(); err != nil {
		return nil, err
	}
	var out []*ride.Detail
	for _, id := range sortedKeys(f.m.rides) {
		out = append(out, &ride.Detail{Ride: f.m.rides[id]})
	}
	return out, nil
}

func (f *fakeRides) UpdateStatus(ctx context.Context, id int64, status ride.Status) error {
	if err := f.m.enter(); err != nil {
		return err
	}
	r, ok := f.m.rides[id]
	if !ok {
		return apperrors.WithOp(apperrors.ErrRideNotFound, "ride.update_status")
	}
	r.Status = status
	f.m.rides[id] = r
	return nil
}

func (f *fakeRides) AttachSupport(ctx context.Context, id, supportID int64) error {
	if err := f.m.enter(); err != nil {
		return err
	}
	r, ok := f.m.rides[id]
	if !ok {
		return apperrors.WithOp(apperrors.ErrRideNotFound, "ride.attach_support")
	}
	r.SupportID = &supportID
	f.m.rides[id] = r
	return nil
}

func (f *fakeRides) Delete(ctx context.Context, id int64) error {
	if err := f.m.enter(); err != nil {
		return err
	}
	if _, ok := f.m.rides[id]; !ok {
		return apperrors.WithOp(apperrors.ErrRideNotFound, "ride.delete")
	}
	delete(f.m.rides, id)
	return nil
}

func (f *fakeRides) ListJoined(ctx context.Context) ([]ride.JoinedRow, error) {
	return nil, nil
}

type fakeTickets struct{ m *memStore }

func (f *fakeTickets) Create(ctx context.Context, t *support.Ticket) error {
	if err := f.m.enter(); err != nil {
		return err
	}
	t.ID = f.m.id()
	t.CreatedAt = time.Now()
	f.m.tickets[t.ID] = *t
	return nil
}

func (f *fakeTickets) GetByID(ctx context.Context, id int64) (*support.Ticket, error) {
	if err := f.m.enter(); err != nil {
		return nil, err
	}
	t, ok := f.m.tickets[id]
	if !ok {
		return nil, apperrors.WithOp(apperrors.ErrTicketNotFound, "support.get")
	}
	return &t, nil
}

func (f *fakeTickets) List(ctx context.Context, status *support.Status) ([]*support.Ticket, error) {
	if err := f.m.enter(); err != nil {
		return nil, err
	}
	keys := sortedKeys(f.m.tickets)
	var out []*support.Ticket
	for i := len(keys) - 1; i >= 0; i-- {
		t := f.m.tickets[keys[i]]
		if status != nil && t.Status != *status {
			continue
		}
		out = append(out, &t)
	}
	return out, nil
}

func (f *fakeTickets) Respond(ctx context.Context, id int64, response string) error {
	if err := f.m.enter(); err != nil {
		return err
	}
	t, ok := f.m.tickets[id]
	if !ok {
		return apperrors.WithOp(apperrors.ErrTicketNotFound, "support.respond")
	}
	t.Response = &response
	t.Status = support.StatusInProgress
	f.m.tickets[id] = t
	return nil
}

func (f *fakeTickets) Close(ctx context.Context, id int64) error {
	if err := f.m.enter(); err != nil {
		return err
	}
	t, ok := f.m.tickets[id]
	if !ok {
		return apperrors.WithOp(apperrors.ErrTicketNotFound, "support.close")
	}
	now := time.Now()
	t.Status = support.StatusClosed
	t.ResolvedAt = &now
	f.m.tickets[id] = t
	return nil
}

func (f *fakeTickets) Delete(ctx context.Context, id int64) error {
	if err := f.m.enter(); err != nil {
		return err
	}
	if _, ok := f.m.tickets[id]; !ok {
		return apperrors.WithOp(apperrors.ErrTicketNotFound, "support.delete")
	}
	delete(f.m.tickets, id)
	return nil
}

type countingCache struct {
	invalidations int
	err           error
}

func (c *countingCache) Invalidate(ctx context.Context) error {
	c.invalidations++
	return c.err
}

type mutation struct {
	op string
	ok bool
}

type fakeMetrics struct {
	mutations []mutation
}

func (f *fakeMetrics) RecordMutation(op string, err error) {
	f.mutations = append(f.mutations, mutation{op: op, ok: err == nil})
}
