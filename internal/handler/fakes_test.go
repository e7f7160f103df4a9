package handler

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/flight-booking-admin/internal/model"
	"github.com/iliyamo/flight-booking-admin/internal/queue"
	"github.com/iliyamo/flight-booking-admin/internal/repository"
)

// memUsers is an in-memory UserStore that also resolves tokens.
type memUsers struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]*model.User
}

func newMemUsers() *memUsers { return &memUsers{rows: map[uint64]*model.User{}} }

func (m *memUsers) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.Email = repository.NormalizeEmail(u.Email)
	for _, r := range m.rows {
		if r.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	m.nextID++
	u.ID = m.nextID
	u.CreatedAt, u.UpdatedAt = time.Now().UTC(), time.Now().UTC()
	cp := *u
	m.rows[u.ID] = &cp
	return nil
}

func (m *memUsers) get(id uint64) *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.rows[id]; ok {
		cp := *u
		return &cp
	}
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.Email == repository.NormalizeEmail(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) GetByToken(_ context.Context, token string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if token == "" {
		return nil, repository.ErrNotFound
	}
	for _, u := range m.rows {
		if u.Token != nil && *u.Token == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) SetToken(_ context.Context, id uint64, token *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Token = token
	return nil
}

func (m *memUsers) List(context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.User, 0, len(m.rows))
	for _, u := range m.rows {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memUsers) Update(_ context.Context, id uint64, p model.UserPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = repository.NormalizeEmail(*p.Email)
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	return nil
}

// seed stores a user holding token directly, bypassing hashing.
func (m *memUsers) seed(name string, role model.Role, token string) *model.User {
	u := &model.User{Name: name, Email: name + "@example.com", PasswordHash: "x", Role: role}
	_ = m.Create(context.Background(), u)
	_ = m.SetToken(context.Background(), u.ID, &token)
	return m.get(u.ID)
}

type memNaves struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]*model.Nave
}

func newMemNaves() *memNaves { return &memNaves{rows: map[uint64]*model.Nave{}} }

func (m *memNaves) Create(_ context.Context, n *model.Nave) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	n.ID = m.nextID
	cp := *n
	m.rows[n.ID] = &cp
	return nil
}

func (m *memNaves) GetByID(_ context.Context, id uint64) (*model.Nave, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (m *memNaves) List(context.Context) ([]model.Nave, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Nave, 0, len(m.rows))
	for _, n := range m.rows {
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memNaves) Update(_ context.Context, id uint64, p model.NavePatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	if p.Name != nil {
		n.Name = *p.Name
	}
	if p.Model != nil {
		n.Model = *p.Model
	}
	if p.Capacity != nil {
		n.Capacity = *p.Capacity
	}
	return nil
}

func (m *memNaves) Delete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type memFlights struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]*model.Flight
}

func newMemFlights() *memFlights { return &memFlights{rows: map[uint64]*model.Flight{}} }

func (m *memFlights) Create(_ context.Context, f *model.Flight) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	f.ID = m.nextID
	cp := *f
	m.rows[f.ID] = &cp
	return nil
}

func (m *memFlights) GetByID(_ context.Context, id uint64) (*model.Flight, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (m *memFlights) List(_ context.Context, filter model.FlightFilter) ([]model.Flight, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Flight, 0)
	for _, f := range m.rows {
		if filter.Origin != "" && f.Origin != filter.Origin {
			continue
		}
		if filter.Destination != "" && f.Destination != filter.Destination {
			continue
		}
		if filter.Date != nil && f.Departure.Format(dateLayout) != filter.Date.Format(dateLayout) {
			continue
		}
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memFlights) Update(_ context.Context, id uint64, p model.FlightPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	if p.NaveID != nil {
		f.NaveID = *p.NaveID
	}
	if p.Origin != nil {
		f.Origin = *p.Origin
	}
	if p.Destination != nil {
		f.Destination = *p.Destination
	}
	if p.Departure != nil {
		f.Departure = *p.Departure
	}
	if p.Arrival != nil {
		f.Arrival = *p.Arrival
	}
	if p.Price != nil {
		f.Price = *p.Price
	}
	return nil
}

func (m *memFlights) Delete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

// memReservations checks flight existence against a memFlights, like the
// INSERT ... SELECT of the SQL store.
type memReservations struct {
	mu      sync.Mutex
	flights *memFlights
	nextID  uint64
	rows    map[uint64]*model.Reservation
}

func newMemReservations(flights *memFlights) *memReservations {
	return &memReservations{flights: flights, rows: map[uint64]*model.Reservation{}}
}

func (m *memReservations) Create(ctx context.Context, userID, flightID uint64) (*model.Reservation, error) {
	if _, err := m.flights.GetByID(ctx, flightID); err != nil {
		return nil, repository.ErrInvalidReference
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	r := &model.Reservation{
		ID:         m.nextID,
		UserID:     userID,
		FlightID:   flightID,
		Status:     model.ReservationActiva,
		ReservedAt: time.Now().UTC(),
	}
	m.rows[r.ID] = r
	cp := *r
	return &cp, nil
}

func (m *memReservations) GetByID(_ context.Context, id uint64) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memReservations) List(_ context.Context, userID *uint64) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Reservation, 0)
	for _, r := range m.rows {
		if userID != nil && r.UserID != *userID {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memReservations) Cancel(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	if r.Status != model.ReservationActiva {
		return repository.ErrConflict
	}
	r.Status = model.ReservationCancelada
	return nil
}

func (m *memReservations) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type chanPublisher struct {
	events chan queue.ReservationEvent
	err    error
}

func newChanPublisher() *chanPublisher {
	return &chanPublisher{events: make(chan queue.ReservationEvent, 16)}
}

func (p *chanPublisher) PublishReservation(_ context.Context, ev queue.ReservationEvent) error {
	p.events <- ev
	return p.err
}
