package handler

import (
	"context"

	"github.com/iliyamo/flight-booking-admin/internal/model"
	"github.com/iliyamo/flight-booking-admin/internal/queue"
)

// UserStore is the persistence surface the users service needs.
// *repository.UserRepo implements it.
type UserStore interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	SetToken(ctx context.Context, id uint64, token *string) error
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id uint64, p model.UserPatch) error
}

type NaveStore interface {
	Create(ctx context.Context, n *model.Nave) error
	GetByID(ctx context.Context, id uint64) (*model.Nave, error)
	List(ctx context.Context) ([]model.Nave, error)
	Update(ctx context.Context, id uint64, p model.NavePatch) error
	Delete(ctx context.Context, id uint64) error
}

type FlightStore interface {
	Create(ctx context.Context, f *model.Flight) error
	GetByID(ctx context.Context, id uint64) (*model.Flight, error)
	List(ctx context.Context, filter model.FlightFilter) ([]model.Flight, error)
	Update(ctx context.Context, id uint64, p model.FlightPatch) error
	Delete(ctx context.Context, id uint64) error
}

// ReservationStore creates reservations atomically against an existing
// flight and cancels them only from the activa state.
type ReservationStore interface {
	Create(ctx context.Context, userID, flightID uint64) (*model.Reservation, error)
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	List(ctx context.Context, userID *uint64) ([]model.Reservation, error)
	Cancel(ctx context.Context, id uint64) error
}

// EventPublisher delivers reservation events to the broker.
type EventPublisher interface {
	PublishReservation(ctx context.Context, event queue.ReservationEvent) error
}
