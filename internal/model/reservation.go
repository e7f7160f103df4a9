package model

import "time"

// ReservationStatus is the lifecycle state of a reservation.  The only
// transition is activa -> cancelada.
type ReservationStatus string

const (
	ReservationActiva    ReservationStatus = "activa"
	ReservationCancelada ReservationStatus = "cancelada"
)

// Reservation records a seat booked on a flight by a gestor.
//
// Fields:
//
//	ID         – primary key identifier.
//	UserID     – user who made the reservation (always the caller).
//	FlightID   – flight being reserved.
//	Status     – activa or cancelada.
//	ReservedAt – creation timestamp.
type Reservation struct {
	ID         uint64            `json:"id"`
	UserID     uint64            `json:"user_id"`
	FlightID   uint64            `json:"flight_id"`
	Status     ReservationStatus `json:"status"`
	ReservedAt time.Time         `json:"reserved_at"`
}
