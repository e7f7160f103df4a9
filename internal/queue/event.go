// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

import "time"

// Event types carried in ReservationEvent.Type.
const (
	EventReservationCreated   = "reservation.created"
	EventReservationCancelled = "reservation.cancelled"
)

// ReservationEvent is published whenever a reservation is created or
// cancelled.  It carries enough information for downstream consumers to log
// or notify without querying the primary database.
type ReservationEvent struct {
	Type          string `json:"type"`
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
	FlightID      uint64 `json:"flight_id"`
	Status        string `json:"status"`
	OccurredAt    string `json:"occurred_at"`
}

// NewReservationEvent stamps the event with the current UTC time.
func NewReservationEvent(typ string, reservationID, userID, flightID uint64, status string) ReservationEvent {
	return ReservationEvent{
		Type:          typ,
		ReservationID: reservationID,
		UserID:        userID,
		FlightID:      flightID,
		Status:        status,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
}
