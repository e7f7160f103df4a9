package model

import "time"

// Flight is a scheduled trip flown by a Nave.  NaveID is stored as given;
// nothing guarantees the aircraft still exists.
type Flight struct {
	ID          uint64    `json:"id"`
	NaveID      uint64    `json:"nave_id"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Departure   time.Time `json:"departure"`
	Arrival     time.Time `json:"arrival"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FlightPatch carries the optional fields of a partial flight update.
type FlightPatch struct {
	NaveID      *uint64
	Origin      *string
	Destination *string
	Departure   *time.Time
	Arrival     *time.Time
	Price       *float64
}

func (p FlightPatch) Empty() bool {
	return p.NaveID == nil && p.Origin == nil && p.Destination == nil &&
		p.Departure == nil && p.Arrival == nil && p.Price == nil
}

// FlightFilter narrows a flight listing.  Empty fields are ignored; set
// fields are combined with AND.  Date matches the calendar day of
// Departure.
type FlightFilter struct {
	Origin      string
	Destination string
	Date        *time.Time
}
