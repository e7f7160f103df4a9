package model

import "time"

// Nave is an aircraft in the flights inventory.  Capacity is always
// positive.
type Nave struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Model     string    `json:"model"`
	Capacity  uint32    `json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NavePatch carries the optional fields of a partial aircraft update.
type NavePatch struct {
	Name     *string
	Model    *string
	Capacity *uint32
}

func (p NavePatch) Empty() bool {
	return p.Name == nil && p.Model == nil && p.Capacity == nil
}
