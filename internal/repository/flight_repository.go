package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/flight-booking-admin/internal/model"
)

const flightColumns = "id, nave_id, origin, destination, departure, arrival, price, created_at, updated_at"

// FlightRepo encapsulates all database queries related to flights.
type FlightRepo struct {
	db *sql.DB
}

func NewFlightRepo(db *sql.DB) *FlightRepo { return &FlightRepo{db: db} }

// Create inserts f and re-reads it to populate id and timestamps.
func (r *FlightRepo) Create(ctx context.Context, f *model.Flight) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO flights (nave_id, origin, destination, departure, arrival, price)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		f.NaveID, f.Origin, f.Destination, f.Departure.UTC(), f.Arrival.UTC(), f.Price)
	if err != nil {
		return fmt.Errorf("insert flight: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert flight: %w", err)
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*f = *created
	return nil
}

// GetByID fetches a flight by id.  ErrNotFound when absent.
func (r *FlightRepo) GetByID(ctx context.Context, id uint64) (*model.Flight, error) {
	f, err := scanFlight(r.db.QueryRowContext(ctx, "SELECT "+flightColumns+" FROM flights WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load flight %d: %w", id, err)
	}
	return f, nil
}

// flightWhere turns a filter into a WHERE condition and its arguments.
// Empty filter fields contribute nothing.
func flightWhere(f model.FlightFilter) (string, []any) {
	where := []string{}
	args := []any{}
	if f.Origin != "" {
		where = append(where, "origin = ?")
		args = append(args, f.Origin)
	}
	if f.Destination != "" {
		where = append(where, "destination = ?")
		args = append(args, f.Destination)
	}
	if f.Date != nil {
		where = append(where, "DATE(departure) = ?")
		args = append(args, f.Date.Format("2006-01-02"))
	}
	if len(where) == 0 {
		return "1=1", args
	}
	return strings.Join(where, " AND "), args
}

// List returns the flights matching filter ordered by id.
func (r *FlightRepo) List(ctx context.Context, filter model.FlightFilter) ([]model.Flight, error) {
	cond, args := flightWhere(filter)
	rows, err := r.db.QueryContext(ctx, "SELECT "+flightColumns+" FROM flights WHERE "+cond+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("list flights: %w", err)
	}
	defer rows.Close()

	out := make([]model.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, fmt.Errorf("scan flight: %w", err)
		}
		out = append(out, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list flights: %w", err)
	}
	return out, nil
}

// Update applies the non-nil fields of p.  ErrNotFound when id is unknown.
func (r *FlightRepo) Update(ctx context.Context, id uint64, p model.FlightPatch) error {
	if p.Empty() {
		_, err := r.GetByID(ctx, id)
		return err
	}
	var b updateBuilder
	if p.NaveID != nil {
		b.set("nave_id", *p.NaveID)
	}
	if p.Origin != nil {
		b.set("origin", *p.Origin)
	}
	if p.Destination != nil {
		b.set("destination", *p.Destination)
	}
	if p.Departure != nil {
		b.set("departure", p.Departure.UTC())
	}
	if p.Arrival != nil {
		b.set("arrival", p.Arrival.UTC())
	}
	if p.Price != nil {
		b.set("price", *p.Price)
	}
	q, args := b.build("flights", id)
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update flight %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a flight.  Reservations that reference it are kept.
func (r *FlightRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM flights WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete flight %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanFlight(s rowScanner) (*model.Flight, error) {
	var f model.Flight
	if err := s.Scan(&f.ID, &f.NaveID, &f.Origin, &f.Destination, &f.Departure, &f.Arrival,
		&f.Price, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}
