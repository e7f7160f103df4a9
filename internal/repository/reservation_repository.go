package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/flight-booking-admin/internal/model"
)

const reservationColumns = "id, user_id, flight_id, status, reserved_at"

// ReservationRepo provides create, list and cancel operations for
// reservations.  All timestamps are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// Create inserts an activa reservation for userID on flightID.  The insert
// selects from flights, so an unknown flight inserts nothing and yields
// ErrInvalidReference.
func (r *ReservationRepo) Create(ctx context.Context, userID, flightID uint64) (*model.Reservation, error) {
	const q = `INSERT INTO reservations (user_id, flight_id, status, reserved_at)
	           SELECT ?, f.id, ?, UTC_TIMESTAMP() FROM flights f WHERE f.id = ?`
	res, err := r.db.ExecContext(ctx, q, userID, string(model.ReservationActiva), flightID)
	if err != nil {
		return nil, fmt.Errorf("insert reservation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrInvalidReference
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert reservation: %w", err)
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a reservation.  ErrNotFound when absent.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx, "SELECT "+reservationColumns+" FROM reservations WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load reservation %d: %w", id, err)
	}
	return res, nil
}

// List returns reservations, most recent id first.  When userID is non-nil
// only that user's reservations are returned.
func (r *ReservationRepo) List(ctx context.Context, userID *uint64) ([]model.Reservation, error) {
	q := "SELECT " + reservationColumns + " FROM reservations"
	args := []any{}
	if userID != nil {
		q += " WHERE user_id = ?"
		args = append(args, *userID)
	}
	q += " ORDER BY id DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return out, nil
}

// Cancel moves reservation id from activa to cancelada.  The update is
// conditional on the current status, so of two concurrent cancels only one
// succeeds.  ErrNotFound when id is unknown, ErrConflict when the
// reservation is already cancelada.
func (r *ReservationRepo) Cancel(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE reservations SET status = ? WHERE id = ? AND status = ?",
		string(model.ReservationCancelada), id, string(model.ReservationActiva))
	if err != nil {
		return fmt.Errorf("cancel reservation %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var status string
	err = r.db.QueryRowContext(ctx, "SELECT status FROM reservations WHERE id = ?", id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("cancel reservation %d: %w", id, err)
	}
	return ErrConflict
}

func scanReservation(s rowScanner) (*model.Reservation, error) {
	var (
		res    model.Reservation
		status string
	)
	if err := s.Scan(&res.ID, &res.UserID, &res.FlightID, &status, &res.ReservedAt); err != nil {
		return nil, err
	}
	res.Status = model.ReservationStatus(status)
	return &res, nil
}
