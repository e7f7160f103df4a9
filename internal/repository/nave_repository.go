package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/flight-booking-admin/internal/model"
)

const naveColumns = "id, name, model, capacity, created_at, updated_at"

// NaveRepo encapsulates all database queries related to aircraft.
type NaveRepo struct {
	db *sql.DB
}

func NewNaveRepo(db *sql.DB) *NaveRepo { return &NaveRepo{db: db} }

// Create inserts n and re-reads the row so callers receive the generated
// id and timestamps.
func (r *NaveRepo) Create(ctx context.Context, n *model.Nave) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO naves (name, model, capacity) VALUES (?, ?, ?)",
		n.Name, n.Model, n.Capacity)
	if err != nil {
		return fmt.Errorf("insert nave: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert nave: %w", err)
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*n = *created
	return nil
}

// GetByID fetches an aircraft by id.  ErrNotFound when absent.
func (r *NaveRepo) GetByID(ctx context.Context, id uint64) (*model.Nave, error) {
	var n model.Nave
	err := r.db.QueryRowContext(ctx, "SELECT "+naveColumns+" FROM naves WHERE id = ?", id).
		Scan(&n.ID, &n.Name, &n.Model, &n.Capacity, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load nave %d: %w", id, err)
	}
	return &n, nil
}

// List returns every aircraft ordered by id.
func (r *NaveRepo) List(ctx context.Context) ([]model.Nave, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+naveColumns+" FROM naves ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list naves: %w", err)
	}
	defer rows.Close()

	out := make([]model.Nave, 0)
	for rows.Next() {
		var n model.Nave
		if err := rows.Scan(&n.ID, &n.Name, &n.Model, &n.Capacity, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan nave: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list naves: %w", err)
	}
	return out, nil
}

// Update applies the non-nil fields of p.  ErrNotFound when id is unknown.
func (r *NaveRepo) Update(ctx context.Context, id uint64, p model.NavePatch) error {
	if p.Empty() {
		_, err := r.GetByID(ctx, id)
		return err
	}
	var b updateBuilder
	if p.Name != nil {
		b.set("name", *p.Name)
	}
	if p.Model != nil {
		b.set("model", *p.Model)
	}
	if p.Capacity != nil {
		b.set("capacity", *p.Capacity)
	}
	q, args := b.build("naves", id)
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update nave %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an aircraft.  Flights that reference it are left in place.
func (r *NaveRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM naves WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete nave %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
