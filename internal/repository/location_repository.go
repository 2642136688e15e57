package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/113992-Menzi-Facundo/MundoPirata/internal/model"
)

// LocationRepo provides read access to the immutable stadium sectors.
// Locations are reference data seeded by migration; the application
// never mutates them.
type LocationRepo struct {
    db *sql.DB
}

// NewLocationRepo returns a new LocationRepo bound to the given database.
func NewLocationRepo(db *sql.DB) *LocationRepo { return &LocationRepo{db: db} }

// GetByID returns a single location.  ErrNotFound is returned when the
// id does not resolve.
func (r *LocationRepo) GetByID(ctx context.Context, id uint64) (*model.Location, error) {
    const q = `SELECT id, name, capacity, price FROM locations WHERE id = ?`
    var loc model.Location
    err := r.db.QueryRowContext(ctx, q, id).Scan(&loc.ID, &loc.Name, &loc.Capacity, &loc.Price)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    return &loc, nil
}

// List returns all locations ordered by id.
func (r *LocationRepo) List(ctx context.Context) ([]model.Location, error) {
    const q = `SELECT id, name, capacity, price FROM locations ORDER BY id`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Location, 0)
    for rows.Next() {
        var loc model.Location
        if err := rows.Scan(&loc.ID, &loc.Name, &loc.Capacity, &loc.Price); err != nil {
            return nil, err
        }
        out = append(out, loc)
    }
    return out, rows.Err()
}
