package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/113992-Menzi-Facundo/MundoPirata/internal/model"
)

// DestinationRepo provides CRUD operations for donation destinations.
type DestinationRepo struct {
    db *sql.DB
}

// NewDestinationRepo returns a new DestinationRepo bound to the given database.
func NewDestinationRepo(db *sql.DB) *DestinationRepo { return &DestinationRepo{db: db} }

// Create inserts a new destination, active by default.
func (r *DestinationRepo) Create(ctx context.Context, d *model.Destination) error {
    const q = `INSERT INTO destinations (name, address, phone_number, state) VALUES (?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, d.Name, d.Address, d.Phone, d.Active)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    d.ID = uint64(id)
    return nil
}

// GetByID returns a single destination.
func (r *DestinationRepo) GetByID(ctx context.Context, id uint64) (*model.Destination, error) {
    const q = `SELECT id, name, address, phone_number, state FROM destinations WHERE id = ?`
    var d model.Destination
    err := r.db.QueryRowContext(ctx, q, id).Scan(&d.ID, &d.Name, &d.Address, &d.Phone, &d.Active)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    return &d, nil
}

// List returns all destinations; set activeOnly for the public view.
func (r *DestinationRepo) List(ctx context.Context, activeOnly bool) ([]model.Destination, error) {
    q := `SELECT id, name, address, phone_number, state FROM destinations`
    if activeOnly {
        q += ` WHERE state = 1`
    }
    q += ` ORDER BY name`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Destination, 0)
    for rows.Next() {
        var d model.Destination
        if err := rows.Scan(&d.ID, &d.Name, &d.Address, &d.Phone, &d.Active); err != nil {
            return nil, err
        }
        out = append(out, d)
    }
    return out, rows.Err()
}

// Update overwrites name, address, phone and state.
func (r *DestinationRepo) Update(ctx context.Context, d *model.Destination) error {
    const q = `UPDATE destinations SET name = ?, address = ?, phone_number = ?, state = ? WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, d.Name, d.Address, d.Phone, d.Active, d.ID)
    if err != nil {
        return err
    }
    return r.checkExists(ctx, res, d.ID)
}

// Delete removes a destination permanently.  The referential guard
// against existing donations lives in the service layer.
func (r *DestinationRepo) Delete(ctx context.Context, id uint64) error {
    const q = `DELETE FROM destinations WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrNotFound
    }
    return nil
}

func (r *DestinationRepo) checkExists(ctx context.Context, res sql.Result, id uint64) error {
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        const sel = `SELECT EXISTS(SELECT 1 FROM destinations WHERE id = ?)`
        var exists bool
        if err := r.db.QueryRowContext(ctx, sel, id).Scan(&exists); err != nil {
            return err
        }
        if !exists {
            return ErrNotFound
        }
    }
    return nil
}
