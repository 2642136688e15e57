package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/113992-Menzi-Facundo/MundoPirata/internal/model"
)

// MapLocationRepo provides CRUD operations for map points of interest.
type MapLocationRepo struct {
    db *sql.DB
}

func NewMapLocationRepo(db *sql.DB) *MapLocationRepo { return &MapLocationRepo{db: db} }

const mapCols = `id, name, address, description, google_maps_url, author_id, state, created_at, updated_at`

func (r *MapLocationRepo) Create(ctx context.Context, m *model.MapLocation) error {
    const q = `INSERT INTO map_locations (name, address, description, google_maps_url, author_id, state)
               VALUES (?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, m.Name, m.Address, m.Description, m.GoogleMapsURL, m.AuthorID, m.Active)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    m.ID = uint64(id)
    const sel = `SELECT created_at, updated_at FROM map_locations WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, m.ID).Scan(&m.CreatedAt, &m.UpdatedAt)
}

func (r *MapLocationRepo) GetByID(ctx context.Context, id uint64) (*model.MapLocation, error) {
    q := `SELECT ` + mapCols + ` FROM map_locations WHERE id = ?`
    var m model.MapLocation
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &m.ID, &m.Name, &m.Address, &m.Description, &m.GoogleMapsURL,
        &m.AuthorID, &m.Active, &m.CreatedAt, &m.UpdatedAt,
    )
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    return &m, nil
}

func (r *MapLocationRepo) List(ctx context.Context, activeOnly bool) ([]model.MapLocation, error) {
    q := `SELECT ` + mapCols + ` FROM map_locations`
    if activeOnly {
        q += ` WHERE state = 1`
    }
    q += ` ORDER BY name`
    return r.query(ctx, q)
}

// Search returns active points whose name, address or description
// contains the term.
func (r *MapLocationRepo) Search(ctx context.Context, term string) ([]model.MapLocation, error) {
    like := "%" + term + "%"
    q := `SELECT ` + mapCols + ` FROM map_locations
          WHERE state = 1 AND (name LIKE ? OR address LIKE ? OR description LIKE ?)
          ORDER BY name`
    return r.query(ctx, q, like, like, like)
}

func (r *MapLocationRepo) ListByAuthor(ctx context.Context, authorID uint64) ([]model.MapLocation, error) {
    q := `SELECT ` + mapCols + ` FROM map_locations WHERE author_id = ? ORDER BY name`
    return r.query(ctx, q, authorID)
}

// Count returns the number of active map points.
func (r *MapLocationRepo) Count(ctx context.Context) (int64, error) {
    var n int64
    err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM map_locations WHERE state = 1`).Scan(&n)
    return n, err
}

func (r *MapLocationRepo) Update(ctx context.Context, m *model.MapLocation) error {
    const q = `UPDATE map_locations SET name = ?, address = ?, description = ?, google_maps_url = ? WHERE id = ?`
    return execGuard(ctx, r.db, "map_locations", q, m.Name, m.Address, m.Description, m.GoogleMapsURL, m.ID)
}

func (r *MapLocationRepo) ToggleState(ctx context.Context, id uint64) (bool, error) {
    var state bool
    err := r.db.QueryRowContext(ctx, `SELECT state FROM map_locations WHERE id = ?`, id).Scan(&state)
    if errors.Is(err, sql.ErrNoRows) {
        return false, ErrNotFound
    }
    if err != nil {
        return false, err
    }
    if _, err := r.db.ExecContext(ctx, `UPDATE map_locations SET state = ? WHERE id = ?`, !state, id); err != nil {
        return false, err
    }
    return !state, nil
}

func (r *MapLocationRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, `DELETE FROM map_locations WHERE id = ?`, id)
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

func (r *MapLocationRepo) query(ctx context.Context, q string, args ...any) ([]model.MapLocation, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.MapLocation, 0)
    for rows.Next() {
        var m model.MapLocation
        if err := rows.Scan(
            &m.ID, &m.Name, &m.Address, &m.Description, &m.GoogleMapsURL,
            &m.AuthorID, &m.Active, &m.CreatedAt, &m.UpdatedAt,
        ); err != nil {
            return nil, err
        }
        out = append(out, m)
    }
    return out, rows.Err()
}
