package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/113992-Menzi-Facundo/MundoPirata/internal/model"
)

// CalendarRepo provides CRUD operations for calendar entries.  Dates
// are stored at day granularity; the event reconstruction view matches
// tickets against them by day.
type CalendarRepo struct {
    db *sql.DB
}

func NewCalendarRepo(db *sql.DB) *CalendarRepo { return &CalendarRepo{db: db} }

const calendarCols = `c.id, c.title, c.detail, c.author_id, CONCAT(u.name, ' ', u.last_name),
                      c.date, c.event_type_id, et.type, c.state, c.created_at, c.updated_at`

const calendarFrom = ` FROM calendar c
                       JOIN users u ON u.id = c.author_id
                       JOIN event_types et ON et.id = c.event_type_id`

func (r *CalendarRepo) Create(ctx context.Context, c *model.Calendar) error {
    const q = `INSERT INTO calendar (title, detail, author_id, date, event_type_id, state) VALUES (?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, c.Title, c.Detail, c.AuthorID, c.Date, c.EventTypeID, c.Active)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    c.ID = uint64(id)
    const sel = `SELECT created_at, updated_at FROM calendar WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, c.ID).Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *CalendarRepo) GetByID(ctx context.Context, id uint64) (*model.Calendar, error) {
    q := `SELECT ` + calendarCols + calendarFrom + ` WHERE c.id = ?`
    var c model.Calendar
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &c.ID, &c.Title, &c.Detail, &c.AuthorID, &c.AuthorName,
        &c.Date, &c.EventTypeID, &c.EventTypeName, &c.Active, &c.CreatedAt, &c.UpdatedAt,
    )
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    return &c, nil
}

// List returns entries by date ascending; activeOnly restricts to
// non soft-deleted entries.
func (r *CalendarRepo) List(ctx context.Context, activeOnly bool) ([]model.Calendar, error) {
    q := `SELECT ` + calendarCols + calendarFrom
    if activeOnly {
        q += ` WHERE c.state = 1`
    }
    q += ` ORDER BY c.date, c.id`
    return r.query(ctx, q)
}

// ListUpcoming returns active entries on or after the given day.
func (r *CalendarRepo) ListUpcoming(ctx context.Context, from time.Time) ([]model.Calendar, error) {
    q := `SELECT ` + calendarCols + calendarFrom + ` WHERE c.state = 1 AND c.date >= ? ORDER BY c.date, c.id`
    return r.query(ctx, q, from)
}

// ListByDate returns active entries on exactly the given day.
func (r *CalendarRepo) ListByDate(ctx context.Context, day time.Time) ([]model.Calendar, error) {
    q := `SELECT ` + calendarCols + calendarFrom + ` WHERE c.state = 1 AND c.date = ? ORDER BY c.id`
    return r.query(ctx, q, day)
}

func (r *CalendarRepo) ListByType(ctx context.Context, eventTypeID uint64) ([]model.Calendar, error) {
    q := `SELECT ` + calendarCols + calendarFrom + ` WHERE c.event_type_id = ? ORDER BY c.date, c.id`
    return r.query(ctx, q, eventTypeID)
}

func (r *CalendarRepo) Update(ctx context.Context, c *model.Calendar) error {
    const q = `UPDATE calendar SET title = ?, detail = ?, date = ?, event_type_id = ? WHERE id = ?`
    return execGuard(ctx, r.db, "calendar", q, c.Title, c.Detail, c.Date, c.EventTypeID, c.ID)
}

func (r *CalendarRepo) ToggleState(ctx context.Context, id uint64) (bool, error) {
    const sel = `SELECT state FROM calendar WHERE id = ?`
    var state bool
    err := r.db.QueryRowContext(ctx, sel, id).Scan(&state)
    if errors.Is(err, sql.ErrNoRows) {
        return false, ErrNotFound
    }
    if err != nil {
        return false, err
    }
    if _, err := r.db.ExecContext(ctx, `UPDATE calendar SET state = ? WHERE id = ?`, !state, id); err != nil {
        return false, err
    }
    return !state, nil
}

func (r *CalendarRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, `DELETE FROM calendar WHERE id = ?`, id)
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

func (r *CalendarRepo) query(ctx context.Context, q string, args ...any) ([]model.Calendar, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Calendar, 0)
    for rows.Next() {
        var c model.Calendar
        if err := rows.Scan(
            &c.ID, &c.Title, &c.Detail, &c.AuthorID, &c.AuthorName,
            &c.Date, &c.EventTypeID, &c.EventTypeName, &c.Active, &c.CreatedAt, &c.UpdatedAt,
        ); err != nil {
            return nil, err
        }
        out = append(out, c)
    }
    return out, rows.Err()
}
