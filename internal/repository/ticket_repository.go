package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/113992-Menzi-Facundo/MundoPirata/internal/model"
)

// TicketRepo provides CRUD operations for individually coded ticket
// instances.  All reads join the owning location so that callers get
// the denormalized location name without a second query.  Availability
// transitions that must not race (claiming a ticket for sale) use a
// conditional update so the database decides who wins.
type TicketRepo struct {
    db *sql.DB
}

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

const ticketCols = `t.id, t.code, t.location_id, l.name, t.price, t.date_time, t.available, t.created_at`

func scanTicket(s interface{ Scan(...any) error }) (*model.Ticket, error) {
    var t model.Ticket
    err := s.Scan(&t.ID, &t.Code, &t.LocationID, &t.LocationName, &t.Price, &t.EventDate, &t.Available, &t.CreatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    return &t, nil
}

// Create inserts a new ticket and populates the generated id and
// creation timestamp on the provided record.  A duplicate code yields
// ErrConflict.
func (r *TicketRepo) Create(ctx context.Context, t *model.Ticket) error {
    const dup = `SELECT EXISTS(SELECT 1 FROM tickets WHERE code = ?)`
    var exists bool
    if err := r.db.QueryRowContext(ctx, dup, t.Code).Scan(&exists); err != nil {
        return err
    }
    if exists {
        return ErrConflict
    }
    const q = `INSERT INTO tickets (code, location_id, price, date_time, available) VALUES (?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, t.Code, t.LocationID, t.Price, t.EventDate, t.Available)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    t.ID = uint64(id)
    const sel = `SELECT created_at FROM tickets WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, t.ID).Scan(&t.CreatedAt)
}

// GetByID returns a single ticket with its location name.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
    q := `SELECT ` + ticketCols + ` FROM tickets t JOIN locations l ON l.id = t.location_id WHERE t.id = ?`
    return scanTicket(r.db.QueryRowContext(ctx, q, id))
}

// GetByCode returns the ticket with the given unique code.
func (r *TicketRepo) GetByCode(ctx context.Context, code string) (*model.Ticket, error) {
    q := `SELECT ` + ticketCols + ` FROM tickets t JOIN locations l ON l.id = t.location_id WHERE t.code = ?`
    return scanTicket(r.db.QueryRowContext(ctx, q, code))
}

// GetByIDs returns the tickets matching the given ids.  Missing ids are
// silently absent from the result; callers that care compare lengths.
func (r *TicketRepo) GetByIDs(ctx context.Context, ids []uint64) ([]model.Ticket, error) {
    if len(ids) == 0 {
        return []model.Ticket{}, nil
    }
    placeholders := make([]string, 0, len(ids))
    args := make([]any, 0, len(ids))
    for _, id := range ids {
        placeholders = append(placeholders, "?")
        args = append(args, id)
    }
    q := `SELECT ` + ticketCols + ` FROM tickets t JOIN locations l ON l.id = t.location_id
          WHERE t.id IN (` + strings.Join(placeholders, ",") + `) ORDER BY t.id`
    return r.queryTickets(ctx, q, args...)
}

// ListAll returns every ticket, sold or not, ordered by event date.
func (r *TicketRepo) ListAll(ctx context.Context) ([]model.Ticket, error) {
    q := `SELECT ` + ticketCols + ` FROM tickets t JOIN locations l ON l.id = t.location_id ORDER BY t.date_time, t.id`
    return r.queryTickets(ctx, q)
}

// ListAvailable returns only tickets still marked available.
func (r *TicketRepo) ListAvailable(ctx context.Context) ([]model.Ticket, error) {
    q := `SELECT ` + ticketCols + ` FROM tickets t JOIN locations l ON l.id = t.location_id
          WHERE t.available = 1 ORDER BY t.date_time, t.id`
    return r.queryTickets(ctx, q)
}

// ListByLocation returns every ticket for a sector.  Set availableOnly
// to restrict the result to unsold tickets.
func (r *TicketRepo) ListByLocation(ctx context.Context, locationID uint64, availableOnly bool) ([]model.Ticket, error) {
    q := `SELECT ` + ticketCols + ` FROM tickets t JOIN locations l ON l.id = t.location_id WHERE t.location_id = ?`
    if availableOnly {
        q += ` AND t.available = 1`
    }
    q += ` ORDER BY t.date_time, t.id`
    return r.queryTickets(ctx, q, locationID)
}

// CountAvailableByLocation returns the number of unsold tickets in a sector.
func (r *TicketRepo) CountAvailableByLocation(ctx context.Context, locationID uint64) (int64, error) {
    const q = `SELECT COUNT(*) FROM tickets WHERE location_id = ? AND available = 1`
    var n int64
    err := r.db.QueryRowContext(ctx, q, locationID).Scan(&n)
    return n, err
}

// CountSold returns the total number of sold tickets.
func (r *TicketRepo) CountSold(ctx context.Context) (int64, error) {
    const q = `SELECT COUNT(*) FROM tickets WHERE available = 0`
    var n int64
    err := r.db.QueryRowContext(ctx, q).Scan(&n)
    return n, err
}

// MarkSold flips a ticket to unavailable only if it is currently
// available.  The conditional update makes the claim atomic: of two
// concurrent buyers exactly one sees a row change.  Returns ErrNotFound
// when the id does not resolve and ErrConflict when the ticket is
// already sold.
func (r *TicketRepo) MarkSold(ctx context.Context, id uint64) error {
    const q = `UPDATE tickets SET available = 0 WHERE id = ? AND available = 1`
    res, err := r.db.ExecContext(ctx, q, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 1 {
        return nil
    }
    // No row changed: distinguish a missing ticket from an already-sold one.
    const sel = `SELECT available FROM tickets WHERE id = ?`
    var available bool
    err = r.db.QueryRowContext(ctx, sel, id).Scan(&available)
    if errors.Is(err, sql.ErrNoRows) {
        return ErrNotFound
    }
    if err != nil {
        return err
    }
    return ErrConflict
}

// MarkAvailable flips a ticket back to available.  Idempotent: a ticket
// that is already available stays available.  ErrNotFound when the id
// does not resolve.
func (r *TicketRepo) MarkAvailable(ctx context.Context, id uint64) error {
    const sel = `SELECT EXISTS(SELECT 1 FROM tickets WHERE id = ?)`
    var exists bool
    if err := r.db.QueryRowContext(ctx, sel, id).Scan(&exists); err != nil {
        return err
    }
    if !exists {
        return ErrNotFound
    }
    const q = `UPDATE tickets SET available = 1 WHERE id = ?`
    _, err := r.db.ExecContext(ctx, q, id)
    return err
}

// Delete removes a ticket permanently.
func (r *TicketRepo) Delete(ctx context.Context, id uint64) error {
    const q = `DELETE FROM tickets WHERE id = ?`
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

func (r *TicketRepo) queryTickets(ctx context.Context, q string, args ...any) ([]model.Ticket, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Ticket, 0)
    for rows.Next() {
        var t model.Ticket
        if err := rows.Scan(&t.ID, &t.Code, &t.LocationID, &t.LocationName, &t.Price, &t.EventDate, &t.Available, &t.CreatedAt); err != nil {
            return nil, err
        }
        out = append(out, t)
    }
    return out, rows.Err()
}
