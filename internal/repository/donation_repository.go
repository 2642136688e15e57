package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/113992-Menzi-Facundo/MundoPirata/internal/model"
)

// DonationRepo provides persistence for donations.  Reads join the
// donor and the destination so callers get denormalized display fields
// in one round trip.
type DonationRepo struct {
    db *sql.DB
}

// NewDonationRepo returns a new DonationRepo bound to the given database.
func NewDonationRepo(db *sql.DB) *DonationRepo { return &DonationRepo{db: db} }

const donationCols = `d.id, d.user_id, CONCAT(u.name, ' ', u.last_name), u.email,
                      d.destination_id, ds.name, ds.address,
                      d.amount, d.donation_date, d.payment_method, d.payment_id, d.purchase_state,
                      d.created_at, d.updated_at`

const donationFrom = ` FROM donations d
                       JOIN users u ON u.id = d.user_id
                       JOIN destinations ds ON ds.id = d.destination_id`

// Create inserts a new donation and populates generated fields on the
// provided record.
func (r *DonationRepo) Create(ctx context.Context, d *model.Donation) error {
    const q = `INSERT INTO donations (user_id, destination_id, amount, donation_date, payment_method, purchase_state)
               VALUES (?, ?, ?, UTC_TIMESTAMP(), ?, ?)`
    res, err := r.db.ExecContext(ctx, q, d.UserID, d.DestinationID, d.Amount, d.PaymentMethod, d.State)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    d.ID = uint64(id)
    const sel = `SELECT donation_date, created_at, updated_at FROM donations WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, d.ID).Scan(&d.DonationDate, &d.CreatedAt, &d.UpdatedAt)
}

// GetByID returns a single donation with joined display fields.
func (r *DonationRepo) GetByID(ctx context.Context, id uint64) (*model.Donation, error) {
    q := `SELECT ` + donationCols + donationFrom + ` WHERE d.id = ?`
    var d model.Donation
    var payID sql.NullString
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &d.ID, &d.UserID, &d.UserName, &d.UserEmail,
        &d.DestinationID, &d.DestinationName, &d.DestinationAddress,
        &d.Amount, &d.DonationDate, &d.PaymentMethod, &payID, &d.State,
        &d.CreatedAt, &d.UpdatedAt,
    )
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    if payID.Valid {
        p := payID.String
        d.PaymentID = &p
    }
    return &d, nil
}

// ListAll returns every donation, newest first.
func (r *DonationRepo) ListAll(ctx context.Context) ([]model.Donation, error) {
    return r.query(ctx, `SELECT `+donationCols+donationFrom+` ORDER BY d.created_at DESC`)
}

// ListByUser returns the donations made by a user, newest first.
func (r *DonationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Donation, error) {
    return r.query(ctx, `SELECT `+donationCols+donationFrom+` WHERE d.user_id = ? ORDER BY d.created_at DESC`, userID)
}

// ListByDestination returns the donations earmarked for a destination.
func (r *DonationRepo) ListByDestination(ctx context.Context, destinationID uint64) ([]model.Donation, error) {
    return r.query(ctx, `SELECT `+donationCols+donationFrom+` WHERE d.destination_id = ? ORDER BY d.created_at DESC`, destinationID)
}

// ListByState returns the donations in the given state, newest first.
func (r *DonationRepo) ListByState(ctx context.Context, state model.PurchaseState) ([]model.Donation, error) {
    return r.query(ctx, `SELECT `+donationCols+donationFrom+` WHERE d.purchase_state = ? ORDER BY d.created_at DESC`, state)
}

// CountByDestination returns how many donations reference a
// destination.  Used as the referential guard before destination
// deletion.
func (r *DonationRepo) CountByDestination(ctx context.Context, destinationID uint64) (int64, error) {
    const q = `SELECT COUNT(*) FROM donations WHERE destination_id = ?`
    var n int64
    err := r.db.QueryRowContext(ctx, q, destinationID).Scan(&n)
    return n, err
}

// UpdateState overwrites the donation state unconditionally.
func (r *DonationRepo) UpdateState(ctx context.Context, id uint64, state model.PurchaseState) error {
    return r.update(ctx, `UPDATE donations SET purchase_state = ? WHERE id = ?`, state, id)
}

// UpdatePaymentID attaches the gateway payment identifier, independent
// of state.
func (r *DonationRepo) UpdatePaymentID(ctx context.Context, id uint64, paymentID string) error {
    return r.update(ctx, `UPDATE donations SET payment_id = ? WHERE id = ?`, paymentID, id)
}

func (r *DonationRepo) update(ctx context.Context, q string, args ...any) error {
    res, err := r.db.ExecContext(ctx, q, args...)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        id := args[len(args)-1]
        const sel = `SELECT EXISTS(SELECT 1 FROM donations WHERE id = ?)`
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

func (r *DonationRepo) query(ctx context.Context, q string, args ...any) ([]model.Donation, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Donation, 0)
    for rows.Next() {
        var d model.Donation
        var payID sql.NullString
        if err := rows.Scan(
            &d.ID, &d.UserID, &d.UserName, &d.UserEmail,
            &d.DestinationID, &d.DestinationName, &d.DestinationAddress,
            &d.Amount, &d.DonationDate, &d.PaymentMethod, &payID, &d.State,
            &d.CreatedAt, &d.UpdatedAt,
        ); err != nil {
            return nil, err
        }
        if payID.Valid {
            p := payID.String
            d.PaymentID = &p
        }
        out = append(out, d)
    }
    return out, rows.Err()
}
