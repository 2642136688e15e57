package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/113992-Menzi-Facundo/MundoPirata/internal/model"
)

// OrderRepo provides persistence for orders and their items.  Order
// creation is a single all-or-nothing unit of work: the order row, all
// item rows and the conditional ticket claims either commit together
// or roll back together.  All timestamp fields are stored in UTC.
type OrderRepo struct {
    db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// Create inserts an order with its items and claims every referenced
// ticket inside one transaction.  Each claim is a conditional
// available=1 -> 0 update; if any ticket was taken by a concurrent
// buyer the whole transaction rolls back and ErrConflict is returned,
// leaving no partial ticket holds behind.  On success the generated
// ids and timestamps are populated on the provided record.
func (r *OrderRepo) Create(ctx context.Context, o *model.Order) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    const claim = `UPDATE tickets SET available = 0 WHERE id = ? AND available = 1`
    for _, it := range o.Items {
        res, err := tx.ExecContext(ctx, claim, it.TicketID)
        if err != nil {
            return err
        }
        n, err := res.RowsAffected()
        if err != nil {
            return err
        }
        if n == 0 {
            return ErrConflict
        }
    }

    const ins = `INSERT INTO orders (user_id, total_amount, purchase_date, payment_method, purchase_state)
                 VALUES (?, ?, UTC_TIMESTAMP(), ?, ?)`
    res, err := tx.ExecContext(ctx, ins, o.UserID, o.TotalAmount, o.PaymentMethod, o.State)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    o.ID = uint64(id)

    if len(o.Items) > 0 {
        query := `INSERT INTO order_items (order_id, ticket_id, quantity, unit_price, subtotal) VALUES `
        args := make([]any, 0, len(o.Items)*5)
        for i := range o.Items {
            if i > 0 {
                query += ","
            }
            query += "(?, ?, ?, ?, ?)"
            it := &o.Items[i]
            it.OrderID = o.ID
            args = append(args, o.ID, it.TicketID, it.Quantity, it.UnitPrice, it.Subtotal)
        }
        if _, err := tx.ExecContext(ctx, query, args...); err != nil {
            return err
        }
    }

    // Query back the full row to populate timestamps and defaults.
    const sel = `SELECT purchase_date, created_at, updated_at FROM orders WHERE id = ?`
    if err := tx.QueryRowContext(ctx, sel, o.ID).Scan(&o.PurchaseDate, &o.CreatedAt, &o.UpdatedAt); err != nil {
        return err
    }

    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

const orderCols = `o.id, o.user_id, CONCAT(u.name, ' ', u.last_name), o.total_amount, o.purchase_date,
                   o.payment_method, o.payment_id, o.purchase_state, o.created_at, o.updated_at`

// GetByID returns an order with its owner's display name and all items.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (*model.Order, error) {
    q := `SELECT ` + orderCols + ` FROM orders o JOIN users u ON u.id = o.user_id WHERE o.id = ?`
    var o model.Order
    var payID sql.NullString
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &o.ID, &o.UserID, &o.UserName, &o.TotalAmount, &o.PurchaseDate,
        &o.PaymentMethod, &payID, &o.State, &o.CreatedAt, &o.UpdatedAt,
    )
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    if payID.Valid {
        p := payID.String
        o.PaymentID = &p
    }
    orders := []model.Order{o}
    if err := r.populateItems(ctx, orders); err != nil {
        return nil, err
    }
    return &orders[0], nil
}

// ListAll returns every order, newest first.
func (r *OrderRepo) ListAll(ctx context.Context) ([]model.Order, error) {
    q := `SELECT ` + orderCols + ` FROM orders o JOIN users u ON u.id = o.user_id ORDER BY o.created_at DESC`
    return r.queryOrders(ctx, q)
}

// ListByUser returns the orders placed by a user, newest first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Order, error) {
    q := `SELECT ` + orderCols + ` FROM orders o JOIN users u ON u.id = o.user_id
          WHERE o.user_id = ? ORDER BY o.created_at DESC`
    return r.queryOrders(ctx, q, userID)
}

// ListByState returns the orders in the given state, newest first.
func (r *OrderRepo) ListByState(ctx context.Context, state model.PurchaseState) ([]model.Order, error) {
    q := `SELECT ` + orderCols + ` FROM orders o JOIN users u ON u.id = o.user_id
          WHERE o.purchase_state = ? ORDER BY o.created_at DESC`
    return r.queryOrders(ctx, q, state)
}

// UpdateState overwrites the order state unconditionally.  Any state is
// reachable from any state; validation of the value happens upstream.
func (r *OrderRepo) UpdateState(ctx context.Context, id uint64, state model.PurchaseState) error {
    return r.update(ctx, `UPDATE orders SET purchase_state = ? WHERE id = ?`, state, id)
}

// UpdatePaymentID attaches the gateway payment identifier to an order.
func (r *OrderRepo) UpdatePaymentID(ctx context.Context, id uint64, paymentID string) error {
    return r.update(ctx, `UPDATE orders SET payment_id = ? WHERE id = ?`, paymentID, id)
}

func (r *OrderRepo) update(ctx context.Context, q string, args ...any) error {
    res, err := r.db.ExecContext(ctx, q, args...)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        // The value may already match; only report missing rows.
        id := args[len(args)-1]
        const sel = `SELECT EXISTS(SELECT 1 FROM orders WHERE id = ?)`
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

func (r *OrderRepo) queryOrders(ctx context.Context, q string, args ...any) ([]model.Order, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    orders := make([]model.Order, 0)
    for rows.Next() {
        var o model.Order
        var payID sql.NullString
        if err := rows.Scan(
            &o.ID, &o.UserID, &o.UserName, &o.TotalAmount, &o.PurchaseDate,
            &o.PaymentMethod, &payID, &o.State, &o.CreatedAt, &o.UpdatedAt,
        ); err != nil {
            return nil, err
        }
        if payID.Valid {
            p := payID.String
            o.PaymentID = &p
        }
        orders = append(orders, o)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    if err := r.populateItems(ctx, orders); err != nil {
        return nil, err
    }
    return orders, nil
}

// populateItems loads the items for all given orders in a single query.
func (r *OrderRepo) populateItems(ctx context.Context, orders []model.Order) error {
    if len(orders) == 0 {
        return nil
    }
    index := make(map[uint64]int, len(orders))
    ids := make([]any, 0, len(orders))
    placeholders := make([]string, 0, len(orders))
    for i := range orders {
        orders[i].Items = []model.OrderItem{}
        index[orders[i].ID] = i
        ids = append(ids, orders[i].ID)
        placeholders = append(placeholders, "?")
    }
    q := `SELECT oi.id, oi.order_id, oi.ticket_id, t.code, l.name, oi.quantity, oi.unit_price, oi.subtotal
          FROM order_items oi
          JOIN tickets t ON t.id = oi.ticket_id
          JOIN locations l ON l.id = t.location_id
          WHERE oi.order_id IN (` + strings.Join(placeholders, ",") + `)
          ORDER BY oi.order_id, oi.id`
    rows, err := r.db.QueryContext(ctx, q, ids...)
    if err != nil {
        return err
    }
    defer rows.Close()
    for rows.Next() {
        var it model.OrderItem
        if err := rows.Scan(&it.ID, &it.OrderID, &it.TicketID, &it.TicketCode, &it.LocationName, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
            return err
        }
        if i, ok := index[it.OrderID]; ok {
            orders[i].Items = append(orders[i].Items, it)
        }
    }
    return rows.Err()
}
