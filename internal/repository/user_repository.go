package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/113992-Menzi-Facundo/MundoPirata/internal/model"
)

// UserRepo provides CRUD operations for the users table.  Deleting a
// user is a soft operation: the account is disabled rather than
// removed, since orders and donations keep foreign keys to it.
type UserRepo struct {
    db *sql.DB
}

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userCols = `id, name, last_name, email, password, dni, role, enabled, created_at, updated_at`

// Create inserts a new user.  A duplicate email yields ErrConflict.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
    const dup = `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`
    var exists bool
    if err := r.db.QueryRowContext(ctx, dup, u.Email).Scan(&exists); err != nil {
        return err
    }
    if exists {
        return ErrConflict
    }
    const q = `INSERT INTO users (name, last_name, email, password, dni, role, enabled) VALUES (?, ?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, u.Name, u.LastName, u.Email, u.PasswordHash, u.DNI, u.Role, u.Enabled)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    u.ID = uint64(id)
    const sel = `SELECT created_at, updated_at FROM users WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, u.ID).Scan(&u.CreatedAt, &u.UpdatedAt)
}

// GetByID returns a single user by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
    return r.scanOne(r.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE id = ?`, id))
}

// GetByEmail returns a single user by unique email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
    return r.scanOne(r.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE email = ?`, email))
}

// List returns all users ordered by creation time descending.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
    return r.query(ctx, `SELECT `+userCols+` FROM users ORDER BY created_at DESC`)
}

// ListByRole returns the users holding the given role.
func (r *UserRepo) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
    return r.query(ctx, `SELECT `+userCols+` FROM users WHERE role = ? ORDER BY created_at DESC`, role)
}

// Search returns users whose name, last name or email contains the term.
func (r *UserRepo) Search(ctx context.Context, term string) ([]model.User, error) {
    like := "%" + term + "%"
    q := `SELECT ` + userCols + ` FROM users
          WHERE name LIKE ? OR last_name LIKE ? OR email LIKE ?
          ORDER BY last_name, name`
    return r.query(ctx, q, like, like, like)
}

// Update overwrites name, last name and dni.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
    const q = `UPDATE users SET name = ?, last_name = ?, dni = ? WHERE id = ?`
    return r.exec(ctx, q, u.Name, u.LastName, u.DNI, u.ID)
}

// UpdateRole overwrites the role of a user.
func (r *UserRepo) UpdateRole(ctx context.Context, id uint64, role model.Role) error {
    return r.exec(ctx, `UPDATE users SET role = ? WHERE id = ?`, role, id)
}

// SetEnabled toggles account activation; Disable is the soft delete.
func (r *UserRepo) SetEnabled(ctx context.Context, id uint64, enabled bool) error {
    return r.exec(ctx, `UPDATE users SET enabled = ? WHERE id = ?`, enabled, id)
}

func (r *UserRepo) exec(ctx context.Context, q string, args ...any) error {
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
        const sel = `SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)`
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

func (r *UserRepo) scanOne(row *sql.Row) (*model.User, error) {
    var u model.User
    err := row.Scan(&u.ID, &u.Name, &u.LastName, &u.Email, &u.PasswordHash, &u.DNI, &u.Role, &u.Enabled, &u.CreatedAt, &u.UpdatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    return &u, nil
}

func (r *UserRepo) query(ctx context.Context, q string, args ...any) ([]model.User, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.User, 0)
    for rows.Next() {
        var u model.User
        if err := rows.Scan(&u.ID, &u.Name, &u.LastName, &u.Email, &u.PasswordHash, &u.DNI, &u.Role, &u.Enabled, &u.CreatedAt, &u.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, u)
    }
    return out, rows.Err()
}
