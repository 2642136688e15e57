package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/113992-Menzi-Facundo/MundoPirata/internal/model"
)

// NewsRepo provides CRUD operations for news articles.
type NewsRepo struct {
    db *sql.DB
}

func NewNewsRepo(db *sql.DB) *NewsRepo { return &NewsRepo{db: db} }

const newsCols = `n.id, n.type_id, nt.type, n.title, n.content, n.author_id,
                  CONCAT(u.name, ' ', u.last_name), n.date, n.state, n.created_at, n.updated_at`

const newsFrom = ` FROM news n
                   JOIN news_types nt ON nt.id = n.type_id
                   JOIN users u ON u.id = n.author_id`

// Create inserts a new article, active by default.
func (r *NewsRepo) Create(ctx context.Context, n *model.News) error {
    const q = `INSERT INTO news (type_id, title, content, author_id, date, state) VALUES (?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, n.TypeID, n.Title, n.Content, n.AuthorID, n.Date, n.Active)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    n.ID = uint64(id)
    const sel = `SELECT created_at, updated_at FROM news WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, n.ID).Scan(&n.CreatedAt, &n.UpdatedAt)
}

func (r *NewsRepo) GetByID(ctx context.Context, id uint64) (*model.News, error) {
    q := `SELECT ` + newsCols + newsFrom + ` WHERE n.id = ?`
    var n model.News
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &n.ID, &n.TypeID, &n.TypeName, &n.Title, &n.Content, &n.AuthorID,
        &n.AuthorName, &n.Date, &n.Active, &n.CreatedAt, &n.UpdatedAt,
    )
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    return &n, nil
}

// List returns articles newest first; activeOnly restricts to the
// public (non soft-deleted) set.
func (r *NewsRepo) List(ctx context.Context, activeOnly bool) ([]model.News, error) {
    q := `SELECT ` + newsCols + newsFrom
    if activeOnly {
        q += ` WHERE n.state = 1`
    }
    q += ` ORDER BY n.date DESC, n.id DESC`
    return r.query(ctx, q)
}

func (r *NewsRepo) ListByType(ctx context.Context, typeID uint64) ([]model.News, error) {
    q := `SELECT ` + newsCols + newsFrom + ` WHERE n.type_id = ? ORDER BY n.date DESC, n.id DESC`
    return r.query(ctx, q, typeID)
}

// Search returns active articles whose title or content contains the term.
func (r *NewsRepo) Search(ctx context.Context, term string) ([]model.News, error) {
    like := "%" + term + "%"
    q := `SELECT ` + newsCols + newsFrom + ` WHERE n.state = 1 AND (n.title LIKE ? OR n.content LIKE ?)
          ORDER BY n.date DESC, n.id DESC`
    return r.query(ctx, q, like, like)
}

func (r *NewsRepo) Update(ctx context.Context, n *model.News) error {
    const q = `UPDATE news SET type_id = ?, title = ?, content = ?, date = ? WHERE id = ?`
    return execGuard(ctx, r.db, "news", q, n.TypeID, n.Title, n.Content, n.Date, n.ID)
}

// ToggleState flips the soft-delete flag and returns the new value.
func (r *NewsRepo) ToggleState(ctx context.Context, id uint64) (bool, error) {
    const sel = `SELECT state FROM news WHERE id = ?`
    var state bool
    err := r.db.QueryRowContext(ctx, sel, id).Scan(&state)
    if errors.Is(err, sql.ErrNoRows) {
        return false, ErrNotFound
    }
    if err != nil {
        return false, err
    }
    const q = `UPDATE news SET state = ? WHERE id = ?`
    if _, err := r.db.ExecContext(ctx, q, !state, id); err != nil {
        return false, err
    }
    return !state, nil
}

func (r *NewsRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, `DELETE FROM news WHERE id = ?`, id)
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

func (r *NewsRepo) query(ctx context.Context, q string, args ...any) ([]model.News, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.News, 0)
    for rows.Next() {
        var n model.News
        if err := rows.Scan(
            &n.ID, &n.TypeID, &n.TypeName, &n.Title, &n.Content, &n.AuthorID,
            &n.AuthorName, &n.Date, &n.Active, &n.CreatedAt, &n.UpdatedAt,
        ); err != nil {
            return nil, err
        }
        out = append(out, n)
    }
    return out, rows.Err()
}

// execGuard runs an UPDATE and converts "zero rows touched because the
// row does not exist" into ErrNotFound.  Shared by the smaller CRUD
// repositories.
func execGuard(ctx context.Context, db *sql.DB, table, q string, args ...any) error {
    res, err := db.ExecContext(ctx, q, args...)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        id := args[len(args)-1]
        var exists bool
        if err := db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM `+table+` WHERE id = ?)`, id).Scan(&exists); err != nil {
            return err
        }
        if !exists {
            return ErrNotFound
        }
    }
    return nil
}
