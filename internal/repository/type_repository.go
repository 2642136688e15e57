package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/113992-Menzi-Facundo/MundoPirata/internal/model"
)

// EventTypeRepo reads the event_types lookup table.
type EventTypeRepo struct {
    db *sql.DB
}

func NewEventTypeRepo(db *sql.DB) *EventTypeRepo { return &EventTypeRepo{db: db} }

func (r *EventTypeRepo) List(ctx context.Context) ([]model.EventType, error) {
    rows, err := r.db.QueryContext(ctx, `SELECT id, type FROM event_types ORDER BY id`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.EventType, 0)
    for rows.Next() {
        var t model.EventType
        if err := rows.Scan(&t.ID, &t.Type); err != nil {
            return nil, err
        }
        out = append(out, t)
    }
    return out, rows.Err()
}

func (r *EventTypeRepo) GetByID(ctx context.Context, id uint64) (*model.EventType, error) {
    var t model.EventType
    err := r.db.QueryRowContext(ctx, `SELECT id, type FROM event_types WHERE id = ?`, id).Scan(&t.ID, &t.Type)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    return &t, nil
}

// NewsTypeRepo reads the news_types lookup table.
type NewsTypeRepo struct {
    db *sql.DB
}

func NewNewsTypeRepo(db *sql.DB) *NewsTypeRepo { return &NewsTypeRepo{db: db} }

func (r *NewsTypeRepo) List(ctx context.Context) ([]model.NewsType, error) {
    rows, err := r.db.QueryContext(ctx, `SELECT id, type FROM news_types ORDER BY id`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.NewsType, 0)
    for rows.Next() {
        var t model.NewsType
        if err := rows.Scan(&t.ID, &t.Type); err != nil {
            return nil, err
        }
        out = append(out, t)
    }
    return out, rows.Err()
}

func (r *NewsTypeRepo) GetByID(ctx context.Context, id uint64) (*model.NewsType, error) {
    var t model.NewsType
    err := r.db.QueryRowContext(ctx, `SELECT id, type FROM news_types WHERE id = ?`, id).Scan(&t.ID, &t.Type)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    return &t, nil
}
