package model

import "time"

// News is a published article shown on the club site.  Soft delete is
// implemented through the state flag.
type News struct {
    ID         uint64    // news.id
    TypeID     uint64    // news.type_id
    TypeName   string    // joined from news_types.type
    Title      string    // news.title
    Content    string    // news.content
    AuthorID   uint64    // news.author_id
    AuthorName string    // joined from users
    Date       time.Time // news.date (day granularity)
    Active     bool      // news.state
    CreatedAt  time.Time // news.created_at
    UpdatedAt  time.Time // news.updated_at
}

// NewsType is a small lookup table mapping an id to a category label.
type NewsType struct {
    ID   uint64 // news_types.id
    Type string // news_types.type
}
