package model

import "time"

// Calendar is a dated club event entry (match, presentation, festival).
// The event reconstruction view correlates tickets with calendar
// entries by day.  Soft delete via the state flag.
type Calendar struct {
    ID            uint64    // calendar.id
    Title         string    // calendar.title
    Detail        string    // calendar.detail
    AuthorID      uint64    // calendar.author_id
    AuthorName    string    // joined from users
    Date          time.Time // calendar.date (day granularity)
    EventTypeID   uint64    // calendar.event_type_id
    EventTypeName string    // joined from event_types.type
    Active        bool      // calendar.state
    CreatedAt     time.Time // calendar.created_at
    UpdatedAt     time.Time // calendar.updated_at
}

// EventType is a small lookup table for calendar entry categories.
type EventType struct {
    ID   uint64 // event_types.id
    Type string // event_types.type
}
