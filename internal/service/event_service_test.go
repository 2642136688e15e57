package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/113992-Menzi-Facundo/MundoPirata/internal/model"
)

func eventTicket(id uint64, locID uint64, locName string, at time.Time, available bool) *model.Ticket {
	return &model.Ticket{
		ID:           id,
		Code:         "TKT-EVT" + time.Now().Format("05") + string(rune('A'+id%26)),
		LocationID:   locID,
		LocationName: locName,
		Price:        decimal.NewFromInt(8000),
		EventDate:    at,
		Available:    available,
	}
}

func TestEventsGroupTicketsByHour(t *testing.T) {
	day := time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC)
	tickets := newFakeTicketStore(
		eventTicket(1, 10, "Popular Pirata", day.Add(15*time.Hour), true),
		eventTicket(2, 10, "Popular Pirata", day.Add(15*time.Hour+45*time.Minute), true),
		eventTicket(3, 10, "Popular Pirata", day.Add(19*time.Hour), true),
	)
	svc := NewEventService(tickets, &fakeCalendarStore{}, nil)

	events, err := svc.EventsWithTickets(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Newest first: the 19:00 bucket leads.
	assert.Equal(t, day.Add(19*time.Hour), events[0].EventDate)
	assert.Equal(t, 1, events[0].TotalCount)
	assert.Equal(t, day.Add(15*time.Hour), events[1].EventDate)
	assert.Equal(t, 2, events[1].TotalCount)

	// 2025-08-02 resolves through the built-in title table.
	assert.Equal(t, "Belgrano vs River Plate", events[0].Title)
	assert.Equal(t, "Belgrano vs River Plate", events[1].Title)
	assert.Equal(t, "Partido", events[0].EventType)

	// Same day buckets share the hashed event id.
	assert.Equal(t, events[0].EventID, events[1].EventID)
}

func TestEventsUseCalendarEntryForMatchingDay(t *testing.T) {
	day := time.Date(2025, 10, 4, 0, 0, 0, 0, time.UTC)
	tickets := newFakeTicketStore(
		eventTicket(1, 10, "Popular Pirata", day.Add(20*time.Hour), true),
	)
	calendar := &fakeCalendarStore{entries: []model.Calendar{{
		ID:            7,
		Title:         "Presentación del plantel",
		Detail:        "Evento oficial en el estadio",
		Date:          day,
		EventTypeName: "Evento",
		Active:        true,
	}}}
	svc := NewEventService(tickets, calendar, nil)

	events, err := svc.EventsWithTickets(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, int64(7), events[0].EventID)
	assert.Equal(t, "Presentación del plantel", events[0].Title)
	assert.Equal(t, "Evento oficial en el estadio", events[0].Detail)
	assert.Equal(t, "Evento", events[0].EventType)
}

func TestEventsIgnoreInactiveCalendarEntries(t *testing.T) {
	day := time.Date(2025, 10, 4, 0, 0, 0, 0, time.UTC)
	tickets := newFakeTicketStore(
		eventTicket(1, 10, "Popular Pirata", day.Add(20*time.Hour), true),
	)
	calendar := &fakeCalendarStore{entries: []model.Calendar{{
		ID:     7,
		Title:  "Presentación del plantel",
		Date:   day,
		Active: false,
	}}}
	svc := NewEventService(tickets, calendar, nil)

	events, err := svc.EventsWithTickets(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	// The inactive entry is invisible; the generic fallback applies.
	assert.Equal(t, "Evento - Club Atlético Belgrano", events[0].Title)
}

func TestEventsCustomTitleLookup(t *testing.T) {
	day := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	tickets := newFakeTicketStore(
		eventTicket(1, 10, "Popular Pirata", day.Add(16*time.Hour), true),
	)
	lookup := func(d time.Time) (string, bool) {
		if d.Equal(day) {
			return "Belgrano vs Central", true
		}
		return "", false
	}
	svc := NewEventService(tickets, &fakeCalendarStore{}, lookup)

	events, err := svc.EventsWithTickets(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Belgrano vs Central", events[0].Title)
	assert.Equal(t, "Partido", events[0].EventType)
}

func TestEventsSplitLocationsAndCountSold(t *testing.T) {
	day := time.Date(2025, 8, 16, 0, 0, 0, 0, time.UTC)
	tickets := newFakeTicketStore(
		eventTicket(1, 10, "Popular Pirata", day.Add(18*time.Hour), true),
		eventTicket(2, 10, "Popular Pirata", day.Add(18*time.Hour), false),
		eventTicket(3, 20, "Platea Preferencial", day.Add(18*time.Hour), true),
	)
	svc := NewEventService(tickets, &fakeCalendarStore{}, nil)

	events, err := svc.EventsWithTickets(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, 3, ev.TotalCount)
	assert.Equal(t, 1, ev.SoldCount)
	require.Len(t, ev.Locations, 2)

	popular := ev.Locations[0]
	assert.Equal(t, "Popular Pirata", popular.LocationName)
	assert.Equal(t, 1, popular.AvailableCount)
	assert.Equal(t, 1, popular.SoldCount)
	require.Len(t, popular.AvailableTickets, 1)
	assert.Equal(t, uint64(1), popular.AvailableTickets[0].ID)

	platea := ev.Locations[1]
	assert.Equal(t, "Platea Preferencial", platea.LocationName)
	assert.Equal(t, 1, platea.AvailableCount)
	assert.Equal(t, 0, platea.SoldCount)
}

func TestEventsEmptyInventory(t *testing.T) {
	svc := NewEventService(newFakeTicketStore(), &fakeCalendarStore{}, nil)

	events, err := svc.EventsWithTickets(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}
