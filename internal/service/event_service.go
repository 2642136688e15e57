package service

import (
	"context"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/113992-Menzi-Facundo/MundoPirata/internal/model"
)

const dayLayout = "2006-01-02"

// fixtureTitles covers event days that predate the calendar module.
// Tickets on these days carry no calendar entry, so the public event
// view resolves their titles from this table.
var fixtureTitles = map[string]string{
	"2025-08-02": "Belgrano vs River Plate",
	"2025-08-16": "Belgrano vs Boca Juniors",
	"2025-08-30": "Belgrano vs Talleres",
	"2025-09-13": "Belgrano vs Racing Club",
	"2025-09-27": "Belgrano vs Instituto",
}

// DefaultTitleLookup resolves titles from the built-in fixture table.
func DefaultTitleLookup() TitleLookup {
	return func(day time.Time) (string, bool) {
		title, ok := fixtureTitles[day.Format(dayLayout)]
		return title, ok
	}
}

// EventService reconstructs the public event listing from the ticket
// inventory.  Tickets carry only a date and a location; events are
// derived by grouping tickets into hour buckets and correlating each
// bucket with the active calendar entries of the same day.
type EventService struct {
	tickets  TicketStore
	calendar CalendarStore
	titles   TitleLookup
}

// NewEventService wires an EventService.  A nil lookup falls back to
// the built-in fixture table.
func NewEventService(tickets TicketStore, calendar CalendarStore, titles TitleLookup) *EventService {
	if titles == nil {
		titles = DefaultTitleLookup()
	}
	return &EventService{tickets: tickets, calendar: calendar, titles: titles}
}

// hourBucket groups the tickets that share an event hour.
type hourBucket struct {
	at      time.Time
	tickets []model.Ticket
}

// EventsWithTickets returns the reconstructed events, newest first.
// Each hour bucket of tickets pairs with at most one active calendar
// entry of the same day; buckets on days with no calendar entry fall
// back to the title lookup, keyed by a hash of the date.
func (s *EventService) EventsWithTickets(ctx context.Context) ([]EventWithTickets, error) {
	tickets, err := s.tickets.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return []EventWithTickets{}, nil
	}
	entries, err := s.calendar.List(ctx, true)
	if err != nil {
		return nil, err
	}

	buckets := bucketByHour(tickets)
	entriesByDay := make(map[string][]model.Calendar)
	for _, e := range entries {
		day := e.Date.Format(dayLayout)
		entriesByDay[day] = append(entriesByDay[day], e)
	}

	events := make([]EventWithTickets, 0, len(buckets))
	emitted := make(map[string]bool)
	for _, b := range buckets {
		day := b.at.Format(dayLayout)
		dayEntries := entriesByDay[day]
		if len(dayEntries) == 0 {
			events = append(events, s.fallbackEvent(b))
			continue
		}
		for _, e := range dayEntries {
			key := day + "#" + b.at.Format("15") + "#" + strconv.FormatUint(e.ID, 10)
			if emitted[key] {
				continue
			}
			emitted[key] = true
			events = append(events, buildEvent(int64(e.ID), e.Title, e.Detail, e.EventTypeName, b))
		}
	}

	sort.Slice(events, func(i, j int) bool {
		if !events[i].EventDate.Equal(events[j].EventDate) {
			return events[i].EventDate.After(events[j].EventDate)
		}
		return events[i].EventID < events[j].EventID
	})
	return events, nil
}

// fallbackEvent synthesizes an event for a ticket bucket whose day has
// no calendar entry.  The id is a hash of the day, so several buckets
// of the same day share an id, which matches how the frontend keys
// fixture events.
func (s *EventService) fallbackEvent(b hourBucket) EventWithTickets {
	day := time.Date(b.at.Year(), b.at.Month(), b.at.Day(), 0, 0, 0, 0, time.UTC)
	title, ok := s.titles(day)
	if !ok {
		title = "Evento - Club Atlético Belgrano"
	}
	return buildEvent(dayHash(day), title, detailFor(title), eventTypeFor(title), b)
}

func buildEvent(id int64, title, detail, eventType string, b hourBucket) EventWithTickets {
	ev := EventWithTickets{
		EventID:   id,
		Title:     title,
		Detail:    detail,
		EventType: eventType,
		EventDate: b.at,
		Locations: []TicketsByLocation{},
	}

	byLoc := make(map[uint64]*TicketsByLocation)
	order := make([]uint64, 0)
	for i := range b.tickets {
		t := &b.tickets[i]
		loc, ok := byLoc[t.LocationID]
		if !ok {
			loc = &TicketsByLocation{
				LocationID:       t.LocationID,
				LocationName:     t.LocationName,
				Price:            t.Price,
				AvailableTickets: []TicketDTO{},
			}
			byLoc[t.LocationID] = loc
			order = append(order, t.LocationID)
		}
		if t.Available {
			loc.AvailableCount++
			loc.AvailableTickets = append(loc.AvailableTickets, ticketToDTO(t))
			ev.TotalCount++
		} else {
			loc.SoldCount++
			ev.TotalCount++
			ev.SoldCount++
		}
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	for _, id := range order {
		ev.Locations = append(ev.Locations, *byLoc[id])
	}
	return ev
}

// bucketByHour groups tickets by their event hour, truncating minutes
// and seconds.  Buckets come back sorted by time ascending so the
// output is deterministic.
func bucketByHour(tickets []model.Ticket) []hourBucket {
	byHour := make(map[string]*hourBucket)
	keys := make([]string, 0)
	for _, t := range tickets {
		at := t.EventDate.Truncate(time.Hour)
		key := at.Format("2006-01-02T15")
		b, ok := byHour[key]
		if !ok {
			b = &hourBucket{at: at}
			byHour[key] = b
			keys = append(keys, key)
		}
		b.tickets = append(b.tickets, t)
	}
	sort.Strings(keys)
	out := make([]hourBucket, 0, len(byHour))
	for _, k := range keys {
		out = append(out, *byHour[k])
	}
	return out
}

// dayHash derives a stable event id from a date.
func dayHash(day time.Time) int64 {
	h := fnv.New32a()
	h.Write([]byte(day.Format(dayLayout)))
	return int64(h.Sum32())
}

func detailFor(title string) string {
	if strings.Contains(title, "vs") {
		return "Partido de fútbol en el Estadio Julio César Villagra"
	}
	return "Evento especial del Club Atlético Belgrano"
}

func eventTypeFor(title string) string {
	if strings.Contains(title, "vs") {
		return "Partido"
	}
	return "Evento"
}
