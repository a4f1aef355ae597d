package store

import (
	"context"
	"time"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/core/db/sqlc"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
)

type calendarStore struct {
	queries *sqlc.Queries
}

func newCalendarStore(queries *sqlc.Queries) CalendarStore {
	return &calendarStore{queries: queries}
}

// Upsert keys on the Google event id; event.ID is only used on first insert.
func (s *calendarStore) Upsert(ctx context.Context, event *model.CalendarEvent) error {
	attendees := event.Attendees
	if attendees == nil {
		attendees = []string{}
	}
	row, err := s.queries.UpsertCalendarEvent(ctx, sqlc.UpsertCalendarEventParams{
		ID:          event.ID,
		GoogleID:    event.GoogleID,
		Title:       event.Title,
		Description: event.Description,
		Location:    event.Location,
		StartsAt:    ts(event.StartsAt),
		EndsAt:      ts(event.EndsAt),
		AllDay:      event.AllDay,
		Attendees:   attendees,
		HtmlLink:    event.HTMLLink,
		Status:      event.Status,
	})
	if err != nil {
		return err
	}
	*event = toCalendarEventModel(row)
	return nil
}

// ListBetween returns events overlapping [from, to).
func (s *calendarStore) ListBetween(ctx context.Context, from, to time.Time) ([]model.CalendarEvent, error) {
	rows, err := s.queries.ListCalendarEventsBetween(ctx, sqlc.ListCalendarEventsBetweenParams{
		ToTime:   ts(to),
		FromTime: ts(from),
	})
	if err != nil {
		return nil, err
	}
	out := make([]model.CalendarEvent, len(rows))
	for i, r := range rows {
		out[i] = toCalendarEventModel(r)
	}
	return out, nil
}

func (s *calendarStore) DeleteStale(ctx context.Context, from, to, syncedBefore time.Time) (int64, error) {
	return s.queries.DeleteStaleCalendarEvents(ctx, sqlc.DeleteStaleCalendarEventsParams{
		FromTime:     ts(from),
		ToTime:       ts(to),
		SyncedBefore: ts(syncedBefore),
	})
}

func toCalendarEventModel(row sqlc.CalendarEvent) model.CalendarEvent {
	attendees := row.Attendees
	if attendees == nil {
		attendees = []string{}
	}
	return model.CalendarEvent{
		ID:          row.ID,
		GoogleID:    row.GoogleID,
		Title:       row.Title,
		Description: row.Description,
		Location:    row.Location,
		StartsAt:    row.StartsAt.Time,
		EndsAt:      row.EndsAt.Time,
		AllDay:      row.AllDay,
		Attendees:   attendees,
		HTMLLink:    row.HtmlLink,
		Status:      row.Status,
	}
}
