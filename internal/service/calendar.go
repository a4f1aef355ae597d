package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/id"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/format"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration/gcalendar"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/store"
)

// Named calendar ranges.
const (
	RangeToday    = "today"
	RangeTomorrow = "tomorrow"
	RangeWeek     = "week"
	RangeNext7    = "next7"
	RangeMonth    = "month"
)

// Bucket labels, in display order.
const (
	BucketToday    = "Today"
	BucketTomorrow = "Tomorrow"
	BucketThisWeek = "This week"
	BucketLater    = "Later"
)

type EventBucket struct {
	Label  string                `json:"label"`
	Events []model.CalendarEvent `json:"events"`
}

type CalendarView struct {
	Range   DateRange     `json:"range"`
	Total   int           `json:"total"`
	Buckets []EventBucket `json:"buckets"`
}

type FreeSlots struct {
	Date    string           `json:"date"`
	Minutes int              `json:"minutes"`
	Slots   []model.TimeSlot `json:"slots"`
}

type CalendarSyncResult struct {
	Upserted int   `json:"upserted"`
	Removed  int64 `json:"removed"`
}

type CalendarService interface {
	Events(ctx context.Context, rangeName string) (*CalendarView, error)
	EventsBetween(ctx context.Context, from, to time.Time) ([]model.CalendarEvent, error)
	FreeSlots(ctx context.Context, date time.Time, minutes int) (*FreeSlots, error)
	Sync(ctx context.Context, days int) (*CalendarSyncResult, error)
}

// WorkingHours bounds free slot search, as hours of the day.
type WorkingHours struct {
	Start int
	End   int
}

type calendarService struct {
	events  store.CalendarStore
	google  gcalendar.Client // nil when Google is not configured
	loc     *time.Location
	workday WorkingHours
	now     func() time.Time
}

func NewCalendarService(
	events store.CalendarStore,
	google gcalendar.Client,
	loc *time.Location,
	workday WorkingHours,
	now func() time.Time,
) CalendarService {
	return &calendarService{events: events, google: google, loc: loc, workday: workday, now: now}
}

func (s *calendarService) Events(ctx context.Context, rangeName string) (*CalendarView, error) {
	now := s.now().In(s.loc)
	r, err := ParseRange(rangeName, now)
	if err != nil {
		return nil, err
	}

	events, err := s.events.ListBetween(ctx, r.From, r.To)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}

	return &CalendarView{Range: r, Total: len(events), Buckets: BucketEvents(events, now)}, nil
}

func (s *calendarService) EventsBetween(ctx context.Context, from, to time.Time) ([]model.CalendarEvent, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("%w: range end must be after start", ErrInvalidInput)
	}
	return s.events.ListBetween(ctx, from, to)
}

// FreeSlots finds gaps of at least minutes inside working hours on date.
// Busy time comes from Google free/busy when configured, otherwise from the
// synced events table.
func (s *calendarService) FreeSlots(ctx context.Context, date time.Time, minutes int) (*FreeSlots, error) {
	if minutes <= 0 {
		minutes = 30
	}
	day := format.StartOfDay(date, s.loc)
	window := gcalendar.Interval{
		Start: day.Add(time.Duration(s.workday.Start) * time.Hour),
		End:   day.Add(time.Duration(s.workday.End) * time.Hour),
	}
	// Nothing before now counts as free today.
	if now := s.now(); now.After(window.Start) {
		window.Start = now.Truncate(15 * time.Minute).Add(15 * time.Minute)
	}

	out := &FreeSlots{Date: day.Format("2006-01-02"), Minutes: minutes, Slots: []model.TimeSlot{}}
	if !window.End.After(window.Start) {
		return out, nil
	}

	busy, err := s.busy(ctx, window)
	if err != nil {
		return nil, err
	}

	for _, slot := range gcalendar.FreeSlots(busy, window, time.Duration(minutes)*time.Minute) {
		out.Slots = append(out.Slots, model.TimeSlot{Start: slot.Start, End: slot.End})
	}
	return out, nil
}

func (s *calendarService) busy(ctx context.Context, window gcalendar.Interval) ([]gcalendar.Interval, error) {
	if s.google != nil {
		busy, err := s.google.FreeBusy(ctx, window.Start, window.End)
		if err == nil {
			return busy, nil
		}
		slog.WarnContext(ctx, "google freebusy failed, using synced events", "error", err)
	}

	events, err := s.events.ListBetween(ctx, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	busy := make([]gcalendar.Interval, 0, len(events))
	for _, e := range events {
		busy = append(busy, gcalendar.Interval{Start: e.StartsAt, End: e.EndsAt})
	}
	return busy, nil
}

// Sync mirrors Google events for the next days into the events table and
// removes synced events that no longer exist upstream.
func (s *calendarService) Sync(ctx context.Context, days int) (*CalendarSyncResult, error) {
	if s.google == nil {
		return nil, fmt.Errorf("google calendar: %w", ErrNotConfigured)
	}
	if days <= 0 {
		days = 30
	}

	syncStart := s.now()
	from := format.StartOfDay(syncStart, s.loc).AddDate(0, 0, -1)
	to := from.AddDate(0, 0, days+1)

	events, err := s.google.ListEvents(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing google events: %w", err)
	}

	result := &CalendarSyncResult{}
	for _, e := range events {
		event := FromGoogleEvent(e)
		event.ID = id.New()
		if err := s.events.Upsert(ctx, &event); err != nil {
			return nil, fmt.Errorf("upserting event %s: %w", e.ID, err)
		}
		result.Upserted++
	}

	removed, err := s.events.DeleteStale(ctx, from, to, syncStart)
	if err != nil {
		return nil, fmt.Errorf("removing stale events: %w", err)
	}
	result.Removed = removed

	slog.InfoContext(ctx, "calendar synced",
		"upserted", result.Upserted,
		"removed", result.Removed,
		"days", days)
	return result, nil
}

func FromGoogleEvent(e gcalendar.Event) model.CalendarEvent {
	event := model.CalendarEvent{
		GoogleID:  e.ID,
		Title:     e.Summary,
		StartsAt:  e.Start,
		EndsAt:    e.End,
		AllDay:    e.AllDay,
		Attendees: e.Attendees,
		Status:    e.Status,
	}
	if event.Status == "" {
		event.Status = "confirmed"
	}
	if e.Description != "" {
		event.Description = &e.Description
	}
	if e.Location != "" {
		event.Location = &e.Location
	}
	if e.HTMLLink != "" {
		event.HTMLLink = &e.HTMLLink
	}
	return event
}

// ParseRange resolves a named range relative to now. "week" runs to the end
// of the current Monday-based week, "next7" covers seven days from today and
// "month" the rest of the current month.
func ParseRange(name string, now time.Time) (DateRange, error) {
	today := format.StartOfDay(now, now.Location())

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", RangeToday:
		return DateRange{Label: BucketToday, From: today, To: today.AddDate(0, 0, 1)}, nil
	case RangeTomorrow:
		from := today.AddDate(0, 0, 1)
		return DateRange{Label: BucketTomorrow, From: from, To: from.AddDate(0, 0, 1)}, nil
	case RangeWeek:
		return DateRange{Label: BucketThisWeek, From: today, To: endOfWeek(today)}, nil
	case RangeNext7:
		return DateRange{Label: "Next 7 days", From: today, To: today.AddDate(0, 0, 7)}, nil
	case RangeMonth:
		from := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return DateRange{Label: from.Format("January 2006"), From: today, To: from.AddDate(0, 1, 0)}, nil
	default:
		return DateRange{}, fmt.Errorf("%w: unknown range %q", ErrInvalidInput, name)
	}
}

// endOfWeek returns the Monday after today.
func endOfWeek(today time.Time) time.Time {
	daysToMonday := (8 - int(today.Weekday())) % 7
	if daysToMonday == 0 {
		daysToMonday = 7
	}
	return today.AddDate(0, 0, daysToMonday)
}

// BucketEvents groups events by their start relative to now. Empty buckets are
// omitted; events before today land in Today so ongoing events stay visible.
func BucketEvents(events []model.CalendarEvent, now time.Time) []EventBucket {
	loc := now.Location()
	today := format.StartOfDay(now, loc)
	tomorrow := today.AddDate(0, 0, 1)
	dayAfter := today.AddDate(0, 0, 2)
	weekEnd := endOfWeek(today)

	order := []string{BucketToday, BucketTomorrow, BucketThisWeek, BucketLater}
	grouped := map[string][]model.CalendarEvent{}
	for _, e := range events {
		start := e.StartsAt.In(loc)
		var label string
		switch {
		case start.Before(tomorrow):
			label = BucketToday
		case start.Before(dayAfter):
			label = BucketTomorrow
		case start.Before(weekEnd):
			label = BucketThisWeek
		default:
			label = BucketLater
		}
		grouped[label] = append(grouped[label], e)
	}

	buckets := []EventBucket{}
	for _, label := range order {
		if len(grouped[label]) > 0 {
			buckets = append(buckets, EventBucket{Label: label, Events: grouped[label]})
		}
	}
	return buckets
}
