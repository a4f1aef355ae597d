// Package gcalendar is a small client for the Google Calendar v3 API.
package gcalendar

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration"
)

const defaultBaseURL = "https://www.googleapis.com/calendar/v3"

type Event struct {
	ID          string    `json:"id"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Status      string    `json:"status"`
	HTMLLink    string    `json:"html_link,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	AllDay      bool      `json:"all_day"`
	Attendees   []string  `json:"attendees,omitempty"`
}

// NewEvent describes an event to create. ID makes creation idempotent:
// Google rejects a second insert with the same id.
type NewEvent struct {
	ID          string    `json:"id,omitempty"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	AllDay      bool      `json:"all_day,omitempty"`
	Attendees   []string  `json:"attendees,omitempty"`
}

type Client interface {
	ListEvents(ctx context.Context, from, to time.Time) ([]Event, error)
	CreateEvent(ctx context.Context, event NewEvent) (*Event, error)
	FreeBusy(ctx context.Context, from, to time.Time) ([]Interval, error)
}

type Option func(*client)

func WithBaseURL(u string) Option {
	return func(c *client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

type client struct {
	http       *http.Client
	baseURL    string
	calendarID string
	loc        *time.Location
}

// New returns a Calendar client for calendarID. All-day events and created
// events use loc.
func New(httpClient *http.Client, calendarID string, loc *time.Location, opts ...Option) Client {
	if calendarID == "" {
		calendarID = "primary"
	}
	c := &client{
		http:       httpClient,
		baseURL:    defaultBaseURL,
		calendarID: calendarID,
		loc:        loc,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EventIDFromKey derives a valid Calendar event id (base32hex alphabet) from
// an idempotency key.
func EventIDFromKey(key uuid.UUID) string {
	return hex.EncodeToString(key[:])
}

func (c *client) eventsPath() string {
	return "/calendars/" + url.PathEscape(c.calendarID) + "/events"
}

func (c *client) ListEvents(ctx context.Context, from, to time.Time) ([]Event, error) {
	var events []Event
	pageToken := ""
	for {
		params := url.Values{}
		params.Set("timeMin", from.Format(time.RFC3339))
		params.Set("timeMax", to.Format(time.RFC3339))
		params.Set("singleEvents", "true")
		params.Set("orderBy", "startTime")
		params.Set("maxResults", "250")
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var page struct {
			Items         []apiEvent `json:"items"`
			NextPageToken string     `json:"nextPageToken"`
		}
		if err := c.do(ctx, http.MethodGet, c.eventsPath()+"?"+params.Encode(), nil, &page); err != nil {
			return nil, fmt.Errorf("listing events: %w", err)
		}
		for _, item := range page.Items {
			events = append(events, item.toEvent(c.loc))
		}

		if page.NextPageToken == "" {
			return events, nil
		}
		pageToken = page.NextPageToken
	}
}

func (c *client) CreateEvent(ctx context.Context, event NewEvent) (*Event, error) {
	if !event.End.IsZero() && event.End.Before(event.Start) {
		return nil, fmt.Errorf("event ends before it starts")
	}

	var created apiEvent
	err := c.do(ctx, http.MethodPost, c.eventsPath(), toAPIEvent(event, c.loc), &created)
	if err != nil && event.ID != "" && integration.IsStatus(err, http.StatusConflict) {
		// already created by an earlier attempt
		err = c.do(ctx, http.MethodGet, c.eventsPath()+"/"+url.PathEscape(event.ID), nil, &created)
	}
	if err != nil {
		return nil, fmt.Errorf("creating event: %w", err)
	}

	ev := created.toEvent(c.loc)
	return &ev, nil
}

func (c *client) FreeBusy(ctx context.Context, from, to time.Time) ([]Interval, error) {
	req := map[string]any{
		"timeMin": from.Format(time.RFC3339),
		"timeMax": to.Format(time.RFC3339),
		"items":   []map[string]string{{"id": c.calendarID}},
	}
	var resp struct {
		Calendars map[string]struct {
			Busy []struct {
				Start time.Time `json:"start"`
				End   time.Time `json:"end"`
			} `json:"busy"`
		} `json:"calendars"`
	}
	if err := c.do(ctx, http.MethodPost, "/freeBusy", req, &resp); err != nil {
		return nil, fmt.Errorf("querying free/busy: %w", err)
	}

	var busy []Interval
	for _, cal := range resp.Calendars {
		for _, b := range cal.Busy {
			busy = append(busy, Interval{Start: b.Start, End: b.End})
		}
	}
	return busy, nil
}

func (c *client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return integration.NewAPIError("calendar", resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
