package model

import "time"

type CalendarEvent struct {
	ID          int64     `json:"id"`
	GoogleID    string    `json:"google_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Location    *string   `json:"location,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	AllDay      bool      `json:"all_day"`
	Attendees   []string  `json:"attendees"`
	HTMLLink    *string   `json:"html_link,omitempty"`
	Status      string    `json:"status"`
}

type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
