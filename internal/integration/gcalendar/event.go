package gcalendar

import "time"

const dateLayout = "2006-01-02"

type apiTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

type apiEvent struct {
	ID          string  `json:"id,omitempty"`
	Summary     string  `json:"summary"`
	Description string  `json:"description,omitempty"`
	Location    string  `json:"location,omitempty"`
	Status      string  `json:"status,omitempty"`
	HTMLLink    string  `json:"htmlLink,omitempty"`
	Start       apiTime `json:"start"`
	End         apiTime `json:"end"`
	Attendees   []struct {
		Email string `json:"email"`
	} `json:"attendees,omitempty"`
}

func (t apiTime) parse(loc *time.Location) (time.Time, bool) {
	if t.DateTime != "" {
		v, err := time.Parse(time.RFC3339, t.DateTime)
		if err == nil {
			return v, false
		}
	}
	if t.Date != "" {
		v, err := time.ParseInLocation(dateLayout, t.Date, loc)
		if err == nil {
			return v, true
		}
	}
	return time.Time{}, false
}

func (e apiEvent) toEvent(loc *time.Location) Event {
	start, allDay := e.Start.parse(loc)
	end, _ := e.End.parse(loc)

	ev := Event{
		ID:          e.ID,
		Summary:     e.Summary,
		Description: e.Description,
		Location:    e.Location,
		Status:      e.Status,
		HTMLLink:    e.HTMLLink,
		Start:       start,
		End:         end,
		AllDay:      allDay,
	}
	for _, a := range e.Attendees {
		if a.Email != "" {
			ev.Attendees = append(ev.Attendees, a.Email)
		}
	}
	return ev
}

func toAPIEvent(ev NewEvent, loc *time.Location) apiEvent {
	out := apiEvent{
		ID:          ev.ID,
		Summary:     ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
	}

	if ev.AllDay {
		start := ev.Start.In(loc)
		end := ev.End.In(loc)
		if !end.After(start) {
			end = start.AddDate(0, 0, 1)
		}
		out.Start = apiTime{Date: start.Format(dateLayout)}
		out.End = apiTime{Date: end.Format(dateLayout)}
	} else {
		end := ev.End
		if end.IsZero() {
			end = ev.Start.Add(time.Hour)
		}
		out.Start = apiTime{DateTime: ev.Start.In(loc).Format(time.RFC3339), TimeZone: loc.String()}
		out.End = apiTime{DateTime: end.In(loc).Format(time.RFC3339), TimeZone: loc.String()}
	}

	for _, email := range ev.Attendees {
		out.Attendees = append(out.Attendees, struct {
			Email string `json:"email"`
		}{Email: email})
	}
	return out
}
