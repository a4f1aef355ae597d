package gcalendar_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration/gcalendar"
)

var _ = Describe("Calendar client", func() {
	var (
		ctx      context.Context
		server   *httptest.Server
		inserted atomic.Int32
		conflict bool
	)

	loc := time.FixedZone("AEST", 10*60*60)

	BeforeEach(func() {
		ctx = context.Background()
		inserted.Store(0)
		conflict = false
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.Method == http.MethodGet && r.URL.Path == "/calendars/primary/events":
				if r.URL.Query().Get("pageToken") == "" {
					_ = json.NewEncoder(w).Encode(map[string]any{
						"items": []map[string]any{{
							"id": "e1", "summary": "Board meeting", "status": "confirmed",
							"start":     map[string]string{"dateTime": "2025-07-01T09:00:00+10:00"},
							"end":       map[string]string{"dateTime": "2025-07-01T10:00:00+10:00"},
							"attendees": []map[string]string{{"email": "ben@example.org"}},
						}},
						"nextPageToken": "p2",
					})
					return
				}
				_ = json.NewEncoder(w).Encode(map[string]any{
					"items": []map[string]any{{
						"id": "e2", "summary": "Market day", "status": "confirmed",
						"start": map[string]string{"date": "2025-07-05"},
						"end":   map[string]string{"date": "2025-07-06"},
					}},
				})
			case r.Method == http.MethodPost && r.URL.Path == "/calendars/primary/events":
				if conflict {
					http.Error(w, "duplicate", http.StatusConflict)
					return
				}
				inserted.Add(1)
				var body map[string]any
				_ = json.NewDecoder(r.Body).Decode(&body)
				body["status"] = "confirmed"
				_ = json.NewEncoder(w).Encode(body)
			case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/calendars/primary/events/"):
				_ = json.NewEncoder(w).Encode(map[string]any{
					"id": strings.TrimPrefix(r.URL.Path, "/calendars/primary/events/"), "summary": "Existing",
					"start": map[string]string{"dateTime": "2025-07-02T09:00:00+10:00"},
					"end":   map[string]string{"dateTime": "2025-07-02T09:30:00+10:00"},
				})
			case r.Method == http.MethodPost && r.URL.Path == "/freeBusy":
				_ = json.NewEncoder(w).Encode(map[string]any{
					"calendars": map[string]any{"primary": map[string]any{"busy": []map[string]string{
						{"start": "2025-07-01T00:00:00Z", "end": "2025-07-01T01:00:00Z"},
					}}},
				})
			default:
				http.NotFound(w, r)
			}
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	newClient := func() gcalendar.Client {
		return gcalendar.New(server.Client(), "", loc, gcalendar.WithBaseURL(server.URL))
	}

	It("follows page tokens and parses timed and all-day events", func() {
		events, err := newClient().ListEvents(ctx, time.Now(), time.Now().Add(24*time.Hour))
		Expect(err).NotTo(HaveOccurred())
		Expect(events).To(HaveLen(2))
		Expect(events[0].Attendees).To(ConsistOf("ben@example.org"))
		Expect(events[0].AllDay).To(BeFalse())
		Expect(events[1].AllDay).To(BeTrue())
		Expect(events[1].Start).To(Equal(time.Date(2025, 7, 5, 0, 0, 0, 0, loc)))
	})

	It("creates events with a derived id", func() {
		key := uuid.New()
		start := time.Date(2025, 7, 2, 9, 0, 0, 0, loc)
		ev, err := newClient().CreateEvent(ctx, gcalendar.NewEvent{
			ID:      gcalendar.EventIDFromKey(key),
			Summary: "Planning",
			Start:   start,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(inserted.Load()).To(Equal(int32(1)))
		Expect(ev.ID).To(Equal(gcalendar.EventIDFromKey(key)))
		Expect(ev.End.Sub(ev.Start)).To(Equal(time.Hour))
	})

	It("treats a conflicting id as already created", func() {
		conflict = true
		ev, err := newClient().CreateEvent(ctx, gcalendar.NewEvent{
			ID:      "abc123",
			Summary: "Planning",
			Start:   time.Date(2025, 7, 2, 9, 0, 0, 0, loc),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.ID).To(Equal("abc123"))
		Expect(inserted.Load()).To(BeZero())
	})

	It("rejects an end before the start", func() {
		start := time.Date(2025, 7, 2, 9, 0, 0, 0, loc)
		_, err := newClient().CreateEvent(ctx, gcalendar.NewEvent{
			Summary: "Backwards",
			Start:   start,
			End:     start.Add(-time.Minute),
		})
		Expect(err).To(MatchError(ContainSubstring("ends before it starts")))
		Expect(inserted.Load()).To(BeZero())
	})

	It("reads busy intervals", func() {
		busy, err := newClient().FreeBusy(ctx, time.Now(), time.Now().Add(time.Hour))
		Expect(err).NotTo(HaveOccurred())
		Expect(busy).To(HaveLen(1))
		Expect(busy[0].Duration()).To(Equal(time.Hour))
	})

	It("derives ids in the base32hex alphabet", func() {
		Expect(gcalendar.EventIDFromKey(uuid.New())).To(MatchRegexp(`^[0-9a-v]{32}$`))
	})
})
