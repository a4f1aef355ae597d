package gmail_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration/gmail"
)

var _ = Describe("Gmail client", func() {
	var (
		ctx    context.Context
		server *httptest.Server
		sent   map[string]string
		status int
	)

	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	encode := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }

	BeforeEach(func() {
		ctx = context.Background()
		status = http.StatusOK
		sent = nil
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if status != http.StatusOK {
				http.Error(w, "upstream failure", status)
				return
			}
			switch {
			case r.URL.Path == "/messages" && r.Method == http.MethodGet:
				Expect(r.URL.Query().Get("q")).To(Equal("from:ben"))
				_ = json.NewEncoder(w).Encode(map[string]any{
					"messages": []map[string]string{{"id": "m1", "threadId": "t1"}},
				})
			case r.URL.Path == "/messages/m1" && r.Method == http.MethodGet:
				_ = json.NewEncoder(w).Encode(map[string]any{
					"id": "m1", "threadId": "t1", "snippet": "Hi there",
					"payload": map[string]any{
						"mimeType": "multipart/alternative",
						"headers": []map[string]string{
							{"name": "Subject", "value": "Harvest day"},
							{"name": "From", "value": "Ben <ben@example.org>"},
							{"name": "To", "value": "ops@example.org"},
						},
						"parts": []map[string]any{
							{"mimeType": "text/html", "body": map[string]string{"data": encode("<p>Hello &amp; welcome</p>")}},
						},
					},
				})
			case r.URL.Path == "/messages/send" && r.Method == http.MethodPost:
				Expect(json.NewDecoder(r.Body).Decode(&sent)).To(Succeed())
				_ = json.NewEncoder(w).Encode(map[string]string{"id": "sent-1"})
			default:
				http.NotFound(w, r)
			}
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	newClient := func() gmail.Client {
		return gmail.New(server.Client(), "ops@example.org", gmail.WithBaseURL(server.URL), gmail.WithClock(func() time.Time { return now }))
	}

	It("searches and decorates summaries with headers", func() {
		msgs, err := newClient().Search(ctx, "from:ben", 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(msgs).To(HaveLen(1))
		Expect(msgs[0].Subject).To(Equal("Harvest day"))
		Expect(msgs[0].From).To(Equal("Ben <ben@example.org>"))
	})

	It("falls back to stripped HTML bodies", func() {
		msg, err := newClient().Get(ctx, "m1")
		Expect(err).NotTo(HaveOccurred())
		Expect(msg.Body).To(Equal("Hello & welcome"))
		Expect(msg.To).To(Equal("ops@example.org"))
	})

	It("sends base64url encoded RFC 2822 messages", func() {
		id, err := newClient().Send(ctx, gmail.Draft{To: []string{"ben@example.org"}, Subject: "Invoice", Body: "Line one\nLine two"})
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(Equal("sent-1"))

		raw, err := base64.RawURLEncoding.DecodeString(sent["raw"])
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).To(ContainSubstring("To: ben@example.org\r\n"))
		Expect(string(raw)).To(ContainSubstring("From: ops@example.org\r\n"))
		Expect(string(raw)).To(HaveSuffix("Line one\r\nLine two"))
	})

	It("rejects drafts without recipients", func() {
		_, err := newClient().Send(ctx, gmail.Draft{Subject: "x"})
		Expect(err).To(HaveOccurred())
	})

	It("returns retryable API errors for 5xx responses", func() {
		status = http.StatusBadGateway
		_, err := newClient().Get(ctx, "m1")
		Expect(err).To(HaveOccurred())
		Expect(integration.IsRetryable(err)).To(BeTrue())
	})

	It("Q-encodes non-ASCII subjects", func() {
		raw := gmail.BuildRFC2822("", gmail.Draft{To: []string{"a@b.org"}, Subject: "Café catch-up"}, now)
		Expect(raw).NotTo(ContainSubstring("From:"))
		Expect(raw).To(ContainSubstring("Subject: =?utf-8?q?"))
		Expect(strings.Count(raw, "\r\n\r\n")).To(Equal(1))
	})
})
