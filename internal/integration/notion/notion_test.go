package notion_test

import (
	"context"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration/notion"
)

const pageJSON = `{
  "id": "p1",
  "url": "https://notion.so/p1",
  "last_edited_time": "2025-06-30T01:02:03.000Z",
  "properties": {
    "Status": {"type": "select", "select": {"name": "Live"}},
    "Project name": {"type": "title", "title": [{"plain_text": "Harvest "}, {"plain_text": "plan"}]}
  }
}`

const firstBlocks = `{
  "results": [
    {"type": "heading_2", "heading_2": {"rich_text": [{"plain_text": "Goals"}]}},
    {"type": "to_do", "to_do": {"rich_text": [{"plain_text": "Book the hall"}], "checked": true}},
    {"type": "image", "image": {"file": {"url": "x"}}}
  ],
  "has_more": true,
  "next_cursor": "c2"
}`

const secondBlocks = `{
  "results": [
    {"type": "divider", "divider": {}},
    {"type": "bulleted_list_item", "bulleted_list_item": {"rich_text": [{"plain_text": "Seeds"}]}}
  ],
  "has_more": false
}`

var _ = Describe("Notion client", func() {
	var (
		server *httptest.Server
		status int
	)

	BeforeEach(func() {
		status = http.StatusOK
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Notion-Version") == "" || r.Header.Get("Authorization") != "Bearer secret" {
				http.Error(w, "unauthorised", http.StatusUnauthorized)
				return
			}
			if status != http.StatusOK {
				http.Error(w, "slow down", status)
				return
			}
			switch {
			case r.Method == http.MethodPost && r.URL.Path == "/search":
				_, _ = w.Write([]byte(`{"results": [` + pageJSON + `]}`))
			case r.URL.Path == "/pages/p1":
				_, _ = w.Write([]byte(pageJSON))
			case r.URL.Path == "/blocks/p1/children" && r.URL.Query().Get("start_cursor") == "":
				_, _ = w.Write([]byte(firstBlocks))
			case r.URL.Path == "/blocks/p1/children":
				_, _ = w.Write([]byte(secondBlocks))
			default:
				http.NotFound(w, r)
			}
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	newClient := func() notion.Client {
		return notion.New("secret", notion.WithBaseURL(server.URL), notion.WithHTTPClient(server.Client()))
	}

	It("finds the title property by type", func() {
		pages, err := newClient().Search(context.Background(), "harvest", 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(pages).To(HaveLen(1))
		Expect(pages[0].Title).To(Equal("Harvest plan"))
		Expect(pages[0].URL).To(Equal("https://notion.so/p1"))
	})

	It("flattens paginated blocks into text", func() {
		page, err := newClient().GetPage(context.Background(), "p1")
		Expect(err).NotTo(HaveOccurred())
		Expect(page.Title).To(Equal("Harvest plan"))
		Expect(page.Text).To(Equal("## Goals\n[x] Book the hall\n---\n- Seeds"))
	})

	It("surfaces rate limits as retryable", func() {
		status = http.StatusTooManyRequests
		_, err := newClient().Search(context.Background(), "harvest", 5)
		Expect(integration.IsRetryable(err)).To(BeTrue())
	})
})
