package knowledgerepo_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/core/config"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration/knowledgerepo"
)

type treeNode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	Path string `json:"path"`
	Mode string `json:"mode"`
}

var _ = Describe("GitLab knowledge repo", func() {
	var server *httptest.Server

	BeforeEach(func() {
		pages := map[string][]treeNode{
			"1": {
				{ID: "a1", Name: "team", Type: "tree", Path: "wiki/team"},
				{ID: "b2", Name: "onboarding.md", Type: "blob", Path: "wiki/team/onboarding.md"},
			},
			"2": {
				{ID: "c3", Name: "logo.png", Type: "blob", Path: "wiki/logo.png"},
				{ID: "d4", Name: "_sidebar.md", Type: "blob", Path: "wiki/_sidebar.md"},
				{ID: "e5", Name: "Values.MD", Type: "blob", Path: "wiki/Values.MD"},
			},
		}

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case strings.HasSuffix(r.URL.Path, "/repository/tree"):
				Expect(r.URL.Query().Get("path")).To(Equal("wiki"))
				Expect(r.URL.Query().Get("recursive")).To(Equal("true"))
				page := r.URL.Query().Get("page")
				if page == "" {
					page = "1"
				}
				if page == "1" {
					w.Header().Set("X-Next-Page", "2")
				}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(pages[page])
			case strings.Contains(r.URL.Path, "/repository/files/") && strings.HasSuffix(r.URL.Path, "/raw"):
				Expect(r.URL.Query().Get("ref")).To(Equal("main"))
				_, _ = w.Write([]byte("# Onboarding\n"))
			default:
				http.NotFound(w, r)
			}
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	newRepo := func() knowledgerepo.Repo {
		repo, err := knowledgerepo.New(config.KnowledgeRepoConfig{
			BaseURL:   server.URL + "/api/v4",
			Token:     "tok",
			ProjectID: "12",
			Root:      "/wiki/",
		})
		Expect(err).NotTo(HaveOccurred())
		return repo
	}

	It("lists markdown blobs across pages", func() {
		files, err := newRepo().ListMarkdown(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(files).To(Equal([]knowledgerepo.File{
			{Path: "wiki/team/onboarding.md", SHA: "b2"},
			{Path: "wiki/Values.MD", SHA: "e5"},
		}))
	})

	It("reads raw file content at the configured ref", func() {
		data, err := newRepo().ReadFile(context.Background(), "wiki/team/onboarding.md")
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("# Onboarding\n"))
	})

	It("trims slashes from the root", func() {
		Expect(newRepo().Root()).To(Equal("wiki"))
	})

	DescribeTable("IsMarkdown",
		func(p string, expected bool) {
			Expect(knowledgerepo.IsMarkdown(p)).To(Equal(expected))
		},
		Entry("md", "wiki/a.md", true),
		Entry("upper case", "wiki/A.MD", true),
		Entry("mdx", "wiki/a.mdx", true),
		Entry("partial", "wiki/_footer.md", false),
		Entry("hidden", "wiki/.draft.md", false),
		Entry("image", "wiki/a.png", false),
	)
})
