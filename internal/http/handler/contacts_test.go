package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/http/handler"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/service"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/store"
)

var _ = Describe("ContactHandler", func() {
	var (
		router   *gin.Engine
		contacts *mockContacts
	)

	BeforeEach(func() {
		contacts = &mockContacts{}
		router = gin.New()
		h := handler.NewContactHandler(contacts)
		router.GET("/contacts/health", h.Health)
		router.GET("/contacts/:id", h.Get)
	})

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	It("passes tag and status filters through", func() {
		contacts.healthFn = func(_ context.Context, tag *string, status *model.RelationshipStatus, limit int) (*service.HealthReport, error) {
			Expect(*tag).To(Equal("funder"))
			Expect(*status).To(Equal(model.RelationshipCooling))
			Expect(limit).To(Equal(50))
			return &service.HealthReport{}, nil
		}

		Expect(get("/contacts/health?tag=funder&status=cooling").Code).To(Equal(http.StatusOK))
	})

	It("rejects an unknown relationship status", func() {
		Expect(get("/contacts/health?status=lukewarm").Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 404 for a missing contact", func() {
		contacts.getFn = func(context.Context, int64) (*service.ContactDetail, error) {
			return nil, store.ErrNotFound
		}
		Expect(get("/contacts/123").Code).To(Equal(http.StatusNotFound))
	})

	It("rejects a non-numeric id", func() {
		Expect(get("/contacts/sam").Code).To(Equal(http.StatusBadRequest))
	})
})

var _ = Describe("KnowledgeHandler", func() {
	It("serves notes whose slugs contain slashes", func() {
		var got string
		svc := &mockKnowledge{getFn: func(_ context.Context, slug string) (*service.NoteView, error) {
			got = slug
			return &service.NoteView{KnowledgeNote: model.KnowledgeNote{Slug: slug}, HTML: "<p>x</p>"}, nil
		}}
		router := gin.New()
		router.GET("/knowledge/*slug", handler.NewKnowledgeHandler(svc).Get)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/knowledge/areas/grants/process", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(got).To(Equal("areas/grants/process"))
		Expect(w.Body.String()).To(ContainSubstring(`"html":"\u003cp\u003ex\u003c/p\u003e"`))
	})
})
