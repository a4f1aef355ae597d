package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/service"
)

type ContactHandler struct {
	contacts service.ContactService
}

func NewContactHandler(contacts service.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

func (h *ContactHandler) List(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 50)
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset", 0)
	if !ok {
		return
	}

	list, err := h.contacts.List(c.Request.Context(), strings.TrimSpace(c.Query("q")), limit, offset)
	if err != nil {
		respondError(c, "failed to list contacts", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ContactHandler) Get(c *gin.Context) {
	contactID, ok := paramID(c, "id")
	if !ok {
		return
	}

	detail, err := h.contacts.Get(c.Request.Context(), contactID)
	if err != nil {
		respondError(c, "failed to get contact", err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *ContactHandler) Health(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 50)
	if !ok {
		return
	}

	var tag *string
	if t := strings.TrimSpace(c.Query("tag")); t != "" {
		tag = &t
	}
	var status *model.RelationshipStatus
	switch s := model.RelationshipStatus(c.Query("status")); s {
	case "":
	case model.RelationshipHealthy, model.RelationshipCooling, model.RelationshipCold, model.RelationshipUnknown:
		status = &s
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	report, err := h.contacts.Health(c.Request.Context(), tag, status, limit)
	if err != nil {
		respondError(c, "failed to build contact health", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ContactHandler) Followups(c *gin.Context) {
	days, ok := queryInt(c, "days", 0)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", 20)
	if !ok {
		return
	}

	followups, err := h.contacts.Followups(c.Request.Context(), days, limit)
	if err != nil {
		respondError(c, "failed to list follow-ups", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"followups": followups})
}

func (h *ContactHandler) Network(c *gin.Context) {
	contactID, ok := paramID(c, "id")
	if !ok {
		return
	}
	depth, ok := queryInt(c, "depth", 2)
	if !ok {
		return
	}

	network, err := h.contacts.Network(c.Request.Context(), contactID, depth)
	if err != nil {
		respondError(c, "failed to load contact network", err)
		return
	}
	c.JSON(http.StatusOK, network)
}
