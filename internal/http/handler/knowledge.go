package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/service"
)

type KnowledgeHandler struct {
	knowledge service.KnowledgeService
}

func NewKnowledgeHandler(knowledge service.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{knowledge: knowledge}
}

func (h *KnowledgeHandler) List(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 20)
	if !ok {
		return
	}

	hits, err := h.knowledge.List(c.Request.Context(), strings.TrimSpace(c.Query("q")), limit)
	if err != nil {
		respondError(c, "failed to list notes", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": hits})
}

// Get serves a note by slug. Slugs may contain slashes, so the route uses a
// wildcard parameter.
func (h *KnowledgeHandler) Get(c *gin.Context) {
	slug := strings.Trim(c.Param("slug"), "/")
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug is required"})
		return
	}

	note, err := h.knowledge.Get(c.Request.Context(), slug)
	if err != nil {
		respondError(c, "failed to get note", err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (h *KnowledgeHandler) Sync(c *gin.Context) {
	ctx := c.Request.Context()

	result, err := h.knowledge.Sync(ctx)
	if err != nil {
		respondError(c, "knowledge sync failed", err)
		return
	}
	slog.InfoContext(ctx, "knowledge synced via api", "synced", result.Synced, "removed", result.Removed)
	c.JSON(http.StatusOK, result)
}
