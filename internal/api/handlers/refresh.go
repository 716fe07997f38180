package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/tcg-catalog/internal/services"
)

type RefreshHandler struct {
	store *services.SnapshotStore
}

func NewRefreshHandler(store *services.SnapshotStore) *RefreshHandler {
	return &RefreshHandler{store: store}
}

// Refresh reloads every dataset. On failure the previous snapshot keeps serving.
func (h *RefreshHandler) Refresh(c *gin.Context) {
	if err := h.store.Refresh(c.Request.Context(), services.TriggerManual); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   err.Error(),
			"status":  h.store.Status(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  h.store.Status(),
	})
}

func (h *RefreshHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Status())
}

func (h *RefreshHandler) GetHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	records, err := h.store.History(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": records})
}
