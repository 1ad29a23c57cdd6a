package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Health(c *gin.Context) {
	nerStatus := "loaded"
	if h.ner == nil || !h.ner.Loaded() {
		nerStatus = "not loaded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "flightchat",
		"ner":     nerStatus,
	})
}
