package handlers

import (
	"log/slog"
	"net/http"

	"flightchat/middleware"
	"flightchat/services"

	"github.com/gin-gonic/gin"
)

type MessageRequest struct {
	Message string `json:"message"`
}

func (h *Handler) bindMessage(c *gin.Context) (string, bool) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return "", false
	}
	return req.Message, true
}

// GetResponse extracts travel intent from a chat message.
func (h *Handler) GetResponse(c *gin.Context) {
	message, ok := h.bindMessage(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.extractor.Extract(message))
}

// ChatWithAI answers with the travel intent when the message names a route
// and with the chat provider's answer otherwise.
func (h *Handler) ChatWithAI(c *gin.Context) {
	message, ok := h.bindMessage(c)
	if !ok {
		return
	}

	reply := h.assistant.Converse(c.Request.Context(), message)
	if reply.Type == services.ReplyError {
		h.log.ErrorContext(c.Request.Context(), "AI chat failed",
			slog.String("req_id", middleware.GetRequestID(c)),
			slog.String("error", reply.Message),
		)
		c.JSON(http.StatusBadGateway, reply)
		return
	}

	c.JSON(http.StatusOK, reply)
}

// PlanTrip takes a message straight to flight offers when it can.
func (h *Handler) PlanTrip(c *gin.Context) {
	message, ok := h.bindMessage(c)
	if !ok {
		return
	}

	plan := h.assistant.PlanTrip(c.Request.Context(), message)
	if plan.Type == services.ReplyError {
		c.JSON(http.StatusBadGateway, plan)
		return
	}

	c.JSON(http.StatusOK, plan)
}
