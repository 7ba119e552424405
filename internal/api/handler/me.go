package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Me returns the account with its resolved role and jurisdiction.
func (h *Handler) Me(c *gin.Context) {
	caller := currentCaller(c)
	body := gin.H{
		"user": currentUser(c),
		"role": caller.Kind.String(),
	}
	if caller.IsAdmin() {
		body["jurisdiction"] = caller.Jurisdiction
	}
	c.JSON(http.StatusOK, body)
}

// TelegramLink issues a one-time code for linking a telegram chat.
func (h *Handler) TelegramLink(c *gin.Context) {
	if h.Linker == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "unavailable", "detail": "telegram is not configured"})
		return
	}
	u := currentUser(c)
	code, err := h.Linker.IssueCode(c.Request.Context(), u.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": code, "command": "/start " + code})
}
