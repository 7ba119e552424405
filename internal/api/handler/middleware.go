package handler

import (
	"dcms/backend/internal/complaint"
	"dcms/backend/internal/models"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ctxCaller = "caller"
	ctxUser   = "user"
)

// Authenticate resolves the bearer token into a Caller. A request without a
// token continues as Anonymous; a bad token is rejected with 401.
func (h *Handler) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, present, ok := bearerToken(c.GetHeader("Authorization"))
		if !present {
			c.Set(ctxCaller, complaint.Resolve(nil))
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		user, err := h.Auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			h.abortError(c, err)
			return
		}
		c.Set(ctxUser, user)
		c.Set(ctxCaller, complaint.Resolve(user))
		c.Next()
	}
}

// RequireUser rejects anonymous requests with 401.
func (h *Handler) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication credentials were not provided"})
			return
		}
		c.Next()
	}
}

func currentCaller(c *gin.Context) complaint.Caller {
	if v, ok := c.Get(ctxCaller); ok {
		if caller, ok := v.(complaint.Caller); ok {
			return caller
		}
	}
	return complaint.Caller{}
}

func currentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ctxUser); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// bearerToken parses "Bearer <token>". present is false for an empty header.
func bearerToken(header string) (token string, present, ok bool) {
	if header == "" {
		return "", false, false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", true, false
	}
	return strings.TrimSpace(token), true, true
}
