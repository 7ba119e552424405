package handler

import (
	"dcms/backend/internal/auth"
	"dcms/backend/internal/complaint"
	"dcms/backend/internal/location"
	"dcms/backend/internal/validation"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Binding failures name the JSON key, the same as service-level validation errors.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.Configure(v)
	}
}

// bind decodes the JSON body into obj and checks its binding tags. It writes
// the 400 response itself and reports whether the handler may continue.
func (h *Handler) bind(c *gin.Context, obj any) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}
	if validation.First(err) != nil {
		h.respondError(c, err)
	} else {
		badRequest(c, err.Error())
	}
	return false
}

func (h *Handler) respondError(c *gin.Context, err error) {
	status, body := h.errorBody(c, err)
	c.JSON(status, body)
}

func (h *Handler) abortError(c *gin.Context, err error) {
	status, body := h.errorBody(c, err)
	c.AbortWithStatusJSON(status, body)
}

func (h *Handler) errorBody(c *gin.Context, err error) (int, gin.H) {
	var (
		locErr   *location.Error
		fieldErr *complaint.FieldError
		transErr *complaint.TransitionError
		cValErr  *complaint.ValidationError
		aValErr  *auth.ValidationError
	)

	if fe := validation.First(err); fe != nil {
		return http.StatusBadRequest, gin.H{"error": "validation", "field": fe.Field, "detail": fe.Reason}
	}

	switch {
	case errors.As(err, &locErr):
		body := gin.H{"error": "invalid_location", "detail": locErr.Error()}
		if len(locErr.Missing) > 0 {
			body["missing"] = locErr.Missing
		}
		return http.StatusBadRequest, body
	case errors.As(err, &fieldErr):
		return http.StatusBadRequest, gin.H{"error": "field_not_allowed", "detail": fieldErr.Error(), "fields": fieldErr.Fields}
	case errors.As(err, &transErr):
		return http.StatusBadRequest, gin.H{
			"error":  "invalid_transition",
			"detail": transErr.Error(),
			"from":   transErr.From,
			"to":     transErr.To,
		}
	case errors.As(err, &cValErr):
		return http.StatusBadRequest, gin.H{"error": "validation", "field": cValErr.Field, "detail": cValErr.Reason}
	case errors.As(err, &aValErr):
		return http.StatusBadRequest, gin.H{"error": "validation", "field": aValErr.Field, "detail": aValErr.Reason}

	case errors.Is(err, complaint.ErrForbidden):
		return http.StatusForbidden, gin.H{"error": "forbidden", "detail": "You do not have permission to perform this action."}
	case errors.Is(err, complaint.ErrNotFound), errors.Is(err, auth.ErrUserNotFound):
		return http.StatusNotFound, gin.H{"error": "not_found", "detail": err.Error()}
	case errors.Is(err, auth.ErrUnauthenticated), errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, gin.H{"error": "unauthenticated", "detail": err.Error()}
	case errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, auth.ErrOTPExpired),
		errors.Is(err, auth.ErrInvalidOTP),
		errors.Is(err, auth.ErrInvalidResetToken):
		return http.StatusBadRequest, gin.H{"error": "validation", "detail": err.Error()}
	}

	h.Log.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err))
	return http.StatusInternalServerError, gin.H{"error": "internal", "detail": "Internal server error"}
}

func badRequest(c *gin.Context, detail string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "detail": detail})
}
