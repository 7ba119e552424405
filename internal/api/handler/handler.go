// Package handler exposes the complaint, account and realtime services over HTTP.
package handler

import (
	"context"
	"dcms/backend/internal/auth"
	"dcms/backend/internal/complaint"
	"dcms/backend/internal/hub"
	"dcms/backend/internal/location"
	"dcms/backend/internal/models"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ComplaintService is implemented by complaint.Service.
type ComplaintService interface {
	Create(ctx context.Context, caller complaint.Caller, in complaint.CreateInput) (*models.Complaint, error)
	List(ctx context.Context, caller complaint.Caller) ([]models.Complaint, error)
	Get(ctx context.Context, caller complaint.Caller, id uint) (*models.Complaint, error)
	Update(ctx context.Context, caller complaint.Caller, id uint, changes complaint.Changes, partial bool) (*models.Complaint, error)
	Summary(ctx context.Context, caller complaint.Caller) (map[models.Status]int64, error)
	AllowedTransitions(c *models.Complaint) []models.Status
}

// AuthService is implemented by auth.Service.
type AuthService interface {
	Register(ctx context.Context, in auth.RegisterInput) (*models.User, error)
	Login(ctx context.Context, identifier, password string) (auth.TokenPair, *models.User, error)
	Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error)
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)

	RequestEmailOTP(ctx context.Context, email string) error
	VerifyEmailOTP(ctx context.Context, email, otp string) (string, error)
	ResetPasswordByEmail(ctx context.Context, email, token, newPassword string) error
	RequestPhoneOTP(ctx context.Context, phone string) error
	VerifyPhoneOTP(ctx context.Context, phone, otp string) (string, error)
	ResetPasswordByPhone(ctx context.Context, phone, token, newPassword string) error
}

// LinkIssuer hands out telegram link codes. telegram.Linker satisfies it.
type LinkIssuer interface {
	IssueCode(ctx context.Context, userID string) (string, error)
}

type Handler struct {
	Complaints ComplaintService
	Auth       AuthService
	Locations  *location.Table
	// Linker is nil when no telegram bot is configured.
	Linker LinkIssuer
	Hub    *hub.ManagerService
	Log    *zap.Logger
}

func NewHandler(complaints ComplaintService, a AuthService, locs *location.Table, linker LinkIssuer, h *hub.ManagerService, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		Complaints: complaints,
		Auth:       a,
		Locations:  locs,
		Linker:     linker,
		Hub:        h,
		Log:        log,
	}
}

// RegisterRoutes mounts every endpoint on r.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", h.Health)

	api := r.Group("/api")

	a := api.Group("/auth")
	a.POST("/register", h.Register)
	a.POST("/login", h.Login)
	a.POST("/refresh", h.Refresh)
	a.POST("/forgot-password", h.ForgotPassword)
	a.POST("/verify-otp", h.VerifyOTP)
	a.POST("/reset-password", h.ResetPassword)
	a.POST("/forgot-password-phone", h.ForgotPasswordPhone)
	a.POST("/verify-otp-phone", h.VerifyOTPPhone)
	a.POST("/reset-password-phone", h.ResetPasswordPhone)

	api.GET("/locations", h.ListLocations)
	api.GET("/ws", h.ServeWebSocket)

	authed := api.Group("", h.Authenticate())
	authed.GET("/me", h.RequireUser(), h.Me)
	authed.POST("/me/telegram-link", h.RequireUser(), h.TelegramLink)

	authed.GET("/complaints", h.ListComplaints)
	authed.POST("/complaints", h.CreateComplaint)
	authed.GET("/complaints/summary", h.ComplaintSummary)
	authed.GET("/complaints/:id", h.GetComplaint)
	authed.PUT("/complaints/:id", h.ReplaceComplaint)
	authed.PATCH("/complaints/:id", h.PatchComplaint)
	authed.GET("/complaints/:id/transitions", h.ComplaintTransitions)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
