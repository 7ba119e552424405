package handler

import (
	"dcms/backend/internal/auth"
	"net/http"

	"github.com/gin-gonic/gin"
)

// loginRequest accepts either identifier; the username wins when both are set.
type loginRequest struct {
	Username string `json:"username" binding:"required_without=Email"`
	Email    string `json:"email" binding:"required_without=Username"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type emailOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type phoneOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type emailVerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

type phoneVerifyRequest struct {
	Phone string `json:"phone" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

type emailResetRequest struct {
	Email       string `json:"email" binding:"required,email"`
	ResetToken  string `json:"reset_token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type phoneResetRequest struct {
	Phone       string `json:"phone" binding:"required"`
	ResetToken  string `json:"reset_token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func (h *Handler) Register(c *gin.Context) {
	var in auth.RegisterInput
	if !h.bind(c, &in) {
		return
	}
	u, err := h.Auth.Register(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !h.bind(c, &req) {
		return
	}
	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}
	pair, u, err := h.Auth.Login(c.Request.Context(), identifier, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": pair.Access, "refresh": pair.Refresh, "user": u})
}

func (h *Handler) Refresh(c *gin.Context) {
	var req refreshRequest
	if !h.bind(c, &req) {
		return
	}
	pair, err := h.Auth.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (h *Handler) ForgotPassword(c *gin.Context) {
	var req emailOTPRequest
	if !h.bind(c, &req) {
		return
	}
	h.otpRequested(c, h.Auth.RequestEmailOTP(c.Request.Context(), req.Email))
}

func (h *Handler) ForgotPasswordPhone(c *gin.Context) {
	var req phoneOTPRequest
	if !h.bind(c, &req) {
		return
	}
	h.otpRequested(c, h.Auth.RequestPhoneOTP(c.Request.Context(), req.Phone))
}

func (h *Handler) VerifyOTP(c *gin.Context) {
	var req emailVerifyRequest
	if !h.bind(c, &req) {
		return
	}
	token, err := h.Auth.VerifyEmailOTP(c.Request.Context(), req.Email, req.OTP)
	h.otpVerified(c, token, err)
}

func (h *Handler) VerifyOTPPhone(c *gin.Context) {
	var req phoneVerifyRequest
	if !h.bind(c, &req) {
		return
	}
	token, err := h.Auth.VerifyPhoneOTP(c.Request.Context(), req.Phone, req.OTP)
	h.otpVerified(c, token, err)
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req emailResetRequest
	if !h.bind(c, &req) {
		return
	}
	h.passwordReset(c, h.Auth.ResetPasswordByEmail(c.Request.Context(), req.Email, req.ResetToken, req.NewPassword))
}

func (h *Handler) ResetPasswordPhone(c *gin.Context) {
	var req phoneResetRequest
	if !h.bind(c, &req) {
		return
	}
	h.passwordReset(c, h.Auth.ResetPasswordByPhone(c.Request.Context(), req.Phone, req.ResetToken, req.NewPassword))
}

// otpRequested answers the same way whether or not the account exists.
func (h *Handler) otpRequested(c *gin.Context, err error) {
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "If the account exists, an OTP has been sent."})
}

func (h *Handler) otpVerified(c *gin.Context, token string, err error) {
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP verified", "reset_token": token})
}

func (h *Handler) passwordReset(c *gin.Context, err error) {
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully."})
}
