package config

import "time"

const (
	// Password reset
	OTPLength        = 6
	OTPTTL           = 600 * time.Second
	ResetTokenLength = 32
	ResetTokenTTL    = 600 * time.Second

	// Telegram linking
	LinkCodeLength = 8
	LinkCodeTTL    = 600 * time.Second

	// Tokens
	AccessTokenTTL  = 5 * time.Minute
	RefreshTokenTTL = 24 * time.Hour
	TokenIssuer     = "dcms-service"
)

// Cache key prefixes. The suffix is the email, phone or link code.
const (
	KeyEmailOTP        = "otp_"
	KeyPhoneOTP        = "otp_phone_"
	KeyEmailResetToken = "reset_token_"
	KeyPhoneResetToken = "reset_token_phone_"
	KeyTelegramLink    = "tg_link_"
)

// StatusEventsChannel is the redis pub/sub channel carrying accepted status changes.
const StatusEventsChannel = "complaints:events"

// StatusEventsQueue is the durable RabbitMQ queue that receives the same changes.
const StatusEventsQueue = "complaint_status_events"
