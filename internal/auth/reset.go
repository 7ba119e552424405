package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"dcms/backend/internal/config"
	"dcms/backend/internal/models"
	"dcms/backend/internal/notify"
	"dcms/backend/internal/storage"
	"dcms/backend/internal/validation"
	"errors"
	"math/big"
	"strings"

	"go.uber.org/zap"
)

const (
	otpAlphabet   = "0123456789"
	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// PasswordRule matches the binding tag on RegisterInput.Password.
	PasswordRule = "required,min=8"
)

// resetFlow is one password reset variant, keyed either by email or by phone.
type resetFlow struct {
	field      string
	rule       string
	otpPrefix  string
	tokPrefix  string
	channel    string
	lookup     func(ctx context.Context, key string) (*models.User, error)
	otpMessage func(otp string) notify.Message
}

func (s *Service) emailFlow() resetFlow {
	return resetFlow{
		field:     "email",
		rule:      "required,email",
		otpPrefix: config.KeyEmailOTP,
		tokPrefix: config.KeyEmailResetToken,
		channel:   notify.ChannelEmail,
		lookup:    s.Users.GetUserByEmail,
		otpMessage: func(otp string) notify.Message {
			return notify.Message{
				Subject: s.Localizer.GetString(s.Lang, "otp_subject"),
				Body:    s.Localizer.Format(s.Lang, "otp_body", otp, int(config.OTPTTL.Minutes())),
			}
		},
	}
}

func (s *Service) phoneFlow() resetFlow {
	return resetFlow{
		field:     "phone",
		rule:      "required",
		otpPrefix: config.KeyPhoneOTP,
		tokPrefix: config.KeyPhoneResetToken,
		channel:   notify.ChannelSMS,
		lookup:    s.Users.GetUserByPhone,
		otpMessage: func(otp string) notify.Message {
			return notify.Message{Body: s.Localizer.Format(s.Lang, "otp_sms", otp, int(config.OTPTTL.Minutes()))}
		},
	}
}

func (f resetFlow) checkKey(key string) *validation.FieldError {
	return validation.Value(f.field, key, f.rule)
}

func (s *Service) RequestEmailOTP(ctx context.Context, email string) error {
	return s.requestOTP(ctx, s.emailFlow(), email)
}

func (s *Service) VerifyEmailOTP(ctx context.Context, email, otp string) (string, error) {
	return s.verifyOTP(ctx, s.emailFlow(), email, otp)
}

func (s *Service) ResetPasswordByEmail(ctx context.Context, email, token, newPassword string) error {
	return s.resetPassword(ctx, s.emailFlow(), email, token, newPassword)
}

func (s *Service) RequestPhoneOTP(ctx context.Context, phone string) error {
	return s.requestOTP(ctx, s.phoneFlow(), phone)
}

func (s *Service) VerifyPhoneOTP(ctx context.Context, phone, otp string) (string, error) {
	return s.verifyOTP(ctx, s.phoneFlow(), phone, otp)
}

func (s *Service) ResetPasswordByPhone(ctx context.Context, phone, token, newPassword string) error {
	return s.resetPassword(ctx, s.phoneFlow(), phone, token, newPassword)
}

// requestOTP stores and sends a one-time code. An unknown key succeeds silently
// so callers cannot probe for registered accounts.
func (s *Service) requestOTP(ctx context.Context, f resetFlow, key string) error {
	key = strings.TrimSpace(key)
	if fe := f.checkKey(key); fe != nil {
		return invalid(fe)
	}

	if _, err := f.lookup(ctx, key); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}

	otp, err := randomString(otpAlphabet, config.OTPLength)
	if err != nil {
		return err
	}
	if err := s.Cache.Set(ctx, f.otpPrefix+key, otp, config.OTPTTL); err != nil {
		return err
	}

	msg := f.otpMessage(otp)
	msg.To = key
	if err := s.Notifier.Send(ctx, f.channel, msg); err != nil {
		s.Log.Warn("failed to deliver OTP", zap.String("channel", f.channel), zap.Error(err))
	}
	return nil
}

// verifyOTP exchanges a valid code for a single-use reset token.
func (s *Service) verifyOTP(ctx context.Context, f resetFlow, key, otp string) (string, error) {
	key = strings.TrimSpace(key)
	if fe := f.checkKey(key); fe != nil {
		return "", invalid(fe)
	}
	if fe := validation.Value("otp", otp, "required"); fe != nil {
		return "", invalid(fe)
	}

	stored, ok, err := s.Cache.Get(ctx, f.otpPrefix+key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrOTPExpired
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(otp)) != 1 {
		return "", ErrInvalidOTP
	}

	token, err := randomString(tokenAlphabet, config.ResetTokenLength)
	if err != nil {
		return "", err
	}
	if err := s.Cache.Set(ctx, f.tokPrefix+key, token, config.ResetTokenTTL); err != nil {
		return "", err
	}
	if err := s.Cache.Delete(ctx, f.otpPrefix+key); err != nil {
		return "", err
	}
	return token, nil
}

func (s *Service) resetPassword(ctx context.Context, f resetFlow, key, token, newPassword string) error {
	key = strings.TrimSpace(key)
	if fe := f.checkKey(key); fe != nil {
		return invalid(fe)
	}
	if fe := validation.Value("reset_token", token, "required"); fe != nil {
		return invalid(fe)
	}

	stored, ok, err := s.Cache.Get(ctx, f.tokPrefix+key)
	if err != nil {
		return err
	}
	if !ok || subtle.ConstantTimeCompare([]byte(stored), []byte(token)) != 1 {
		return ErrInvalidResetToken
	}
	if fe := validation.Value("new_password", newPassword, PasswordRule); fe != nil {
		return invalid(fe)
	}

	u, err := f.lookup(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}
	s.Log.Info("password reset", zap.String("user_id", u.ID), zap.String("via", f.field))
	return s.Cache.Delete(ctx, f.tokPrefix+key)
}

func randomString(alphabet string, n int) (string, error) {
	limit := big.NewInt(int64(len(alphabet)))
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b.WriteByte(alphabet[idx.Int64()])
	}
	return b.String(), nil
}
