// Package auth registers accounts, signs users in with JWTs and runs the
// OTP-based password reset flows.
package auth

import (
	"context"
	"dcms/backend/internal/localization"
	"dcms/backend/internal/models"
	"dcms/backend/internal/notify"
	"dcms/backend/internal/storage"
	"dcms/backend/internal/validation"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("no active account found with the given credentials")
	ErrUnauthenticated    = errors.New("authentication credentials were not provided or are invalid")
	ErrEmailTaken         = errors.New("email already registered")
	ErrOTPExpired         = errors.New("OTP expired or not found")
	ErrInvalidOTP         = errors.New("invalid OTP")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrUserNotFound       = errors.New("user not found")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Reason) }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Notifier delivers OTPs. notify.Dispatcher satisfies it.
type Notifier interface {
	Send(ctx context.Context, channel string, msg notify.Message) error
}

type Service struct {
	Users     storage.UserStore
	Cache     storage.Cache
	Tokens    *TokenIssuer
	Notifier  Notifier
	Localizer *localization.Localizer
	Lang      string
	Log       *zap.Logger
}

func NewService(users storage.UserStore, cache storage.Cache, tokens *TokenIssuer, n Notifier, l *localization.Localizer, lang string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		Users:     users,
		Cache:     cache,
		Tokens:    tokens,
		Notifier:  n,
		Localizer: l,
		Lang:      lang,
		Log:       log,
	}
}

type RegisterInput struct {
	Email           string  `json:"email" binding:"required,email"`
	Password        string  `json:"password" binding:"required,min=8"`
	ConfirmPassword *string `json:"confirm_password" binding:"omitempty,eqfield=Password"`
	FullName        string  `json:"full_name"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Phone           string  `json:"phone"`
}

// Register creates an end-user account. The username is always the email.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	if fe := validation.Check(in); fe != nil {
		return nil, invalid(fe)
	}
	email := in.Email

	if _, err := s.Users.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	first, last := splitName(in.FullName)
	if first == "" {
		first, last = strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName)
	}
	profile := &models.UserProfile{Role: models.RoleUser}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		profile.Phone = &phone
	}

	u := &models.User{
		Username:     email,
		Email:        email,
		FirstName:    first,
		LastName:     last,
		PasswordHash: hash,
		IsActive:     true,
		Profile:      profile,
	}
	if err := s.Users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.Log.Info("user registered", zap.String("user_id", u.ID))
	return u, nil
}

// Login accepts either the username or the email as identifier.
func (s *Service) Login(ctx context.Context, identifier, password string) (TokenPair, *models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return TokenPair{}, nil, ErrInvalidCredentials
	}

	u, err := s.Users.GetUserByUsername(ctx, identifier)
	if errors.Is(err, storage.ErrNotFound) && strings.Contains(identifier, "@") {
		u, err = s.Users.GetUserByEmail(ctx, identifier)
	}
	if errors.Is(err, storage.ErrNotFound) {
		return TokenPair{}, nil, ErrInvalidCredentials
	}
	if err != nil {
		return TokenPair{}, nil, err
	}
	if !u.IsActive || !CheckPassword(u.PasswordHash, password) {
		return TokenPair{}, nil, ErrInvalidCredentials
	}

	pair, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return TokenPair{}, nil, err
	}
	return pair, u, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.Tokens.Parse(refreshToken, RefreshToken)
	if err != nil {
		return TokenPair{}, ErrUnauthenticated
	}
	u, err := s.Users.GetUserByID(ctx, claims.UserID)
	if err != nil || !u.IsActive {
		return TokenPair{}, ErrUnauthenticated
	}
	return s.Tokens.Issue(u.ID)
}

// Authenticate resolves an access token to an active user.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.Tokens.Parse(accessToken, AccessToken)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	u, err := s.Users.GetUserByID(ctx, claims.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrUnauthenticated
	}
	return u, nil
}

func invalid(fe *validation.FieldError) *ValidationError {
	return &ValidationError{Field: fe.Field, Reason: fe.Reason}
}

// splitName takes the first word as first name and the rest as last name.
func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
