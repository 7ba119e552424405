package auth_test

import (
	"context"
	"dcms/backend/internal/auth"
	"dcms/backend/internal/config"
	"dcms/backend/internal/localization"
	"dcms/backend/internal/models"
	"dcms/backend/internal/notify"
	"dcms/backend/internal/storage"
	"errors"
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	auth.HashCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type fixture struct {
	users    *MockUserStore
	cache    *memCache
	notifier *fakeNotifier
	svc      *auth.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	l, err := localization.Default()
	require.NoError(t, err)
	f := &fixture{users: new(MockUserStore), cache: newMemCache(), notifier: &fakeNotifier{}}
	tokens := auth.NewTokenIssuer("test-secret", config.AccessTokenTTL, config.RefreshTokenTTL)
	f.svc = auth.NewService(f.users, f.cache, tokens, f.notifier, l, "en", nil)
	return f
}

func activeUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return &models.User{ID: "u1", Username: "sita@example.com", Email: "sita@example.com", PasswordHash: hash, IsActive: true}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, auth.CheckPassword(hash, "correct horse"))
	assert.False(t, auth.CheckPassword(hash, "wrong"))
}

func TestTokenIssuer(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Minute, time.Hour)
	pair, err := issuer.Issue("u1")
	require.NoError(t, err)

	claims, err := issuer.Parse(pair.Access, auth.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, config.TokenIssuer, claims.Issuer)

	_, err = issuer.Parse(pair.Refresh, auth.AccessToken)
	assert.Error(t, err, "refresh token must not authenticate requests")

	_, err = auth.NewTokenIssuer("other", time.Minute, time.Hour).Parse(pair.Access, auth.AccessToken)
	assert.Error(t, err, "signature from another secret")

	expired := auth.NewTokenIssuer("secret", -time.Minute, time.Hour)
	old, err := expired.Issue("u1")
	require.NoError(t, err)
	_, err = issuer.Parse(old.Access, auth.AccessToken)
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.users.On("GetUserByEmail", mock.Anything, "ram@example.com").Return(nil, storage.ErrNotFound)
	f.users.On("CreateUser", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	confirm := "s3cretpass"
	u, err := f.svc.Register(ctx, auth.RegisterInput{
		Email: " ram@example.com ", Password: "s3cretpass", ConfirmPassword: &confirm,
		FullName: "Ram Bahadur Thapa", Phone: "+9779800000001",
	})

	require.NoError(t, err)
	assert.Equal(t, "ram@example.com", u.Username, "username is the email")
	assert.Equal(t, "Ram", u.FirstName)
	assert.Equal(t, "Bahadur Thapa", u.LastName)
	require.NotNil(t, u.Profile)
	assert.Equal(t, models.RoleUser, u.Profile.Role)
	require.NotNil(t, u.Profile.Phone)
	assert.Equal(t, "+9779800000001", *u.Profile.Phone)
	assert.True(t, auth.CheckPassword(u.PasswordHash, "s3cretpass"))
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.users.On("GetUserByEmail", mock.Anything, "taken@example.com").Return(&models.User{ID: "x"}, nil)

	mismatch := "different1"
	tests := []struct {
		name  string
		in    auth.RegisterInput
		field string
	}{
		{"missing email", auth.RegisterInput{Password: "s3cretpass"}, "email"},
		{"malformed email", auth.RegisterInput{Email: "ram.example.com", Password: "s3cretpass"}, "email"},
		{"short password", auth.RegisterInput{Email: "ram@example.com", Password: "short"}, "password"},
		{"confirmation mismatch", auth.RegisterInput{Email: "ram@example.com", Password: "s3cretpass", ConfirmPassword: &mismatch}, "confirm_password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Register(ctx, tt.in)
			assert.ErrorIs(t, err, auth.ErrValidation)
			var ve *auth.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}

	_, err := f.svc.Register(ctx, auth.RegisterInput{Email: "taken@example.com", Password: "s3cretpass"})
	assert.ErrorIs(t, err, auth.ErrEmailTaken)
	f.users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestLogin_ByUsernameOrEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := activeUser(t, "s3cretpass")
	u.Username = "ktm_ward_admin"
	f.users.On("GetUserByUsername", mock.Anything, "ktm_ward_admin").Return(u, nil)
	f.users.On("GetUserByUsername", mock.Anything, "sita@example.com").Return(nil, storage.ErrNotFound)
	f.users.On("GetUserByEmail", mock.Anything, "sita@example.com").Return(u, nil)

	pair, got, err := f.svc.Login(ctx, "ktm_ward_admin", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)

	_, _, err = f.svc.Login(ctx, "sita@example.com", "s3cretpass")
	require.NoError(t, err)

	_, _, err = f.svc.Login(ctx, "ktm_ward_admin", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	f := newFixture(t)
	u := activeUser(t, "s3cretpass")
	u.IsActive = false
	f.users.On("GetUserByUsername", mock.Anything, "sita").Return(u, nil)

	_, _, err := f.svc.Login(context.Background(), "sita", "s3cretpass")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthenticateAndRefresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := activeUser(t, "s3cretpass")
	f.users.On("GetUserByID", mock.Anything, "u1").Return(u, nil)

	pair, err := f.svc.Tokens.Issue("u1")
	require.NoError(t, err)

	got, err := f.svc.Authenticate(ctx, pair.Access)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	_, err = f.svc.Authenticate(ctx, pair.Refresh)
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	_, err = f.svc.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)

	next, err := f.svc.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, next.Access)

	_, err = f.svc.Refresh(ctx, pair.Access)
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}

var sixDigits = regexp.MustCompile(`^\d{6}$`)

func TestEmailResetFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := activeUser(t, "old-password")
	f.users.On("GetUserByEmail", mock.Anything, "sita@example.com").Return(u, nil)
	f.users.On("UpdatePassword", mock.Anything, "u1", mock.AnythingOfType("string")).Return(nil)

	// Request
	require.NoError(t, f.svc.RequestEmailOTP(ctx, "sita@example.com"))
	otp, ok, _ := f.cache.Get(ctx, "otp_sita@example.com")
	require.True(t, ok)
	assert.Regexp(t, sixDigits, otp)
	assert.Equal(t, config.OTPTTL, f.cache.ttls["otp_sita@example.com"])
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, notify.ChannelEmail, f.notifier.sent[0].channel)
	assert.Equal(t, "sita@example.com", f.notifier.sent[0].msg.To)
	assert.Contains(t, f.notifier.sent[0].msg.Body, otp)

	// Verify
	_, err := f.svc.VerifyEmailOTP(ctx, "sita@example.com", "000000x")
	assert.ErrorIs(t, err, auth.ErrInvalidOTP)
	token, err := f.svc.VerifyEmailOTP(ctx, "sita@example.com", otp)
	require.NoError(t, err)
	assert.Len(t, token, config.ResetTokenLength)
	_, ok, _ = f.cache.Get(ctx, "otp_sita@example.com")
	assert.False(t, ok, "OTP is consumed by verification")
	_, err = f.svc.VerifyEmailOTP(ctx, "sita@example.com", otp)
	assert.ErrorIs(t, err, auth.ErrOTPExpired)

	// Reset
	assert.ErrorIs(t, f.svc.ResetPasswordByEmail(ctx, "sita@example.com", "wrong-token", "new-password"), auth.ErrInvalidResetToken)
	require.NoError(t, f.svc.ResetPasswordByEmail(ctx, "sita@example.com", token, "new-password"))
	_, ok, _ = f.cache.Get(ctx, "reset_token_sita@example.com")
	assert.False(t, ok, "reset token is single use")

	call := f.users.Calls[len(f.users.Calls)-1]
	assert.Equal(t, "UpdatePassword", call.Method)
	assert.True(t, auth.CheckPassword(call.Arguments.String(2), "new-password"))
}

func TestRequestOTP_UnknownAccountIsSilent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.users.On("GetUserByEmail", mock.Anything, "nobody@example.com").Return(nil, storage.ErrNotFound)
	f.users.On("GetUserByPhone", mock.Anything, "+9770000000000").Return(nil, storage.ErrNotFound)

	assert.NoError(t, f.svc.RequestEmailOTP(ctx, "nobody@example.com"))
	assert.NoError(t, f.svc.RequestPhoneOTP(ctx, "+9770000000000"))
	assert.Empty(t, f.notifier.sent)
	assert.Empty(t, f.cache.data)

	assert.ErrorIs(t, f.svc.RequestEmailOTP(ctx, " "), auth.ErrValidation)
	assert.ErrorIs(t, f.svc.RequestEmailOTP(ctx, "nobody"), auth.ErrValidation)
}

func TestPhoneResetFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := activeUser(t, "old-password")
	f.users.On("GetUserByPhone", mock.Anything, "+9779800000001").Return(u, nil)
	f.users.On("UpdatePassword", mock.Anything, "u1", mock.AnythingOfType("string")).Return(nil)

	require.NoError(t, f.svc.RequestPhoneOTP(ctx, "+9779800000001"))
	otp, ok, _ := f.cache.Get(ctx, "otp_phone_+9779800000001")
	require.True(t, ok)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, notify.ChannelSMS, f.notifier.sent[0].channel)

	token, err := f.svc.VerifyPhoneOTP(ctx, "+9779800000001", otp)
	require.NoError(t, err)
	_, ok, _ = f.cache.Get(ctx, "reset_token_phone_+9779800000001")
	assert.True(t, ok)

	assert.ErrorIs(t, f.svc.ResetPasswordByPhone(ctx, "+9779800000001", token, "short"), auth.ErrValidation)
	require.NoError(t, f.svc.ResetPasswordByPhone(ctx, "+9779800000001", token, "new-password"))
}
