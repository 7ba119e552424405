package handler_test

import (
	"context"
	"dcms/backend/internal/auth"
	"dcms/backend/internal/complaint"
	"dcms/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockComplaints struct {
	mock.Mock
}

func (m *MockComplaints) complaint(args mock.Arguments) (*models.Complaint, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockComplaints) Create(ctx context.Context, caller complaint.Caller, in complaint.CreateInput) (*models.Complaint, error) {
	return m.complaint(m.Called(ctx, caller, in))
}

func (m *MockComplaints) List(ctx context.Context, caller complaint.Caller) ([]models.Complaint, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockComplaints) Get(ctx context.Context, caller complaint.Caller, id uint) (*models.Complaint, error) {
	return m.complaint(m.Called(ctx, caller, id))
}

func (m *MockComplaints) Update(ctx context.Context, caller complaint.Caller, id uint, changes complaint.Changes, partial bool) (*models.Complaint, error) {
	return m.complaint(m.Called(ctx, caller, id, changes, partial))
}

func (m *MockComplaints) Summary(ctx context.Context, caller complaint.Caller) (map[models.Status]int64, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.Status]int64), args.Error(1)
}

func (m *MockComplaints) AllowedTransitions(c *models.Complaint) []models.Status {
	args := m.Called(c)
	return args.Get(0).([]models.Status)
}

// fakeAuth maps access tokens to users. Other calls go to the embedded mock.
type fakeAuth struct {
	mock.Mock
	tokens map[string]*models.User
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) (*models.User, error) {
	if u, ok := f.tokens[token]; ok {
		return u, nil
	}
	return nil, auth.ErrUnauthenticated
}

func (f *fakeAuth) Register(ctx context.Context, in auth.RegisterInput) (*models.User, error) {
	args := f.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (f *fakeAuth) Login(ctx context.Context, identifier, password string) (auth.TokenPair, *models.User, error) {
	args := f.Called(ctx, identifier, password)
	u, _ := args.Get(1).(*models.User)
	return args.Get(0).(auth.TokenPair), u, args.Error(2)
}

func (f *fakeAuth) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	args := f.Called(ctx, refreshToken)
	return args.Get(0).(auth.TokenPair), args.Error(1)
}

func (f *fakeAuth) RequestEmailOTP(ctx context.Context, email string) error {
	return f.Called(ctx, email).Error(0)
}

func (f *fakeAuth) VerifyEmailOTP(ctx context.Context, email, otp string) (string, error) {
	args := f.Called(ctx, email, otp)
	return args.String(0), args.Error(1)
}

func (f *fakeAuth) ResetPasswordByEmail(ctx context.Context, email, token, newPassword string) error {
	return f.Called(ctx, email, token, newPassword).Error(0)
}

func (f *fakeAuth) RequestPhoneOTP(ctx context.Context, phone string) error {
	return f.Called(ctx, phone).Error(0)
}

func (f *fakeAuth) VerifyPhoneOTP(ctx context.Context, phone, otp string) (string, error) {
	args := f.Called(ctx, phone, otp)
	return args.String(0), args.Error(1)
}

func (f *fakeAuth) ResetPasswordByPhone(ctx context.Context, phone, token, newPassword string) error {
	return f.Called(ctx, phone, token, newPassword).Error(0)
}

type fakeLinker struct {
	code string
}

func (l *fakeLinker) IssueCode(context.Context, string) (string, error) { return l.code, nil }
