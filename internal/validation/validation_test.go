package validation_test

import (
	"dcms/backend/internal/validation"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Confirm  *string `json:"confirm_password" binding:"omitempty,eqfield=Password"`
	Role     string  `json:"role" binding:"omitempty,oneof=user admin"`
}

func TestCheck(t *testing.T) {
	assert.Nil(t, validation.Check(signup{Email: "ram@example.com", Password: "s3cretpass"}))

	same := "s3cretpass"
	assert.Nil(t, validation.Check(signup{Email: "ram@example.com", Password: "s3cretpass", Confirm: &same}))

	tests := []struct {
		name   string
		in     signup
		field  string
		reason string
	}{
		{"missing email", signup{Password: "s3cretpass"}, "email", "this field is required"},
		{"bad email", signup{Email: "not-an-email", Password: "s3cretpass"}, "email", "enter a valid email address"},
		{"short password", signup{Email: "ram@example.com", Password: "short"}, "password", "must be at least 8 characters"},
		{"unknown role", signup{Email: "ram@example.com", Password: "s3cretpass", Role: "root"}, "role", "must be one of: user admin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := validation.Check(tt.in)
			require.NotNil(t, fe)
			assert.Equal(t, tt.field, fe.Field)
			assert.Equal(t, tt.reason, fe.Reason)
		})
	}

	other := "different1"
	fe := validation.Check(signup{Email: "ram@example.com", Password: "s3cretpass", Confirm: &other})
	require.NotNil(t, fe)
	assert.Equal(t, "confirm_password", fe.Field)
}

func TestValue(t *testing.T) {
	assert.Nil(t, validation.Value("phone", "+9779800000001", "required"))

	fe := validation.Value("phone", "", "required")
	require.NotNil(t, fe)
	assert.Equal(t, "phone", fe.Field)
}

func TestFirst_IgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, validation.First(nil))
	assert.Nil(t, validation.First(errors.New("unexpected EOF")))
}
