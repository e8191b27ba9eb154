package forms

import (
	"testing"

	"github.com/dmitrijs2005/kbconsole/internal/client/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fields(t *testing.T, err error) map[string]string {
	t.Helper()
	var ve *client.ValidationError
	require.ErrorAs(t, err, &ve)
	return ve.Fields
}

func TestValidate_Valid(t *testing.T) {
	forms := []any{
		Login{Email: "a@example.com", Password: "x"},
		CodeLogin{Email: "a@example.com", VerificationCode: "123456"},
		Signup{Username: "a", DisplayName: "A", Email: "a@example.com", Password: "secret", ConfirmPassword: "secret", EmailCode: "1"},
		Email{Email: "a@example.com"},
		ValidateOTP{Email: "a@example.com", Code: "1"},
		ResetPassword{Email: "a@example.com", NewPassword: "secret"},
		KnowledgeBase{Name: "Docs"},
		Assistant{Name: "Helper", Creativity: "balanced", Temperature: 0.2},
		&UserEdit{FullName: "A B", Username: "a", Email: "a@example.com", Role: "admin"},
	}
	for _, f := range forms {
		assert.NoError(t, Validate(f), "%T", f)
	}
}

func TestValidate_Login(t *testing.T) {
	got := fields(t, Validate(Login{Email: "  ", Password: ""}))
	assert.Equal(t, map[string]string{
		"email":    "Email is required",
		"password": "Password is required",
	}, got)

	got = fields(t, Validate(Login{Email: "not-an-email", Password: "x"}))
	assert.Equal(t, map[string]string{"email": "Invalid email format"}, got)
}

func TestValidate_Signup(t *testing.T) {
	got := fields(t, Validate(Signup{
		Username: "a", DisplayName: "A", Email: "a@example.com",
		Password: "12345", ConfirmPassword: "54321",
	}))
	assert.Equal(t, map[string]string{
		"password":        "Password must be at least 6 characters",
		"confirmPassword": "Passwords do not match",
		"emailCode":       "Email code is required",
	}, got)
}

func TestValidate_ResetPassword(t *testing.T) {
	got := fields(t, Validate(ResetPassword{Email: "a@example.com", NewPassword: "abc"}))
	assert.Equal(t, "New password must be at least 6 characters", got["new_password"])
}

func TestValidate_Assistant(t *testing.T) {
	got := fields(t, Validate(Assistant{Name: "", Creativity: "wild", Temperature: 1.5}))
	assert.Equal(t, "Name is required", got["name"])
	assert.Equal(t, "Creativity must be one of: precise, balanced, creative", got["creativity"])
	assert.Equal(t, "Temperature must be between 0 and 1", got["temperature"])
}

func TestValidate_UserEdit(t *testing.T) {
	got := fields(t, Validate(UserEdit{}))
	assert.Len(t, got, 4)
	assert.Equal(t, "Full name is required", got["full_name"])
	assert.Equal(t, "Role is required", got["role"])
}

func TestValidate_NotAStruct(t *testing.T) {
	err := Validate("nope")
	require.Error(t, err)
	var ve *client.ValidationError
	assert.NotErrorAs(t, err, &ve)
}
