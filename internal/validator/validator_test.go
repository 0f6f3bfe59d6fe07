package validator

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	Register()
}

type signupForm struct {
	Username        string `form:"username" binding:"required,username"`
	Email           string `form:"email" binding:"required,email"`
	Password        string `form:"password" binding:"required,min=8"`
	ConfirmPassword string `form:"confirm_password" binding:"required,eqfield=Password"`
}

type amountForm struct {
	Amount   string `form:"amount" binding:"required,money"`
	Category string `form:"category" binding:"required,expense_category"`
}

func TestValidForms(t *testing.T) {
	require.NoError(t, binding.Validator.ValidateStruct(&signupForm{
		Username:        "alice.smith",
		Email:           "alice@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	}))
	require.NoError(t, binding.Validator.ValidateStruct(&amountForm{Amount: "12.50", Category: "food"}))
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		form interface{}
		want string
	}{
		{
			name: "missing username",
			form: &signupForm{Email: "a@b.co", Password: "password123", ConfirmPassword: "password123"},
			want: "Username is required.",
		},
		{
			name: "bad username characters",
			form: &signupForm{Username: "bad name!", Email: "a@b.co", Password: "password123", ConfirmPassword: "password123"},
			want: "Usernames must be 3-150 characters: letters, digits and @/./+/-/_ only.",
		},
		{
			name: "password mismatch",
			form: &signupForm{Username: "bob", Email: "a@b.co", Password: "password123", ConfirmPassword: "password124"},
			want: "Passwords do not match.",
		},
		{
			name: "short password",
			form: &signupForm{Username: "bob", Email: "a@b.co", Password: "short", ConfirmPassword: "short"},
			want: "Password must be at least 8 characters.",
		},
		{
			name: "zero amount",
			form: &amountForm{Amount: "0", Category: "food"},
			want: "Enter a valid amount greater than zero.",
		},
		{
			name: "unknown category",
			form: &amountForm{Amount: "3", Category: "rent"},
			want: "Select a valid category.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(tt.form)
			require.Error(t, err)
			assert.Equal(t, tt.want, Describe(err))
		})
	}
}

func TestDescribe_ParseError(t *testing.T) {
	_, err := time.Parse("2006-01-02", "2024-13-45")
	require.Error(t, err)
	assert.Equal(t, "Enter a valid date.", Describe(err))
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "Confirm password", humanize("confirm_password"))
	assert.Equal(t, "", humanize(""))
}
