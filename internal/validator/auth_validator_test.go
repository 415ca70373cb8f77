package validator

import (
	"context"
	"testing"

	"shopapi/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestValidateRegister(t *testing.T) {
	v := NewAuthValidator()
	ctx := context.Background()

	assert.NoError(t, v.ValidateRegister(ctx, "taro@example.com", "password123"))
	//前後の空白は許容
	assert.NoError(t, v.ValidateRegister(ctx, " taro@example.com ", "password123"))

	bad := []struct {
		email    string
		password string
	}{
		{"", "password123"},
		{"taro@example.com", ""},
		{"not-an-email", "password123"},
		{"a@b", "password123"},
		{"a b@example.com", "password123"},
		{"taro@example.com", "1234567"}, // 7文字
	}
	for _, c := range bad {
		err := v.ValidateRegister(ctx, c.email, c.password)
		assert.ErrorIs(t, err, usecase.ErrValidation, "email=%q password=%q", c.email, c.password)
	}
}

func TestValidateLogin(t *testing.T) {
	v := NewAuthValidator()
	ctx := context.Background()

	assert.NoError(t, v.ValidateLogin(ctx, "taro@example.com", "password123"))
	//ログインでは長さチェックはしない（昔の短いパスワードでも照合は通す）
	assert.NoError(t, v.ValidateLogin(ctx, "taro@example.com", "short"))

	assert.ErrorIs(t, v.ValidateLogin(ctx, "", "password123"), usecase.ErrValidation)
	assert.ErrorIs(t, v.ValidateLogin(ctx, "taro@example.com", ""), usecase.ErrValidation)
	assert.ErrorIs(t, v.ValidateLogin(ctx, "not-an-email", "password123"), usecase.ErrValidation)
}
