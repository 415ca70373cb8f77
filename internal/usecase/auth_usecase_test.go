package usecase_test

import (
	"context"
	"errors"
	"testing"

	"shopapi/internal/config"
	"shopapi/internal/domain/model"
	"shopapi/internal/usecase"
	"shopapi/internal/validator"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newAuthUsecase(users *UserRepoMock) *usecase.AuthUsecase {
	cfg := config.Config{JWTSecret: "test-secret"}
	return usecase.NewAuthUsecase(cfg, users, validator.NewAuthValidator())
}

func TestRegister_Success(t *testing.T) {
	users := new(UserRepoMock)
	uc := newAuthUsecase(users)
	ctx := context.Background()

	users.On("FindByEmail", ctx, "taro@example.com").Return((*model.User)(nil), nil)
	users.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
		if u.Email != "taro@example.com" || !u.IsActive {
			return false
		}
		//平文のまま保存していないこと
		if u.PasswordHash == "password123" {
			return false
		}
		return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")) == nil
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.User).ID = 1
	}).Return(nil)

	out, err := uc.Register(ctx, usecase.RegisterInput{Email: "taro@example.com", Password: "password123"})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.ID)
	assert.Equal(t, "taro@example.com", out.Email)
	assert.True(t, out.IsActive)
	users.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := new(UserRepoMock)
	uc := newAuthUsecase(users)
	ctx := context.Background()

	users.On("FindByEmail", ctx, "taro@example.com").
		Return(&model.User{ID: 1, Email: "taro@example.com"}, nil)

	_, err := uc.Register(ctx, usecase.RegisterInput{Email: "taro@example.com", Password: "password123"})

	assert.ErrorIs(t, err, usecase.ErrEmailAlreadyExists)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_ConcurrentDuplicateIsConflict(t *testing.T) {
	users := new(UserRepoMock)
	uc := newAuthUsecase(users)
	ctx := context.Background()

	//事前チェックはすり抜けたがINSERTがunique制約に当たる同時登録
	users.On("FindByEmail", ctx, "taro@example.com").Return((*model.User)(nil), nil)
	users.On("Create", ctx, mock.Anything).Return(gorm.ErrDuplicatedKey)

	_, err := uc.Register(ctx, usecase.RegisterInput{Email: "taro@example.com", Password: "password123"})

	assert.ErrorIs(t, err, usecase.ErrEmailAlreadyExists)
}

func TestRegister_CreateFailureIsInternal(t *testing.T) {
	users := new(UserRepoMock)
	uc := newAuthUsecase(users)
	ctx := context.Background()

	//unique違反以外の保存失敗は409にしない
	users.On("FindByEmail", ctx, "taro@example.com").Return((*model.User)(nil), nil)
	users.On("Create", ctx, mock.Anything).Return(errors.New("connection reset"))

	_, err := uc.Register(ctx, usecase.RegisterInput{Email: "taro@example.com", Password: "password123"})

	assert.ErrorIs(t, err, usecase.ErrInternal)
}

func TestRegister_Validation(t *testing.T) {
	users := new(UserRepoMock)
	uc := newAuthUsecase(users)
	ctx := context.Background()

	cases := []usecase.RegisterInput{
		{Email: "", Password: "password123"},
		{Email: "not-an-email", Password: "password123"},
		{Email: "taro@example.com", Password: ""},
		{Email: "taro@example.com", Password: "short"},
	}
	for _, in := range cases {
		_, err := uc.Register(ctx, in)
		assert.ErrorIs(t, err, usecase.ErrValidation, "input: %+v", in)
	}
	users.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestLogin_Success(t *testing.T) {
	users := new(UserRepoMock)
	uc := newAuthUsecase(users)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	assert.NoError(t, err)

	users.On("FindByEmail", ctx, "taro@example.com").Return(&model.User{
		ID:           1,
		Email:        "taro@example.com",
		PasswordHash: string(hash),
		IsActive:     true,
	}, nil)

	out, err := uc.Login(ctx, usecase.LoginInput{Email: "taro@example.com", Password: "password123"})

	assert.NoError(t, err)
	assert.Equal(t, "bearer", out.TokenType)
	assert.Equal(t, int64(1), out.UserID)
	assert.NotEmpty(t, out.AccessToken)

	//発行されたトークンが自分の鍵で検証できてsubが入っていること
	tok, err := jwt.Parse(out.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)
	claims, ok := tok.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.EqualValues(t, 1, claims["sub"])
	assert.NotEmpty(t, claims["jti"])
}

func TestLogin_UnknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	users := new(UserRepoMock)
	uc := newAuthUsecase(users)
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)

	//ユーザー不在
	users.On("FindByEmail", ctx, "nobody@example.com").Return((*model.User)(nil), nil)
	_, err1 := uc.Login(ctx, usecase.LoginInput{Email: "nobody@example.com", Password: "password123"})

	//パスワード誤り
	users.On("FindByEmail", ctx, "taro@example.com").Return(&model.User{
		ID: 1, Email: "taro@example.com", PasswordHash: string(hash), IsActive: true,
	}, nil)
	_, err2 := uc.Login(ctx, usecase.LoginInput{Email: "taro@example.com", Password: "wrongpassword"})

	//どちらも同じエラー（存在を漏らさない）
	assert.ErrorIs(t, err1, usecase.ErrInvalidCredentials)
	assert.ErrorIs(t, err2, usecase.ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	users := new(UserRepoMock)
	uc := newAuthUsecase(users)
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	users.On("FindByEmail", ctx, "taro@example.com").Return(&model.User{
		ID: 1, Email: "taro@example.com", PasswordHash: string(hash), IsActive: false,
	}, nil)

	_, err := uc.Login(ctx, usecase.LoginInput{Email: "taro@example.com", Password: "password123"})

	assert.ErrorIs(t, err, usecase.ErrUserInactive)
}
