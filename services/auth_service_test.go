package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"retro-chat/auth"
	apperrors "retro-chat/errors"
	"retro-chat/repositories"
)

func newAuthFixture(t *testing.T) (IAuthService, *auth.TokenManager, *repositories.UserRepository) {
	t.Helper()
	req := require.New(t)

	users := repositories.NewUserRepository()
	hash, err := auth.HashPassword("secure123")
	req.NoError(err)
	users.Seed("admin", hash)

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewAuthService(users, tokens), tokens, users
}

func TestAuthService_Login_Seeded_Account(t *testing.T) {
	req := require.New(t)
	svc, tokens, _ := newAuthFixture(t)

	token, err := svc.Login("admin", "secure123")
	req.NoError(err)

	claims, err := tokens.Validate(string(token))
	req.NoError(err)
	req.Equal("admin", claims.Username)
}

func TestAuthService_Login_Is_Case_Insensitive_On_Username(t *testing.T) {
	req := require.New(t)
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Login("ADMIN", "secure123")
	req.NoError(err)
}

func TestAuthService_Login_Wrong_Password(t *testing.T) {
	req := require.New(t)
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Login("admin", "nope1234")
	req.ErrorIs(err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_Login_Registers_Unknown_User(t *testing.T) {
	req := require.New(t)
	svc, tokens, users := newAuthFixture(t)

	token, err := svc.Login("newcomer", "hunter22")
	req.NoError(err)

	claims, err := tokens.Validate(string(token))
	req.NoError(err)
	req.Equal("newcomer", claims.Username)

	// The account now exists and holds a hash, never the plain text
	user, err := users.GetUserByUsername("newcomer")
	req.NoError(err)
	req.NotEqual("hunter22", user.PasswordHash)

	// A second login must match the stored password
	_, err = svc.Login("newcomer", "hunter22")
	req.NoError(err)
	_, err = svc.Login("newcomer", "other999")
	req.ErrorIs(err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_Login_Rejects_Short_Password(t *testing.T) {
	req := require.New(t)
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Login("admin", "ab")
	req.ErrorIs(err, apperrors.ErrInvalidPassword)
}

func TestAuthService_Register_Duplicate_Username(t *testing.T) {
	req := require.New(t)
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Register("admin", "secure123")
	req.ErrorIs(err, apperrors.ErrUserAlreadyExists)
}
