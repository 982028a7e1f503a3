package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "retro-chat/errors"
)

func TestTokenManager_Round_Trip(t *testing.T) {
	req := require.New(t)
	manager := NewTokenManager("test-secret", time.Hour)

	token, err := manager.Generate("alice")
	req.NoError(err)
	req.NotEmpty(token)

	claims, err := manager.Validate(token)
	req.NoError(err)
	req.Equal("alice", claims.Username)
}

func TestTokenManager_Rejects_Expired_Token(t *testing.T) {
	req := require.New(t)
	manager := NewTokenManager("test-secret", -time.Minute)

	token, err := manager.Generate("alice")
	req.NoError(err)

	_, err = manager.Validate(token)
	req.Error(err)
}

func TestTokenManager_Rejects_Foreign_Secret(t *testing.T) {
	req := require.New(t)
	issuer := NewTokenManager("secret-one", time.Hour)
	checker := NewTokenManager("secret-two", time.Hour)

	token, err := issuer.Generate("alice")
	req.NoError(err)

	_, err = checker.Validate(token)
	req.Error(err)
}

func TestTokenManager_Rejects_Garbage(t *testing.T) {
	req := require.New(t)
	manager := NewTokenManager("test-secret", time.Hour)

	_, err := manager.Validate("not.a.jwt")
	req.Error(err)
}

func TestVerifier_Maps_Claims_To_Identity(t *testing.T) {
	req := require.New(t)
	manager := NewTokenManager("test-secret", time.Hour)
	verifier := NewVerifier(manager)

	token, err := manager.Generate("alice")
	req.NoError(err)

	identity, err := verifier.Verify(token)
	req.NoError(err)
	req.Equal("alice", identity.DisplayName)

	_, err = verifier.Verify("broken")
	req.ErrorIs(err, apperrors.ErrInvalidToken)
}
