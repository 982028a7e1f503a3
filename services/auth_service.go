package services

import (
	"errors"
	"fmt"

	"retro-chat/auth"
	apperrors "retro-chat/errors"
	"retro-chat/repositories"
)

type IAuthService interface {
	Login(username, password string) (Token, error)
	Register(username, password string) (Token, error)
}

type Token string

// AuthService exchanges a username/password pair for the signed credential
// the chat engine's verifier will later accept.
type AuthService struct {
	users  repositories.IUserRepository
	tokens *auth.TokenManager
}

func NewAuthService(users repositories.IUserRepository, tokens *auth.TokenManager) IAuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Login checks the credentials against the account store and issues a token.
// An unknown username registers on first login, the way the service has
// always admitted newcomers; only existing accounts have a password to get
// wrong.
func (s *AuthService) Login(username, password string) (Token, error) {
	if err := auth.ValidateLogin(auth.LoginRequest{Username: username, Password: password}); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrInvalidPassword, err)
	}

	user, err := s.users.GetUserByUsername(username)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return s.Register(username, password)
	}
	if err != nil {
		return "", err
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		// Generic error to prevent user enumeration.
		return "", apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.Username)
	if err != nil {
		return "", apperrors.ErrTokenGeneration
	}
	return Token(token), nil
}

// Register creates an account and issues its first token. The password is
// hashed here so the repository never sees plain text.
func (s *AuthService) Register(username, password string) (Token, error) {
	if err := auth.ValidateLogin(auth.LoginRequest{Username: username, Password: password}); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrInvalidPassword, err)
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}

	if _, err := s.users.CreateUser(username, hashedPassword); err != nil {
		return "", err
	}

	token, err := s.tokens.Generate(username)
	if err != nil {
		return "", apperrors.ErrTokenGeneration
	}
	return Token(token), nil
}
