package repositories

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	apperrors "retro-chat/errors"
)

// User is a stored account. Only the hash of the password ever lives here.
type User struct {
	ID           string
	Username     string
	PasswordHash string
}

type IUserRepository interface {
	GetUserByUsername(username string) (User, error)
	CreateUser(username, passwordHash string) (string, error)
}

// UserRepository is a process-local account store. The service keeps no
// durable state; the seeded accounts mirror the fixtures the server has
// always shipped with. Usernames are case-insensitive keys.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]User)}
}

// Seed inserts or replaces an account, used at startup for the built-in
// users.
func (r *UserRepository) Seed(username, passwordHash string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(username)
	r.users[key] = User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
	}
}

func (r *UserRepository) GetUserByUsername(username string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[strings.ToLower(username)]
	if !ok {
		return User{}, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (r *UserRepository) CreateUser(username, passwordHash string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(username)
	if _, ok := r.users[key]; ok {
		return "", apperrors.ErrUserAlreadyExists
	}
	user := User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
	}
	r.users[key] = user
	return user.ID, nil
}
