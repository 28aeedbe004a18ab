package localrepo

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"vitrine/internal/domain"
	apperror "vitrine/internal/errors"
	"vitrine/internal/pkg/localstore"
)

// storedUser expõe o hash da senha, que domain.User omite no JSON.
type storedUser struct {
	ID           string          `json:"id"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"password_hash"`
	Role         domain.UserRole `json:"role"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// UserRepository grava os usuários em arquivo JSON.
type UserRepository struct {
	store *localstore.Store
	mu    sync.Mutex
}

func NewUserRepository(store *localstore.Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) load() ([]storedUser, error) {
	users := []storedUser{}
	found, err := r.store.Load(usersKey, &users)
	if err != nil {
		return nil, apperror.NewPersistenceError(usersKey, backend, err)
	}
	if !found || users == nil {
		return []storedUser{}, nil
	}
	return users, nil
}

func (r *UserRepository) Save(_ context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return domain.User{}, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, user.Email) {
			return domain.User{}, apperror.NewConflictError(fmt.Sprintf("O email '%s' já está em uso.", user.Email))
		}
	}

	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	users = append(users, storedUser{
		ID:           user.ID,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	})
	if err := r.store.Save(usersKey, users); err != nil {
		return domain.User{}, apperror.NewPersistenceError(usersKey, backend, err)
	}
	return user, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return domain.User{}, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return domain.User{
				ID:           u.ID,
				Email:        u.Email,
				PasswordHash: u.PasswordHash,
				Role:         u.Role,
				CreatedAt:    u.CreatedAt,
				UpdatedAt:    u.UpdatedAt,
			}, nil
		}
	}
	return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com email '%s' não encontrado", email))
}
