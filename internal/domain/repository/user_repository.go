package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-ddd-diary/internal/domain/entity"
)

// ErrNotFound is returned by stores when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique constraint (email, oauth id) is violated.
var ErrDuplicate = errors.New("duplicate")

// UserRepository is the credential store.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	Save(ctx context.Context, u *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByOAuthID(ctx context.Context, provider entity.Provider, oauthID string) (*entity.User, error)
	ListAll(ctx context.Context) ([]*entity.User, error)
}
