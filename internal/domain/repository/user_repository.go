package repository

import (
	"context"

	"github.com/jhoicas/nexus-bills/internal/domain/entity"
)

// UserRepository persistence port for accounts. Lookups return ErrUserNotFound on a miss.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
}
