package iuserrepo

import (
	"context"

	"github.com/google/uuid"

	"github.com/freshfold/orderdesk/internal/service/models/user"
)

// IUserRepository is the persistence contract for accounts. Username and
// email lookups are case-insensitive.
type IUserRepository interface {
	Insert(ctx context.Context, u user.User) (user.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetByUsername(ctx context.Context, username string) (user.User, error)
	List(ctx context.Context) ([]user.User, error)
	Count(ctx context.Context) (int64, error)
}
