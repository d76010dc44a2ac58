package repository

import (
	"context"

	"github.com/garnizeh/interviewer/pkg/models"
)

// Repository interfaces for persisted entities. These are the public
// contracts consumers should depend on; concrete implementations live
// under internal/.

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id int64) error
}
