// Package users stores identity records. Implementations enforce email
// uniqueness at the storage layer and report it as common.ErrAlreadyExists;
// lookups that find nothing return common.ErrNotFound.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophid/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills in the store-assigned ID and CreatedAt.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}
