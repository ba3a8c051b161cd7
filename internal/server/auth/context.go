package auth

import (
	"context"

	"github.com/dmitrijs2005/gophid/internal/server/models"
)

type ctxKey struct{}

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, u *models.PublicUser) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFromContext returns the user attached by WithUser.
func UserFromContext(ctx context.Context) (*models.PublicUser, bool) {
	u, ok := ctx.Value(ctxKey{}).(*models.PublicUser)
	return u, ok && u != nil
}
