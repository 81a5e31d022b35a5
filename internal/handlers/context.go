package handlers

import (
	"context"

	"github.com/voxly-app/voxly/internal/models"
)

type ctxKey string

const userKey ctxKey = "user"

// NewContextWithUser creates a new context carrying the authenticated identity
func NewContextWithUser(ctx context.Context, u models.AuthUser) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext extracts the authenticated identity from the context
func UserFromContext(ctx context.Context) (models.AuthUser, bool) {
	u, ok := ctx.Value(userKey).(models.AuthUser)
	return u, ok
}
