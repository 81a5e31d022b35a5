package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/voxly-app/voxly/internal/apperrors"
	"github.com/voxly-app/voxly/internal/handlers"
	"github.com/voxly-app/voxly/internal/handlers/render"
	"github.com/voxly-app/voxly/internal/models"
)

type authService interface {
	Identify(ctx context.Context, r *http.Request) (models.AuthUser, error)
}

// AuthMiddleware rejects requests without a valid bearer token and stores the
// token's identity in the request context. No user lookup is performed here,
// the claims alone identify the caller.
func AuthMiddleware(as authService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := as.Identify(r.Context(), r)
			if err != nil {
				msg := "Token inválido o expirado"
				if errors.Is(err, apperrors.ErrNoToken) {
					msg = "No se proporcionó token de autenticación"
				}
				render.ServiceError(w, msg, http.StatusUnauthorized)
				return
			}
			ctx := handlers.NewContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
