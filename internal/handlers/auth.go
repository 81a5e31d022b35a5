package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/voxly-app/voxly/internal/apperrors"
	"github.com/voxly-app/voxly/internal/handlers/render"
	"github.com/voxly-app/voxly/internal/models"
)

type authService interface {
	// Verify credentials and issue an access token.
	// Has to return apperrors.ErrInvalidCredentials on any mismatch
	SignIn(ctx context.Context, username string, password string) (models.IssuedToken, error)

	// Resolve a fresh user record by id
	GetProfile(ctx context.Context, userID uuid.UUID) (models.User, error)

	// Verify a token with expiration enforced and resolve its subject.
	// Has to return apperrors.ErrTokenInvalid on any failure
	Authorize(ctx context.Context, access string) (models.User, error)

	// Issue a new token from an expired but correctly signed one.
	// Has to return apperrors.ErrUserInactive for deactivated subjects
	Refresh(ctx context.Context, access string) (models.IssuedToken, error)
}

type AuthHandler struct {
	authService authService
}

func NewAuth(auth authService) *AuthHandler {
	return &AuthHandler{authService: auth}
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	type LoginRequest struct {
		User     string `json:"user" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	type LoginResponse struct {
		AccessToken string `json:"access_token"`
	}

	data, err := render.BindAndValidate[LoginRequest](w, r)
	if err != nil {
		return
	}

	token, err := h.authService.SignIn(r.Context(), data.User, data.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			render.ServiceError(w, "Credenciales inválidas", http.StatusUnauthorized)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, LoginResponse{AccessToken: token.Value})
}

func (h *AuthHandler) profile(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	profile, err := h.authService.GetProfile(r.Context(), user.ID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "Usuario no encontrado", http.StatusUnauthorized)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, toUserResponse(profile))
}

func (h *AuthHandler) authorize(w http.ResponseWriter, r *http.Request) {
	type AuthorizeRequest struct {
		Token string `json:"token" validate:"required"`
	}

	data, err := render.BindAndValidate[AuthorizeRequest](w, r)
	if err != nil {
		return
	}

	user, err := h.authService.Authorize(r.Context(), data.Token)
	if err != nil {
		render.ServiceError(w, "Token inválido o expirado", http.StatusUnauthorized)
		return
	}

	render.JSON(w, toUserResponse(user))
}

func (h *AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	type RefreshRequest struct {
		Token string `json:"token" validate:"required"`
	}
	type RefreshResponse struct {
		AccessToken string `json:"access_token"`
	}

	data, err := render.BindAndValidate[RefreshRequest](w, r)
	if err != nil {
		return
	}

	token, err := h.authService.Refresh(r.Context(), data.Token)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserInactive):
			render.ServiceError(w, "Usuario deshabilitado", http.StatusUnauthorized)
		default:
			render.ServiceError(w, "Token inválido o expirado", http.StatusUnauthorized)
		}
		return
	}

	render.JSON(w, RefreshResponse{AccessToken: token.Value})
}
