package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/voxly-app/voxly/internal/apperrors"
	"github.com/voxly-app/voxly/internal/handlers/render"
	"github.com/voxly-app/voxly/internal/models"
	"github.com/voxly-app/voxly/internal/service/user"
)

type userService interface {
	// Register user with the default role.
	// Has to return apperrors.ErrUserAlreadyExists on username or email reuse
	Register(ctx context.Context, p user.RegisterParams) (models.User, error)

	// List all users sorted by username
	List(ctx context.Context) ([]models.User, error)

	// Toggle the active flag.
	// Has to return apperrors.ErrForbidden when disabling an administrator
	SetActive(ctx context.Context, userID uuid.UUID, active bool) (models.User, error)
}

type UserHandler struct {
	userService userService
}

func NewUser(userService userService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) register(w http.ResponseWriter, r *http.Request) {
	type RegisterForm struct {
		Nombre          string `json:"nombre" validate:"required"`
		Apellido        string `json:"apellido" validate:"required"`
		Correo          string `json:"correo" validate:"required,email"`
		Username        string `json:"username" validate:"required"`
		Password        string `json:"password" validate:"required,min=8,password"`
		FechaNacimiento string `json:"fechaNacimiento" validate:"omitempty,datetime=2006-01-02"`
		Descripcion     string `json:"descripcion"`
	}

	if err := r.ParseMultipartForm(maxImageSize + 1<<20); err != nil {
		render.ServiceError(w, "Formulario multipart inválido", http.StatusBadRequest)
		return
	}

	form := RegisterForm{
		Nombre:          r.FormValue("nombre"),
		Apellido:        r.FormValue("apellido"),
		Correo:          r.FormValue("correo"),
		Username:        r.FormValue("username"),
		Password:        r.FormValue("password"),
		FechaNacimiento: r.FormValue("fechaNacimiento"),
		Descripcion:     r.FormValue("descripcion"),
	}

	if err := render.Validate(w, form); err != nil {
		return
	}

	avatar, err := formImage(r, "fotoPerfil")
	if err != nil {
		render.ServiceError(w, "Imagen inválida", http.StatusBadRequest)
		return
	}

	params := user.RegisterParams{
		FirstName: form.Nombre,
		LastName:  form.Apellido,
		Email:     form.Correo,
		Username:  form.Username,
		Password:  form.Password,
		Avatar:    avatar,
	}

	if form.FechaNacimiento != "" {
		// format already validated above
		birthDate, _ := time.Parse(dateLayout, form.FechaNacimiento)
		params.BirthDate = &birthDate
	}
	if form.Descripcion != "" {
		params.Bio = &form.Descripcion
	}

	created, err := h.userService.Register(r.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.ServiceError(w, "El usuario ya existe", http.StatusConflict)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSONWithStatus(w, toUserResponse(created), http.StatusCreated)
}

func (h *UserHandler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, toUserResponses(users))
}

func (h *UserHandler) disable(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *UserHandler) enable(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *UserHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Identificador inválido", http.StatusBadRequest)
		return
	}

	updated, err := h.userService.SetActive(r.Context(), userID, active)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "Usuario no encontrado", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrForbidden):
			render.ServiceError(w, "No se puede deshabilitar a un administrador", http.StatusForbidden)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, toUserResponse(updated))
}
