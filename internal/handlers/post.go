package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/voxly-app/voxly/internal/apperrors"
	"github.com/voxly-app/voxly/internal/handlers/render"
	"github.com/voxly-app/voxly/internal/models"
	"github.com/voxly-app/voxly/internal/repository"
	"github.com/voxly-app/voxly/internal/service/post"
)

type postService interface {
	Create(ctx context.Context, userID uuid.UUID, p post.CreateParams) (models.Post, error)
	List(ctx context.Context, p repository.ListPostsParams) ([]models.Post, error)
	Get(ctx context.Context, postID uuid.UUID) (models.Post, error)

	// Logical deletion, owner or administrator only.
	// Has to return apperrors.ErrForbidden for everyone else
	Delete(ctx context.Context, postID uuid.UUID, actor models.AuthUser) error

	// Set-semantics likes, both calls are idempotent
	Like(ctx context.Context, postID uuid.UUID, userID uuid.UUID) (models.Post, error)
	Unlike(ctx context.Context, postID uuid.UUID, userID uuid.UUID) (models.Post, error)

	AddComment(ctx context.Context, postID uuid.UUID, userID uuid.UUID, message string) (models.Comment, error)
	ListComments(ctx context.Context, postID uuid.UUID, offset int, limit int) ([]models.Comment, error)

	// Owner only, administrators get no override.
	// Has to return apperrors.ErrForbidden otherwise
	UpdateComment(ctx context.Context, commentID uuid.UUID, actor models.AuthUser, message string) (models.Comment, error)
}

type PostHandler struct {
	postService postService
}

func NewPost(postService postService) *PostHandler {
	return &PostHandler{postService: postService}
}

func (h *PostHandler) create(w http.ResponseWriter, r *http.Request) {
	type CreateForm struct {
		Titulo      string `json:"titulo" validate:"required"`
		Descripcion string `json:"descripcion" validate:"required"`
	}

	user, ok := UserFromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := r.ParseMultipartForm(maxImageSize + 1<<20); err != nil {
		render.ServiceError(w, "Formulario multipart inválido", http.StatusBadRequest)
		return
	}

	form := CreateForm{
		Titulo:      r.FormValue("titulo"),
		Descripcion: r.FormValue("descripcion"),
	}

	if err := render.Validate(w, form); err != nil {
		return
	}

	image, err := formImage(r, "imagen")
	if err != nil {
		render.ServiceError(w, "Imagen inválida", http.StatusBadRequest)
		return
	}

	created, err := h.postService.Create(r.Context(), user.ID, post.CreateParams{
		Title:       form.Titulo,
		Description: form.Descripcion,
		Image:       image,
	})
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSONWithStatus(w, toPostResponse(created), http.StatusCreated)
}

func (h *PostHandler) list(w http.ResponseWriter, r *http.Request) {
	params, err := listParamsFromQuery(r)
	if err != nil {
		render.ServiceError(w, "Parámetros de consulta inválidos", http.StatusBadRequest)
		return
	}

	posts, err := h.postService.List(r.Context(), params)
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, toPostResponses(posts))
}

func listParamsFromQuery(r *http.Request) (repository.ListPostsParams, error) {
	params := repository.ListPostsParams{SortBy: models.PostSortDate}

	if raw := r.URL.Query().Get("userId"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			return params, err
		}
		params.UserID = &userID
	}

	if sortBy := r.URL.Query().Get("sortBy"); sortBy != "" {
		if sortBy != models.PostSortDate && sortBy != models.PostSortLikes {
			return params, errors.New("unknown sort order")
		}
		params.SortBy = sortBy
	}

	var err error
	if params.Offset, err = queryInt(r, "offset", 0); err != nil {
		return params, err
	}
	if params.Limit, err = queryInt(r, "limit", 0); err != nil {
		return params, err
	}

	return params, nil
}

func (h *PostHandler) get(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Identificador inválido", http.StatusBadRequest)
		return
	}

	found, err := h.postService.Get(r.Context(), postID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrPostNotFound):
			render.ServiceError(w, "Publicación no encontrada", http.StatusNotFound)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, toPostResponse(found))
}

func (h *PostHandler) delete(w http.ResponseWriter, r *http.Request) {
	type DeleteResponse struct {
		Message string `json:"message"`
	}

	user, ok := UserFromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	postID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Identificador inválido", http.StatusBadRequest)
		return
	}

	err = h.postService.Delete(r.Context(), postID, user)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrPostNotFound):
			render.ServiceError(w, "Publicación no encontrada", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrForbidden):
			render.ServiceError(w, "No autorizado para eliminar esta publicación", http.StatusForbidden)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, DeleteResponse{Message: "Publicación eliminada"})
}

func (h *PostHandler) like(w http.ResponseWriter, r *http.Request) {
	h.setLike(w, r, true)
}

func (h *PostHandler) unlike(w http.ResponseWriter, r *http.Request) {
	h.setLike(w, r, false)
}

func (h *PostHandler) setLike(w http.ResponseWriter, r *http.Request, liked bool) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	postID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Identificador inválido", http.StatusBadRequest)
		return
	}

	var updated models.Post
	if liked {
		updated, err = h.postService.Like(r.Context(), postID, user.ID)
	} else {
		updated, err = h.postService.Unlike(r.Context(), postID, user.ID)
	}
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrPostNotFound):
			render.ServiceError(w, "Publicación no encontrada", http.StatusNotFound)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, toPostResponse(updated))
}

func (h *PostHandler) createComment(w http.ResponseWriter, r *http.Request) {
	type CommentRequest struct {
		Mensaje string `json:"mensaje" validate:"required"`
	}

	user, ok := UserFromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	postID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Identificador inválido", http.StatusBadRequest)
		return
	}

	data, err := render.BindAndValidate[CommentRequest](w, r)
	if err != nil {
		return
	}

	created, err := h.postService.AddComment(r.Context(), postID, user.ID, data.Mensaje)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrPostNotFound):
			render.ServiceError(w, "Publicación no encontrada", http.StatusNotFound)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSONWithStatus(w, toCommentResponse(created), http.StatusCreated)
}

func (h *PostHandler) listComments(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Identificador inválido", http.StatusBadRequest)
		return
	}

	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		render.ServiceError(w, "Parámetros de consulta inválidos", http.StatusBadRequest)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		render.ServiceError(w, "Parámetros de consulta inválidos", http.StatusBadRequest)
		return
	}

	comments, err := h.postService.ListComments(r.Context(), postID, offset, limit)
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, toCommentResponses(comments))
}

func (h *PostHandler) updateComment(w http.ResponseWriter, r *http.Request) {
	type CommentRequest struct {
		Mensaje string `json:"mensaje" validate:"required"`
	}

	user, ok := UserFromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	commentID, err := uuid.Parse(r.PathValue("commentId"))
	if err != nil {
		render.ServiceError(w, "Identificador inválido", http.StatusBadRequest)
		return
	}

	data, err := render.BindAndValidate[CommentRequest](w, r)
	if err != nil {
		return
	}

	updated, err := h.postService.UpdateComment(r.Context(), commentID, user, data.Mensaje)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrCommentNotFound):
			render.ServiceError(w, "Comentario no encontrado", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrForbidden):
			render.ServiceError(w, "No autorizado para editar este comentario", http.StatusForbidden)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, toCommentResponse(updated))
}
