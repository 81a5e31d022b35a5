package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/voxly-app/voxly/internal/handlers/render"
	"github.com/voxly-app/voxly/internal/models"
)

type statsService interface {
	PostsPerUser(ctx context.Context, from time.Time, to time.Time) ([]models.UserPostCount, error)
	TotalComments(ctx context.Context, from time.Time, to time.Time) (int64, error)
	CommentsPerPost(ctx context.Context, from time.Time, to time.Time) ([]models.PostCommentCount, error)
}

type StatsHandler struct {
	statsService statsService
}

func NewStats(statsService statsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

func (h *StatsHandler) postsPerUser(w http.ResponseWriter, r *http.Request) {
	type UserCount struct {
		Usuario uuid.UUID `json:"usuario"`
		Nombre  string    `json:"nombre"`
		Total   int64     `json:"total"`
	}

	from, to, err := dateRangeFromQuery(r)
	if err != nil {
		render.ServiceError(w, "Rango de fechas inválido", http.StatusBadRequest)
		return
	}

	counts, err := h.statsService.PostsPerUser(r.Context(), from, to)
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	res := make([]UserCount, 0, len(counts))
	for _, c := range counts {
		res = append(res, UserCount{Usuario: c.UserID, Nombre: c.FirstName, Total: c.Total})
	}

	render.JSON(w, res)
}

func (h *StatsHandler) totalComments(w http.ResponseWriter, r *http.Request) {
	type TotalResponse struct {
		Total int64 `json:"total"`
	}

	from, to, err := dateRangeFromQuery(r)
	if err != nil {
		render.ServiceError(w, "Rango de fechas inválido", http.StatusBadRequest)
		return
	}

	total, err := h.statsService.TotalComments(r.Context(), from, to)
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, TotalResponse{Total: total})
}

func (h *StatsHandler) commentsPerPost(w http.ResponseWriter, r *http.Request) {
	type PostCount struct {
		Publicacion uuid.UUID `json:"publicacion"`
		Titulo      string    `json:"titulo"`
		Total       int64     `json:"total"`
	}

	from, to, err := dateRangeFromQuery(r)
	if err != nil {
		render.ServiceError(w, "Rango de fechas inválido", http.StatusBadRequest)
		return
	}

	counts, err := h.statsService.CommentsPerPost(r.Context(), from, to)
	if err != nil {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	res := make([]PostCount, 0, len(counts))
	for _, c := range counts {
		res = append(res, PostCount{Publicacion: c.PostID, Titulo: c.Title, Total: c.Total})
	}

	render.JSON(w, res)
}

// dateRangeFromQuery requires both 'from' and 'to', each either a plain date
// or a full RFC 3339 timestamp
func dateRangeFromQuery(r *http.Request) (time.Time, time.Time, error) {
	from, err := parseDate(r.URL.Query().Get("from"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	to, err := parseDate(r.URL.Query().Get("to"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	return from, to, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}

	return time.Parse(dateLayout, raw)
}
