package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/voxly-app/voxly/internal/models"
)

const dateLayout = "2006-01-02"

// UserResponse is the external user record. The password hash is never part
// of it.
type UserResponse struct {
	ID              uuid.UUID `json:"id"`
	Nombre          string    `json:"nombre"`
	Apellido        string    `json:"apellido"`
	Correo          string    `json:"correo"`
	Username        string    `json:"username"`
	FechaNacimiento *string   `json:"fechaNacimiento,omitempty"`
	Descripcion     *string   `json:"descripcion,omitempty"`
	FotoPerfil      *string   `json:"fotoPerfil,omitempty"`
	Perfil          string    `json:"perfil"`
	Alta            bool      `json:"alta"`
	CreatedAt       time.Time `json:"createdAt"`
}

type PostResponse struct {
	ID          uuid.UUID   `json:"id"`
	Usuario     uuid.UUID   `json:"usuario"`
	Titulo      string      `json:"titulo"`
	Descripcion string      `json:"descripcion"`
	Imagen      *string     `json:"imagen,omitempty"`
	Likes       []uuid.UUID `json:"likes"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type CommentResponse struct {
	ID          uuid.UUID `json:"id"`
	Publicacion uuid.UUID `json:"publicacion"`
	Usuario     uuid.UUID `json:"usuario"`
	Mensaje     string    `json:"mensaje"`
	Modificado  bool      `json:"modificado"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toUserResponse(u models.User) UserResponse {
	res := UserResponse{
		ID:          u.ID,
		Nombre:      u.FirstName,
		Apellido:    u.LastName,
		Correo:      u.Email,
		Username:    u.Username,
		Descripcion: u.Bio,
		FotoPerfil:  u.AvatarURL,
		Perfil:      u.Role,
		Alta:        u.Active,
		CreatedAt:   u.CreatedAt,
	}

	if u.BirthDate != nil {
		date := u.BirthDate.Format(dateLayout)
		res.FechaNacimiento = &date
	}

	return res
}

func toUserResponses(users []models.User) []UserResponse {
	res := make([]UserResponse, 0, len(users))
	for _, u := range users {
		res = append(res, toUserResponse(u))
	}
	return res
}

func toPostResponse(p models.Post) PostResponse {
	likes := p.Likes
	if likes == nil {
		likes = []uuid.UUID{}
	}

	return PostResponse{
		ID:          p.ID,
		Usuario:     p.UserID,
		Titulo:      p.Title,
		Descripcion: p.Description,
		Imagen:      p.ImageURL,
		Likes:       likes,
		CreatedAt:   p.CreatedAt,
	}
}

func toPostResponses(posts []models.Post) []PostResponse {
	res := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		res = append(res, toPostResponse(p))
	}
	return res
}

func toCommentResponse(c models.Comment) CommentResponse {
	return CommentResponse{
		ID:          c.ID,
		Publicacion: c.PostID,
		Usuario:     c.UserID,
		Mensaje:     c.Message,
		Modificado:  c.Modified,
		CreatedAt:   c.CreatedAt,
	}
}

func toCommentResponses(comments []models.Comment) []CommentResponse {
	res := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		res = append(res, toCommentResponse(c))
	}
	return res
}
