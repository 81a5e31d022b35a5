package models

import (
	"time"

	"github.com/google/uuid"
)

// Post sort orders accepted by list queries
const (
	PostSortDate  = "date"
	PostSortLikes = "likes"
)

type Post struct {
	ID          uuid.UUID
	CreatedAt   time.Time
	UserID      uuid.UUID
	Title       string
	Description string
	ImageURL    *string
	ImageKey    *string
	Likes       []uuid.UUID
	Deleted     bool
}

// LikedBy reports whether userID is in the likes set
func (p Post) LikedBy(userID uuid.UUID) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
