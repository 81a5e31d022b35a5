package models

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID
	CreatedAt time.Time
	PostID    uuid.UUID
	UserID    uuid.UUID
	Message   string
	Modified  bool
}
