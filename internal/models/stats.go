package models

import "github.com/google/uuid"

// UserPostCount is one row of the posts-per-user aggregate
type UserPostCount struct {
	UserID    uuid.UUID
	FirstName string
	Total     int64
}

// PostCommentCount is one row of the comments-per-post aggregate
type PostCommentCount struct {
	PostID uuid.UUID
	Title  string
	Total  int64
}
