package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/voxly-app/voxly/internal/models"
)

type CreateUserParams struct {
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Email        string
	BirthDate    *time.Time
	Bio          *string
	AvatarURL    *string
	AvatarKey    *string
	Role         string
}

type CreatePostParams struct {
	UserID      uuid.UUID
	Title       string
	Description string
	ImageURL    *string
	ImageKey    *string
}

type ListPostsParams struct {
	// Filter by author if set
	UserID *uuid.UUID

	// models.PostSortDate (default) or models.PostSortLikes
	SortBy string

	Offset int
	Limit  int
}

type CreateCommentParams struct {
	PostID  uuid.UUID
	UserID  uuid.UUID
	Message string
}

// User repository interface
type UserRepo interface {
	// Create user
	// If username or email is taken already has to return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, params CreateUserParams) (models.User, error)

	// Get user by it's id or username
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)

	// List all users sorted by username
	ListUsers(ctx context.Context) ([]models.User, error)

	// Toggle the active flag (logical enable or disable)
	// If user not found must return apperrors.ErrUserNotFound
	SetUserActive(ctx context.Context, userID uuid.UUID, active bool) (models.User, error)
}

// Post repository interface
// Logically deleted posts are excluded from reads
type PostRepo interface {
	CreatePost(ctx context.Context, params CreatePostParams) (models.Post, error)

	// If post not found or deleted must return apperrors.ErrPostNotFound
	GetPostByID(ctx context.Context, postID uuid.UUID) (models.Post, error)

	ListPosts(ctx context.Context, params ListPostsParams) ([]models.Post, error)

	// Logical deletion. The row stays but is excluded from reads
	// If post not found must return apperrors.ErrPostNotFound
	MarkPostDeleted(ctx context.Context, postID uuid.UUID) error

	// Likes have set semantics: adding twice with the same user changes nothing
	AddLike(ctx context.Context, postID uuid.UUID, userID uuid.UUID) error
	RemoveLike(ctx context.Context, postID uuid.UUID, userID uuid.UUID) error
}

// Comment repository interface
type CommentRepo interface {
	CreateComment(ctx context.Context, params CreateCommentParams) (models.Comment, error)

	// If comment not found must return apperrors.ErrCommentNotFound
	GetCommentByID(ctx context.Context, commentID uuid.UUID) (models.Comment, error)

	// Newest first
	ListCommentsByPost(ctx context.Context, postID uuid.UUID, offset int, limit int) ([]models.Comment, error)

	// Replace the message and set the modified flag
	// If comment not found must return apperrors.ErrCommentNotFound
	UpdateCommentMessage(ctx context.Context, commentID uuid.UUID, message string) (models.Comment, error)
}

// Stats repository interface. All ranges are inclusive
type StatsRepo interface {
	CountPostsByUser(ctx context.Context, from time.Time, to time.Time) ([]models.UserPostCount, error)
	CountComments(ctx context.Context, from time.Time, to time.Time) (int64, error)
	CountCommentsByPost(ctx context.Context, from time.Time, to time.Time) ([]models.PostCommentCount, error)
}

// Storage aggregates all repositories over a single connection source
type Storage interface {
	User() UserRepo
	Post() PostRepo
	Comment() CommentRepo
	Stats() StatsRepo

	// Run fn within a database transaction
	InTx(ctx context.Context, fn func(Storage) error) error
}
