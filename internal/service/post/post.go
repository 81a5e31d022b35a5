package post

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/voxly-app/voxly/internal/apperrors"
	"github.com/voxly-app/voxly/internal/media"
	"github.com/voxly-app/voxly/internal/models"
	"github.com/voxly-app/voxly/internal/repository"
)

const defaultPageSize = 10

type CreateParams struct {
	Title       string
	Description string

	// Optional image, uploaded to the media store
	Image *media.File
}

type PostService struct {
	posts    repository.PostRepo
	comments repository.CommentRepo
	media    media.Store
}

func NewService(posts repository.PostRepo, comments repository.CommentRepo, mediaStore media.Store) *PostService {
	return &PostService{
		posts:    posts,
		comments: comments,
		media:    mediaStore,
	}
}

func (s *PostService) Create(ctx context.Context, userID uuid.UUID, p CreateParams) (models.Post, error) {
	var imageURL, imageKey *string
	if p.Image != nil {
		up, err := s.media.Upload(ctx, *p.Image)
		if err != nil {
			return models.Post{}, fmt.Errorf("error while uploading image. Err: %w", err)
		}
		imageURL, imageKey = &up.URL, &up.Key
	}

	return s.posts.CreatePost(ctx, repository.CreatePostParams{
		UserID:      userID,
		Title:       p.Title,
		Description: p.Description,
		ImageURL:    imageURL,
		ImageKey:    imageKey,
	})
}

func (s *PostService) List(ctx context.Context, p repository.ListPostsParams) ([]models.Post, error) {
	if p.Limit <= 0 {
		p.Limit = defaultPageSize
	}

	return s.posts.ListPosts(ctx, p)
}

func (s *PostService) Get(ctx context.Context, postID uuid.UUID) (models.Post, error) {
	return s.posts.GetPostByID(ctx, postID)
}

// Delete marks the post deleted. Existence is checked before ownership, so a
// missing post is reported as not found even to strangers. The owner and any
// administrator may delete.
func (s *PostService) Delete(ctx context.Context, postID uuid.UUID, actor models.AuthUser) error {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.UserID != actor.ID && !actor.IsAdmin() {
		return apperrors.ErrForbidden
	}

	return s.posts.MarkPostDeleted(ctx, postID)
}

// Like adds userID to the post's likes set. Liking twice changes nothing.
func (s *PostService) Like(ctx context.Context, postID uuid.UUID, userID uuid.UUID) (models.Post, error) {
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return models.Post{}, err
	}

	if err := s.posts.AddLike(ctx, postID, userID); err != nil {
		return models.Post{}, err
	}

	return s.posts.GetPostByID(ctx, postID)
}

// Unlike removes userID from the post's likes set
func (s *PostService) Unlike(ctx context.Context, postID uuid.UUID, userID uuid.UUID) (models.Post, error) {
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return models.Post{}, err
	}

	if err := s.posts.RemoveLike(ctx, postID, userID); err != nil {
		return models.Post{}, err
	}

	return s.posts.GetPostByID(ctx, postID)
}

func (s *PostService) AddComment(ctx context.Context, postID uuid.UUID, userID uuid.UUID, message string) (models.Comment, error) {
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return models.Comment{}, err
	}

	return s.comments.CreateComment(ctx, repository.CreateCommentParams{
		PostID:  postID,
		UserID:  userID,
		Message: message,
	})
}

// ListComments returns a post's comments newest first
func (s *PostService) ListComments(ctx context.Context, postID uuid.UUID, offset int, limit int) ([]models.Comment, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}

	return s.comments.ListCommentsByPost(ctx, postID, offset, limit)
}

// UpdateComment replaces the message and sets the modified flag.
// Owner only; administrators get no override here.
func (s *PostService) UpdateComment(ctx context.Context, commentID uuid.UUID, actor models.AuthUser, message string) (models.Comment, error) {
	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return comment, err
	}

	if comment.UserID != actor.ID {
		return comment, apperrors.ErrForbidden
	}

	return s.comments.UpdateCommentMessage(ctx, commentID, message)
}
