package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/voxly-app/voxly/internal/apperrors"
	"github.com/voxly-app/voxly/internal/models"
	"github.com/voxly-app/voxly/internal/repository"
)

type CommentRepo struct {
	DB DBTX
}

const commentColumns = `id, created_at, post_id, user_id, message, modified`

const createComment = `-- name: CreateComment
INSERT INTO comments (id, post_id, user_id, message)
VALUES ($1, $2, $3, $4)
RETURNING ` + commentColumns

func (r *CommentRepo) CreateComment(ctx context.Context, p repository.CreateCommentParams) (models.Comment, error) {
	rows, _ := r.DB.Query(ctx, createComment, uuid.New(), p.PostID, p.UserID, p.Message)
	comment, err := pgx.CollectOneRow(rows, rowToComment)
	if err != nil {
		return comment, fmt.Errorf("db error: %w", err)
	}

	return comment, nil
}

const getCommentByID = `-- name: GetCommentByID
SELECT ` + commentColumns + `
FROM comments
WHERE id = $1
`

func (r *CommentRepo) GetCommentByID(ctx context.Context, commentID uuid.UUID) (models.Comment, error) {
	rows, _ := r.DB.Query(ctx, getCommentByID, commentID)
	comment, err := pgx.CollectOneRow(rows, rowToComment)

	switch {
	case err == nil:
		return comment, nil
	case errors.Is(err, pgx.ErrNoRows):
		return comment, apperrors.ErrCommentNotFound
	default:
		return comment, fmt.Errorf("db error: %w", err)
	}
}

const listCommentsByPost = `-- name: ListCommentsByPost
SELECT ` + commentColumns + `
FROM comments
WHERE post_id = $1
ORDER BY created_at DESC
OFFSET $2 LIMIT $3
`

func (r *CommentRepo) ListCommentsByPost(ctx context.Context, postID uuid.UUID, offset int, limit int) ([]models.Comment, error) {
	rows, _ := r.DB.Query(ctx, listCommentsByPost, postID, offset, limit)
	comments, err := pgx.CollectRows(rows, rowToComment)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return comments, nil
}

const updateCommentMessage = `-- name: UpdateCommentMessage
UPDATE comments
SET message = $2, modified = TRUE
WHERE id = $1
RETURNING ` + commentColumns

func (r *CommentRepo) UpdateCommentMessage(ctx context.Context, commentID uuid.UUID, message string) (models.Comment, error) {
	rows, _ := r.DB.Query(ctx, updateCommentMessage, commentID, message)
	comment, err := pgx.CollectOneRow(rows, rowToComment)

	switch {
	case err == nil:
		return comment, nil
	case errors.Is(err, pgx.ErrNoRows):
		return comment, apperrors.ErrCommentNotFound
	default:
		return comment, fmt.Errorf("db error: %w", err)
	}
}

func rowToComment(row pgx.CollectableRow) (models.Comment, error) {
	var c models.Comment
	err := row.Scan(&c.ID, &c.CreatedAt, &c.PostID, &c.UserID, &c.Message, &c.Modified)
	return c, err
}
