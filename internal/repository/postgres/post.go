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

type PostRepo struct {
	DB DBTX
}

// Likes are kept in the post_likes join table and aggregated into
// a text array on read. Aggregating as text keeps scanning simple.
const postColumns = `p.id, p.created_at, p.user_id, p.title, p.description, p.image_url, p.image_key, p.deleted,
	COALESCE(array_agg(l.user_id::text) FILTER (WHERE l.user_id IS NOT NULL), '{}') AS likes`

const createPost = `-- name: CreatePost
INSERT INTO posts (id, user_id, title, description, image_url, image_key)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at, user_id, title, description, image_url, image_key, deleted, '{}'::text[] AS likes
`

func (r *PostRepo) CreatePost(ctx context.Context, p repository.CreatePostParams) (models.Post, error) {
	rows, _ := r.DB.Query(ctx, createPost,
		uuid.New(), p.UserID, p.Title, p.Description, p.ImageURL, p.ImageKey,
	)
	post, err := pgx.CollectOneRow(rows, rowToPost)
	if err != nil {
		return post, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}

const getPostByID = `-- name: GetPostByID
SELECT ` + postColumns + `
FROM posts p
LEFT JOIN post_likes l ON l.post_id = p.id
WHERE p.id = $1 AND NOT p.deleted
GROUP BY p.id
`

func (r *PostRepo) GetPostByID(ctx context.Context, postID uuid.UUID) (models.Post, error) {
	rows, _ := r.DB.Query(ctx, getPostByID, postID)
	post, err := pgx.CollectOneRow(rows, rowToPost)

	switch {
	case err == nil:
		return post, nil
	case errors.Is(err, pgx.ErrNoRows):
		return post, apperrors.ErrPostNotFound
	default:
		return post, fmt.Errorf("db error: %w", err)
	}
}

const listPostsByDate = `-- name: ListPostsByDate
SELECT ` + postColumns + `
FROM posts p
LEFT JOIN post_likes l ON l.post_id = p.id
WHERE NOT p.deleted AND ($1::uuid IS NULL OR p.user_id = $1)
GROUP BY p.id
ORDER BY p.created_at DESC
OFFSET $2 LIMIT $3
`

const listPostsByLikes = `-- name: ListPostsByLikes
SELECT ` + postColumns + `
FROM posts p
LEFT JOIN post_likes l ON l.post_id = p.id
WHERE NOT p.deleted AND ($1::uuid IS NULL OR p.user_id = $1)
GROUP BY p.id
ORDER BY count(l.user_id) DESC, p.created_at DESC
OFFSET $2 LIMIT $3
`

func (r *PostRepo) ListPosts(ctx context.Context, p repository.ListPostsParams) ([]models.Post, error) {
	query := listPostsByDate
	if p.SortBy == models.PostSortLikes {
		query = listPostsByLikes
	}

	rows, _ := r.DB.Query(ctx, query, p.UserID, p.Offset, p.Limit)
	posts, err := pgx.CollectRows(rows, rowToPost)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return posts, nil
}

const markPostDeleted = `-- name: MarkPostDeleted
UPDATE posts
SET deleted = TRUE
WHERE id = $1 AND NOT deleted
`

func (r *PostRepo) MarkPostDeleted(ctx context.Context, postID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, markPostDeleted, postID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrPostNotFound
	}

	return nil
}

const addLike = `-- name: AddLike
INSERT INTO post_likes (post_id, user_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`

func (r *PostRepo) AddLike(ctx context.Context, postID uuid.UUID, userID uuid.UUID) error {
	_, err := r.DB.Exec(ctx, addLike, postID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

const removeLike = `-- name: RemoveLike
DELETE FROM post_likes
WHERE post_id = $1 AND user_id = $2
`

func (r *PostRepo) RemoveLike(ctx context.Context, postID uuid.UUID, userID uuid.UUID) error {
	_, err := r.DB.Exec(ctx, removeLike, postID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func rowToPost(row pgx.CollectableRow) (models.Post, error) {
	var p models.Post
	var likes []string

	err := row.Scan(
		&p.ID, &p.CreatedAt, &p.UserID, &p.Title, &p.Description,
		&p.ImageURL, &p.ImageKey, &p.Deleted, &likes,
	)
	if err != nil {
		return p, err
	}

	p.Likes = make([]uuid.UUID, 0, len(likes))
	for _, raw := range likes {
		id, err := uuid.Parse(raw)
		if err != nil {
			return p, fmt.Errorf("malformed like user id %q: %w", raw, err)
		}
		p.Likes = append(p.Likes, id)
	}

	return p, nil
}
