package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/voxly-app/voxly/internal/models"
)

type StatsRepo struct {
	DB DBTX
}

const countPostsByUser = `-- name: CountPostsByUser
SELECT p.user_id, u.first_name, count(*) AS total
FROM posts p
JOIN users u ON u.id = p.user_id
WHERE p.created_at BETWEEN $1 AND $2 AND NOT p.deleted
GROUP BY p.user_id, u.first_name
ORDER BY total DESC, u.first_name
`

func (r *StatsRepo) CountPostsByUser(ctx context.Context, from time.Time, to time.Time) ([]models.UserPostCount, error) {
	rows, _ := r.DB.Query(ctx, countPostsByUser, from, to)
	counts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.UserPostCount, error) {
		var c models.UserPostCount
		err := row.Scan(&c.UserID, &c.FirstName, &c.Total)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return counts, nil
}

const countComments = `-- name: CountComments
SELECT count(*)
FROM comments
WHERE created_at BETWEEN $1 AND $2
`

func (r *StatsRepo) CountComments(ctx context.Context, from time.Time, to time.Time) (int64, error) {
	var total int64
	err := r.DB.QueryRow(ctx, countComments, from, to).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return total, nil
}

// Both the comments and the posts they belong to must fall in the range,
// matching the original report semantics
const countCommentsByPost = `-- name: CountCommentsByPost
SELECT c.post_id, p.title, count(*) AS total
FROM comments c
JOIN posts p ON p.id = c.post_id
WHERE c.created_at BETWEEN $1 AND $2 AND p.created_at BETWEEN $1 AND $2
GROUP BY c.post_id, p.title
ORDER BY total DESC, p.title
`

func (r *StatsRepo) CountCommentsByPost(ctx context.Context, from time.Time, to time.Time) ([]models.PostCommentCount, error) {
	rows, _ := r.DB.Query(ctx, countCommentsByPost, from, to)
	counts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.PostCommentCount, error) {
		var c models.PostCommentCount
		err := row.Scan(&c.PostID, &c.Title, &c.Total)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return counts, nil
}
