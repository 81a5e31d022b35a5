package post

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxly-app/voxly/internal/apperrors"
	"github.com/voxly-app/voxly/internal/models"
	"github.com/voxly-app/voxly/internal/repository"
	"github.com/voxly-app/voxly/internal/repository/postgres"
	"github.com/voxly-app/voxly/internal/testutil"
)

func Test_PostService(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	newService := func(tx pgx.Tx) *PostService {
		storage := postgres.NewStorage(tx)
		return NewService(storage.Post(), storage.Comment(), nil)
	}

	createUser := func(t *testing.T, tx pgx.Tx, username string, role string) models.User {
		t.Helper()

		user, err := postgres.NewStorage(tx).User().CreateUser(t.Context(), repository.CreateUserParams{
			Username:     username,
			PasswordHash: "hash",
			FirstName:    "Test",
			LastName:     "User",
			Email:        username + "@example.com",
			Role:         role,
		})
		require.NoError(t, err)

		return user
	}

	asAuth := func(u models.User) models.AuthUser {
		return models.AuthUser{ID: u.ID, Username: u.Username, Role: u.Role}
	}

	t.Run("create and get", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			s := newService(tx)
			owner := createUser(t, tx, "owner", models.RoleUser)

			created, err := s.Create(t.Context(), owner.ID, CreateParams{
				Title:       "hello",
				Description: "world",
			})
			require.NoError(t, err)

			got, err := s.Get(t.Context(), created.ID)
			require.NoError(t, err)
			assert.Equal(t, created.ID, got.ID)
			assert.Equal(t, owner.ID, got.UserID)
		})
	})

	t.Run("list applies default page size", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			s := newService(tx)
			owner := createUser(t, tx, "owner", models.RoleUser)

			for i := 0; i < defaultPageSize+2; i++ {
				_, err := s.Create(t.Context(), owner.ID, CreateParams{Title: "t", Description: "d"})
				require.NoError(t, err)
			}

			posts, err := s.List(t.Context(), repository.ListPostsParams{})
			require.NoError(t, err)
			assert.Len(t, posts, defaultPageSize)
		})
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("owner may delete", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				s := newService(tx)
				owner := createUser(t, tx, "owner", models.RoleUser)

				created, err := s.Create(t.Context(), owner.ID, CreateParams{Title: "t", Description: "d"})
				require.NoError(t, err)

				err = s.Delete(t.Context(), created.ID, asAuth(owner))
				require.NoError(t, err)

				_, err = s.Get(t.Context(), created.ID)
				assert.ErrorIs(t, err, apperrors.ErrPostNotFound, "deleted post disappears from reads")
			})
		})

		t.Run("admin may delete", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				s := newService(tx)
				owner := createUser(t, tx, "owner", models.RoleUser)
				admin := createUser(t, tx, "admin", models.RoleAdmin)

				created, err := s.Create(t.Context(), owner.ID, CreateParams{Title: "t", Description: "d"})
				require.NoError(t, err)

				err = s.Delete(t.Context(), created.ID, asAuth(admin))
				require.NoError(t, err)
			})
		})

		t.Run("stranger is forbidden", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				s := newService(tx)
				owner := createUser(t, tx, "owner", models.RoleUser)
				stranger := createUser(t, tx, "stranger", models.RoleUser)

				created, err := s.Create(t.Context(), owner.ID, CreateParams{Title: "t", Description: "d"})
				require.NoError(t, err)

				err = s.Delete(t.Context(), created.ID, asAuth(stranger))
				assert.ErrorIs(t, err, apperrors.ErrForbidden)
			})
		})

		t.Run("missing post is not found even for strangers", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				s := newService(tx)
				stranger := createUser(t, tx, "stranger", models.RoleUser)

				err := s.Delete(t.Context(), uuid.New(), asAuth(stranger))
				assert.ErrorIs(t, err, apperrors.ErrPostNotFound, "existence is checked before ownership")
			})
		})
	})

	t.Run("Like", func(t *testing.T) {
		t.Run("is idempotent", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				s := newService(tx)
				owner := createUser(t, tx, "owner", models.RoleUser)
				fan := createUser(t, tx, "fan", models.RoleUser)

				created, err := s.Create(t.Context(), owner.ID, CreateParams{Title: "t", Description: "d"})
				require.NoError(t, err)

				_, err = s.Like(t.Context(), created.ID, fan.ID)
				require.NoError(t, err)

				got, err := s.Like(t.Context(), created.ID, fan.ID)
				require.NoError(t, err)
				assert.Equal(t, []uuid.UUID{fan.ID}, got.Likes, "second like changes nothing")
			})
		})

		t.Run("unlike removes membership", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				s := newService(tx)
				owner := createUser(t, tx, "owner", models.RoleUser)
				fan := createUser(t, tx, "fan", models.RoleUser)

				created, err := s.Create(t.Context(), owner.ID, CreateParams{Title: "t", Description: "d"})
				require.NoError(t, err)

				_, err = s.Like(t.Context(), created.ID, fan.ID)
				require.NoError(t, err)

				got, err := s.Unlike(t.Context(), created.ID, fan.ID)
				require.NoError(t, err)
				assert.Empty(t, got.Likes)
			})
		})

		t.Run("missing post", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				s := newService(tx)
				fan := createUser(t, tx, "fan", models.RoleUser)

				_, err := s.Like(t.Context(), uuid.New(), fan.ID)
				assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
			})
		})
	})

	t.Run("Comments", func(t *testing.T) {
		t.Run("add and list", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				s := newService(tx)
				owner := createUser(t, tx, "owner", models.RoleUser)

				created, err := s.Create(t.Context(), owner.ID, CreateParams{Title: "t", Description: "d"})
				require.NoError(t, err)

				comment, err := s.AddComment(t.Context(), created.ID, owner.ID, "first!")
				require.NoError(t, err)
				assert.Equal(t, "first!", comment.Message)

				comments, err := s.ListComments(t.Context(), created.ID, 0, 0)
				require.NoError(t, err)
				require.Len(t, comments, 1)
			})
		})

		t.Run("comment on missing post", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				s := newService(tx)
				owner := createUser(t, tx, "owner", models.RoleUser)

				_, err := s.AddComment(t.Context(), uuid.New(), owner.ID, "lost")
				assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
			})
		})

		t.Run("owner may edit", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				s := newService(tx)
				owner := createUser(t, tx, "owner", models.RoleUser)

				created, err := s.Create(t.Context(), owner.ID, CreateParams{Title: "t", Description: "d"})
				require.NoError(t, err)

				comment, err := s.AddComment(t.Context(), created.ID, owner.ID, "original")
				require.NoError(t, err)

				updated, err := s.UpdateComment(t.Context(), comment.ID, asAuth(owner), "edited")
				require.NoError(t, err)
				assert.Equal(t, "edited", updated.Message)
				assert.True(t, updated.Modified)
			})
		})

		t.Run("admin gets no edit override", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				s := newService(tx)
				owner := createUser(t, tx, "owner", models.RoleUser)
				admin := createUser(t, tx, "admin", models.RoleAdmin)

				created, err := s.Create(t.Context(), owner.ID, CreateParams{Title: "t", Description: "d"})
				require.NoError(t, err)

				comment, err := s.AddComment(t.Context(), created.ID, owner.ID, "original")
				require.NoError(t, err)

				_, err = s.UpdateComment(t.Context(), comment.ID, asAuth(admin), "edited")
				assert.ErrorIs(t, err, apperrors.ErrForbidden, "comment editing is owner only")
			})
		})

		t.Run("edit missing comment", func(t *testing.T) {
			testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
				s := newService(tx)
				owner := createUser(t, tx, "owner", models.RoleUser)

				_, err := s.UpdateComment(t.Context(), uuid.New(), asAuth(owner), "edited")
				assert.ErrorIs(t, err, apperrors.ErrCommentNotFound)
			})
		})
	})
}
