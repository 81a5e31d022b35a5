package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxly-app/voxly/internal/handlers"
	"github.com/voxly-app/voxly/internal/handlers/middleware"
	"github.com/voxly-app/voxly/internal/logger"
	"github.com/voxly-app/voxly/internal/models"
	"github.com/voxly-app/voxly/internal/repository"
	"github.com/voxly-app/voxly/internal/repository/postgres"
	"github.com/voxly-app/voxly/internal/service/auth"
	"github.com/voxly-app/voxly/internal/service/auth/tokenmanager"
	"github.com/voxly-app/voxly/internal/service/post"
	"github.com/voxly-app/voxly/internal/service/stats"
	"github.com/voxly-app/voxly/internal/service/user"
	"github.com/voxly-app/voxly/internal/testutil"
)

// testApp is the full service wired over one transaction.
// No media store and no cache: both are optional paths.
type testApp struct {
	url     string
	storage *postgres.Storage
}

func Test_Router(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	withApp := func(dbpool *pgxpool.Pool, t *testing.T, fn func(app testApp)) {
		testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)

			tokenManager, err := tokenmanager.New(tokenmanager.Config{SecretKey: "test-secret"})
			require.NoError(t, err)

			authService, err := auth.NewService(auth.Config{}, tokenManager, storage.User())
			require.NoError(t, err)

			router := handlers.NewRouter(
				handlers.NewAuth(authService),
				handlers.NewUser(user.NewService(nil, storage.User(), nil)),
				handlers.NewPost(post.NewService(storage.Post(), storage.Comment(), nil)),
				handlers.NewStats(stats.NewService(storage.Stats(), nil)),
				middleware.AuthMiddleware(authService),
				middleware.LoggerMiddleware(logger.NewNoOp()),
				middleware.CORSMiddleware(nil),
			)

			srv := httptest.NewServer(router)
			defer srv.Close()

			fn(testApp{url: srv.URL, storage: storage})
		})
	}

	register := func(t *testing.T, app testApp, username string, password string) {
		t.Helper()

		buf := &bytes.Buffer{}
		form := multipart.NewWriter(buf)
		require.NoError(t, form.WriteField("nombre", "Test"))
		require.NoError(t, form.WriteField("apellido", "User"))
		require.NoError(t, form.WriteField("correo", username+"@example.com"))
		require.NoError(t, form.WriteField("username", username))
		require.NoError(t, form.WriteField("password", password))
		require.NoError(t, form.Close())

		resp, err := http.Post(app.url+"/users/register", form.FormDataContentType(), buf)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", string(body))
		require.Contains(t, string(body), username)
		require.NotContains(t, string(body), "password", "password hash must never leave the service")
	}

	login := func(t *testing.T, app testApp, username string, password string) string {
		t.Helper()

		data := fmt.Sprintf(`{"user": %q, "password": %q}`, username, password)
		resp, err := http.Post(app.url+"/auth/login", "application/json", strings.NewReader(data))
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", string(body))

		var tokenResp struct {
			AccessToken string `json:"access_token"`
		}
		require.NoError(t, json.Unmarshal(body, &tokenResp))
		require.NotEmpty(t, tokenResp.AccessToken)

		return tokenResp.AccessToken
	}

	// do sends a request with an optional bearer token and returns code and body
	do := func(t *testing.T, method string, rawURL string, token string, payload string) (int, string) {
		t.Helper()

		var body io.Reader
		if payload != "" {
			body = strings.NewReader(payload)
		}

		req, err := http.NewRequest(method, rawURL, body)
		require.NoError(t, err)
		if payload != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		respBody, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		return resp.StatusCode, string(respBody)
	}

	createPost := func(t *testing.T, app testApp, token string, title string) string {
		t.Helper()

		buf := &bytes.Buffer{}
		form := multipart.NewWriter(buf)
		require.NoError(t, form.WriteField("titulo", title))
		require.NoError(t, form.WriteField("descripcion", "about "+title))
		require.NoError(t, form.Close())

		req, err := http.NewRequest(http.MethodPost, app.url+"/publicaciones", buf)
		require.NoError(t, err)
		req.Header.Set("Content-Type", form.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", string(body))

		var created struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(body, &created))
		require.NotEmpty(t, created.ID)

		return created.ID
	}

	t.Run("register login profile flow", func(t *testing.T) {
		withApp(pg.Pool, t, func(app testApp) {
			register(t, app, "alice", "Str0ngpass")
			token := login(t, app, "alice", "Str0ngpass")

			code, body := do(t, http.MethodGet, app.url+"/auth/profile", token, "")
			require.Equalf(t, http.StatusOK, code, "Body: %s", body)
			assert.Contains(t, body, "alice")

			code, body = do(t, http.MethodGet, app.url+"/auth/profile", "", "")
			require.Equal(t, http.StatusUnauthorized, code)
			assert.Contains(t, body, "No se proporcionó token de autenticación")
		})
	})

	t.Run("register weak password fails validation", func(t *testing.T) {
		withApp(pg.Pool, t, func(app testApp) {
			buf := &bytes.Buffer{}
			form := multipart.NewWriter(buf)
			require.NoError(t, form.WriteField("nombre", "Test"))
			require.NoError(t, form.WriteField("apellido", "User"))
			require.NoError(t, form.WriteField("correo", "weak@example.com"))
			require.NoError(t, form.WriteField("username", "weak"))
			require.NoError(t, form.WriteField("password", "alllowercase"))
			require.NoError(t, form.Close())

			resp, err := http.Post(app.url+"/users/register", form.FormDataContentType(), buf)
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, string(body), "validation_failed")
		})
	})

	t.Run("login wrong password", func(t *testing.T) {
		withApp(pg.Pool, t, func(app testApp) {
			register(t, app, "alice", "Correct1pass")

			data := `{"user": "alice", "password": "Wrong1pass"}`
			resp, err := http.Post(app.url+"/auth/login", "application/json", strings.NewReader(data))
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			require.JSONEq(t, `
				{
					"error": "service_error",
					"message": "Credenciales inválidas"
				}`, string(body))
		})
	})

	t.Run("autorizar and refrescar", func(t *testing.T) {
		withApp(pg.Pool, t, func(app testApp) {
			register(t, app, "alice", "Str0ngpass")
			token := login(t, app, "alice", "Str0ngpass")

			code, body := do(t, http.MethodPost, app.url+"/auth/autorizar", "", fmt.Sprintf(`{"token": %q}`, token))
			require.Equalf(t, http.StatusOK, code, "Body: %s", body)
			assert.Contains(t, body, "alice")

			code, _ = do(t, http.MethodPost, app.url+"/auth/autorizar", "", `{"token": "garbage"}`)
			require.Equal(t, http.StatusUnauthorized, code)

			code, body = do(t, http.MethodPost, app.url+"/auth/refrescar", "", fmt.Sprintf(`{"token": %q}`, token))
			require.Equalf(t, http.StatusOK, code, "Body: %s", body)
			assert.Contains(t, body, "access_token")

			code, _ = do(t, http.MethodPost, app.url+"/auth/refrescar", "", `{"token": "garbage"}`)
			require.Equal(t, http.StatusUnauthorized, code)
		})
	})

	t.Run("publicaciones lifecycle", func(t *testing.T) {
		withApp(pg.Pool, t, func(app testApp) {
			register(t, app, "owner", "Str0ngpass")
			register(t, app, "stranger", "Str0ngpass")
			ownerToken := login(t, app, "owner", "Str0ngpass")
			strangerToken := login(t, app, "stranger", "Str0ngpass")

			postID := createPost(t, app, ownerToken, "hello")

			// Creation requires a token
			code, _ := do(t, http.MethodPost, app.url+"/publicaciones", "", "")
			require.Equal(t, http.StatusUnauthorized, code)

			// Public reads
			code, body := do(t, http.MethodGet, app.url+"/publicaciones", "", "")
			require.Equalf(t, http.StatusOK, code, "Body: %s", body)
			assert.Contains(t, body, "hello")

			code, _ = do(t, http.MethodGet, app.url+"/publicaciones/"+postID, "", "")
			require.Equal(t, http.StatusOK, code)

			// Likes
			code, body = do(t, http.MethodPost, app.url+"/publicaciones/"+postID+"/like", strangerToken, "")
			require.Equalf(t, http.StatusOK, code, "Body: %s", body)

			var liked struct {
				Likes []string `json:"likes"`
			}
			require.NoError(t, json.Unmarshal([]byte(body), &liked))
			assert.Len(t, liked.Likes, 1)

			code, body = do(t, http.MethodDelete, app.url+"/publicaciones/"+postID+"/like", strangerToken, "")
			require.Equal(t, http.StatusOK, code)
			require.NoError(t, json.Unmarshal([]byte(body), &liked))
			assert.Empty(t, liked.Likes)

			// Comments
			code, body = do(t, http.MethodPost, app.url+"/publicaciones/"+postID+"/comentarios", strangerToken, `{"mensaje": "nice"}`)
			require.Equalf(t, http.StatusCreated, code, "Body: %s", body)

			var comment struct {
				ID string `json:"id"`
			}
			require.NoError(t, json.Unmarshal([]byte(body), &comment))

			code, body = do(t, http.MethodGet, app.url+"/publicaciones/"+postID+"/comentarios", strangerToken, "")
			require.Equal(t, http.StatusOK, code)
			assert.Contains(t, body, "nice")

			// Comment editing is owner only, even the post owner gets no access
			code, _ = do(t, http.MethodPut, app.url+"/publicaciones/"+postID+"/comentarios/"+comment.ID, ownerToken, `{"mensaje": "hijacked"}`)
			require.Equal(t, http.StatusForbidden, code)

			code, body = do(t, http.MethodPut, app.url+"/publicaciones/"+postID+"/comentarios/"+comment.ID, strangerToken, `{"mensaje": "edited"}`)
			require.Equalf(t, http.StatusOK, code, "Body: %s", body)
			assert.Contains(t, body, `"modificado":true`)

			// Deletion: strangers are rejected, owner succeeds, post disappears
			code, _ = do(t, http.MethodDelete, app.url+"/publicaciones/"+postID, strangerToken, "")
			require.Equal(t, http.StatusForbidden, code)

			code, _ = do(t, http.MethodDelete, app.url+"/publicaciones/"+postID, ownerToken, "")
			require.Equal(t, http.StatusOK, code)

			code, _ = do(t, http.MethodGet, app.url+"/publicaciones/"+postID, "", "")
			require.Equal(t, http.StatusNotFound, code)
		})
	})

	t.Run("publicaciones bad query params", func(t *testing.T) {
		withApp(pg.Pool, t, func(app testApp) {
			code, _ := do(t, http.MethodGet, app.url+"/publicaciones?userId=not-a-uuid", "", "")
			require.Equal(t, http.StatusBadRequest, code)

			code, _ = do(t, http.MethodGet, app.url+"/publicaciones?sortBy=sideways", "", "")
			require.Equal(t, http.StatusBadRequest, code)

			code, _ = do(t, http.MethodGet, app.url+"/publicaciones?limit=lots", "", "")
			require.Equal(t, http.StatusBadRequest, code)
		})
	})

	t.Run("users toggle active", func(t *testing.T) {
		withApp(pg.Pool, t, func(app testApp) {
			register(t, app, "alice", "Str0ngpass")

			code, body := do(t, http.MethodGet, app.url+"/users", "", "")
			require.Equal(t, http.StatusOK, code)

			var users []struct {
				ID       string `json:"id"`
				Username string `json:"username"`
			}
			require.NoError(t, json.Unmarshal([]byte(body), &users))
			require.Len(t, users, 1)

			code, body = do(t, http.MethodDelete, app.url+"/users/"+users[0].ID, "", "")
			require.Equal(t, http.StatusOK, code)
			assert.Contains(t, body, `"alta":false`)

			code, body = do(t, http.MethodPost, app.url+"/users/"+users[0].ID, "", "")
			require.Equal(t, http.StatusOK, code)
			assert.Contains(t, body, `"alta":true`)
		})
	})

	t.Run("administrators can not be disabled", func(t *testing.T) {
		withApp(pg.Pool, t, func(app testApp) {
			admin, err := app.storage.User().CreateUser(t.Context(), repository.CreateUserParams{
				Username:     "admin",
				PasswordHash: "hash",
				FirstName:    "Admin",
				LastName:     "User",
				Email:        "admin@example.com",
				Role:         models.RoleAdmin,
			})
			require.NoError(t, err)

			code, body := do(t, http.MethodDelete, app.url+"/users/"+admin.ID.String(), "", "")
			require.Equal(t, http.StatusForbidden, code)
			assert.Contains(t, body, "administrador")
		})
	})

	t.Run("estadisticas", func(t *testing.T) {
		withApp(pg.Pool, t, func(app testApp) {
			register(t, app, "alice", "Str0ngpass")
			token := login(t, app, "alice", "Str0ngpass")

			postID := createPost(t, app, token, "counted")
			code, _ := do(t, http.MethodPost, app.url+"/publicaciones/"+postID+"/comentarios", token, `{"mensaje": "uno"}`)
			require.Equal(t, http.StatusCreated, code)

			from := url.QueryEscape(time.Now().Add(-time.Hour).Format(time.RFC3339))
			to := url.QueryEscape(time.Now().Add(time.Hour).Format(time.RFC3339))
			rangeQuery := fmt.Sprintf("?from=%s&to=%s", from, to)

			code, body := do(t, http.MethodGet, app.url+"/estadisticas/posts-por-usuario"+rangeQuery, "", "")
			require.Equalf(t, http.StatusOK, code, "Body: %s", body)
			assert.Contains(t, body, `"total":1`)

			code, body = do(t, http.MethodGet, app.url+"/estadisticas/total-comentarios"+rangeQuery, "", "")
			require.Equal(t, http.StatusOK, code)
			require.JSONEq(t, `{"total": 1}`, body)

			code, body = do(t, http.MethodGet, app.url+"/estadisticas/comentarios-por-post"+rangeQuery, "", "")
			require.Equal(t, http.StatusOK, code)
			assert.Contains(t, body, "counted")

			code, _ = do(t, http.MethodGet, app.url+"/estadisticas/total-comentarios", "", "")
			require.Equal(t, http.StatusBadRequest, code, "missing range should be rejected")
		})
	})
}
