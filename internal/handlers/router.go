package handlers

import (
	"net/http"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

// NewRouter mounts every route of the service on a single mux. Protected
// routes are wrapped with withAuth; mds wrap the whole mux and run for every
// request (logging, CORS).
func NewRouter(
	auth *AuthHandler,
	users *UserHandler,
	posts *PostHandler,
	stats *StatsHandler,
	withAuth func(http.Handler) http.Handler,
	mds ...func(next http.Handler) http.Handler,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", auth.login)
	mux.Handle("GET /auth/profile", withAuth(http.HandlerFunc(auth.profile)))
	mux.HandleFunc("POST /auth/autorizar", auth.authorize)
	mux.HandleFunc("POST /auth/refrescar", auth.refresh)

	mux.HandleFunc("POST /users/register", users.register)
	mux.HandleFunc("GET /users", users.list)
	mux.HandleFunc("DELETE /users/{id}", users.disable)
	mux.HandleFunc("POST /users/{id}", users.enable)

	mux.Handle("POST /publicaciones", withAuth(http.HandlerFunc(posts.create)))
	mux.HandleFunc("GET /publicaciones", posts.list)
	mux.HandleFunc("GET /publicaciones/{id}", posts.get)
	mux.Handle("DELETE /publicaciones/{id}", withAuth(http.HandlerFunc(posts.delete)))

	mux.Handle("POST /publicaciones/{id}/like", withAuth(http.HandlerFunc(posts.like)))
	mux.Handle("DELETE /publicaciones/{id}/like", withAuth(http.HandlerFunc(posts.unlike)))

	mux.Handle("POST /publicaciones/{id}/comentarios", withAuth(http.HandlerFunc(posts.createComment)))
	mux.Handle("GET /publicaciones/{id}/comentarios", withAuth(http.HandlerFunc(posts.listComments)))
	mux.Handle("PUT /publicaciones/{id}/comentarios/{commentId}", withAuth(http.HandlerFunc(posts.updateComment)))

	mux.HandleFunc("GET /estadisticas/posts-por-usuario", stats.postsPerUser)
	mux.HandleFunc("GET /estadisticas/total-comentarios", stats.totalComments)
	mux.HandleFunc("GET /estadisticas/comentarios-por-post", stats.commentsPerPost)

	return chain(mux, mds...)
}
