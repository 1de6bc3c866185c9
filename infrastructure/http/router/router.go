package router

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/authly/authly/infrastructure/http/handler"
	"github.com/authly/authly/infrastructure/http/middleware"
)

// Deps carries everything the route table needs.
type Deps struct {
	Auth      *handler.AuthHandler
	Posts     *handler.PostHandler
	Guard     *middleware.AuthGuard
	RateLimit *middleware.RateLimitMiddleware
}

// New builds the full route table. Refresh and logout are GET endpoints that
// read the refresh token from the Authorization header; everything under
// /auth/change and /post sits behind the access-token guard.
func New(deps Deps) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.CorrelationIDMiddleware)

	r.HandleFunc("/auth/register", deps.Auth.Register).Methods(http.MethodPost)
	r.Handle("/auth/login", rateLimited(deps.RateLimit, deps.Auth.Login)).Methods(http.MethodPost)
	r.Handle("/auth/refresh", rateLimited(deps.RateLimit, deps.Auth.Refresh)).Methods(http.MethodGet)
	r.HandleFunc("/auth/logout", deps.Auth.Logout).Methods(http.MethodGet)

	r.HandleFunc("/auth/change/password", deps.Guard.RequireAuth(deps.Auth.ChangePassword)).Methods(http.MethodPost)
	r.HandleFunc("/auth/change/email", deps.Guard.RequireAuth(deps.Auth.ChangeEmail)).Methods(http.MethodPost)
	r.HandleFunc("/auth/change/username", deps.Guard.RequireAuth(deps.Auth.ChangeUsername)).Methods(http.MethodPost)

	r.HandleFunc("/post", deps.Guard.RequireAuth(deps.Posts.Create)).Methods(http.MethodPost)
	r.HandleFunc("/post", deps.Guard.RequireAuth(deps.Posts.List)).Methods(http.MethodGet)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"status":"healthy"}`)
	}).Methods(http.MethodGet)

	return r
}

func rateLimited(m *middleware.RateLimitMiddleware, next http.HandlerFunc) http.Handler {
	if m == nil {
		return next
	}
	return m.RateLimit(next)
}
