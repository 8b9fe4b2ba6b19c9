package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires every route. With anonymousTools the stateless tool
// endpoints are served without a session.
func NewRouter(apiHandler *APIHandler, anonymousTools bool) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestLogger(apiHandler.logger))
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	// Public routes
	r.Get("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/signup", apiHandler.SignupPage)
	r.Post("/signup", apiHandler.SignupHandler)
	r.Get("/login", apiHandler.LoginPage)
	r.Post("/login", apiHandler.LoginHandler)

	// Pages behind a session
	r.Group(func(r chi.Router) {
		r.Use(apiHandler.RequireSession(redirectToLogin))

		r.Get("/logout", apiHandler.LogoutHandler)
		r.Get("/", apiHandler.IndexPage)
		r.Post("/chats/new", apiHandler.NewChatHandler)
		r.Get("/chats/{chatID}", apiHandler.ViewChatPage)
	})

	// JSON API behind a session
	r.Group(func(r chi.Router) {
		r.Use(apiHandler.RequireSession(unauthorizedJSON))

		r.Post("/api/chat", apiHandler.ChatHandler)
		if !anonymousTools {
			r.Post("/api/generate_exam", apiHandler.GenerateExamHandler)
			r.Post("/api/alpha_study", apiHandler.AlphaStudyHandler)
		}
	})

	if anonymousTools {
		r.Post("/api/generate_exam", apiHandler.GenerateExamHandler)
		r.Post("/api/alpha_study", apiHandler.AlphaStudyHandler)
	}

	return r
}
