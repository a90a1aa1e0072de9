package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) registerRoutes() {
	r := s.router
	r.Use(s.withRequestLogging, s.metrics.middleware, s.withCORS)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(s.withRateLimit).Post("/register", s.handleRegister)
			r.With(s.withRateLimit).Post("/login", s.handleLogin)
			r.With(s.authGate).Post("/logout", s.handleLogout)
			r.With(s.authGate).Get("/verify", s.handleVerify)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.authGate)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", s.handleListUsers)
				r.Post("/", s.handleCreateUser)
				r.Delete("/", s.handleDeleteUsers)
				r.Get("/{id}", s.handleGetUser)
				r.Put("/{id}", s.handleUpdateUser)
				r.Delete("/{id}", s.handleDeleteUser)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", s.handleListCategories)
				r.Post("/", s.handleCreateCategory)
				r.Delete("/", s.handleDeleteCategories)
				r.Get("/{id}", s.handleGetCategory)
				r.Put("/{id}", s.handleUpdateCategory)
				r.Delete("/{id}", s.handleDeleteCategory)
			})

			r.Route("/threads", func(r chi.Router) {
				r.Get("/", s.handleListThreads)
				r.Post("/", s.handleCreateThread)
				r.Delete("/", s.handleDeleteThreads)
				r.Get("/{id}", s.handleGetThread)
				r.Put("/{id}", s.handleUpdateThread)
				r.Delete("/{id}", s.handleDeleteThread)
			})

			r.Route("/comments", func(r chi.Router) {
				r.Get("/", s.handleListComments)
				r.Post("/", s.handleCreateComment)
				r.Delete("/", s.handleDeleteComments)
				r.Get("/thread/{id}", s.handleListThreadComments)
				r.Get("/{id}", s.handleGetComment)
				r.Put("/{id}", s.handleUpdateComment)
				r.Delete("/{id}", s.handleDeleteComment)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, messageResponse{Message: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, messageResponse{Message: "method not allowed"})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
