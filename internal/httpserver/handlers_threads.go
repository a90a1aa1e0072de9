package httpserver

import (
	"net/http"

	threadusecase "forum/backend/internal/usecase/thread"

	"github.com/go-chi/chi/v5"
)

type threadRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	UserID     string `json:"userId"`
	CategoryID string `json:"categoryId"`
}

func (p threadRequest) input() threadusecase.Input {
	return threadusecase.Input{
		Title:      p.Title,
		Content:    p.Content,
		UserID:     p.UserID,
		CategoryID: p.CategoryID,
	}
}

func (s *Server) handleListThreads(w http.ResponseWriter, r *http.Request) {
	items, err := s.services.Threads.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetThread(w http.ResponseWriter, r *http.Request) {
	item, err := s.services.Threads.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleCreateThread(w http.ResponseWriter, r *http.Request) {
	var payload threadRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	item, err := s.services.Threads.Create(r.Context(), actorID(r), payload.input())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "thread created successfully", "thread": item})
}

func (s *Server) handleUpdateThread(w http.ResponseWriter, r *http.Request) {
	var payload threadRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	item, err := s.services.Threads.Update(r.Context(), chi.URLParam(r, "id"), payload.input())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "thread updated successfully", "thread": item})
}

func (s *Server) handleDeleteThread(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Threads.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "thread deleted successfully")
}

func (s *Server) handleDeleteThreads(w http.ResponseWriter, r *http.Request) {
	ids, err := decodeIDs(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	n, err := s.services.Threads.DeleteMany(r.Context(), ids)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, plural(int(n), "thread deleted successfully", "threads deleted successfully"))
}
