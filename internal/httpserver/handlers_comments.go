package httpserver

import (
	"net/http"

	commentusecase "forum/backend/internal/usecase/comment"

	"github.com/go-chi/chi/v5"
)

type commentRequest struct {
	Content  string `json:"content"`
	ThreadID string `json:"threadId"`
	UserID   string `json:"userId"`
}

func (p commentRequest) input() commentusecase.Input {
	return commentusecase.Input{Content: p.Content, ThreadID: p.ThreadID, UserID: p.UserID}
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	items, err := s.services.Comments.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleListThreadComments(w http.ResponseWriter, r *http.Request) {
	items, err := s.services.Comments.ListByThread(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetComment(w http.ResponseWriter, r *http.Request) {
	item, err := s.services.Comments.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	var payload commentRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	item, err := s.services.Comments.Create(r.Context(), actorID(r), payload.input())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "comment created successfully", "comment": item})
}

func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	var payload commentRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	item, err := s.services.Comments.Update(r.Context(), chi.URLParam(r, "id"), payload.input())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "comment updated successfully", "comment": item})
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Comments.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "comment deleted successfully")
}

func (s *Server) handleDeleteComments(w http.ResponseWriter, r *http.Request) {
	ids, err := decodeIDs(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	n, err := s.services.Comments.DeleteMany(r.Context(), ids)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, plural(int(n), "comment deleted successfully", "comments deleted successfully"))
}
