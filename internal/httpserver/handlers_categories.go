package httpserver

import (
	"net/http"

	categoryusecase "forum/backend/internal/usecase/category"

	"github.com/go-chi/chi/v5"
)

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (p categoryRequest) input() categoryusecase.Input {
	return categoryusecase.Input{Name: p.Name, Description: p.Description}
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	items, err := s.services.Categories.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	item, err := s.services.Categories.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var payload categoryRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	item, err := s.services.Categories.Create(r.Context(), payload.input())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "category created successfully", "category": item})
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var payload categoryRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	item, err := s.services.Categories.Update(r.Context(), chi.URLParam(r, "id"), payload.input())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "category updated successfully", "category": item})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Categories.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "category deleted successfully")
}

func (s *Server) handleDeleteCategories(w http.ResponseWriter, r *http.Request) {
	ids, err := decodeIDs(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	n, err := s.services.Categories.DeleteMany(r.Context(), ids)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, plural(int(n), "category deleted successfully", "categories deleted successfully"))
}
