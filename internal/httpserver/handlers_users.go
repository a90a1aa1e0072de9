package httpserver

import (
	"net/http"

	"forum/backend/internal/domain/validation"
	userusecase "forum/backend/internal/usecase/user"

	"github.com/go-chi/chi/v5"
)

type userRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.services.Users.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.services.Users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var payload userRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	user, err := s.services.Users.Create(r.Context(), userusecase.CreateInput{
		Email:    payload.Email,
		Name:     payload.Name,
		Password: payload.Password,
		Role:     payload.Role,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "user created successfully", "user": user})
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var payload userRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	user, err := s.services.Users.Update(r.Context(), chi.URLParam(r, "id"), userusecase.UpdateInput{
		Email:    payload.Email,
		Name:     payload.Name,
		Password: payload.Password,
		Role:     payload.Role,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "user updated successfully", "user": user})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "user deleted successfully")
}

func (s *Server) handleDeleteUsers(w http.ResponseWriter, r *http.Request) {
	ids, err := decodeIDs(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	n, err := s.services.Users.DeleteMany(r.Context(), ids)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, plural(int(n), "user deleted successfully", "users deleted successfully"))
}

// decodeIDs reads a {ids: [...]} body, rejecting an empty list.
func decodeIDs(r *http.Request) ([]string, error) {
	var payload idsRequest
	if err := decodeJSON(r, &payload); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(payload.IDs))
	for _, id := range payload.IDs {
		if id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, validation.Errors{"ids": "ids is required"}
	}
	return ids, nil
}
