package httpserver

import (
	"net/http"
	"time"

	authdomain "forum/backend/internal/domain/auth"
	authusecase "forum/backend/internal/usecase/auth"
)

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionUser is the identity returned by login and verify.
type sessionUser struct {
	ID    string              `json:"_id"`
	Name  string              `json:"name"`
	Email string              `json:"email"`
	Role  authdomain.UserRole `json:"role"`
}

func newSessionUser(u *authdomain.User) sessionUser {
	return sessionUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload credentialsRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	_, err := s.services.Auth.Register(r.Context(), authusecase.RegisterInput{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		s.metrics.observeAuth("register", "failure")
		s.writeServiceError(w, r, err)
		return
	}

	s.metrics.observeAuth("register", "success")
	writeNotice(w, http.StatusOK, noticeSuccess, "user created successfully")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload credentialsRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	session, user, err := s.services.Auth.Login(r.Context(), authdomain.Credentials{
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		s.metrics.observeAuth("login", "failure")
		s.writeServiceError(w, r, err)
		return
	}

	s.metrics.observeAuth("login", "success")
	http.SetCookie(w, sessionCookieWith(session.Token, session.ExpiresAt))
	writeJSON(w, http.StatusOK, newSessionUser(user))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	expires := s.services.Auth.Logout(r.Context())
	cookie := sessionCookieWith("", expires)
	cookie.MaxAge = -1
	http.SetCookie(w, cookie)
	writeMessage(w, http.StatusOK, "session closed successfully")
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusForbidden, gateResponse{Msg: msgGateMissing})
		return
	}
	writeJSON(w, http.StatusOK, newSessionUser(user))
}

// sessionCookieWith builds the session cookie. It is readable by scripts
// and sent cross-site, which the browser client depends on.
func sessionCookieWith(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		SameSite: http.SameSiteNoneMode,
		Secure:   false,
		HttpOnly: false,
	}
}
