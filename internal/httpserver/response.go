package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	authdomain "forum/backend/internal/domain/auth"
	"forum/backend/internal/domain/forum"
	"forum/backend/internal/domain/validation"
	"forum/backend/internal/errutil"
	"forum/backend/internal/logging"
)

// Notice types used in {message: {text, type}} bodies.
const (
	noticeSuccess = "success"
	noticeError   = "error"
)

type notice struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

type noticeResponse struct {
	Message notice `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type validationResponse struct {
	Errors validation.Errors `json:"errors"`
}

type gateResponse struct {
	Msg string `json:"msg"`
}

type idsRequest struct {
	IDs []string `json:"ids"`
}

var errInvalidJSON = errors.New("invalid JSON payload")

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

func writeNotice(w http.ResponseWriter, status int, kind, text string) {
	writeJSON(w, status, noticeResponse{Message: notice{Text: text, Type: kind}})
}

// decodeJSON reads the request body into dst. An empty body leaves dst
// untouched.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return errInvalidJSON
	}
	return nil
}

// writeServiceError maps use case errors onto HTTP responses.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validation.Errors
	switch {
	case errors.Is(err, errInvalidJSON):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusBadRequest, validationResponse{Errors: verrs})
	case errors.Is(err, authdomain.ErrEmailExists):
		writeNotice(w, http.StatusBadRequest, noticeError, "email is already registered")
	case errors.Is(err, authdomain.ErrInvalidCredentials):
		writeNotice(w, http.StatusNotFound, noticeError, "incorrect email or password")
	case errors.Is(err, authdomain.ErrUserNotFound),
		errors.Is(err, forum.ErrCategoryNotFound),
		errors.Is(err, forum.ErrThreadNotFound),
		errors.Is(err, forum.ErrCommentNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, authdomain.ErrTokenInvalid):
		writeJSON(w, http.StatusForbidden, gateResponse{Msg: msgGateRejected})
	default:
		errutil.LogError(r.Context(), logging.FromContext(r.Context()), "request failed", err)
		writeMessage(w, http.StatusInternalServerError, err.Error())
	}
}

// plural picks the message for one or many affected records.
func plural(n int, one, many string) string {
	if n > 1 {
		return many
	}
	return one
}
