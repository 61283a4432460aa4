package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/fingr/internal/common"
)

// mapServiceError translates engine errors into HTTP status codes. Storage
// failures are fatal to the request only.
func mapServiceError(err error) (int, string, string) {
	switch {
	case errors.Is(err, common.ErrAuthFailed):
		return http.StatusUnauthorized, "AUTH_FAILED", "invalid username or key"
	case errors.Is(err, common.ErrInvalidRegistrationKey):
		return http.StatusUnauthorized, "INVALID_REGISTRATION_KEY", "invalid registration key"
	case errors.Is(err, common.ErrRegistrationClosed):
		return http.StatusForbidden, "REGISTRATION_CLOSED", "registration is not allowed on this server"
	case errors.Is(err, common.ErrUsernameTaken):
		return http.StatusConflict, "USERNAME_TAKEN", "username is already registered"
	case errors.Is(err, common.ErrNotOnline):
		return http.StatusConflict, "NOT_ONLINE", "not logged in"
	case errors.Is(err, common.ErrUserNotFound):
		return http.StatusNotFound, "USER_NOT_FOUND", "no such user"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
	}
}

func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode, code, message := mapServiceError(err)
	if statusCode == http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed",
			"request_id", requestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeError(w, statusCode, code, message)
}

// requireParam rejects the request when the parameter is missing or empty.
func requireParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value := r.URL.Query().Get(name)
	if value == "" {
		writeError(w, http.StatusBadRequest, "MISSING_PARAMETER", "missing required parameter: "+name)
		return "", false
	}
	return value, true
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{"state": "ok"})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	username, ok := requireParam(w, r, "username")
	if !ok {
		return
	}

	key, err := h.service.Register(r.Context(), username, r.URL.Query().Get("key"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	// The key is shown exactly once; only its hash is kept server-side.
	writeSuccess(w, http.StatusOK, map[string]string{
		"username": username,
		"key":      key,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	username, ok := requireParam(w, r, "username")
	if !ok {
		return
	}
	key, ok := requireParam(w, r, "key")
	if !ok {
		return
	}

	// An absent status keeps the stored message; an empty one clears it.
	var message *string
	if r.URL.Query().Has("status") {
		s := r.URL.Query().Get("status")
		message = &s
	}

	if err := h.service.Login(r.Context(), username, key, message); err != nil {
		h.serviceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"username": username})
}

func (h *Handler) logoff(w http.ResponseWriter, r *http.Request) {
	username, ok := requireParam(w, r, "username")
	if !ok {
		return
	}
	key, ok := requireParam(w, r, "key")
	if !ok {
		return
	}

	if err := h.service.Logoff(r.Context(), username, key); err != nil {
		h.serviceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"username": username})
}

func (h *Handler) bump(w http.ResponseWriter, r *http.Request) {
	username, ok := requireParam(w, r, "username")
	if !ok {
		return
	}
	key, ok := requireParam(w, r, "key")
	if !ok {
		return
	}

	if err := h.service.Bump(r.Context(), username, key); err != nil {
		h.serviceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"username": username})
}

func (h *Handler) finger(w http.ResponseWriter, r *http.Request) {
	subject, ok := requireParam(w, r, "user")
	if !ok {
		return
	}

	q := r.URL.Query()
	status, err := h.service.Finger(r.Context(), subject, q.Get("username"), q.Get("key"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"username": subject,
		"online":   status.Online,
		"status":   status.Message,
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	usernames, err := h.service.List(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	if usernames == nil {
		usernames = []string{}
	}

	writeSuccess(w, http.StatusOK, map[string]any{"users": usernames})
}

type checkerDTO struct {
	Username string    `json:"username"`
	At       time.Time `json:"at"`
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	username, ok := requireParam(w, r, "username")
	if !ok {
		return
	}
	key, ok := requireParam(w, r, "key")
	if !ok {
		return
	}

	entries, err := h.service.Check(r.Context(), username, key)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	checkers := make([]checkerDTO, 0, len(entries))
	for _, e := range entries {
		checkers = append(checkers, checkerDTO{Username: e.Observer, At: e.At})
	}

	writeSuccess(w, http.StatusOK, map[string]any{"checkers": checkers})
}
