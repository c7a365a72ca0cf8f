package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/frostline/holidayquest/internal/apperr"
	"github.com/frostline/holidayquest/internal/auth"
	"github.com/frostline/holidayquest/internal/store"
)

const maxJSONBody = 64 << 10

// Toast is the error body shown to the player as a notification.
type Toast struct {
	Kind      string `json:"kind"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

type errorBody struct {
	Error Toast `json:"error"`
}

// Classify maps an error onto an HTTP status and a toast.
func Classify(err error) (int, Toast) {
	var (
		v  *apperr.ErrValidation
		su *apperr.ErrStoreUnavailable
	)
	switch {
	case errors.Is(err, apperr.ErrNotAuthenticated):
		return http.StatusUnauthorized, Toast{Kind: "not_authenticated", Title: "Sign in required", Message: "Please sign in to continue."}
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, Toast{Kind: "invalid_credentials", Title: "Sign in failed", Message: "Wrong email or password."}
	case errors.Is(err, apperr.ErrGameLocked):
		return http.StatusConflict, Toast{Kind: "game_locked", Title: "Game locked", Message: "Finish the previous game to unlock this one."}
	case errors.As(err, &v):
		return http.StatusUnprocessableEntity, Toast{Kind: "validation", Title: "Check your input", Message: v.Error()}
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, Toast{Kind: "not_found", Title: "Not found", Message: "Nothing here."}
	case errors.As(err, &su):
		return http.StatusServiceUnavailable, Toast{Kind: "store_unavailable", Title: "Service unavailable", Message: "Could not reach the server. Please try again.", Retryable: true}
	default:
		return http.StatusInternalServerError, Toast{Kind: "internal", Title: "Something went wrong", Message: "An error has occurred. Please try again."}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("write response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, toast := Classify(err)
	if status >= 500 {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	s.writeJSON(w, status, errorBody{Error: toast})
}

// readBody returns the request body, capped at maxJSONBody.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperr.Invalid("body", fmt.Sprintf("larger than %d bytes", maxJSONBody))
		}
		return nil, apperr.Invalid("body", err.Error())
	}
	return b, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	b, err := readBody(w, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return apperr.Invalid("body", "malformed JSON")
	}
	return nil
}

// listOpts reads ?limit= and ?offset=, defaulting to the first 50 rows.
func listOpts(r *http.Request) store.ListOpts {
	opts := store.ListOpts{Limit: 50}
	q := r.URL.Query()
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		opts.Limit = min(n, 200)
	}
	if n, err := strconv.Atoi(q.Get("offset")); err == nil && n > 0 {
		opts.Offset = n
	}
	return opts
}
