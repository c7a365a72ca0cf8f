package web

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/frostline/holidayquest/internal/auth"
	"github.com/frostline/holidayquest/internal/progress"
	"github.com/frostline/holidayquest/internal/store"
)

type accountResponse struct {
	User    store.User       `json:"user"`
	Summary progress.Summary `json:"summary"`
}

func (s *Server) signup() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var in auth.SignupInput
		if err := decodeJSON(w, r, &in); err != nil {
			s.writeError(w, r, err)
			return
		}
		u, err := s.Auth.Signup(r.Context(), in)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := s.Sessions.Start(w, r, u); err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, accountResponse{User: u, Summary: progress.Summarize(nil)})
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var in loginRequest
		if err := decodeJSON(w, r, &in); err != nil {
			s.writeError(w, r, err)
			return
		}
		u, err := s.Auth.Login(r.Context(), in.Email, in.Password)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := s.Sessions.Start(w, r, u); err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, accountResponse{User: u, Summary: s.summaryFor(r, u.ID)})
	}
}

func (s *Server) logout() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if err := s.Sessions.End(w, r); err != nil {
			s.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) me() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		sess, err := session(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		u, err := s.Store.UserRepo().ByID(r.Context(), sess.UserID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, accountResponse{User: u, Summary: s.summaryFor(r, u.ID)})
	}
}

// summaryFor returns the user's aggregates, or empty ones when the store
// cannot be read.
func (s *Server) summaryFor(r *http.Request, userID string) progress.Summary {
	recs, err := s.Store.ProgressRepo().Get(r.Context(), userID)
	if err != nil {
		s.logger.Warn("load summary", "user", userID, "err", err)
	}
	return progress.Summarize(recs)
}
