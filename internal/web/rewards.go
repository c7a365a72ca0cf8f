package web

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"github.com/frostline/holidayquest/internal/apperr"
	"github.com/frostline/holidayquest/internal/games/surprise"
	"github.com/frostline/holidayquest/internal/season"
	"github.com/frostline/holidayquest/internal/store"
)

const qrSize = 320

func (s *Server) certificates() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		sess, err := session(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		certs, err := s.Store.CertificateRepo().ForUser(r.Context(), sess.UserID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if certs == nil {
			certs = []store.Certificate{}
		}
		s.writeJSON(w, http.StatusOK, map[string]any{"certificates": certs})
	}
}

// ownCertificate loads :id and hides certificates of other users.
func (s *Server) ownCertificate(r *http.Request, ps httprouter.Params) (store.Certificate, error) {
	sess, err := session(r)
	if err != nil {
		return store.Certificate{}, err
	}
	c, err := s.Store.CertificateRepo().ByID(r.Context(), ps.ByName("id"))
	if err != nil {
		return store.Certificate{}, err
	}
	if c.UserID != sess.UserID {
		return store.Certificate{}, apperr.ErrNotFound
	}
	return c, nil
}

func (s *Server) certificate() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		c, err := s.ownCertificate(r, ps)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, c)
	}
}

// certificateQR renders a PNG QR code linking to the certificate.
func (s *Server) certificateQR() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		c, err := s.ownCertificate(r, ps)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		png, err := qrcode.Encode(s.absoluteURL(r, "/api/certificates/"+c.ID), qrcode.Medium, qrSize)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("qr generation: %w", err))
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "private, max-age=86400")
		_, _ = w.Write(png)
	}
}

func (s *Server) achievements() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		sess, err := session(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		badges, err := s.Achievements.ForUser(r.Context(), sess.UserID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{"achievements": badges})
	}
}

func (s *Server) gifts() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		s.writeJSON(w, http.StatusOK, map[string]any{"gifts": surprise.Gifts()})
	}
}

func (s *Server) giftCard() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id, err := strconv.Atoi(ps.ByName("id"))
		if err != nil {
			s.writeError(w, r, apperr.ErrNotFound)
			return
		}
		g, ok := surprise.GiftByID(id)
		if !ok {
			s.writeError(w, r, apperr.ErrNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="gift-%d.svg"`, g.ID))
		_, _ = w.Write(surprise.CardSVG(g))
	}
}

func (s *Server) playlist() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		s.writeJSON(w, http.StatusOK, map[string]any{
			"tracks":        season.Playlist(),
			"total_seconds": int(season.PlaylistLength() / time.Second),
		})
	}
}

func (s *Server) countdown() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		s.writeJSON(w, http.StatusOK, season.Until(s.Now()))
	}
}

func (s *Server) serveHealth() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if err := s.Store.Ping(r.Context()); err != nil {
			s.writeError(w, r, apperr.Unavailable("ping", err))
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	}
}

func (s *Server) serveVersion() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("holidayquest v" + s.Version + "\n"))
	}
}
