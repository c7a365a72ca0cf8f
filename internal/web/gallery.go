package web

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/frostline/holidayquest/internal/apperr"
	"github.com/frostline/holidayquest/internal/gallery"
	"github.com/frostline/holidayquest/internal/store"
)

func (s *Server) photos() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if _, err := session(r); err != nil {
			s.writeError(w, r, err)
			return
		}
		photos, err := s.Gallery.Photos(r.Context(), listOpts(r))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if photos == nil {
			photos = []store.Photo{}
		}
		s.writeJSON(w, http.StatusOK, map[string]any{"photos": photos})
	}
}

// uploadPhoto accepts a multipart form with the image in field "photo" and
// an optional "caption".
func (s *Server) uploadPhoto() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		sess, err := session(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		limit := s.Gallery.MaxPhotoBytes()
		r.Body = http.MaxBytesReader(w, r.Body, limit+1<<20)
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				s.writeError(w, r, apperr.Invalid("photo", "file is too large"))
				return
			}
			s.writeError(w, r, apperr.Invalid("photo", "expected a multipart form"))
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, hdr, err := r.FormFile("photo")
		if err != nil {
			s.writeError(w, r, apperr.Invalid("photo", "no file uploaded"))
			return
		}
		defer file.Close()

		p, err := s.Gallery.UploadPhoto(r.Context(), sess, gallery.Upload{
			Filename:    hdr.Filename,
			ContentType: hdr.Header.Get("Content-Type"),
			Size:        hdr.Size,
			Caption:     r.FormValue("caption"),
			Body:        file,
		})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, p)
	}
}

func (s *Server) wishes() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		wishes, err := s.Gallery.Wishes(r.Context(), listOpts(r))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if wishes == nil {
			wishes = []store.Wish{}
		}
		s.writeJSON(w, http.StatusOK, map[string]any{"wishes": wishes})
	}
}

func (s *Server) postWish() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		sess, err := session(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		var in struct {
			Text string `json:"text"`
		}
		if err := decodeJSON(w, r, &in); err != nil {
			s.writeError(w, r, err)
			return
		}
		wish, err := s.Gallery.PostWish(r.Context(), sess, in.Text)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, wish)
	}
}
