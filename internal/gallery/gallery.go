// Package gallery handles photo uploads and the public wish wall.
package gallery

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/frostline/holidayquest/internal/apperr"
	"github.com/frostline/holidayquest/internal/progress"
	"github.com/frostline/holidayquest/internal/store"
)

const (
	// DefaultMaxPhotoBytes caps an upload at 5 MiB.
	DefaultMaxPhotoBytes = 5 << 20
	// MaxWishRunes caps the length of a wish.
	MaxWishRunes = 500
	// MaxCaptionRunes caps the length of a photo caption.
	MaxCaptionRunes = 200

	maxFilename = 100
)

// Blob stores uploaded objects. *blob.Store satisfies it.
type Blob interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

// Hooks is notified after a photo or wish is saved.
type Hooks interface {
	PhotoUploaded(ctx context.Context, userID string)
	WishPosted(ctx context.Context, userID string)
}

// Upload is one photo as received from the client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Caption     string
	Body        io.Reader
}

// Service validates and persists photos and wishes.
type Service struct {
	blob     Blob
	photos   store.PhotoRepo
	wishes   store.WishRepo
	hooks    []Hooks
	maxBytes int64
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithMaxPhotoBytes overrides the upload size limit.
func WithMaxPhotoBytes(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

// WithHooks registers upload and wish hooks.
func WithHooks(h ...Hooks) Option {
	return func(s *Service) { s.hooks = append(s.hooks, h...) }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides the time source used for object keys.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a gallery service. b may be nil when no bucket is
// configured; uploads then fail with ErrStoreUnavailable.
func NewService(b Blob, photos store.PhotoRepo, wishes store.WishRepo, opts ...Option) *Service {
	s := &Service{
		blob:     b,
		photos:   photos,
		wishes:   wishes,
		maxBytes: DefaultMaxPhotoBytes,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// MaxPhotoBytes returns the configured upload limit.
func (s *Service) MaxPhotoBytes() int64 { return s.maxBytes }

// ObjectKey builds "<user_id>/<unix_millis>_<filename>".
func ObjectKey(userID string, at time.Time, filename string) string {
	return fmt.Sprintf("%s/%d_%s", userID, at.UnixMilli(), SanitizeFilename(filename))
}

// SanitizeFilename keeps the base name and replaces anything outside
// [A-Za-z0-9._-] with an underscore.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.TrimLeft(b.String(), ".")
	if len(out) > maxFilename {
		out = out[len(out)-maxFilename:]
	}
	if out == "" || strings.Trim(out, "_") == "" {
		return "photo"
	}
	return out
}

// UploadPhoto checks the upload, stores it in the bucket and records it.
func (s *Service) UploadPhoto(ctx context.Context, sess progress.Session, up Upload) (store.Photo, error) {
	if !sess.Authenticated() {
		return store.Photo{}, apperr.ErrNotAuthenticated
	}
	if up.Body == nil || up.Size <= 0 {
		return store.Photo{}, apperr.Invalid("photo", "no file uploaded")
	}
	if up.Size > s.maxBytes {
		return store.Photo{}, apperr.Invalid("photo", fmt.Sprintf("file exceeds %d MiB", s.maxBytes>>20))
	}
	caption := strings.TrimSpace(up.Caption)
	if utf8.RuneCountInString(caption) > MaxCaptionRunes {
		return store.Photo{}, apperr.Invalid("caption", fmt.Sprintf("longer than %d characters", MaxCaptionRunes))
	}

	br := bufio.NewReaderSize(up.Body, 512)
	head, _ := br.Peek(512)
	ctype := imageType(head)
	if ctype == "" {
		return store.Photo{}, apperr.Invalid("photo", "only PNG, JPEG, GIF or WebP images are accepted")
	}
	if s.blob == nil {
		return store.Photo{}, apperr.Unavailable("upload photo", fmt.Errorf("no blob storage configured"))
	}

	key := ObjectKey(sess.UserID, s.now(), up.Filename)
	url, err := s.blob.Put(ctx, key, br, up.Size, ctype)
	if err != nil {
		return store.Photo{}, apperr.Unavailable("upload photo", err)
	}

	p := store.Photo{UserID: sess.UserID, ObjectKey: key, URL: url, Caption: caption}
	if err := s.photos.Create(ctx, &p); err != nil {
		return store.Photo{}, err
	}
	s.logger.Info("photo uploaded", "user", sess.UserID, "key", key, "bytes", up.Size)

	for _, h := range s.hooks {
		h.PhotoUploaded(ctx, sess.UserID)
	}
	return p, nil
}

// rasterTypes are the sniffed content types accepted for photos. Markup
// based images such as SVG can carry scripts and are refused.
var rasterTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// imageType returns the sniffed content type of an upload, or "" when it is
// not a raster image. The declared type is never trusted.
func imageType(head []byte) string {
	if len(head) == 0 {
		return ""
	}
	if ct := http.DetectContentType(head); rasterTypes[ct] {
		return ct
	}
	return ""
}

// Photos lists uploaded photos, newest first.
func (s *Service) Photos(ctx context.Context, opts store.ListOpts) ([]store.Photo, error) {
	return s.photos.List(ctx, opts)
}

// PostWish publishes a wish signed with the session's display name.
func (s *Service) PostWish(ctx context.Context, sess progress.Session, text string) (store.Wish, error) {
	if !sess.Authenticated() {
		return store.Wish{}, apperr.ErrNotAuthenticated
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return store.Wish{}, apperr.Invalid("text", "wish is empty")
	}
	if utf8.RuneCountInString(text) > MaxWishRunes {
		return store.Wish{}, apperr.Invalid("text", fmt.Sprintf("longer than %d characters", MaxWishRunes))
	}

	w := store.Wish{UserID: sess.UserID, Author: Author(sess), Text: text}
	if err := s.wishes.Create(ctx, &w); err != nil {
		return store.Wish{}, err
	}
	for _, h := range s.hooks {
		h.WishPosted(ctx, sess.UserID)
	}
	return w, nil
}

// Wishes lists wishes, newest first.
func (s *Service) Wishes(ctx context.Context, opts store.ListOpts) ([]store.Wish, error) {
	return s.wishes.List(ctx, opts)
}

// Author is the name shown next to a wish.
func Author(sess progress.Session) string {
	if name := strings.TrimSpace(sess.Name); name != "" {
		return name
	}
	if local, _, ok := strings.Cut(sess.Email, "@"); ok && local != "" {
		return local
	}
	return "Anonymous elf"
}
