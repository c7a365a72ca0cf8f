// Package web serves the holidayquest JSON API and the progress stream.
package web

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"github.com/frostline/holidayquest/internal/achievements"
	"github.com/frostline/holidayquest/internal/apperr"
	"github.com/frostline/holidayquest/internal/auth"
	"github.com/frostline/holidayquest/internal/config"
	"github.com/frostline/holidayquest/internal/gallery"
	"github.com/frostline/holidayquest/internal/games/coding"
	"github.com/frostline/holidayquest/internal/greeting"
	"github.com/frostline/holidayquest/internal/progress"
	"github.com/frostline/holidayquest/internal/store"
)

const timeout = 10 * time.Second

// Deps are the services the API is built from.
type Deps struct {
	Store        *store.Store
	Gate         *progress.Gate
	Hub          *progress.Hub
	Auth         *auth.Service
	Sessions     *auth.Sessions
	Achievements *achievements.Service
	Gallery      *gallery.Service
	Greeter      *greeting.Generator
	Runner       coding.Runner
	Logger       *slog.Logger

	// Prefix is prepended to every route, for use behind a reverse proxy.
	Prefix  string
	Version string
	// HTTPS enables Strict-Transport-Security.
	HTTPS bool
	Now   func() time.Time
}

// Server routes API requests to the services in Deps.
type Server struct {
	Deps
	logger   *slog.Logger
	mux      *httprouter.Router
	handler  http.Handler
	upgrader websocket.Upgrader
}

// New builds the router.
func New(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	d.Prefix = strings.TrimSuffix(d.Prefix, "/")

	s := &Server{
		Deps:   d,
		logger: d.Logger,
		mux:    httprouter.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	s.mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, v any) {
		s.logger.Error("panic serving request", "method", r.Method, "path", r.URL.Path, "panic", fmt.Sprint(v))
		s.writeError(w, r, fmt.Errorf("panic: %v", v))
	}
	s.mux.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, fmt.Errorf("route %s: %w", r.URL.Path, apperr.ErrNotFound))
	})
	s.routes()
	s.handler = s.logRequests(s.securityHeaders(d.Sessions.Middleware(s.mux)))
	return s
}

func (s *Server) routes() {
	p := s.Prefix
	m := s.mux

	m.GET(p+"/healthz", s.serveHealth())
	m.GET(p+"/version", s.serveVersion())

	m.POST(p+"/api/auth/signup", s.signup())
	m.POST(p+"/api/auth/login", s.login())
	m.POST(p+"/api/auth/logout", s.logout())
	m.GET(p+"/api/auth/me", s.me())

	m.GET(p+"/api/games", s.listGames())
	m.GET(p+"/api/games/:slug", s.gameDetail())
	m.POST(p+"/api/games/:slug/submit", s.submit())
	m.POST(p+"/api/games/:slug/check", s.checkAnswer())

	m.GET(p+"/api/progress", s.progress())
	m.GET(p+"/api/progress/stream", s.stream())

	m.GET(p+"/api/certificates", s.certificates())
	m.GET(p+"/api/certificates/:id", s.certificate())
	m.GET(p+"/api/certificates/:id/qr", s.certificateQR())

	m.GET(p+"/api/achievements", s.achievements())

	m.GET(p+"/api/gallery/photos", s.photos())
	m.POST(p+"/api/gallery/photos", s.uploadPhoto())
	m.GET(p+"/api/wishes", s.wishes())
	m.POST(p+"/api/wishes", s.postWish())

	m.GET(p+"/api/gifts", s.gifts())
	m.GET(p+"/api/gifts/:id/card.svg", s.giftCard())
	m.GET(p+"/api/countdown", s.countdown())
	m.GET(p+"/api/playlist", s.playlist())
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s,
		IdleTimeout:       10 * time.Minute,
		ReadTimeout:       timeout,
		ReadHeaderTimeout: timeout,
		// Coding submissions and uploads may take a while; the stream
		// manages its own write deadlines.
		WriteTimeout: 0,
	}

	errs := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "url", fmt.Sprintf("%s://%s%s/", cfg.Scheme(), srv.Addr, s.Prefix))
		var err error
		if cfg.Scheme() == "https" {
			err = srv.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	grace := cfg.ShutdownTimeout
	if grace <= 0 {
		grace = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Cross-Origin-Opener-Policy", "same-origin")
		h.Set("Cross-Origin-Resource-Policy", "same-site")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("X-Content-Type-Options", "nosniff")
		if s.HTTPS {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		next.ServeHTTP(w, r)
	})
}

// recorder captures the status and size of a response.
type recorder struct {
	http.ResponseWriter
	status int
	size   int64
}

func (r *recorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.size += int64(n)
	return n, err
}

// Hijack lets the websocket upgrader take over the connection.
func (r *recorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	if r.status == 0 {
		r.status = http.StatusSwitchingProtocols
	}
	return h.Hijack()
}

func (r *recorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &recorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		s.logger.Debug("serve",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"bytes", rec.size,
			"remote", realIP(r),
			"duration", time.Since(start).Round(time.Microsecond),
		)
	})
}

func realIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	for _, h := range []string{"CF-Connecting-IP", "X-Real-IP"} {
		if ip := r.Header.Get(h); ip != "" && net.ParseIP(ip) != nil {
			return ip
		}
	}
	return host
}

// session returns the signed-in user or ErrNotAuthenticated.
func session(r *http.Request) (progress.Session, error) {
	sess := auth.FromContext(r.Context())
	if !sess.Authenticated() {
		return sess, apperr.ErrNotAuthenticated
	}
	return sess, nil
}

// absoluteURL builds an absolute URL for path on the host serving r.
func (s *Server) absoluteURL(r *http.Request, path string) string {
	scheme := "http"
	if r.TLS != nil || s.HTTPS {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + s.Prefix + path
}
