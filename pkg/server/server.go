// Package server serves the hub over local HTTP: the full page, panel
// fragments, one form action per user action and a websocket of changes.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/aretw0/pph/pkg/core"
	"github.com/aretw0/pph/pkg/hub"
	"github.com/aretw0/pph/pkg/render"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "localhost:8080"

// Config holds the server settings.
type Config struct {
	Addr            string
	Logger          *slog.Logger
	ShutdownTimeout time.Duration // Zero means 5s.
}

// Server exposes one hub over HTTP.
type Server struct {
	cfg      Config
	hub      *hub.Hub
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// New creates a server for h.
func New(h *hub.Hub, cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	return &Server{
		cfg:    cfg,
		hub:    h,
		logger: cfg.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Handler returns the routes wrapped with security headers.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /panels/{kind}", s.handlePanel)
	mux.HandleFunc("GET /state", s.handleState)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(render.Static())))

	mux.HandleFunc("POST /todos", s.action(func(r *http.Request) error {
		return s.hub.AddTodo(r.Context(), r.PostFormValue("text"))
	}))
	mux.HandleFunc("POST /todos/{id}/toggle", s.byID(s.hub.ToggleTodo))
	mux.HandleFunc("POST /todos/{id}/delete", s.byID(s.hub.DeleteTodo))

	mux.HandleFunc("POST /notes", s.action(func(r *http.Request) error {
		return s.hub.SaveNote(r.Context(), r.PostFormValue("title"), r.PostFormValue("content"))
	}))
	mux.HandleFunc("POST /notes/cancel", s.action(func(r *http.Request) error {
		return s.hub.CancelEdit(r.Context())
	}))
	mux.HandleFunc("POST /notes/{id}/edit", s.byID(s.hub.EditNote))
	mux.HandleFunc("POST /notes/{id}/delete", s.byID(s.hub.DeleteNote))

	mux.HandleFunc("POST /links", s.action(func(r *http.Request) error {
		return s.hub.AddLink(r.Context(), r.PostFormValue("title"), r.PostFormValue("url"))
	}))
	mux.HandleFunc("POST /links/{id}/delete", s.byID(s.hub.DeleteLink))

	mux.HandleFunc("POST /images", s.action(func(r *http.Request) error {
		return s.hub.AddImage(r.Context(), r.PostFormValue("url"), r.PostFormValue("caption"))
	}))
	mux.HandleFunc("POST /images/{id}/delete", s.byID(s.hub.DeleteImage))

	mux.HandleFunc("POST /tabs/{tab}", s.action(func(r *http.Request) error {
		return s.hub.SwitchTab(r.Context(), r.PathValue("tab"))
	}))
	mux.HandleFunc("POST /theme", s.action(func(r *http.Request) error {
		_, err := s.hub.ToggleTheme(r.Context())
		return err
	}))
	mux.HandleFunc("POST /avatar", s.action(func(r *http.Request) error {
		// A form without the field is a cancelled prompt.
		var url *string
		if values, ok := r.PostForm["url"]; ok && len(values) > 0 {
			url = &values[0]
		}
		return s.hub.ChangeAvatar(r.Context(), url)
	}))

	return withSecurityHeaders(s.sameOrigin(mux))
}

// sameOrigin rejects state-changing requests sent by other sites, so a page
// open in the same browser cannot drive the hub through form posts.
func (s *Server) sameOrigin(next http.Handler) http.Handler {
	cop := http.NewCrossOriginProtection()
	cop.SetDenyHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Warn("cross-origin request rejected",
			"method", r.Method, "path", r.URL.Path, "origin", r.Header.Get("Origin"))
		http.Error(w, "cross-origin request rejected", http.StatusForbidden)
	}))
	return cop.Handler(next)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is like ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		// Request contexts end with ctx, which also stops open event streams.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := s.hub.Renderer().Page(w, s.hub.Document().Page()); err != nil {
		s.logger.Error("failed to render page", "error", err)
	}
}

func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request) {
	kind, err := core.ParseKind(r.PathValue("kind"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	view, err := s.hub.Panel(kind)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(view.HTML))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.hub.State()); err != nil {
		s.logger.Error("failed to encode state", "error", err)
	}
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; img-src * data:; style-src 'self'; script-src 'self'; connect-src 'self'; form-action 'self'; base-uri 'none'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}
