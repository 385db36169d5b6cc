package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/aretw0/pph/pkg/core"
)

// action adapts a hub operation to a form post answered with 303 to "/".
func (s *Server) action(fn func(r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "malformed form", http.StatusBadRequest)
			return
		}
		if err := fn(r); err != nil {
			s.fail(w, r, err)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// byID is action for operations addressed by the {id} path segment.
func (s *Server) byID(fn func(ctx context.Context, id int64) error) http.HandlerFunc {
	return s.action(func(r *http.Request) error {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			return errBadID
		}
		return fn(r.Context(), id)
	})
}

var errBadID = errors.New("invalid id")

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errBadID), errors.Is(err, core.ErrUnknownTab), errors.Is(err, core.ErrUnknownKind):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, core.ErrReadOnly):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
