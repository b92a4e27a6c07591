package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/0xmhha/watchvault/pkg/media"
	"github.com/0xmhha/watchvault/pkg/session"
)

// writeJSON writes v with status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", "error", err)
	}
}

// writeResult writes a successful {success, message} body.
func (s *Server) writeResult(w http.ResponseWriter, msg string) {
	s.writeJSON(w, http.StatusOK, session.Succeeded(msg))
}

// writeError renders err as {success: false, message} with a status derived
// from its kind.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}

	s.writeJSON(w, status, session.Result{Success: false, Message: messageFor(err, status)})
}

// decode reads a JSON body of at most limit bytes into v.
func decode(r *http.Request, limit int64, v interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if int64(len(body)) > limit {
		return fmt.Errorf("%w: body exceeds %d bytes", ErrBadRequest, limit)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

// itemFromPath builds a title reference from {type} and {id} URL params.
func itemFromPath(r *http.Request) (media.Item, error) {
	t := media.Type(chi.URLParam(r, "type"))
	if t != media.TypeMovie && t != media.TypeTV {
		return media.Item{}, fmt.Errorf("%w: unknown media type %q", ErrBadRequest, t)
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return media.Item{}, fmt.Errorf("%w: invalid id %q", ErrBadRequest, chi.URLParam(r, "id"))
	}

	return media.Item{ID: id, MediaType: t}.Normalize(), nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", ErrBadRequest, name)
	}
	return n, nil
}
