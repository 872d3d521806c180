// Package server exposes the editor over HTTP: the rendered page, the
// content API used by the inline edit script, and the durable write
// endpoint.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	overlay "github.com/goliatone/go-overlay"
	"github.com/goliatone/go-overlay/content"
	"github.com/goliatone/go-overlay/pkg/publish"
	"github.com/goliatone/go-overlay/pkg/site"
	"github.com/goliatone/go-overlay/schema/openapi"
	"go.uber.org/zap"
)

const maxRequestBytes = 1 << 20

// Server wires an editor to its HTTP surface.
type Server struct {
	editor   *overlay.Editor
	renderer *site.Renderer
	publish  http.Handler
	logger   *zap.Logger
}

type Option func(*Server)

// WithPublishHandler mounts the durable write endpoint at POST /api/publish.
func WithPublishHandler(h http.Handler) Option {
	return func(s *Server) {
		s.publish = h
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(editor *overlay.Editor, renderer *site.Renderer, opts ...Option) *Server {
	s := &Server{editor: editor, renderer: renderer, logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Handler returns the routed, request-logged handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.page)
	mux.HandleFunc("GET /api/content", s.current)
	mux.HandleFunc("GET /api/content/saved", s.saved)
	mux.HandleFunc("GET /api/content/fields", s.fields)
	mux.HandleFunc("GET /api/content/explain", s.explain)
	mux.HandleFunc("PATCH /api/content", s.setPath)
	mux.HandleFunc("PUT /api/content/value", s.setValue)
	mux.HandleFunc("POST /api/content/save", s.save)
	mux.HandleFunc("POST /api/content/discard", s.discard)
	mux.HandleFunc("POST /api/edit-mode", s.editMode)
	mux.HandleFunc("GET /api/openapi.json", s.openAPI)
	if s.publish != nil {
		mux.Handle("POST /api/publish", s.publish)
	}
	return s.logRequests(mux)
}

func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	state := s.editor.State()
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, state.Document, state.EditMode); err != nil {
		s.logger.Error("render failed", zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) current(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.editor.State())
}

func (s *Server) saved(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"document": s.editor.Saved()})
}

func (s *Server) fields(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, content.Fields(s.editor.Document()))
}

func (s *Server) explain(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, "missing_path", "path query parameter is required")
		return
	}
	trace := s.editor.Explain(path)
	writeJSON(w, http.StatusOK, map[string]any{
		"path":       trace.Path,
		"layers":     trace.Layers,
		"unsaved":    trace.Unsaved(),
		"customized": trace.Customized(),
	})
}

func (s *Server) openAPI(w http.ResponseWriter, r *http.Request) {
	doc, err := openapi.Generate()
	if err != nil {
		s.logger.Error("openapi generation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "openapi_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type setPathRequest struct {
	Path  string  `json:"path"`
	Value *string `json:"value"`
}

func (s *Server) setPath(w http.ResponseWriter, r *http.Request) {
	var req setPathRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Value == nil {
		writeError(w, http.StatusBadRequest, "missing_value", "value must be a string")
		return
	}
	if err := s.editor.SetPath(req.Path, *req.Value); err != nil {
		writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.editor.State())
}

type setValueRequest struct {
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value"`
}

func (s *Server) setValue(w http.ResponseWriter, r *http.Request) {
	var req setValueRequest
	if !decode(w, r, &req) {
		return
	}
	if len(req.Value) == 0 {
		writeError(w, http.StatusBadRequest, "missing_value", "value is required")
		return
	}
	var value any
	if err := json.Unmarshal(req.Value, &value); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_value", err.Error())
		return
	}
	if err := s.editor.SetValue(req.Path, value); err != nil {
		writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.editor.State())
}

func (s *Server) save(w http.ResponseWriter, r *http.Request) {
	err := s.editor.Save(r.Context())
	if err == nil {
		writeJSON(w, http.StatusOK, s.editor.State())
		return
	}

	var publishErr *overlay.PublishError
	if errors.As(err, &publishErr) {
		s.logger.Warn("save published locally only", zap.Error(err))
		code := "publish_failed"
		if errors.Is(err, publish.ErrEnvironmentGuard) {
			code = publish.GuardCode
		}
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":         code,
			"message":       err.Error(),
			"saved_locally": true,
			"snapshot_id":   publishErr.SnapshotID,
		})
		return
	}

	s.logger.Error("save failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]any{
		"error":         "save_failed",
		"message":       err.Error(),
		"saved_locally": false,
	})
}

func (s *Server) discard(w http.ResponseWriter, r *http.Request) {
	s.editor.Discard()
	writeJSON(w, http.StatusOK, s.editor.State())
}

type editModeRequest struct {
	Enabled *bool `json:"enabled"`
}

func (s *Server) editMode(w http.ResponseWriter, r *http.Request) {
	var req editModeRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Enabled == nil {
		writeError(w, http.StatusBadRequest, "missing_enabled", "enabled must be a boolean")
		return
	}
	s.editor.SetEditMode(*req.Enabled)
	writeJSON(w, http.StatusOK, s.editor.State())
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

func writeMutationError(w http.ResponseWriter, err error) {
	if errors.Is(err, content.ErrInvalidPath) {
		writeError(w, http.StatusBadRequest, "invalid_path", err.Error())
		return
	}
	writeError(w, http.StatusUnprocessableEntity, "invalid_value", err.Error())
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{"error": code, "message": message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(started)),
		)
	})
}
