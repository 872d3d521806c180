package publish

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// DefaultMaxBytes caps accepted document bodies.
const DefaultMaxBytes = 1 << 20

// Handler receives durable writes: it accepts a POSTed JSON object and
// writes it atomically to Path, unless Environment is production.
type Handler struct {
	Path        string
	Environment string
	MaxBytes    int64
	Logger      *zap.Logger
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := h.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, response{Error: "method_not_allowed"})
		return
	}
	if IsGuarded(h.Environment) {
		logger.Warn("durable write refused", zap.String("environment", h.Environment))
		writeJSON(w, http.StatusForbidden, response{Error: GuardCode, Message: guardMessage(h.Environment)})
		return
	}

	limit := h.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, response{Error: "too_large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, response{Error: "read_failed", Message: err.Error()})
		return
	}

	n, err := writeDocument(h.Path, payload)
	switch {
	case errors.Is(err, ErrInvalidDocument):
		writeJSON(w, http.StatusBadRequest, response{Error: "invalid_document", Message: err.Error()})
		return
	case err != nil:
		logger.Error("durable write failed", zap.String("path", h.Path), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, response{Error: "write_failed"})
		return
	}

	logger.Info("durable write", zap.String("path", h.Path), zap.Int("bytes", n))
	writeJSON(w, http.StatusOK, response{OK: true, Bytes: n})
}

func writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
