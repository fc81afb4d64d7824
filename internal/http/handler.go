package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/MFahim14/test-assignment/internal/inventory"
	"github.com/MFahim14/test-assignment/internal/transform"
)

const maxBodyBytes = 1 << 20

var errEmptyBody = errors.New("no data provided")

// InventoryService is the inventory surface used by the handlers; *inventory.Service implements it.
type InventoryService interface {
	List(ctx context.Context) ([]inventory.Item, error)
	Add(ctx context.Context, name string, quantity int) error
	Remove(ctx context.Context, name string) error
	UpdateQuantity(ctx context.Context, name string, quantity int) error
}

// TransformRecorder is implemented by *transform.Recorder.
type TransformRecorder interface {
	Record(ctx context.Context, kind transform.Kind, v transform.Vector3)
	Apply(ctx context.Context, t transform.Transform) error
}

type Handler struct {
	inventory  InventoryService
	transforms TransformRecorder
	logger     *zap.Logger
}

func NewHandler(inv InventoryService, transforms TransformRecorder, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		inventory:  inv,
		transforms: transforms,
		logger:     logger.With(zap.String("component", "http_server")),
	}
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Inventory server is running!"))
}

func (h *Handler) Favicon(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) requestLogger(r *http.Request) *zap.Logger {
	return h.logger.With(zap.String("request_id", middleware.GetReqID(r.Context())))
}

// decodeJSON decodes the request body into dst. Empty bodies yield errEmptyBody; malformed
// JSON and data after the first value are reported as invalid input, never as a server fault.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %w", inventory.ErrInvalidInput, errEmptyBody)
		}
		if errors.Is(err, transform.ErrInvalidInput) {
			return err
		}
		return fmt.Errorf("%w: malformed JSON body: %v", inventory.ErrInvalidInput, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: body must contain a single JSON value", inventory.ErrInvalidInput)
	}
	return nil
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, inventory.ErrConflict):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Item already exists"})
	case errors.Is(err, inventory.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Item not found"})
	case errors.Is(err, errEmptyBody):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No data provided"})
	case errors.Is(err, inventory.ErrInvalidInput), errors.Is(err, transform.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		h.requestLogger(r).Error("request_failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
