package httpapi

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/MFahim14/test-assignment/internal/transform"
)

type translationRequest struct {
	Translation *transform.Vector3 `json:"translation"`
}

type translationResponse struct {
	Message  string            `json:"message"`
	Position transform.Vector3 `json:"position"`
}

type rotationRequest struct {
	Rotation *transform.Vector3 `json:"rotation"`
}

type rotationResponse struct {
	Message  string            `json:"message"`
	Rotation transform.Vector3 `json:"rotation"`
}

type scaleRequest struct {
	Scale *transform.Vector3 `json:"scale"`
}

type scaleResponse struct {
	Message string            `json:"message"`
	Scale   transform.Vector3 `json:"scale"`
}

type transformResponse struct {
	Message string              `json:"message"`
	Data    transform.Transform `json:"data"`
}

func missingField(name string) error {
	return fmt.Errorf("%w: %s is required", transform.ErrInvalidInput, name)
}

func (h *Handler) Translation(w http.ResponseWriter, r *http.Request) {
	var req translationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.Translation == nil {
		h.writeError(w, r, missingField("translation"))
		return
	}

	h.transforms.Record(r.Context(), transform.KindTranslation, *req.Translation)
	writeJSON(w, http.StatusOK, translationResponse{Message: "Translation applied", Position: *req.Translation})
}

func (h *Handler) Rotation(w http.ResponseWriter, r *http.Request) {
	var req rotationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.Rotation == nil {
		h.writeError(w, r, missingField("rotation"))
		return
	}

	h.transforms.Record(r.Context(), transform.KindRotation, *req.Rotation)
	writeJSON(w, http.StatusOK, rotationResponse{Message: "Rotation applied", Rotation: *req.Rotation})
}

func (h *Handler) Scale(w http.ResponseWriter, r *http.Request) {
	var req scaleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.Scale == nil {
		h.writeError(w, r, missingField("scale"))
		return
	}

	h.transforms.Record(r.Context(), transform.KindScale, *req.Scale)
	writeJSON(w, http.StatusOK, scaleResponse{Message: "Scale applied", Scale: *req.Scale})
}

// Transform applies a full transform. The response is held back until the recorder's
// apply delay has elapsed; if the client goes away first nothing is written.
func (h *Handler) Transform(w http.ResponseWriter, r *http.Request) {
	var req transform.Transform
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.Empty() {
		h.writeError(w, r, errEmptyBody)
		return
	}

	if err := h.transforms.Apply(r.Context(), req); err != nil {
		if ctxErr := r.Context().Err(); ctxErr != nil {
			h.requestLogger(r).Info("client_disconnected", zap.Error(ctxErr))
			return
		}
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, transformResponse{Message: "Transform data received", Data: req})
}
