package httpapi

import (
	"fmt"
	"net/http"

	"github.com/MFahim14/test-assignment/internal/inventory"
)

type itemRequest struct {
	Name     *string `json:"name"`
	Quantity *int    `json:"quantity"`
}

func (req itemRequest) requireName() (string, error) {
	if req.Name == nil {
		return "", fmt.Errorf("%w: name is required", inventory.ErrInvalidInput)
	}
	return *req.Name, nil
}

func (req itemRequest) requireItem() (string, int, error) {
	name, err := req.requireName()
	if err != nil {
		return "", 0, err
	}
	if req.Quantity == nil {
		return "", 0, fmt.Errorf("%w: quantity is required", inventory.ErrInvalidInput)
	}
	return name, *req.Quantity, nil
}

func (h *Handler) ListInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventory.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	name, quantity, err := req.requireItem()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.inventory.Add(r.Context(), name, quantity); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, messageResponse{Message: "Item added"})
}

// RemoveItem succeeds whether or not the named item existed.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	name, err := req.requireName()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.inventory.Remove(r.Context(), name); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Item removed"})
}

func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	name, quantity, err := req.requireItem()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.inventory.UpdateQuantity(r.Context(), name, quantity); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Quantity updated"})
}
