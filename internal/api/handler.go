// Package api exposes the core to its callers over a localhost JSON API.
// Screens, forms and file downloads live on the other side of this surface.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"github.com/kumbu-pos/kumbu-pos/internal/cart"
	"github.com/kumbu-pos/kumbu-pos/internal/clients"
	"github.com/kumbu-pos/kumbu-pos/internal/inventory"
	"github.com/kumbu-pos/kumbu-pos/internal/sales"
	"github.com/kumbu-pos/kumbu-pos/internal/shared"
	"github.com/kumbu-pos/kumbu-pos/internal/state"
	"github.com/kumbu-pos/kumbu-pos/internal/taxexport"
)

// PDFRenderer converts a rendered invoice document into a PDF, typically via
// a local Gotenberg instance. Optional; nil disables PDF downloads.
type PDFRenderer interface {
	RenderInvoice(ctx context.Context, invoiceNumber, html string) ([]byte, error)
}

// Handler serves the JSON API.
type Handler struct {
	logger    *slog.Logger
	validate  *validator.Validate
	state     *state.State
	inventory *inventory.Ledger
	clients   *clients.Ledger
	cart      *cart.Cart
	engine    *sales.Engine
	taxGen    taxexport.Generator
	pdf       PDFRenderer
	pinHash   string

	saftGroup singleflight.Group
	now       func() time.Time
}

// Params groups the Handler dependencies.
type Params struct {
	Logger    *slog.Logger
	State     *state.State
	Inventory *inventory.Ledger
	Clients   *clients.Ledger
	Cart      *cart.Cart
	Engine    *sales.Engine
	PDF       PDFRenderer
	PINHash   string
}

// NewHandler builds Handler.
func NewHandler(p Params) *Handler {
	return &Handler{
		logger:    p.Logger,
		validate:  validator.New(),
		state:     p.State,
		inventory: p.Inventory,
		clients:   p.Clients,
		cart:      p.Cart,
		engine:    p.Engine,
		pdf:       p.PDF,
		pinHash:   p.PINHash,
		now:       time.Now,
	}
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("encode response", slog.Any("error", err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case shared.IsValidation(err):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, shared.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, shared.ErrNoMerchant), errors.Is(err, shared.ErrClientUnresolved), errors.Is(err, shared.ErrInvalidBackup):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", slog.Any("error", err))
	}
	h.respondJSON(w, status, map[string]string{"error": err.Error()})
}

func (h *Handler) decode(r *http.Request, dest any) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return shared.NewValidationError(shared.ErrMissingField, "malformed JSON body")
	}
	if err := h.validate.Struct(dest); err != nil {
		return shared.NewValidationError(shared.ErrMissingField, "%v", err)
	}
	return nil
}
