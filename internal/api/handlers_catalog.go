package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kumbu-pos/kumbu-pos/internal/clients"
	"github.com/kumbu-pos/kumbu-pos/internal/domain"
	"github.com/kumbu-pos/kumbu-pos/internal/messaging"
	"github.com/kumbu-pos/kumbu-pos/internal/shared"
)

func formatAmount(v float64) string { return fmt.Sprintf("%.2f", v) }

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.inventory.List(r.Context()))
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	product, err := h.inventory.AddProduct(r.Context(), domain.Product{
		ID:       req.ID,
		Name:     req.Name,
		Price:    req.Price,
		Stock:    req.Stock,
		Category: domain.Category(req.Category),
		ImageURL: req.ImageURL,
		TaxCode:  req.TaxCode,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, product)
}

func (h *Handler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var req adjustStockRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	h.inventory.AdjustStock(r.Context(), chi.URLParam(r, "id"), req.Delta)
	h.respondJSON(w, http.StatusOK, nil)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	h.inventory.DeleteProduct(r.Context(), chi.URLParam(r, "id"))
	h.respondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.clients.List(r.Context()))
}

func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req createClientRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	client, err := h.clients.AddClient(r.Context(), req.toDomain())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, client)
}

func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	h.clients.DeleteClient(r.Context(), chi.URLParam(r, "id"))
	h.respondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) AdjustBalance(w http.ResponseWriter, r *http.Request) {
	var req adjustBalanceRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	h.clients.AdjustPendingBalance(r.Context(), chi.URLParam(r, "id"), req.Delta)
	h.respondJSON(w, http.StatusOK, nil)
}

func (h *Handler) ExportClientsCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="clientes.csv"`)
	if err := clients.WriteCSV(w, h.clients.List(r.Context())); err != nil {
		h.logger.Error("export clients csv", "error", err)
	}
}

// WhatsAppLink builds the messaging handoff link for a client. kind selects
// the invoice-ready or pending-reminder template.
func (h *Handler) WhatsAppLink(w http.ResponseWriter, r *http.Request) {
	client, ok := h.clients.Get(r.Context(), chi.URLParam(r, "id"))
	if !ok {
		h.respondError(w, shared.ErrNotFound)
		return
	}

	h.state.Lock()
	merchant := h.state.Merchant
	h.state.Unlock()
	storeName := "a sua loja"
	if merchant != nil {
		storeName = merchant.StoreName
	}

	var text string
	switch r.URL.Query().Get("kind") {
	case "invoice":
		number := r.URL.Query().Get("number")
		inv, ok := h.engine.GetInvoice(r.Context(), number)
		if !ok {
			h.respondError(w, shared.ErrNotFound)
			return
		}
		text = messaging.InvoiceMessage(client.Name, inv.InvoiceNumber, formatAmount(inv.Total), storeName)
	default:
		text = messaging.PendingReminderMessage(client.Name, formatAmount(client.PendingAmount), storeName)
	}

	h.respondJSON(w, http.StatusOK, map[string]string{
		"link": messaging.WhatsAppLink(client.Phone, text),
	})
}
