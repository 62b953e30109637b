package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kumbu-pos/kumbu-pos/internal/domain"
	"github.com/kumbu-pos/kumbu-pos/internal/sales"
	"github.com/kumbu-pos/kumbu-pos/internal/shared"
)

// Checkout completes the staged sale. Totals are computed server-side from
// the cart's captured prices; the engine never clears the cart, so a
// successful checkout clears it here once the invoice is committed.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	var direct *domain.Client
	clientID := req.ClientID
	if req.Client != nil {
		c := req.Client.toDomain()
		direct = &c
		if clientID == "" {
			clientID = c.ID
		}
	}

	_, tax, total := h.cart.Totals(r.Context())
	inv, err := h.engine.CompleteSale(r.Context(), clientID, total, tax, direct)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.cart.Clear(r.Context())
	h.respondJSON(w, http.StatusCreated, inv)
}

func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.engine.ListSales(r.Context()))
}

func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.engine.ListInvoices(r.Context()))
}

// InvoiceDocument serves the printable HTML document. A missing document is
// a 404; regeneration is a separate, explicit call.
func (h *Handler) InvoiceDocument(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.engine.GetInvoice(r.Context(), chi.URLParam(r, "number"))
	if !ok || inv.DocumentDataURL == "" {
		h.respondError(w, shared.ErrNotFound)
		return
	}
	doc, err := sales.DecodeDocument(inv.DocumentDataURL)
	if err != nil {
		h.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(doc)
}

// InvoiceDocumentPDF converts the stored document to PDF via Gotenberg.
// Unavailable conversion degrades to 503, never touches the invoice.
func (h *Handler) InvoiceDocumentPDF(w http.ResponseWriter, r *http.Request) {
	if h.pdf == nil {
		http.Error(w, "pdf conversion not configured", http.StatusServiceUnavailable)
		return
	}
	inv, ok := h.engine.GetInvoice(r.Context(), chi.URLParam(r, "number"))
	if !ok || inv.DocumentDataURL == "" {
		h.respondError(w, shared.ErrNotFound)
		return
	}
	doc, err := sales.DecodeDocument(inv.DocumentDataURL)
	if err != nil {
		h.respondError(w, err)
		return
	}
	pdf, err := h.pdf.RenderInvoice(r.Context(), inv.InvoiceNumber, string(doc))
	if err != nil {
		h.logger.Error("pdf conversion", "invoice", inv.InvoiceNumber, "error", err)
		http.Error(w, "pdf conversion failed", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+inv.InvoiceNumber+`.pdf"`)
	_, _ = w.Write(pdf)
}

func (h *Handler) RegenerateInvoice(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.RegenerateDocument(r.Context(), chi.URLParam(r, "number")); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, nil)
}
