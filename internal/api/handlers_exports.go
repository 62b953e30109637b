package api

import (
	"io"
	"net/http"

	"github.com/kumbu-pos/kumbu-pos/internal/backup"
	"github.com/kumbu-pos/kumbu-pos/internal/domain"
	"github.com/kumbu-pos/kumbu-pos/internal/shared"
	"github.com/kumbu-pos/kumbu-pos/internal/taxexport"
)

// ExportSAFT generates the tax-authority document. Concurrent requests
// collapse into one generation via singleflight; the export walks the whole
// history and is the most expensive read in the system.
func (h *Handler) ExportSAFT(w http.ResponseWriter, r *http.Request) {
	doc, err, _ := h.saftGroup.Do("saft", func() (any, error) {
		h.state.Lock()
		merchant := h.state.Merchant
		h.state.Unlock()
		if merchant == nil {
			return nil, shared.ErrNoMerchant
		}
		return h.taxGen.Generate(
			taxexport.CompanyFromMerchant(*merchant),
			h.clients.List(r.Context()),
			h.inventory.List(r.Context()),
			taxexport.DefaultTaxRates(),
			taxexport.InvoicesFromHistory(h.engine.ListInvoices(r.Context())),
		)
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="SAFT_AO.xml"`)
	_, _ = w.Write(doc.([]byte))
}

func (h *Handler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	data, err := backup.Export(r.Context(), h.state, h.now())
	if err != nil {
		h.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="backup_kumbu.json"`)
	_, _ = w.Write(data)
}

// RestoreBackup replaces every collection. Destructive, so the caller must
// send confirm=true explicitly.
func (h *Handler) RestoreBackup(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		h.respondError(w, shared.NewValidationError(shared.ErrInvalidBackup, "restore requires confirm=true"))
		return
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if err := backup.Import(r.Context(), h.state, data); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, nil)
}

func (h *Handler) GetMerchant(w http.ResponseWriter, _ *http.Request) {
	h.state.Lock()
	merchant := h.state.Merchant
	h.state.Unlock()
	if merchant == nil {
		h.respondError(w, shared.ErrNoMerchant)
		return
	}
	h.respondJSON(w, http.StatusOK, merchant)
}

func (h *Handler) PutMerchant(w http.ResponseWriter, r *http.Request) {
	var req putMerchantRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	plan := domain.MerchantPlan(req.Plan)
	if plan == "" {
		plan = domain.PlanGratis
	}

	h.state.Lock()
	h.state.Merchant = &domain.Merchant{
		Name:             req.Name,
		Phone:            req.Phone,
		StoreName:        req.StoreName,
		City:             req.City,
		Plan:             plan,
		MulticaixaActive: req.MulticaixaActive,
	}
	h.state.SaveMerchant(r.Context())
	merchant := h.state.Merchant
	h.state.Unlock()

	h.respondJSON(w, http.StatusOK, merchant)
}
