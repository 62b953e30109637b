package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/kumbu-pos/kumbu-pos/internal/auth"
)

// MountRoutes attaches every API route. Mutating routes sit behind the
// merchant PIN guard when one is configured.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/products", h.ListProducts)
	r.Get("/clients", h.ListClients)
	r.Get("/clients/export.csv", h.ExportClientsCSV)
	r.Get("/clients/{id}/whatsapp", h.WhatsAppLink)
	r.Get("/cart", h.GetCart)
	r.Get("/sales", h.ListSales)
	r.Get("/invoices", h.ListInvoices)
	r.Get("/invoices/{number}/document", h.InvoiceDocument)
	r.Get("/invoices/{number}/document.pdf", h.InvoiceDocumentPDF)
	r.Get("/exports/saft.xml", h.ExportSAFT)
	r.Get("/backup", h.ExportBackup)
	r.Get("/merchant", h.GetMerchant)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequirePIN(h.pinHash))
		r.Post("/products", h.CreateProduct)
		r.Post("/products/{id}/stock", h.AdjustStock)
		r.Delete("/products/{id}", h.DeleteProduct)
		r.Post("/clients", h.CreateClient)
		r.Post("/clients/{id}/balance", h.AdjustBalance)
		r.Delete("/clients/{id}", h.DeleteClient)
		r.Post("/cart/items", h.AddCartItem)
		r.Delete("/cart/items/{id}", h.RemoveCartItem)
		r.Post("/cart/clear", h.ClearCart)
		r.Post("/cart/abandon", h.AbandonCart)
		r.Post("/checkout", h.Checkout)
		r.Post("/invoices/{number}/regenerate", h.RegenerateInvoice)
		r.Post("/backup/restore", h.RestoreBackup)
		r.Put("/merchant", h.PutMerchant)
	})
}
